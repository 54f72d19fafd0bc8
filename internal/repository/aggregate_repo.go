package repository

import (
	"ytsa-go/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AggregateRepository struct {
	db *gorm.DB
}

func NewAggregateRepository(db *gorm.DB) *AggregateRepository {
	return &AggregateRepository{db: db}
}

// UpsertWindows 按 (org_id, video_id, window_start, window_end) 批量覆盖写入聚合行。
// 同窗口重算时整行替换（最后写入者生效），重复执行安全
func (r *AggregateRepository) UpsertWindows(rows []model.SentimentAggregate) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "org_id"}, {Name: "video_id"},
			{Name: "window_start"}, {Name: "window_end"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"pos_pct", "neg_pct", "neu_pct", "count",
		}),
	}).Create(&rows).Error
}

// ListByVideo 按窗口起点升序返回视频的聚合行
func (r *AggregateRepository) ListByVideo(orgID, videoID int64) ([]model.SentimentAggregate, error) {
	var rows []model.SentimentAggregate
	err := r.db.Where("org_id = ? AND video_id = ?", orgID, videoID).
		Order("window_start ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
