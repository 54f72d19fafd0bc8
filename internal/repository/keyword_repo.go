package repository

import (
	"time"

	"ytsa-go/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type KeywordRepository struct {
	db *gorm.DB
}

func NewKeywordRepository(db *gorm.DB) *KeywordRepository {
	return &KeywordRepository{db: db}
}

// UpsertTerms 按 (org_id, video_id, term) 批量覆盖写入词频快照。
// count 整体替换而非累加；跌出 top-k 的历史词条不做清理
func (r *KeywordRepository) UpsertTerms(rows []model.Keyword) error {
	if len(rows) == 0 {
		return nil
	}
	now := time.Now()
	for i := range rows {
		rows[i].LastUpdatedAt = now
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "org_id"}, {Name: "video_id"}, {Name: "term"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"count", "last_updated_at"}),
	}).Create(&rows).Error
}

// TopByVideo 按词频降序返回视频的前 limit 个词条
func (r *KeywordRepository) TopByVideo(orgID, videoID int64, limit int) ([]model.Keyword, error) {
	var rows []model.Keyword
	err := r.db.Where("org_id = ? AND video_id = ?", orgID, videoID).
		Order("count DESC, id ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
