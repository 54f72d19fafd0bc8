package repository

import (
	"time"

	"ytsa-go/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SentimentRepository struct {
	db *gorm.DB
}

func NewSentimentRepository(db *gorm.DB) *SentimentRepository {
	return &SentimentRepository{db: db}
}

// InsertSkipExisting 批量插入情感结果，(org_id, comment_id) 冲突的行
// 直接跳过（并发重复分析视为已完成，不算错误），其余行正常插入。
// 返回实际插入的行数
func (r *SentimentRepository) InsertSkipExisting(results []model.CommentSentiment) (int64, error) {
	if len(results) == 0 {
		return 0, nil
	}
	tx := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "org_id"}, {Name: "comment_id"}},
		DoNothing: true,
	}).Create(&results)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return tx.RowsAffected, nil
}

// LabeledRow 趋势聚合的输入行：标签 + 分析时间
type LabeledRow struct {
	Label      string
	AnalyzedAt time.Time
}

// ListLabeledByVideo 通过评论表关联拉取视频下全部情感结果（按分析时间升序）
func (r *SentimentRepository) ListLabeledByVideo(orgID, videoID int64) ([]LabeledRow, error) {
	var rows []LabeledRow
	err := r.db.Model(&model.CommentSentiment{}).
		Select("comment_sentiments.label AS label, comment_sentiments.analyzed_at AS analyzed_at").
		Joins("JOIN comments ON comments.id = comment_sentiments.comment_id").
		Where("comment_sentiments.org_id = ?", orgID).
		Where("comments.video_id = ?", videoID).
		Order("comment_sentiments.analyzed_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// LabelCount 标签计数行
type LabelCount struct {
	Label string
	Count int64
}

// CountByLabel 按标签分组统计视频下的情感结果（实时分布用，纯读）
func (r *SentimentRepository) CountByLabel(orgID, videoID int64) ([]LabelCount, error) {
	var rows []LabelCount
	err := r.db.Model(&model.CommentSentiment{}).
		Select("comment_sentiments.label AS label, COUNT(*) AS count").
		Joins("JOIN comments ON comments.id = comment_sentiments.comment_id").
		Where("comment_sentiments.org_id = ?", orgID).
		Where("comments.video_id = ?", videoID).
		Group("comment_sentiments.label").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CountByVideo 统计视频下已有的情感结果数
func (r *SentimentRepository) CountByVideo(orgID, videoID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.CommentSentiment{}).
		Joins("JOIN comments ON comments.id = comment_sentiments.comment_id").
		Where("comment_sentiments.org_id = ?", orgID).
		Where("comments.video_id = ?", videoID).
		Count(&count).Error
	return count, err
}
