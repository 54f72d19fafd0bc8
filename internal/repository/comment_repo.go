package repository

import (
	"ytsa-go/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// UpsertBatch 按 (org_id, yt_comment_id) 批量插入或更新评论。
// 整批走一条集合语句，冲突时覆盖 author/text/published_at/like_count/parent_id；
// 语句级原子：任一行失败则整批回滚，不会部分生效。
// 缺省字段由调用方在入参前补齐，这里不做默认值处理
func (r *CommentRepository) UpsertBatch(comments []model.Comment) error {
	if len(comments) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "org_id"}, {Name: "yt_comment_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"author", "text", "published_at", "like_count", "parent_id",
		}),
	}).Create(&comments).Error
}

// ListUnanalyzed 查询指定组织+视频下尚无情感结果的评论（按评论 ID 反连接）
func (r *CommentRepository) ListUnanalyzed(orgID, videoID int64) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.
		Where("org_id = ? AND video_id = ?", orgID, videoID).
		Where("id NOT IN (?)",
			r.db.Model(&model.CommentSentiment{}).
				Select("comment_id").
				Where("org_id = ?", orgID),
		).
		Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// ListByVideo 分页查询视频评论
func (r *CommentRepository) ListByVideo(orgID, videoID int64, offset, limit int) ([]model.Comment, int64, error) {
	query := r.db.Model(&model.Comment{}).
		Where("org_id = ? AND video_id = ?", orgID, videoID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []model.Comment
	err := query.Preload("Sentiment").Order("published_at DESC").
		Offset(offset).Limit(limit).Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

// ListAllByVideo 拉取视频下全部评论（ES 全量同步用）
func (r *CommentRepository) ListAllByVideo(orgID, videoID int64) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.Where("org_id = ? AND video_id = ?", orgID, videoID).
		Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// TextsByVideo 拉取视频下全部评论文本（关键词提取用）
func (r *CommentRepository) TextsByVideo(orgID, videoID int64) ([]string, error) {
	var texts []string
	err := r.db.Model(&model.Comment{}).
		Where("org_id = ? AND video_id = ?", orgID, videoID).
		Order("id ASC").
		Pluck("text", &texts).Error
	if err != nil {
		return nil, err
	}
	return texts, nil
}

// SearchByText 数据库内文本模糊匹配（ES 不可用时的兜底检索）
func (r *CommentRepository) SearchByText(orgID, videoID int64, query string, offset, limit int) ([]model.Comment, int64, error) {
	q := r.db.Model(&model.Comment{}).
		Where("org_id = ? AND video_id = ?", orgID, videoID).
		Where("text LIKE ?", "%"+query+"%")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []model.Comment
	err := q.Preload("Sentiment").Order("published_at DESC").
		Offset(offset).Limit(limit).Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// GetByIDs 按主键批量查询（ES 命中结果回表用）
func (r *CommentRepository) GetByIDs(orgID int64, ids []int64) ([]model.Comment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var comments []model.Comment
	err := r.db.Where("org_id = ? AND id IN ?", orgID, ids).Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// CountByVideo 统计视频评论数
func (r *CommentRepository) CountByVideo(orgID, videoID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Comment{}).
		Where("org_id = ? AND video_id = ?", orgID, videoID).
		Count(&count).Error
	return count, err
}
