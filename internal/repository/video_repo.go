package repository

import (
	"time"

	"ytsa-go/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// Upsert 按 (org_id, yt_video_id) 插入或更新视频元数据。
// 冲突时覆盖 title/channel_id 并刷新 last_analyzed_at。
// 写入提交后重新读取整行返回：调用方需要内部主键 ID
// 才能继续写入依赖该视频的评论
func (r *VideoRepository) Upsert(orgID int64, ytVideoID, title, channelID string) (*model.Video, error) {
	now := time.Now()
	video := &model.Video{
		OrgID:          orgID,
		YtVideoID:      ytVideoID,
		Title:          title,
		ChannelID:      channelID,
		LastAnalyzedAt: &now,
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "org_id"}, {Name: "yt_video_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"title":            title,
			"channel_id":       channelID,
			"last_analyzed_at": now,
			"updated_at":       now,
		}),
	}).Create(video).Error
	if err != nil {
		return nil, err
	}

	return r.GetByExternalID(orgID, ytVideoID)
}

// GetByExternalID 按组织 + YouTube 视频 ID 查询
func (r *VideoRepository) GetByExternalID(orgID int64, ytVideoID string) (*model.Video, error) {
	var video model.Video
	err := r.db.Where("org_id = ? AND yt_video_id = ?", orgID, ytVideoID).First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// ResolveInternalID 将外部 YouTube 视频 ID 解析为内部主键。
// 跨租户访问与不存在统一返回 gorm.ErrRecordNotFound，不泄露租户信息
func (r *VideoRepository) ResolveInternalID(orgID int64, ytVideoID string) (int64, error) {
	var id int64
	err := r.db.Model(&model.Video{}).
		Where("org_id = ? AND yt_video_id = ?", orgID, ytVideoID).
		Limit(1).Pluck("id", &id).Error
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return id, nil
}

// GetByID 按内部主键查询（带租户校验）
func (r *VideoRepository) GetByID(orgID, id int64) (*model.Video, error) {
	var video model.Video
	err := r.db.Where("id = ? AND org_id = ?", id, orgID).First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// TouchFetchedAt 刷新最近抓取时间
func (r *VideoRepository) TouchFetchedAt(orgID, id int64) error {
	return r.db.Model(&model.Video{}).
		Where("id = ? AND org_id = ?", id, orgID).
		Update("fetched_at", time.Now()).Error
}
