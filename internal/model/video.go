package model

import "time"

// Video YouTube 视频模型，同一组织内 yt_video_id 唯一
type Video struct {
	ID             int64      `gorm:"primaryKey;autoIncrement;comment:视频标识" json:"id"`
	OrgID          int64      `gorm:"not null;uniqueIndex:uq_org_video,priority:1;index:idx_videos_org_id;comment:所属组织ID" json:"org_id"`
	YtVideoID      string     `gorm:"size:64;not null;uniqueIndex:uq_org_video,priority:2;comment:YouTube视频ID" json:"yt_video_id"`
	Title          string     `gorm:"size:500;comment:视频标题" json:"title"`
	ChannelID      string     `gorm:"size:64;comment:发布频道ID" json:"channel_id"`
	FetchedAt      *time.Time `gorm:"comment:最近一次抓取评论时间" json:"fetched_at"`
	LastAnalyzedAt *time.Time `gorm:"comment:最近一次元数据刷新时间" json:"last_analyzed_at"`
	CreatedAt      time.Time  `gorm:"autoCreateTime;comment:创建时间" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`

	// 关联关系
	Org      Org       `gorm:"foreignKey:OrgID" json:"org,omitempty"`
	Comments []Comment `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
}

func (Video) TableName() string {
	return "videos"
}
