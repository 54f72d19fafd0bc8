package model

import "time"

// Keyword 视频评论的关键词词频快照，(org_id, video_id, term) 唯一；
// 每次提取覆盖 count（快照语义，不做累加）。跌出 top-k 的词条
// 保留旧值不清理，这是沿用的既有行为
type Keyword struct {
	ID            int64     `gorm:"primaryKey;autoIncrement;comment:词条ID" json:"id"`
	OrgID         int64     `gorm:"not null;uniqueIndex:uq_org_video_term,priority:1;comment:所属组织ID" json:"org_id"`
	VideoID       int64     `gorm:"not null;uniqueIndex:uq_org_video_term,priority:2;comment:视频ID" json:"video_id"`
	Term          string    `gorm:"size:255;not null;uniqueIndex:uq_org_video_term,priority:3;comment:词条" json:"term"`
	Count         int64     `gorm:"not null;comment:词频" json:"count"`
	LastUpdatedAt time.Time `gorm:"not null;comment:最近刷新时间" json:"last_updated_at"`
}

func (Keyword) TableName() string {
	return "keywords"
}
