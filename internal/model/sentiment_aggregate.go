package model

import "time"

// SentimentAggregate 按时间窗口物化的情感统计，窗口键唯一；
// 每次聚合重算后整行覆盖（最后写入者生效）
type SentimentAggregate struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;comment:聚合行ID" json:"id"`
	OrgID       int64     `gorm:"not null;uniqueIndex:uq_org_video_window,priority:1;comment:所属组织ID" json:"org_id"`
	VideoID     int64     `gorm:"not null;uniqueIndex:uq_org_video_window,priority:2;comment:视频ID" json:"video_id"`
	WindowStart time.Time `gorm:"not null;uniqueIndex:uq_org_video_window,priority:3;comment:窗口起点（含）" json:"window_start"`
	WindowEnd   time.Time `gorm:"not null;uniqueIndex:uq_org_video_window,priority:4;comment:窗口终点" json:"window_end"`
	PosPct      float64   `gorm:"not null;comment:正向占比" json:"pos_pct"`
	NegPct      float64   `gorm:"not null;comment:负向占比" json:"neg_pct"`
	NeuPct      float64   `gorm:"not null;comment:中性占比" json:"neu_pct"`
	Count       int64     `gorm:"not null;comment:窗口内样本数" json:"count"`
	CreatedAt   time.Time `gorm:"autoCreateTime;comment:创建时间" json:"created_at"`
}

func (SentimentAggregate) TableName() string {
	return "sentiment_aggregates"
}
