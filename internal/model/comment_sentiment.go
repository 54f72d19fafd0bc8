package model

import "time"

// 情感标签取值
const (
	LabelPositive = "pos"
	LabelNegative = "neg"
	LabelNeutral  = "neu"
)

// CommentSentiment 评论情感分析结果，每条评论在一个组织内至多一条；
// 只插入不更新，重复分析时跳过已有行
type CommentSentiment struct {
	ID         int64     `gorm:"primaryKey;autoIncrement;comment:结果ID" json:"id"`
	OrgID      int64     `gorm:"not null;uniqueIndex:uq_org_comment_sentiment,priority:1;comment:所属组织ID" json:"org_id"`
	CommentID  int64     `gorm:"not null;uniqueIndex:uq_org_comment_sentiment,priority:2;comment:评论ID" json:"comment_id"`
	Label      string    `gorm:"size:8;not null;comment:情感标签 pos|neg|neu" json:"label"`
	Score      float64   `gorm:"not null;comment:置信度 0.0-1.0" json:"score"`
	ModelName  string    `gorm:"size:255;not null;comment:产生该结果的模型名" json:"model_name"`
	AnalyzedAt time.Time `gorm:"not null;index:idx_sentiments_analyzed_at;comment:分析时间" json:"analyzed_at"`

	// 关联关系
	Comment Comment `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE" json:"comment,omitempty"`
}

func (CommentSentiment) TableName() string {
	return "comment_sentiments"
}
