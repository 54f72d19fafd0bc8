package model

import "time"

// Comment 抓取的 YouTube 评论模型，同一组织内 yt_comment_id 唯一；
// 重复抓取时按该唯一键覆盖更新，不会产生重复行
type Comment struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;comment:评论ID" json:"id"`
	OrgID       int64     `gorm:"not null;uniqueIndex:uq_org_comment,priority:1;index:idx_comments_org_id;comment:所属组织ID" json:"org_id"`
	VideoID     int64     `gorm:"not null;index:idx_comments_video_id;comment:所属视频ID（内部主键）" json:"video_id"`
	YtCommentID string    `gorm:"size:128;not null;uniqueIndex:uq_org_comment,priority:2;comment:YouTube评论ID" json:"yt_comment_id"`
	Author      string    `gorm:"size:255;comment:评论作者" json:"author"`
	Text        string    `gorm:"type:text;not null;comment:评论内容" json:"text"`
	PublishedAt time.Time `gorm:"not null;index:idx_comments_published_at;comment:评论发布时间" json:"published_at"`
	LikeCount   int64     `gorm:"default:0;comment:点赞数" json:"like_count"`
	ParentID    *string   `gorm:"size:128;comment:父评论的YouTube ID（回复线程，不做外键约束）" json:"parent_id"`

	// 关联关系
	Video     Video             `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE" json:"video,omitempty"`
	Sentiment *CommentSentiment `gorm:"foreignKey:CommentID" json:"sentiment,omitempty"`
}

func (Comment) TableName() string {
	return "comments"
}
