package dto

// CommentListRequest 评论列表请求参数（query）。
// query 非空时走全文检索
type CommentListRequest struct {
	YtVideoID string `form:"yt_video_id" binding:"required,min=1,max=64"`
	Query     string `form:"query" binding:"omitempty,max=255"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// SentimentInfo 评论附带的情感结果
type SentimentInfo struct {
	Label     string  `json:"label"`
	Score     float64 `json:"score"`
	ModelName string  `json:"model_name"`
}

// CommentInfo 评论信息
type CommentInfo struct {
	ID          int64          `json:"id"`
	YtCommentID string         `json:"yt_comment_id"`
	Author      string         `json:"author"`
	Text        string         `json:"text"`
	PublishedAt string         `json:"published_at"`
	LikeCount   int64          `json:"like_count"`
	ParentID    *string        `json:"parent_id,omitempty"`
	Sentiment   *SentimentInfo `json:"sentiment,omitempty"`
}

// CommentListData 评论列表响应
type CommentListData struct {
	Comments []CommentInfo `json:"comments"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}
