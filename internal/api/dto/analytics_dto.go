package dto

// AnalyzeRequest 情感分析任务请求
type AnalyzeRequest struct {
	YtVideoID string `json:"yt_video_id" binding:"required,min=1,max=64"`
}

// TrendRequest 趋势聚合请求参数（query）
type TrendRequest struct {
	YtVideoID string `form:"yt_video_id" binding:"required,min=1,max=64"`
	Window    string `form:"window" binding:"omitempty,oneof=hour day week"`
}

// TrendPoint 单个时间窗口的情感占比
type TrendPoint struct {
	WindowStart string  `json:"window_start"`
	WindowEnd   string  `json:"window_end"`
	PosPct      float64 `json:"pos_pct"`
	NegPct      float64 `json:"neg_pct"`
	NeuPct      float64 `json:"neu_pct"`
	Count       int64   `json:"count"`
}

// TrendData 趋势聚合响应
type TrendData struct {
	YtVideoID string       `json:"yt_video_id"`
	Window    string       `json:"window"`
	Points    []TrendPoint `json:"points"`
}

// DistributionData 情感分布响应，三个占比之和为 1（无数据时全 0）
type DistributionData struct {
	YtVideoID string  `json:"yt_video_id"`
	PosPct    float64 `json:"pos_pct"`
	NegPct    float64 `json:"neg_pct"`
	NeuPct    float64 `json:"neu_pct"`
	Total     int64   `json:"total"`
}

// KeywordItem 关键词词条
type KeywordItem struct {
	Term  string `json:"term"`
	Count int64  `json:"count"`
}

// KeywordsData 关键词响应
type KeywordsData struct {
	YtVideoID string        `json:"yt_video_id"`
	TopK      int           `json:"top_k"`
	Keywords  []KeywordItem `json:"keywords"`
}
