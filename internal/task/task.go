package task

// 后台任务名（Kafka 消息按名字分发）
const (
	NameFetchComments   = "task.fetch_comments"
	NameAnalyzeComments = "task.analyze_comments"
	NameComputeTrend    = "task.compute_trend"
	NameComputeKeywords = "task.compute_keywords"
	NameWarmupModel     = "task.warmup_model"
)

// 任务状态
const (
	StatePending = "PENDING"
	StateRunning = "RUNNING"
	StateSuccess = "SUCCESS"
	StateFailure = "FAILURE"
)

// Envelope 任务消息信封，所有任务共用一个 topic，按 Name 分发。
// 可选参数按任务类型取用
type Envelope struct {
	TaskID    string `json:"task_id"`
	Name      string `json:"name"`
	OrgID     int64  `json:"org_id"`
	YtVideoID string `json:"yt_video_id,omitempty"`
	Window    string `json:"window,omitempty"`
	TopK      int    `json:"top_k,omitempty"`
}
