package dto

// IngestRequest 评论抓取请求
type IngestRequest struct {
	YtVideoID string `json:"yt_video_id" binding:"required,min=1,max=64"`
}

// TaskAccepted 任务受理响应：立即返回任务 ID，结果走状态轮询
type TaskAccepted struct {
	TaskID string `json:"task_id"`
	State  string `json:"state"`
}

// TaskStatusData 任务状态查询响应
type TaskStatusData struct {
	TaskID string      `json:"task_id"`
	State  string      `json:"state"`
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}
