package task

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// 任务状态保留时长，过期后查询视同任务不存在
const statusTTL = 24 * time.Hour

// Status 任务状态查询结果
type Status struct {
	TaskID string      `json:"task_id"`
	State  string      `json:"state"`
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// StatusStore 基于 Redis 的任务状态存储。
// API 进程在投递时写入 PENDING，worker 执行前后更新状态，
// 客户端通过状态轮询获取结果而不阻塞触发调用
type StatusStore struct {
	rdb *redis.Client
}

func NewStatusStore(rdb *redis.Client) *StatusStore {
	return &StatusStore{rdb: rdb}
}

func statusKey(taskID string) string {
	return "task:" + taskID
}

// SetState 更新任务状态（不带结果）
func (s *StatusStore) SetState(ctx context.Context, taskID, state string) error {
	if err := s.rdb.HSet(ctx, statusKey(taskID), "state", state).Err(); err != nil {
		return fmt.Errorf("set task state: %w", err)
	}
	return s.rdb.Expire(ctx, statusKey(taskID), statusTTL).Err()
}

// SetSuccess 标记任务成功并记录结果
func (s *StatusStore) SetSuccess(ctx context.Context, taskID string, result interface{}) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal task result: %w", err)
	}
	if err := s.rdb.HSet(ctx, statusKey(taskID),
		"state", StateSuccess,
		"result", string(payload),
	).Err(); err != nil {
		return fmt.Errorf("set task success: %w", err)
	}
	return s.rdb.Expire(ctx, statusKey(taskID), statusTTL).Err()
}

// SetFailure 标记任务失败并记录错误信息
func (s *StatusStore) SetFailure(ctx context.Context, taskID string, taskErr error) error {
	if err := s.rdb.HSet(ctx, statusKey(taskID),
		"state", StateFailure,
		"error", taskErr.Error(),
	).Err(); err != nil {
		return fmt.Errorf("set task failure: %w", err)
	}
	return s.rdb.Expire(ctx, statusKey(taskID), statusTTL).Err()
}

// Get 查询任务状态；任务不存在或已过期返回 (nil, nil)
func (s *StatusStore) Get(ctx context.Context, taskID string) (*Status, error) {
	fields, err := s.rdb.HGetAll(ctx, statusKey(taskID)).Result()
	if err != nil {
		return nil, fmt.Errorf("get task status: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	status := &Status{
		TaskID: taskID,
		State:  fields["state"],
		Error:  fields["error"],
	}
	if raw, ok := fields["result"]; ok && raw != "" {
		var result interface{}
		if err := json.Unmarshal([]byte(raw), &result); err == nil {
			status.Result = result
		}
	}
	return status, nil
}
