package task

import (
	"context"
	"fmt"
	"time"

	"ytsa-go/pkg/logger"

	"go.uber.org/zap"
)

const (
	// 最大执行次数（首次 + 重试）
	defaultMaxAttempts = 5
	// 首次重试等待，之后逐次翻倍
	defaultBaseBackoff = time.Second
)

// RunWithRetry 以指数退避重试执行 fn，最多 defaultMaxAttempts 次。
// 瞬时错误在这里消化，重试耗尽后返回最后一次的错误；
// ctx 取消时立即放弃
func RunWithRetry(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	backoff := defaultBaseBackoff

	var lastErr error
	for attempt := 1; attempt <= defaultMaxAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if attempt == defaultMaxAttempts {
			break
		}

		logger.Warn("Task attempt failed, retrying",
			zap.String("task", name),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(lastErr),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return fmt.Errorf("task %s failed after %d attempts: %w", name, defaultMaxAttempts, lastErr)
}
