package kafka

import (
	"context"
	"encoding/json"
	"time"

	"ytsa-go/internal/task"
	"ytsa-go/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// TaskHandler 处理任务信封的回调函数
type TaskHandler func(env *task.Envelope) error

// StartTaskConsumer 启动任务消费者（阻塞，需在 goroutine 中运行）。
// ctx 取消后自动停止
func StartTaskConsumer(ctx context.Context, brokers []string, topic, groupID string, handler TaskHandler) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		StartOffset:    kafka.LastOffset,
	})

	defer func() {
		if err := reader.Close(); err != nil {
			logger.Error("Failed to close kafka consumer", zap.Error(err))
		}
		logger.Info("Kafka task consumer stopped")
	}()

	logger.Info("Kafka task consumer started",
		zap.String("topic", topic),
		zap.String("group", groupID),
	)

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("Failed to read kafka message", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		var env task.Envelope
		if err := json.Unmarshal(msg.Value, &env); err != nil {
			logger.Error("Failed to unmarshal task envelope",
				zap.Error(err),
				zap.ByteString("value", msg.Value),
			)
			continue
		}

		logger.Info("Received task",
			zap.String("task_id", env.TaskID),
			zap.String("name", env.Name),
			zap.Int64("org_id", env.OrgID),
		)

		if err := handler(&env); err != nil {
			logger.Error("Failed to handle task",
				zap.String("task_id", env.TaskID),
				zap.String("name", env.Name),
				zap.Error(err),
			)
		}
	}
}
