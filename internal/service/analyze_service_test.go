package service

import (
	"context"
	"strings"
	"testing"

	"ytsa-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAnalyze(t *testing.T) {
	env := newTestEnv(t)
	video := env.seedVideo(t, 1, "vid-1")
	env.seedComment(t, 1, video.ID, "c1", "i love this")
	env.seedComment(t, 1, video.ID, "c2", "i hate this")
	env.seedComment(t, 1, video.ID, "c3", "it exists")

	engine, classifier := newStubEngine(func(text string) string {
		switch {
		case strings.Contains(text, "love"):
			return "POSITIVE"
		case strings.Contains(text, "hate"):
			return "NEGATIVE"
		default:
			return "NEUTRAL"
		}
	})
	svc := NewAnalyzeService(env.videoRepo, env.commentRepo, env.sentimentRepo, engine, nil)

	inserted, err := svc.RunAnalyze(context.Background(), 1, "vid-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), inserted)

	var rows []model.CommentSentiment
	require.NoError(t, env.db.Order("comment_id ASC").Find(&rows).Error)
	require.Len(t, rows, 3)
	assert.Equal(t, model.LabelPositive, rows[0].Label)
	assert.Equal(t, model.LabelNegative, rows[1].Label)
	assert.Equal(t, model.LabelNeutral, rows[2].Label)
	for _, row := range rows {
		assert.Equal(t, "stub-model", row.ModelName)
	}
	assert.Equal(t, int64(1), classifier.calls.Load())
}

func TestRunAnalyzeIdempotent(t *testing.T) {
	env := newTestEnv(t)
	video := env.seedVideo(t, 1, "vid-1")
	env.seedComment(t, 1, video.ID, "c1", "nice")
	env.seedComment(t, 1, video.ID, "c2", "meh")

	engine, classifier := newStubEngine(func(string) string { return "NEUTRAL" })
	svc := NewAnalyzeService(env.videoRepo, env.commentRepo, env.sentimentRepo, engine, nil)
	ctx := context.Background()

	inserted, err := svc.RunAnalyze(ctx, 1, "vid-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), inserted)

	// 二次执行：没有未分析评论，一行都不会新增，也不会再调推理
	inserted, err = svc.RunAnalyze(ctx, 1, "vid-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), inserted)
	assert.Equal(t, int64(1), classifier.calls.Load())
}

func TestRunAnalyzeOnlyPendingComments(t *testing.T) {
	env := newTestEnv(t)
	video := env.seedVideo(t, 1, "vid-1")
	c1 := env.seedComment(t, 1, video.ID, "c1", "already done")
	env.seedComment(t, 1, video.ID, "c2", "new comment")

	env.seedSentiment(t, 1, c1.ID, model.LabelPositive, video.CreatedAt)

	engine, _ := newStubEngine(func(string) string { return "NEGATIVE" })
	svc := NewAnalyzeService(env.videoRepo, env.commentRepo, env.sentimentRepo, engine, nil)

	inserted, err := svc.RunAnalyze(context.Background(), 1, "vid-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), inserted)

	// 已有结果保持不变
	var existing model.CommentSentiment
	require.NoError(t, env.db.Where("comment_id = ?", c1.ID).First(&existing).Error)
	assert.Equal(t, model.LabelPositive, existing.Label)
}

func TestRunAnalyzeUnknownVideo(t *testing.T) {
	env := newTestEnv(t)
	engine, _ := newStubEngine(func(string) string { return "NEUTRAL" })
	svc := NewAnalyzeService(env.videoRepo, env.commentRepo, env.sentimentRepo, engine, nil)

	_, err := svc.RunAnalyze(context.Background(), 1, "no-such-video")
	assert.ErrorIs(t, err, ErrVideoNotFound)
}

func TestRunAnalyzeTenantIsolation(t *testing.T) {
	env := newTestEnv(t)
	video := env.seedVideo(t, 1, "vid-1")
	env.seedComment(t, 1, video.ID, "c1", "text")

	engine, _ := newStubEngine(func(string) string { return "NEUTRAL" })
	svc := NewAnalyzeService(env.videoRepo, env.commentRepo, env.sentimentRepo, engine, nil)

	// 其他组织触发同名视频：与不存在表现一致
	_, err := svc.RunAnalyze(context.Background(), 2, "vid-1")
	assert.ErrorIs(t, err, ErrVideoNotFound)
}
