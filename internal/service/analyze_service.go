package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ytsa-go/internal/infra/kafka"
	"ytsa-go/internal/model"
	"ytsa-go/internal/repository"
	"ytsa-go/internal/sentiment"
	"ytsa-go/internal/task"
	"ytsa-go/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrVideoNotFound = errors.New("视频不存在")

// AnalyzeService 情感分析服务。Trigger 在 API 进程投递任务，
// Run 在 worker 进程对尚未分析的评论批量推理并落库
type AnalyzeService struct {
	videoRepo     *repository.VideoRepository
	commentRepo   *repository.CommentRepository
	sentimentRepo *repository.SentimentRepository
	engine        *sentiment.Engine
	statusStore   *task.StatusStore
	publish       TaskPublisher
}

func NewAnalyzeService(
	videoRepo *repository.VideoRepository,
	commentRepo *repository.CommentRepository,
	sentimentRepo *repository.SentimentRepository,
	engine *sentiment.Engine,
	statusStore *task.StatusStore,
) *AnalyzeService {
	return &AnalyzeService{
		videoRepo:     videoRepo,
		commentRepo:   commentRepo,
		sentimentRepo: sentimentRepo,
		engine:        engine,
		statusStore:   statusStore,
		publish:       kafka.SendTask,
	}
}

// WithPublisher 替换任务投递函数，仅测试使用
func (s *AnalyzeService) WithPublisher(publish TaskPublisher) *AnalyzeService {
	s.publish = publish
	return s
}

// TriggerAnalyze 受理一次分析请求：写 PENDING 状态并投递任务
func (s *AnalyzeService) TriggerAnalyze(ctx context.Context, orgID int64, ytVideoID string) (string, error) {
	if _, err := s.videoRepo.ResolveInternalID(orgID, ytVideoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrVideoNotFound
		}
		return "", err
	}

	taskID := uuid.NewString()
	if err := s.statusStore.SetState(ctx, taskID, task.StatePending); err != nil {
		return "", err
	}

	env := &task.Envelope{
		TaskID:    taskID,
		Name:      task.NameAnalyzeComments,
		OrgID:     orgID,
		YtVideoID: ytVideoID,
	}
	if err := s.publish(ctx, TasksTopic(), env); err != nil {
		return "", err
	}

	return taskID, nil
}

// RunAnalyze 对视频下尚无结果的评论做情感分析。
// 结果整批插入，(org_id, comment_id) 已存在的行跳过，
// 重复执行与并发执行都不会产生重复结果。
// 返回新写入的结果行数
func (s *AnalyzeService) RunAnalyze(ctx context.Context, orgID int64, ytVideoID string) (int64, error) {
	videoID, err := s.videoRepo.ResolveInternalID(orgID, ytVideoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrVideoNotFound
		}
		return 0, err
	}

	comments, err := s.commentRepo.ListUnanalyzed(orgID, videoID)
	if err != nil {
		return 0, fmt.Errorf("list unanalyzed comments: %w", err)
	}
	if len(comments) == 0 {
		return 0, nil
	}

	texts := make([]string, 0, len(comments))
	for i := range comments {
		texts = append(texts, comments[i].Text)
	}

	results, err := s.engine.AnalyzeBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("analyze batch: %w", err)
	}
	if len(results) != len(comments) {
		return 0, fmt.Errorf("classifier returned %d results for %d comments", len(results), len(comments))
	}

	now := time.Now()
	rows := make([]model.CommentSentiment, 0, len(results))
	for i, res := range results {
		rows = append(rows, model.CommentSentiment{
			OrgID:      orgID,
			CommentID:  comments[i].ID,
			Label:      res.Label,
			Score:      res.Score,
			ModelName:  res.ModelName,
			AnalyzedAt: now,
		})
	}

	inserted, err := s.sentimentRepo.InsertSkipExisting(rows)
	if err != nil {
		return 0, fmt.Errorf("insert sentiment results: %w", err)
	}

	logger.Info("Sentiment analysis completed",
		zap.Int64("org_id", orgID),
		zap.String("yt_video_id", ytVideoID),
		zap.Int("candidates", len(comments)),
		zap.Int64("inserted", inserted),
	)
	return inserted, nil
}
