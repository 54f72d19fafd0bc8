package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ytsa-go/internal/config"
	"ytsa-go/internal/infra/elasticsearch"
	"ytsa-go/internal/infra/kafka"
	"ytsa-go/internal/infra/minio"
	"ytsa-go/internal/model"
	"ytsa-go/internal/ratelimit"
	"ytsa-go/internal/repository"
	"ytsa-go/internal/task"
	"ytsa-go/internal/youtube"
	"ytsa-go/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrRateLimited  = errors.New("组织抓取频率超限")
	ErrTaskNotFound = errors.New("任务不存在或已过期")
)

// 未提供作者时落库的占位值
const defaultAuthor = "Anonymous"

// TaskPublisher 任务投递函数，生产环境为 kafka.SendTask
type TaskPublisher func(ctx context.Context, topic string, env *task.Envelope) error

// IngestService 评论抓取服务。Trigger 在 API 进程执行（限流 + 投递），
// Run 在 worker 进程执行（实际抓取与落库）
type IngestService struct {
	videoRepo   *repository.VideoRepository
	commentRepo *repository.CommentRepository
	ytClient    youtube.Client
	limiter     *ratelimit.Limiter
	statusStore *task.StatusStore
	publish     TaskPublisher
}

func NewIngestService(
	videoRepo *repository.VideoRepository,
	commentRepo *repository.CommentRepository,
	ytClient youtube.Client,
	limiter *ratelimit.Limiter,
	statusStore *task.StatusStore,
) *IngestService {
	return &IngestService{
		videoRepo:   videoRepo,
		commentRepo: commentRepo,
		ytClient:    ytClient,
		limiter:     limiter,
		statusStore: statusStore,
		publish:     kafka.SendTask,
	}
}

// WithPublisher 替换任务投递函数，仅测试使用
func (s *IngestService) WithPublisher(publish TaskPublisher) *IngestService {
	s.publish = publish
	return s
}

// TasksTopic 任务 topic 名（配置缺省时用 tasks）
func TasksTopic() string {
	topic := config.GetKafka().Topics["tasks"]
	if topic == "" {
		topic = "tasks"
	}
	return topic
}

// TriggerFetch 受理一次抓取请求：过限流桶、写 PENDING 状态、投递任务。
// 令牌不足返回 ErrRateLimited，调用方应答 429
func (s *IngestService) TriggerFetch(ctx context.Context, orgID int64, ytVideoID string) (string, error) {
	allowed, err := s.limiter.Allow(ctx, orgID)
	if err != nil {
		return "", err
	}
	if !allowed {
		return "", ErrRateLimited
	}

	taskID := uuid.NewString()
	if err := s.statusStore.SetState(ctx, taskID, task.StatePending); err != nil {
		return "", err
	}

	env := &task.Envelope{
		TaskID:    taskID,
		Name:      task.NameFetchComments,
		OrgID:     orgID,
		YtVideoID: ytVideoID,
	}
	if err := s.publish(ctx, TasksTopic(), env); err != nil {
		return "", err
	}

	return taskID, nil
}

// RunFetch 执行抓取：刷新视频元数据，逐批拉取评论并幂等落库，
// 原始批次归档到对象存储、评论同步到 ES 均为尽力而为。
// 返回本次抓到的评论总数
func (s *IngestService) RunFetch(ctx context.Context, orgID int64, ytVideoID string) (int, error) {
	meta, err := s.ytClient.FetchVideoMetadata(ctx, ytVideoID)
	if err != nil {
		return 0, fmt.Errorf("fetch video metadata: %w", err)
	}

	video, err := s.videoRepo.Upsert(orgID, ytVideoID, meta.Title, meta.ChannelID)
	if err != nil {
		return 0, fmt.Errorf("upsert video: %w", err)
	}

	total := 0
	batchNo := 0
	err = s.ytClient.FetchComments(ctx, ytVideoID, func(batch []youtube.RawComment) error {
		batchNo++

		comments := make([]model.Comment, 0, len(batch))
		for _, rc := range batch {
			comments = append(comments, toCommentModel(orgID, video.ID, rc))
		}
		if err := s.commentRepo.UpsertBatch(comments); err != nil {
			return fmt.Errorf("upsert comment batch %d: %w", batchNo, err)
		}
		total += len(batch)

		s.archiveBatch(ctx, orgID, ytVideoID, batchNo, batch)
		return nil
	})
	if err != nil {
		return 0, err
	}

	if err := s.videoRepo.TouchFetchedAt(orgID, video.ID); err != nil {
		logger.Warn("Touch fetched_at failed",
			zap.Int64("video_id", video.ID), zap.Error(err))
	}

	s.syncToES(ctx, orgID, video.ID)

	logger.Info("Comment ingestion completed",
		zap.Int64("org_id", orgID),
		zap.String("yt_video_id", ytVideoID),
		zap.Int("comments", total),
	)
	return total, nil
}

// GetTaskStatus 查询任务状态，不存在返回 ErrTaskNotFound
func (s *IngestService) GetTaskStatus(ctx context.Context, taskID string) (*task.Status, error) {
	status, err := s.statusStore.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if status == nil {
		return nil, ErrTaskNotFound
	}
	return status, nil
}

// toCommentModel 补齐缺省字段后转为落库模型：
// 作者缺省 Anonymous，点赞缺省 0，发布时间缺省 Unix 纪元
func toCommentModel(orgID, videoID int64, rc youtube.RawComment) model.Comment {
	c := model.Comment{
		OrgID:       orgID,
		VideoID:     videoID,
		YtCommentID: rc.YtCommentID,
		Author:      defaultAuthor,
		Text:        rc.Text,
		PublishedAt: time.Unix(0, 0).UTC(),
		ParentID:    rc.ParentID,
	}
	if rc.Author != nil && *rc.Author != "" {
		c.Author = *rc.Author
	}
	if rc.PublishedAt != nil {
		c.PublishedAt = *rc.PublishedAt
	}
	if rc.LikeCount != nil {
		c.LikeCount = *rc.LikeCount
	}
	return c
}

// archiveBatch 把原始批次 JSON 归档到对象存储（失败只告警，不中断抓取）
func (s *IngestService) archiveBatch(ctx context.Context, orgID int64, ytVideoID string, batchNo int, batch []youtube.RawComment) {
	buckets := config.GetMinIO().Buckets
	if len(buckets) == 0 {
		return
	}

	payload, err := json.Marshal(batch)
	if err != nil {
		logger.Warn("Marshal raw batch failed", zap.Error(err))
		return
	}

	objectName := fmt.Sprintf("org-%d/%s/%s-batch-%04d.json",
		orgID, ytVideoID, time.Now().UTC().Format("20060102T150405"), batchNo)
	if err := minio.UploadJSON(ctx, buckets[0], objectName, payload); err != nil {
		logger.Warn("Archive raw batch failed",
			zap.String("object", objectName), zap.Error(err))
	}
}

// syncToES 全量同步视频评论到 ES（失败只告警，检索会回落到数据库）
func (s *IngestService) syncToES(ctx context.Context, orgID, videoID int64) {
	if elasticsearch.Get() == nil {
		return
	}

	comments, err := s.commentRepo.ListAllByVideo(orgID, videoID)
	if err != nil {
		logger.Warn("Load comments for ES sync failed", zap.Error(err))
		return
	}
	if len(comments) == 0 {
		return
	}
	if _, _, err := elasticsearch.BulkSyncComments(ctx, comments); err != nil {
		logger.Warn("Bulk sync comments to ES failed", zap.Error(err))
	}
}
