package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"ytsa-go/internal/config"
	"ytsa-go/internal/model"
	"ytsa-go/internal/repository"
	"ytsa-go/internal/sentiment"
	"ytsa-go/pkg/logger"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	_ = logger.Init("error", "console", "stdout", "")
}

// loadTestConfig 加载一份最小配置（JWT 签发、抓取归档等路径会读全局配置）
func loadTestConfig(t *testing.T) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
app:
  name: ytsa-test
  version: test
  mode: test
  port: 0
jwt:
  secret: test-secret
  expire_hours: 1
minio:
  buckets: []
kafka:
  topics:
    tasks: test-tasks
log:
  level: error
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	_, err := config.Load(path)
	require.NoError(t, err)
}

var testDBSeq atomic.Int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:svctestdb%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Org{},
		&model.Membership{},
		&model.Video{},
		&model.Comment{},
		&model.CommentSentiment{},
		&model.SentimentAggregate{},
		&model.Keyword{},
	))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

// testEnv 服务层测试的公共依赖集
type testEnv struct {
	db            *gorm.DB
	videoRepo     *repository.VideoRepository
	commentRepo   *repository.CommentRepository
	sentimentRepo *repository.SentimentRepository
	aggregateRepo *repository.AggregateRepository
	keywordRepo   *repository.KeywordRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	return &testEnv{
		db:            db,
		videoRepo:     repository.NewVideoRepository(db),
		commentRepo:   repository.NewCommentRepository(db),
		sentimentRepo: repository.NewSentimentRepository(db),
		aggregateRepo: repository.NewAggregateRepository(db),
		keywordRepo:   repository.NewKeywordRepository(db),
	}
}

func (e *testEnv) analyticsService() *AnalyticsService {
	return NewAnalyticsService(e.videoRepo, e.commentRepo, e.sentimentRepo, e.aggregateRepo, e.keywordRepo)
}

func (e *testEnv) seedVideo(t *testing.T, orgID int64, ytVideoID string) *model.Video {
	t.Helper()

	video := &model.Video{OrgID: orgID, YtVideoID: ytVideoID, Title: "t", ChannelID: "c"}
	require.NoError(t, e.db.Create(video).Error)
	return video
}

func (e *testEnv) seedComment(t *testing.T, orgID, videoID int64, ytCommentID, text string) *model.Comment {
	t.Helper()

	comment := &model.Comment{
		OrgID:       orgID,
		VideoID:     videoID,
		YtCommentID: ytCommentID,
		Author:      "alice",
		Text:        text,
		PublishedAt: time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, e.db.Create(comment).Error)
	return comment
}

func (e *testEnv) seedSentiment(t *testing.T, orgID, commentID int64, label string, analyzedAt time.Time) {
	t.Helper()

	_, err := e.sentimentRepo.InsertSkipExisting([]model.CommentSentiment{
		{OrgID: orgID, CommentID: commentID, Label: label, Score: 0.9, ModelName: "m", AnalyzedAt: analyzedAt},
	})
	require.NoError(t, err)
}

// labelClassifier 按文本内容打标签的桩分类器
type labelClassifier struct {
	labelFor func(text string) string
	calls    atomic.Int64
}

func (c *labelClassifier) AnalyzeBatch(_ context.Context, texts []string) ([]sentiment.RawResult, error) {
	c.calls.Add(1)
	out := make([]sentiment.RawResult, len(texts))
	for i, text := range texts {
		out[i] = sentiment.RawResult{Label: c.labelFor(text), Score: 0.95}
	}
	return out, nil
}

func (c *labelClassifier) ModelName() string {
	return "stub-model"
}

func newStubEngine(labelFor func(text string) string) (*sentiment.Engine, *labelClassifier) {
	classifier := &labelClassifier{labelFor: labelFor}
	engine := sentiment.NewEngine(func() (sentiment.Classifier, error) {
		return classifier, nil
	}, nil)
	return engine, classifier
}
