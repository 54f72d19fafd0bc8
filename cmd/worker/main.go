package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ytsa-go/internal/config"
	"ytsa-go/internal/infra/database"
	infraES "ytsa-go/internal/infra/elasticsearch"
	infraKafka "ytsa-go/internal/infra/kafka"
	infraMinio "ytsa-go/internal/infra/minio"
	infraRedis "ytsa-go/internal/infra/redis"
	"ytsa-go/internal/model"
	"ytsa-go/internal/ratelimit"
	"ytsa-go/internal/repository"
	"ytsa-go/internal/sentiment"
	"ytsa-go/internal/service"
	"ytsa-go/internal/task"
	"ytsa-go/internal/youtube"
	"ytsa-go/pkg/logger"

	"go.uber.org/zap"
)

// worker 进程：消费任务 topic，按任务名分发执行。
// 每个任务执行前置 RUNNING，结束后写 SUCCESS/FAILURE，
// 瞬时错误由指数退避重试兜底
func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.FilePath); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close()

	if err := database.AutoMigrate(
		&model.User{},
		&model.Org{},
		&model.Membership{},
		&model.Video{},
		&model.Comment{},
		&model.CommentSentiment{},
		&model.SentimentAggregate{},
		&model.Keyword{},
	); err != nil {
		logger.Fatal("Failed to auto migrate", zap.Error(err))
	}

	if err := infraRedis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to init redis", zap.Error(err))
	}
	defer infraRedis.Close()

	if err := infraMinio.Init(&cfg.MinIO); err != nil {
		logger.Warn("MinIO init failed, raw batch archiving disabled", zap.Error(err))
	}

	if err := infraKafka.InitProducer(&cfg.Kafka); err != nil {
		logger.Fatal("Failed to init kafka producer", zap.Error(err))
	}
	defer infraKafka.CloseProducer()

	if err := infraES.Init(&cfg.Elasticsearch); err != nil {
		logger.Warn("Elasticsearch init failed, comment sync disabled", zap.Error(err))
	} else {
		defer infraES.Close()
		if err := infraES.InitIndexes(); err != nil {
			logger.Warn("Elasticsearch index init failed", zap.Error(err))
		}
	}

	db := database.Get()
	rdb := infraRedis.Get()

	videoRepo := repository.NewVideoRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	sentimentRepo := repository.NewSentimentRepository(db)
	aggregateRepo := repository.NewAggregateRepository(db)
	keywordRepo := repository.NewKeywordRepository(db)

	limiter := ratelimit.New(rdb, &cfg.RateLimit)
	statusStore := task.NewStatusStore(rdb)
	ytClient := youtube.NewDataAPIClient(&cfg.YouTube)

	engine := sentiment.NewEngine(func() (sentiment.Classifier, error) {
		return sentiment.NewHTTPClassifier(&cfg.Inference), nil
	}, sentiment.NewRedisReadinessStore(rdb))

	ingestService := service.NewIngestService(videoRepo, commentRepo, ytClient, limiter, statusStore)
	analyzeService := service.NewAnalyzeService(videoRepo, commentRepo, sentimentRepo, engine, statusStore)
	analyticsService := service.NewAnalyticsService(videoRepo, commentRepo, sentimentRepo, aggregateRepo, keywordRepo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听系统信号，优雅退出
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	// 启动即预热模型，就绪标志写入 Redis 供健康探针读取
	go func() {
		if _, err := engine.Warmup(ctx); err != nil {
			logger.Warn("Model warmup failed, will lazy-load on first task", zap.Error(err))
		}
	}()

	dispatcher := newDispatcher(statusStore, ingestService, analyzeService, analyticsService, engine)

	topic := service.TasksTopic()
	groupID := fmt.Sprintf("%s-worker", cfg.App.Name)

	logger.Info("Task worker started",
		zap.String("topic", topic),
		zap.String("group", groupID),
		zap.Strings("brokers", cfg.Kafka.Brokers),
	)

	infraKafka.StartTaskConsumer(ctx, cfg.Kafka.Brokers, topic, groupID, func(env *task.Envelope) error {
		return dispatcher.handle(ctx, env)
	})
}
