package main

import (
	"fmt"
	"net/http"
	"time"

	"ytsa-go/internal/api/handler"
	"ytsa-go/internal/api/middleware"
	"ytsa-go/internal/api/router"
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

	_ "ytsa-go/api/openapi"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title YTSA API
// @version 1.0
// @description YouTube 评论情感分析平台 API 服务
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@ytsa.dev

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host 127.0.0.1:8000
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description 输入格式: Bearer {token}

func main() {
	// 加载配置文件
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 初始化日志系统
	if err := logger.Init(
		cfg.Log.Level,
		cfg.Log.Format,
		cfg.Log.Output,
		cfg.Log.FilePath,
	); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	// 初始化数据库
	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close()

	// 自动迁移数据库表
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

	// 初始化Redis
	if err := infraRedis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to init redis", zap.Error(err))
	}
	defer infraRedis.Close()

	// 初始化MinIO（原始批次归档，失败仅告警）
	if err := infraMinio.Init(&cfg.MinIO); err != nil {
		logger.Warn("MinIO init failed, raw batch archiving disabled", zap.Error(err))
	}

	// 初始化Kafka生产者
	if err := infraKafka.InitProducer(&cfg.Kafka); err != nil {
		logger.Fatal("Failed to init kafka producer", zap.Error(err))
	}
	defer infraKafka.CloseProducer()

	// 初始化 Elasticsearch（可选，失败则检索降级到 DB）
	if err := infraES.Init(&cfg.Elasticsearch); err != nil {
		logger.Warn("Elasticsearch init failed, search will fallback to DB", zap.Error(err))
	} else {
		defer infraES.Close()
		if err := infraES.InitIndexes(); err != nil {
			logger.Warn("Elasticsearch index init failed", zap.Error(err))
		}
	}

	// 设置Gin模式
	gin.SetMode(cfg.App.Mode)

	// 创建Gin路由器（不使用默认中间件）
	r := gin.New()

	// 使用自定义中间件
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())

	// 初始化依赖（Repository -> Service -> Handler）
	db := database.Get()
	rdb := infraRedis.Get()

	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrgRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	sentimentRepo := repository.NewSentimentRepository(db)
	aggregateRepo := repository.NewAggregateRepository(db)
	keywordRepo := repository.NewKeywordRepository(db)

	limiter := ratelimit.New(rdb, &cfg.RateLimit)
	statusStore := task.NewStatusStore(rdb)
	ytClient := youtube.NewDataAPIClient(&cfg.YouTube)

	// API 进程只投递分析任务，不加载模型；engine 仅为依赖占位
	engine := sentiment.NewEngine(func() (sentiment.Classifier, error) {
		return sentiment.NewHTTPClassifier(&cfg.Inference), nil
	}, sentiment.NewRedisReadinessStore(rdb))

	authService := service.NewAuthService(userRepo, orgRepo, membershipRepo)
	ingestService := service.NewIngestService(videoRepo, commentRepo, ytClient, limiter, statusStore)
	analyzeService := service.NewAnalyzeService(videoRepo, commentRepo, sentimentRepo, engine, statusStore)
	analyticsService := service.NewAnalyticsService(videoRepo, commentRepo, sentimentRepo, aggregateRepo, keywordRepo)
	commentService := service.NewCommentService(videoRepo, commentRepo)

	authHandler := handler.NewAuthHandler(authService)
	ingestHandler := handler.NewIngestHandler(ingestService)
	analyticsHandler := handler.NewAnalyticsHandler(analyzeService, analyticsService)
	commentHandler := handler.NewCommentHandler(commentService)

	// 注册基础路由
	readiness := sentiment.NewRedisReadinessStore(rdb)
	r.GET("/healthz", healthCheckHandler(readiness))
	r.GET("/", rootHandler)

	// Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 注册业务路由
	router.Setup(r, authHandler, ingestHandler, analyticsHandler, commentHandler)

	// 启动服务器
	addr := fmt.Sprintf(":%d", cfg.App.Port)
	logger.Info("Starting application",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("mode", cfg.App.Mode),
		zap.String("addr", addr),
	)
	logger.Info("Configuration loaded",
		zap.String("database", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)),
		zap.String("redis", cfg.Redis.Addr()),
		zap.Strings("kafka", cfg.Kafka.Brokers),
	)

	// 启动HTTP服务器
	logger.Info("Server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

// healthCheckHandler 健康检查接口，附带 worker 侧模型就绪标志
func healthCheckHandler(readiness *sentiment.RedisReadinessStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := config.Get()

		modelLoaded, err := readiness.ModelLoaded(c.Request.Context())
		if err != nil {
			logger.Debug("Read model readiness flag failed", zap.Error(err))
			modelLoaded = false
		}

		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"message":      "Service is healthy",
			"timestamp":    time.Now().Format(time.RFC3339),
			"service":      cfg.App.Name,
			"version":      cfg.App.Version,
			"mode":         cfg.App.Mode,
			"model_loaded": modelLoaded,
		})
	}
}

// rootHandler 根路径处理器
func rootHandler(c *gin.Context) {
	cfg := config.Get()

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Welcome to %s API", cfg.App.Name),
		"project": cfg.App.Name,
		"version": cfg.App.Version,
		"mode":    cfg.App.Mode,
		"docs":    fmt.Sprintf("http://localhost:%d/swagger/index.html", cfg.App.Port),
	})
}
