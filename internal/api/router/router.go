package router

import (
	"ytsa-go/internal/api/handler"
	"ytsa-go/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

// Setup 注册所有业务路由
func Setup(
	r *gin.Engine,
	authHandler *handler.AuthHandler,
	ingestHandler *handler.IngestHandler,
	analyticsHandler *handler.AnalyticsHandler,
	commentHandler *handler.CommentHandler,
) {
	v1 := r.Group("/api/v1")

	// --- 认证模块 ---
	auth := v1.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)

		authRequired := auth.Group("", middleware.AuthRequired())
		{
			authRequired.GET("/me", authHandler.Me)
		}
	}

	// --- 抓取模块 ---
	ingest := v1.Group("/ingest", middleware.AuthRequired())
	{
		ingest.POST("", ingestHandler.Ingest)
		ingest.GET("/status/:task_id", ingestHandler.TaskStatus)
	}

	// --- 分析模块 ---
	authed := v1.Group("", middleware.AuthRequired())
	{
		authed.POST("/analyze", analyticsHandler.Analyze)

		analytics := authed.Group("/analytics")
		{
			analytics.GET("/sentiment-trend", analyticsHandler.SentimentTrend)
			analytics.GET("/distribution", analyticsHandler.Distribution)
			analytics.GET("/keywords", analyticsHandler.Keywords)
		}

		// --- 评论模块 ---
		authed.GET("/comments", commentHandler.List)
	}
}
