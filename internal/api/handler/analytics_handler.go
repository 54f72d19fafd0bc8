package handler

import (
	"errors"
	"strconv"

	"ytsa-go/internal/api/dto"
	"ytsa-go/internal/api/middleware"
	"ytsa-go/internal/api/response"
	"ytsa-go/internal/service"
	"ytsa-go/internal/task"
	"ytsa-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AnalyticsHandler struct {
	analyzeService   *service.AnalyzeService
	analyticsService *service.AnalyticsService
}

func NewAnalyticsHandler(analyzeService *service.AnalyzeService, analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyzeService:   analyzeService,
		analyticsService: analyticsService,
	}
}

// Analyze 触发情感分析
// @Summary 触发情感分析
// @Description 受理一个异步分析任务，对视频下尚未分析的评论做情感推理
// @Tags 分析
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AnalyzeRequest true "分析参数"
// @Success 200 {object} response.Response{data=dto.TaskAccepted} "任务已受理"
// @Failure 404 {object} response.ErrorResponse "视频不存在"
// @Router /analyze [post]
func (h *AnalyticsHandler) Analyze(c *gin.Context) {
	var req dto.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	orgID, ok := middleware.GetCurrentOrgID(c)
	if !ok {
		response.Unauthorized(c, "缺少认证信息")
		return
	}

	taskID, err := h.analyzeService.TriggerAnalyze(c.Request.Context(), orgID, req.YtVideoID)
	if err != nil {
		if errors.Is(err, service.ErrVideoNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		logger.Error("Trigger analysis failed",
			zap.Int64("org_id", orgID),
			zap.String("yt_video_id", req.YtVideoID),
			zap.Error(err))
		response.InternalError(c, "任务受理失败，请稍后重试")
		return
	}

	response.OK(c, "任务已受理", dto.TaskAccepted{TaskID: taskID, State: task.StatePending})
}

// SentimentTrend 查询情感趋势
// @Summary 情感趋势
// @Description 按时间窗口聚合视频评论的情感占比，窗口粒度支持 hour/day/week
// @Tags 分析
// @Produce json
// @Security BearerAuth
// @Param yt_video_id query string true "YouTube 视频 ID"
// @Param window query string false "窗口粒度 hour|day|week，缺省 day"
// @Success 200 {object} response.Response{data=dto.TrendData} "查询成功"
// @Failure 400 {object} response.ErrorResponse "窗口粒度无效"
// @Failure 404 {object} response.ErrorResponse "视频不存在"
// @Router /analytics/sentiment-trend [get]
func (h *AnalyticsHandler) SentimentTrend(c *gin.Context) {
	var req dto.TrendRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	orgID, ok := middleware.GetCurrentOrgID(c)
	if !ok {
		response.Unauthorized(c, "缺少认证信息")
		return
	}

	data, err := h.analyticsService.ComputeTrend(orgID, req.YtVideoID, req.Window)
	if err != nil {
		h.respondAnalyticsError(c, "Compute trend failed", orgID, req.YtVideoID, err)
		return
	}

	response.OK(c, "查询成功", data)
}

// Distribution 查询情感分布
// @Summary 情感分布
// @Description 实时统计视频评论的情感占比，三个占比之和为 1
// @Tags 分析
// @Produce json
// @Security BearerAuth
// @Param yt_video_id query string true "YouTube 视频 ID"
// @Success 200 {object} response.Response{data=dto.DistributionData} "查询成功"
// @Failure 404 {object} response.ErrorResponse "视频不存在"
// @Router /analytics/distribution [get]
func (h *AnalyticsHandler) Distribution(c *gin.Context) {
	ytVideoID := c.Query("yt_video_id")
	if ytVideoID == "" {
		response.BadRequest(c, "缺少 yt_video_id 参数")
		return
	}

	orgID, ok := middleware.GetCurrentOrgID(c)
	if !ok {
		response.Unauthorized(c, "缺少认证信息")
		return
	}

	data, err := h.analyticsService.Distribution(orgID, ytVideoID)
	if err != nil {
		h.respondAnalyticsError(c, "Compute distribution failed", orgID, ytVideoID, err)
		return
	}

	response.OK(c, "查询成功", data)
}

// Keywords 查询评论关键词
// @Summary 评论关键词
// @Description 统计视频评论的高频词并返回 top-k 快照
// @Tags 分析
// @Produce json
// @Security BearerAuth
// @Param yt_video_id query string true "YouTube 视频 ID"
// @Param top_k query int false "返回词条数，缺省 10"
// @Success 200 {object} response.Response{data=dto.KeywordsData} "查询成功"
// @Failure 404 {object} response.ErrorResponse "视频不存在"
// @Router /analytics/keywords [get]
func (h *AnalyticsHandler) Keywords(c *gin.Context) {
	ytVideoID := c.Query("yt_video_id")
	if ytVideoID == "" {
		response.BadRequest(c, "缺少 yt_video_id 参数")
		return
	}

	topK := 0
	if raw := c.Query("top_k"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			response.BadRequest(c, "top_k 必须是正整数")
			return
		}
		topK = v
	}

	orgID, ok := middleware.GetCurrentOrgID(c)
	if !ok {
		response.Unauthorized(c, "缺少认证信息")
		return
	}

	data, err := h.analyticsService.ComputeKeywords(orgID, ytVideoID, topK)
	if err != nil {
		h.respondAnalyticsError(c, "Compute keywords failed", orgID, ytVideoID, err)
		return
	}

	response.OK(c, "查询成功", data)
}

func (h *AnalyticsHandler) respondAnalyticsError(c *gin.Context, msg string, orgID int64, ytVideoID string, err error) {
	switch {
	case errors.Is(err, service.ErrVideoNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrInvalidWindow):
		response.BadRequest(c, err.Error())
	default:
		logger.Error(msg,
			zap.Int64("org_id", orgID),
			zap.String("yt_video_id", ytVideoID),
			zap.Error(err))
		response.InternalError(c, "查询失败，请稍后重试")
	}
}
