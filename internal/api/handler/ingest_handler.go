package handler

import (
	"errors"

	"ytsa-go/internal/api/dto"
	"ytsa-go/internal/api/middleware"
	"ytsa-go/internal/api/response"
	"ytsa-go/internal/service"
	"ytsa-go/internal/task"
	"ytsa-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type IngestHandler struct {
	ingestService *service.IngestService
}

func NewIngestHandler(ingestService *service.IngestService) *IngestHandler {
	return &IngestHandler{ingestService: ingestService}
}

// Ingest 触发评论抓取
// @Summary 触发评论抓取
// @Description 受理一个异步抓取任务，立即返回任务 ID，结果通过状态接口轮询
// @Tags 抓取
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.IngestRequest true "抓取参数"
// @Success 200 {object} response.Response{data=dto.TaskAccepted} "任务已受理"
// @Failure 400 {object} response.ErrorResponse "请求参数无效"
// @Failure 429 {object} response.ErrorResponse "组织抓取频率超限"
// @Router /ingest [post]
func (h *IngestHandler) Ingest(c *gin.Context) {
	var req dto.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	orgID, ok := middleware.GetCurrentOrgID(c)
	if !ok {
		response.Unauthorized(c, "缺少认证信息")
		return
	}

	taskID, err := h.ingestService.TriggerFetch(c.Request.Context(), orgID, req.YtVideoID)
	if err != nil {
		if errors.Is(err, service.ErrRateLimited) {
			response.TooManyRequests(c, err.Error())
			return
		}
		logger.Error("Trigger ingestion failed",
			zap.Int64("org_id", orgID),
			zap.String("yt_video_id", req.YtVideoID),
			zap.Error(err))
		response.InternalError(c, "任务受理失败，请稍后重试")
		return
	}

	response.OK(c, "任务已受理", dto.TaskAccepted{TaskID: taskID, State: task.StatePending})
}

// TaskStatus 查询任务状态
// @Summary 查询任务状态
// @Description 按任务 ID 查询后台任务的执行状态与结果
// @Tags 抓取
// @Produce json
// @Security BearerAuth
// @Param task_id path string true "任务 ID"
// @Success 200 {object} response.Response{data=dto.TaskStatusData} "查询成功"
// @Failure 404 {object} response.ErrorResponse "任务不存在或已过期"
// @Router /ingest/status/{task_id} [get]
func (h *IngestHandler) TaskStatus(c *gin.Context) {
	taskID := c.Param("task_id")
	if taskID == "" {
		response.BadRequest(c, "缺少任务 ID")
		return
	}

	status, err := h.ingestService.GetTaskStatus(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		logger.Error("Get task status failed", zap.String("task_id", taskID), zap.Error(err))
		response.InternalError(c, "查询失败，请稍后重试")
		return
	}

	response.OK(c, "查询成功", dto.TaskStatusData{
		TaskID: status.TaskID,
		State:  status.State,
		Result: status.Result,
		Error:  status.Error,
	})
}
