package handler

import (
	"errors"

	"ytsa-go/internal/api/dto"
	"ytsa-go/internal/api/middleware"
	"ytsa-go/internal/api/response"
	"ytsa-go/internal/service"
	"ytsa-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// List 查询评论列表
// @Summary 评论列表
// @Description 分页查询视频评论（含情感结果），带 query 时做全文检索
// @Tags 评论
// @Produce json
// @Security BearerAuth
// @Param yt_video_id query string true "YouTube 视频 ID"
// @Param query query string false "检索关键词"
// @Param page query int false "页码，缺省 1"
// @Param page_size query int false "每页条数，缺省 20"
// @Success 200 {object} response.Response{data=dto.CommentListData} "查询成功"
// @Failure 404 {object} response.ErrorResponse "视频不存在"
// @Router /comments [get]
func (h *CommentHandler) List(c *gin.Context) {
	var req dto.CommentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	orgID, ok := middleware.GetCurrentOrgID(c)
	if !ok {
		response.Unauthorized(c, "缺少认证信息")
		return
	}

	data, err := h.commentService.List(c.Request.Context(), orgID, &req)
	if err != nil {
		if errors.Is(err, service.ErrVideoNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		logger.Error("List comments failed",
			zap.Int64("org_id", orgID),
			zap.String("yt_video_id", req.YtVideoID),
			zap.Error(err))
		response.InternalError(c, "查询失败，请稍后重试")
		return
	}

	response.OK(c, "查询成功", data)
}
