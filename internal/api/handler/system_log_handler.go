package handler

import (
	"github.com/gin-gonic/gin"

	"eduinsight/backend/internal/dto"
	"eduinsight/backend/internal/service"
	"eduinsight/backend/pkg/response"
)

// SystemLogHandler 审计日志 HTTP 处理器（管理员）
type SystemLogHandler struct {
	logSvc service.SystemLogService
}

// NewSystemLogHandler 创建 SystemLogHandler
func NewSystemLogHandler(logSvc service.SystemLogService) *SystemLogHandler {
	return &SystemLogHandler{logSvc: logSvc}
}

// List 审计日志列表
// GET /api/v1/system-logs
func (h *SystemLogHandler) List(c *gin.Context) {
	var req dto.SystemLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	logs, total, err := h.logSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, logs, total, req.GetPage(), req.GetPageSize())
}
