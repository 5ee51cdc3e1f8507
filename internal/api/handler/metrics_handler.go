package handler

import (
	"github.com/gin-gonic/gin"

	"eduinsight/backend/internal/service"
	"eduinsight/backend/pkg/response"
)

// MetricsHandler 监控面板 HTTP 处理器，只读，由前端轮询
type MetricsHandler struct {
	metricsSvc service.MetricsService
}

// NewMetricsHandler 创建 MetricsHandler
func NewMetricsHandler(metricsSvc service.MetricsService) *MetricsHandler {
	return &MetricsHandler{metricsSvc: metricsSvc}
}

// Dashboard 面板汇总
// GET /api/v1/metrics
func (h *MetricsHandler) Dashboard(c *gin.Context) {
	result, err := h.metricsSvc.Dashboard(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Models 模型指标
// GET /api/v1/metrics/models
func (h *MetricsHandler) Models(c *gin.Context) {
	result, err := h.metricsSvc.Models(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Resources 资源指标
// GET /api/v1/metrics/resources
func (h *MetricsHandler) Resources(c *gin.Context) {
	result, err := h.metricsSvc.Resources(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}
