package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"eduinsight/backend/internal/dto"
	"eduinsight/backend/internal/service"
	"eduinsight/backend/pkg/response"
)

// ModelHandler 分析模型 HTTP 处理器
type ModelHandler struct {
	modelSvc service.ModelService
}

// NewModelHandler 创建 ModelHandler
func NewModelHandler(modelSvc service.ModelService) *ModelHandler {
	return &ModelHandler{modelSvc: modelSvc}
}

// List 模型列表
// GET /api/v1/models
func (h *ModelHandler) List(c *gin.Context) {
	var req dto.ModelListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	models, total, err := h.modelSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, models, total, req.GetPage(), req.GetPageSize())
}

// Get 模型详情
// GET /api/v1/models/:id
func (h *ModelHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	m, err := h.modelSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleModelError(c, err)
		return
	}

	response.OK(c, m)
}

// Create 创建模型
// POST /api/v1/models
func (h *ModelHandler) Create(c *gin.Context) {
	var req dto.CreateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	m, err := h.modelSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleModelError(c, err)
		return
	}

	response.Created(c, m)
}

// Update 更新模型参数或状态
// POST /api/v1/models/:id/update
func (h *ModelHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	m, err := h.modelSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleModelError(c, err)
		return
	}

	response.OK(c, m)
}

// Train 触发训练
// POST /api/v1/models/:id/train
func (h *ModelHandler) Train(c *gin.Context) {
	session, ok := MustGetSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	m, err := h.modelSvc.Train(c.Request.Context(), id, session.UserID)
	if err != nil {
		h.handleModelError(c, err)
		return
	}

	response.OK(c, m)
}

// Delete 删除模型
// DELETE /api/v1/models/:id
func (h *ModelHandler) Delete(c *gin.Context) {
	session, ok := MustGetSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.modelSvc.Delete(c.Request.Context(), id, session.UserID); err != nil {
		h.handleModelError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *ModelHandler) handleModelError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrModelNotFound):
		response.NotFound(c, 19001, "模型不存在")
	case errors.Is(err, service.ErrModelTraining):
		response.Conflict(c, 19002, "模型正在训练中")
	case errors.Is(err, service.ErrModelServiceFailed):
		response.BadGateway(c, 19003, "模型服务调用失败")
	default:
		response.InternalError(c)
	}
}
