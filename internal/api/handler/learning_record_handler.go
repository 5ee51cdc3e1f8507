package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"eduinsight/backend/internal/dto"
	"eduinsight/backend/internal/service"
	"eduinsight/backend/pkg/response"
)

// LearningRecordHandler 学习记录 HTTP 处理器
type LearningRecordHandler struct {
	recordSvc service.LearningRecordService
}

// NewLearningRecordHandler 创建 LearningRecordHandler
func NewLearningRecordHandler(recordSvc service.LearningRecordService) *LearningRecordHandler {
	return &LearningRecordHandler{recordSvc: recordSvc}
}

// List 学习记录列表
// GET /api/v1/learning-records
func (h *LearningRecordHandler) List(c *gin.Context) {
	var req dto.LearningRecordListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	records, total, err := h.recordSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, records, total, req.GetPage(), req.GetPageSize())
}

// Create 新增学习记录
// POST /api/v1/learning-records
func (h *LearningRecordHandler) Create(c *gin.Context) {
	var req dto.CreateLearningRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	record, err := h.recordSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleRecordError(c, err)
		return
	}

	response.Created(c, record)
}

// Delete 删除学习记录
// DELETE /api/v1/learning-records/:id
func (h *LearningRecordHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.recordSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleRecordError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *LearningRecordHandler) handleRecordError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLearningRecordNotFound):
		response.NotFound(c, 16001, "学习记录不存在")
	case errors.Is(err, service.ErrInvalidTimeRange):
		response.BadRequest(c, 16002, "结束时间不能早于开始时间")
	case errors.Is(err, service.ErrInvalidContentType):
		response.BadRequest(c, 16003, "学习内容类型无效")
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 16004, "学生不存在")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 16005, "课程不存在")
	default:
		response.InternalError(c)
	}
}
