package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"eduinsight/backend/internal/api/middleware"
	"eduinsight/backend/internal/dto"
	"eduinsight/backend/internal/service"
	"eduinsight/backend/pkg/response"
)

// HomeworkHandler 作业 HTTP 处理器
type HomeworkHandler struct {
	homeworkSvc service.HomeworkService
}

// NewHomeworkHandler 创建 HomeworkHandler
func NewHomeworkHandler(homeworkSvc service.HomeworkService) *HomeworkHandler {
	return &HomeworkHandler{homeworkSvc: homeworkSvc}
}

// List 作业列表，学生只返回自己的
// GET /api/v1/homework
func (h *HomeworkHandler) List(c *gin.Context) {
	session, ok := MustGetSession(c)
	if !ok {
		return
	}
	var req dto.HomeworkListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	list, total, err := h.homeworkSvc.List(c.Request.Context(), &req, session)
	if err != nil {
		h.handleHomeworkError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Get 作业详情
// GET /api/v1/homework/:id
func (h *HomeworkHandler) Get(c *gin.Context) {
	session, ok := MustGetSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	homework, err := h.homeworkSvc.GetByID(c.Request.Context(), id, session)
	if err != nil {
		h.handleHomeworkError(c, err)
		return
	}

	response.OK(c, homework)
}

// Submit 学生提交作业
// POST /api/v1/homework  multipart/form-data: file, subject, content
func (h *HomeworkHandler) Submit(c *gin.Context) {
	session, ok := MustGetSession(c)
	if !ok {
		return
	}

	var req dto.SubmitHomeworkRequest
	if err := c.ShouldBind(&req); err != nil {
		if middleware.IsBodyTooLarge(err) {
			response.TooLarge(c, 10005, "请求体过大")
			return
		}
		bindFailed(c, err)
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 20005, "请上传作业文件")
		return
	}
	file, err := fh.Open()
	if err != nil {
		response.BadRequest(c, 20005, "请上传作业文件")
		return
	}
	defer file.Close()

	homework, err := h.homeworkSvc.Submit(c.Request.Context(), &service.SubmitHomeworkInput{
		Subject:     req.Subject,
		Content:     req.Content,
		Filename:    fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		Reader:      file,
	}, session)
	if err != nil {
		h.handleHomeworkError(c, err)
		return
	}

	response.Created(c, homework)
}

// Grade 批改作业（管理员、教师）
// POST /api/v1/homework/:id/grade
func (h *HomeworkHandler) Grade(c *gin.Context) {
	session, ok := MustGetSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.GradeHomeworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	homework, err := h.homeworkSvc.Grade(c.Request.Context(), id, &req, session.UserID)
	if err != nil {
		h.handleHomeworkError(c, err)
		return
	}

	response.OK(c, homework)
}

// Download 获取作业文件地址
// GET /api/v1/homework/:id/download
func (h *HomeworkHandler) Download(c *gin.Context) {
	session, ok := MustGetSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.homeworkSvc.Download(c.Request.Context(), id, session)
	if err != nil {
		h.handleHomeworkError(c, err)
		return
	}

	response.OK(c, result)
}

// Delete 删除作业
// DELETE /api/v1/homework/:id
func (h *HomeworkHandler) Delete(c *gin.Context) {
	session, ok := MustGetSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.homeworkSvc.Delete(c.Request.Context(), id, session); err != nil {
		h.handleHomeworkError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *HomeworkHandler) handleHomeworkError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrHomeworkNotFound):
		response.NotFound(c, 20001, "作业不存在")
	case errors.Is(err, service.ErrHomeworkNoStudent):
		response.Forbidden(c, 20002, "当前账号未关联学生档案")
	case errors.Is(err, service.ErrHomeworkFileType):
		response.BadRequest(c, 20003, "不支持的作业文件类型")
	case errors.Is(err, service.ErrHomeworkAlreadyGraded):
		response.Conflict(c, 20004, "作业已批改，不能删除")
	case middleware.IsBodyTooLarge(err):
		response.TooLarge(c, 10005, "请求体过大")
	default:
		response.InternalError(c)
	}
}
