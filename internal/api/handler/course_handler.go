package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"eduinsight/backend/internal/dto"
	"eduinsight/backend/internal/service"
	"eduinsight/backend/pkg/response"
)

// CourseHandler 课程与选课 HTTP 处理器
type CourseHandler struct {
	courseSvc service.CourseService
}

// NewCourseHandler 创建 CourseHandler
func NewCourseHandler(courseSvc service.CourseService) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc}
}

// List 课程列表
// GET /api/v1/courses
func (h *CourseHandler) List(c *gin.Context) {
	var req dto.CourseListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	courses, total, err := h.courseSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, courses, total, req.GetPage(), req.GetPageSize())
}

// Get 课程详情
// GET /api/v1/courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	course, err := h.courseSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, course)
}

// Create 创建课程
// POST /api/v1/courses
func (h *CourseHandler) Create(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	course, err := h.courseSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.Created(c, course)
}

// Update 更新课程
// PUT /api/v1/courses/:id
func (h *CourseHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	course, err := h.courseSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, course)
}

// Delete 删除课程
// DELETE /api/v1/courses/:id
func (h *CourseHandler) Delete(c *gin.Context) {
	session, ok := MustGetSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.courseSvc.Delete(c.Request.Context(), id, session.UserID); err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, nil)
}

// ────────────────────── 选课 ──────────────────────

// ListEnrollments 课程的选课列表
// GET /api/v1/courses/:id/enrollments
func (h *CourseHandler) ListEnrollments(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	list, err := h.courseSvc.ListEnrollments(c.Request.Context(), id)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, list)
}

// Enroll 学生选课
// POST /api/v1/courses/:id/enrollments
func (h *CourseHandler) Enroll(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	enrollment, err := h.courseSvc.Enroll(c.Request.Context(), id, &req)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.Created(c, enrollment)
}

// UpdateEnrollment 更新选课状态
// PUT /api/v1/courses/:id/enrollments/:student_id
func (h *CourseHandler) UpdateEnrollment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	studentID, ok := parseIDParam(c, "student_id")
	if !ok {
		return
	}

	var req dto.UpdateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	enrollment, err := h.courseSvc.UpdateEnrollment(c.Request.Context(), id, studentID, &req)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, enrollment)
}

// Unenroll 退课
// DELETE /api/v1/courses/:id/enrollments/:student_id
func (h *CourseHandler) Unenroll(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	studentID, ok := parseIDParam(c, "student_id")
	if !ok {
		return
	}

	if err := h.courseSvc.Unenroll(c.Request.Context(), id, studentID); err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *CourseHandler) handleCourseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 15001, "课程不存在")
	case errors.Is(err, service.ErrCourseCodeExists):
		response.Conflict(c, 15002, "课程代码已存在")
	case errors.Is(err, service.ErrTeacherNotFound):
		response.NotFound(c, 15003, "教师不存在")
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 15004, "学生不存在")
	case errors.Is(err, service.ErrEnrollmentExists):
		response.Conflict(c, 15005, "该学生已选修此课程")
	case errors.Is(err, service.ErrEnrollmentNotFound):
		response.NotFound(c, 15006, "选课记录不存在")
	default:
		response.InternalError(c)
	}
}
