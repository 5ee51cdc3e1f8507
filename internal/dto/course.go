package dto

// ── 课程模块 DTO ──

// CourseListRequest 课程列表查询参数
type CourseListRequest struct {
	PaginationRequest
	TeacherID *uint  `form:"teacher_id" binding:"omitempty,min=1"`
	Keyword   string `form:"keyword"    binding:"omitempty,max=50"`
}

// CreateCourseRequest 创建课程请求
type CreateCourseRequest struct {
	Name        string  `json:"name"        binding:"required,max=100"`
	Code        string  `json:"code"        binding:"required,max=20"`
	Description *string `json:"description"`
	TeacherID   *uint   `json:"teacher_id"  binding:"omitempty,min=1"`
}

// UpdateCourseRequest 更新课程请求
type UpdateCourseRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=1,max=100"`
	Code        *string `json:"code"        binding:"omitempty,min=1,max=20"`
	Description *string `json:"description"`
	TeacherID   *uint   `json:"teacher_id"  binding:"omitempty,min=1"`
}

// ── 选课 ──

// EnrollRequest 学生选课请求
type EnrollRequest struct {
	StudentID uint   `json:"student_id" binding:"required,min=1"`
	Status    string `json:"status"     binding:"omitempty,oneof=active completed dropped"`
}

// UpdateEnrollmentRequest 更新选课状态
type UpdateEnrollmentRequest struct {
	Status string `json:"status" binding:"required,oneof=active completed dropped"`
}
