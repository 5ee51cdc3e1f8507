package dto

// ── 学生模块 DTO ──

// StudentListRequest 学生列表查询参数
type StudentListRequest struct {
	PaginationRequest
	Grade     string `form:"grade"      binding:"omitempty,max=20"`
	ClassName string `form:"class_name" binding:"omitempty,max=50"`
	Keyword   string `form:"keyword"    binding:"omitempty,max=50"`
}

// ParentRequest 家长信息
type ParentRequest struct {
	Name    string  `json:"name"    binding:"required,max=50"`
	Phone   string  `json:"phone"   binding:"required,mobile"`
	Address *string `json:"address" binding:"omitempty,max=255"`
}

// CreateStudentRequest 创建学生请求
type CreateStudentRequest struct {
	StudentID string        `json:"student_id" binding:"required,max=50"`
	Name      string        `json:"name"       binding:"required,max=50"`
	Gender    string        `json:"gender"     binding:"required,gender"`
	Grade     string        `json:"grade"      binding:"required,max=20"`
	ClassName string        `json:"class_name" binding:"required,max=50"`
	Phone     string        `json:"phone"      binding:"required,mobile"`
	Parent    ParentRequest `json:"parent"     binding:"required"`
}

// UpdateParentRequest 更新家长信息
type UpdateParentRequest struct {
	Name    *string `json:"name"    binding:"omitempty,min=1,max=50"`
	Phone   *string `json:"phone"   binding:"omitempty,mobile"`
	Address *string `json:"address" binding:"omitempty,max=255"`
}

// UpdateStudentRequest 更新学生请求
type UpdateStudentRequest struct {
	StudentID *string              `json:"student_id" binding:"omitempty,min=1,max=50"`
	Name      *string              `json:"name"       binding:"omitempty,min=1,max=50"`
	Gender    *string              `json:"gender"     binding:"omitempty,gender"`
	Grade     *string              `json:"grade"      binding:"omitempty,min=1,max=20"`
	ClassName *string              `json:"class_name" binding:"omitempty,min=1,max=50"`
	Phone     *string              `json:"phone"      binding:"omitempty,mobile"`
	Parent    *UpdateParentRequest `json:"parent"`
}

// StudentProgressResponse 学生学习进度汇总
type StudentProgressResponse struct {
	StudentID        uint     `json:"student_id"`
	TotalRecords     int64    `json:"total_records"`
	CompletedRecords int64    `json:"completed_records"`
	AverageProgress  float64  `json:"average_progress"`
	AverageScore     *float64 `json:"average_score"`
	TotalDuration    int64    `json:"total_duration"` // 秒
	ActiveCourses    int64    `json:"active_courses"`
}
