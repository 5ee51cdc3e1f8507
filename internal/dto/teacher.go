package dto

// ── 教师模块 DTO ──

// TeacherListRequest 教师列表查询参数
type TeacherListRequest struct {
	PaginationRequest
	Department string `form:"department" binding:"omitempty,max=100"`
	Keyword    string `form:"keyword"    binding:"omitempty,max=50"`
}

// CreateTeacherRequest 创建教师请求
type CreateTeacherRequest struct {
	TeacherID    string  `json:"teacher_id"    binding:"required,max=50"`
	Name         string  `json:"name"          binding:"required,max=50"`
	Gender       string  `json:"gender"        binding:"required,gender"`
	Title        string  `json:"title"         binding:"required,max=50"`
	Department   string  `json:"department"    binding:"required,max=100"`
	Phone        string  `json:"phone"         binding:"required,mobile"`
	Email        string  `json:"email"         binding:"required,email,max=120"`
	Office       *string `json:"office"        binding:"omitempty,max=50"`
	ResearchArea *string `json:"research_area"`
}

// UpdateTeacherRequest 更新教师请求
type UpdateTeacherRequest struct {
	TeacherID    *string `json:"teacher_id"    binding:"omitempty,min=1,max=50"`
	Name         *string `json:"name"          binding:"omitempty,min=1,max=50"`
	Gender       *string `json:"gender"        binding:"omitempty,gender"`
	Title        *string `json:"title"         binding:"omitempty,min=1,max=50"`
	Department   *string `json:"department"    binding:"omitempty,min=1,max=100"`
	Phone        *string `json:"phone"         binding:"omitempty,mobile"`
	Email        *string `json:"email"         binding:"omitempty,email,max=120"`
	Office       *string `json:"office"        binding:"omitempty,max=50"`
	ResearchArea *string `json:"research_area"`
}
