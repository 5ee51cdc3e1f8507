package dto

// ── 作业模块 DTO ──

// HomeworkListRequest 作业列表查询参数
type HomeworkListRequest struct {
	PaginationRequest
	StudentID uint   `form:"student_id" binding:"omitempty,min=1"`
	Subject   string `form:"subject"    binding:"omitempty,max=50"`
	Status    string `form:"status"     binding:"omitempty,oneof=submitted graded"`
}

// SubmitHomeworkRequest 提交作业的表单字段（文件另取）
type SubmitHomeworkRequest struct {
	Subject string `form:"subject" binding:"required,max=50"`
	Content string `form:"content" binding:"omitempty,max=5000"`
}

// GradeHomeworkRequest 批改作业
type GradeHomeworkRequest struct {
	Score    *float64 `json:"score"    binding:"required,min=0,max=100"`
	Feedback *string  `json:"feedback" binding:"omitempty,max=2000"`
}
