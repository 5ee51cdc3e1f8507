package dto

import "time"

// ── 学习记录模块 DTO ──

// LearningRecordListRequest 学习记录查询参数
type LearningRecordListRequest struct {
	PaginationRequest
	StudentID   *uint  `form:"student_id"   binding:"omitempty,min=1"`
	CourseID    *uint  `form:"course_id"    binding:"omitempty,min=1"`
	ContentType string `form:"content_type" binding:"omitempty,oneof=video quiz reading exercise"`
}

// CreateLearningRecordRequest 创建学习记录请求
// Duration 缺省且有 EndTime 时由起止时间推算
type CreateLearningRecordRequest struct {
	StudentID   uint       `json:"student_id"   binding:"required,min=1"`
	CourseID    uint       `json:"course_id"    binding:"required,min=1"`
	ContentType string     `json:"content_type" binding:"required,oneof=video quiz reading exercise"`
	ContentID   string     `json:"content_id"   binding:"required,max=64"`
	StartTime   time.Time  `json:"start_time"   binding:"required"`
	EndTime     *time.Time `json:"end_time"`
	Duration    *int       `json:"duration"     binding:"omitempty,min=0"`
	Progress    *float64   `json:"progress"     binding:"omitempty,min=0,max=100"`
	Score       *float64   `json:"score"        binding:"omitempty,min=0"`
}
