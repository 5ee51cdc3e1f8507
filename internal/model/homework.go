package model

import (
	"time"

	"gorm.io/datatypes"
)

// 作业状态
const (
	HomeworkSubmitted = "submitted"
	HomeworkGraded    = "graded"
)

// Homework 学生提交的作业（表 homework）
type Homework struct {
	ID         uint           `gorm:"primaryKey"                                json:"id"`
	StudentID  uint           `gorm:"not null;index"                            json:"student_id"`
	Subject    string         `gorm:"type:varchar(50);not null"                 json:"subject"`
	Content    string         `gorm:"type:text"                                 json:"content"`
	FileURL    string         `gorm:"column:file_url;type:varchar(1024);not null" json:"file_url"`
	StorageKey *string        `gorm:"type:varchar(512)"                         json:"-"`
	Status     string         `gorm:"type:varchar(20);not null;default:submitted" json:"status"`
	Score      *float64       `json:"score"`
	Feedback   *string        `gorm:"type:text"                                 json:"feedback"`
	Analysis   datatypes.JSON `json:"analysis"`
	GraderID   *uint          `json:"grader_id"`
	GradedAt   *time.Time     `json:"graded_at"`
	BaseModel
}

// TableName 指定表名
func (Homework) TableName() string { return "homework" }
