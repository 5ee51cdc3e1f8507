package model

import (
	"fmt"
	"time"
)

// ContentType 学习内容类型，取值封闭
type ContentType string

const (
	ContentVideo    ContentType = "video"
	ContentQuiz     ContentType = "quiz"
	ContentReading  ContentType = "reading"
	ContentExercise ContentType = "exercise"
)

// ParseContentType 校验并转换学习内容类型
func ParseContentType(s string) (ContentType, error) {
	switch ct := ContentType(s); ct {
	case ContentVideo, ContentQuiz, ContentReading, ContentExercise:
		return ct, nil
	}
	return "", fmt.Errorf("未知的学习内容类型: %q", s)
}

// LearningRecord 学习记录（表 learning_records）
type LearningRecord struct {
	ID          uint        `gorm:"primaryKey"                  json:"id"`
	StudentID   uint        `gorm:"not null;index"              json:"student_id"`
	CourseID    uint        `gorm:"not null;index"              json:"course_id"`
	ContentType ContentType `gorm:"type:varchar(20);not null"   json:"content_type"`
	ContentID   string      `gorm:"type:varchar(64);not null"   json:"content_id"`
	StartTime   time.Time   `gorm:"not null"                    json:"start_time"`
	EndTime     *time.Time  `json:"end_time"`
	Duration    int         `gorm:"not null;default:0"          json:"duration"` // 秒
	Progress    float64     `gorm:"type:decimal(5,2);not null;default:0" json:"progress"`
	Score       *float64    `gorm:"type:decimal(6,2)"           json:"score"`
	BaseModel

	// 关联
	Course *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

// TableName 指定表名
func (LearningRecord) TableName() string { return "learning_records" }
