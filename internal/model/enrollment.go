package model

import "time"

// 选课状态
const (
	EnrollmentActive    = "active"
	EnrollmentCompleted = "completed"
	EnrollmentDropped   = "dropped"
)

// Enrollment 选课关系（表 enrollments），(student_id, course_id) 联合主键
type Enrollment struct {
	StudentID  uint      `gorm:"primaryKey;autoIncrement:false"      json:"student_id"`
	CourseID   uint      `gorm:"primaryKey;autoIncrement:false"      json:"course_id"`
	EnrolledAt time.Time `gorm:"not null"                            json:"enrolled_at"`
	Status     string    `gorm:"type:varchar(20);not null;default:active" json:"status"`
	BaseModel

	// 关联
	Student *Student `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
	Course  *Course  `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"  json:"course,omitempty"`
}

// TableName 指定表名
func (Enrollment) TableName() string { return "enrollments" }
