package model

// Course 课程（表 courses）
type Course struct {
	ID          uint    `gorm:"primaryKey"                            json:"id"`
	Name        string  `gorm:"type:varchar(100);not null"            json:"name"`
	Code        string  `gorm:"type:varchar(20);not null;uniqueIndex" json:"code"`
	Description *string `gorm:"type:text"                             json:"description"`
	TeacherID   *uint   `json:"teacher_id"`
	BaseModel

	// 关联
	Teacher *Teacher `gorm:"foreignKey:TeacherID;constraint:OnDelete:SET NULL" json:"teacher,omitempty"`
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }
