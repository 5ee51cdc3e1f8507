package model

// Teacher 教师档案（表 teachers）
type Teacher struct {
	ID           uint    `gorm:"primaryKey"                            json:"id"`
	TeacherID    string  `gorm:"type:varchar(50);not null;uniqueIndex" json:"teacher_id"`
	Name         string  `gorm:"type:varchar(50);not null"             json:"name"`
	Gender       string  `gorm:"type:char(1);not null"                 json:"gender"`
	Title        string  `gorm:"type:varchar(50);not null"             json:"title"`
	Department   string  `gorm:"type:varchar(100);not null"            json:"department"`
	Phone        string  `gorm:"type:varchar(20);not null"             json:"phone"`
	Email        string  `gorm:"type:varchar(120);not null"            json:"email"`
	Office       *string `gorm:"type:varchar(50)"                      json:"office"`
	ResearchArea *string `gorm:"type:text"                             json:"research_area"`
	BaseModel
}

// TableName 指定表名
func (Teacher) TableName() string { return "teachers" }
