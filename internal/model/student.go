package model

// Parent 学生家长信息，以 parent_ 前缀内嵌在 students 表
type Parent struct {
	Name    string  `gorm:"type:varchar(50);not null"  json:"name"`
	Phone   string  `gorm:"type:varchar(20);not null"  json:"phone"`
	Address *string `gorm:"type:varchar(255)"          json:"address"`
}

// Student 学生档案（表 students）
type Student struct {
	ID        uint   `gorm:"primaryKey"                            json:"id"`
	StudentID string `gorm:"type:varchar(50);not null;uniqueIndex" json:"student_id"`
	Name      string `gorm:"type:varchar(50);not null"             json:"name"`
	Gender    string `gorm:"type:char(1);not null"                 json:"gender"`
	Grade     string `gorm:"type:varchar(20);not null"             json:"grade"`
	ClassName string `gorm:"type:varchar(50);not null"             json:"class_name"`
	Phone     string `gorm:"type:varchar(20);not null"             json:"phone"`
	Parent    Parent `gorm:"embedded;embeddedPrefix:parent_"       json:"parent"`
	BaseModel
}

// TableName 指定表名
func (Student) TableName() string { return "students" }
