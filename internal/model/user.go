package model

import "time"

// User 登录账号（表 users）
type User struct {
	ID           uint       `gorm:"primaryKey"                             json:"id"`
	Phone        string     `gorm:"type:varchar(20);not null;uniqueIndex"  json:"phone"`
	Email        *string    `gorm:"type:varchar(120);uniqueIndex"          json:"email"`
	Username     *string    `gorm:"type:varchar(50);uniqueIndex"           json:"username"`
	PasswordHash string     `gorm:"type:varchar(128);not null"             json:"-"`
	Role         string     `gorm:"type:varchar(20);not null;default:student" json:"role"`
	IsActive     bool       `gorm:"not null;default:true"                  json:"is_active"`
	FullName     *string    `gorm:"type:varchar(50)"                       json:"full_name"`
	Avatar       *string    `gorm:"type:varchar(255)"                      json:"avatar"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }
