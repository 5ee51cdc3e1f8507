package model

import (
	"time"

	"gorm.io/datatypes"
)

// SystemLog 操作审计日志（表 system_logs）
type SystemLog struct {
	ID         uint           `gorm:"primaryKey"                        json:"id"`
	Level      string         `gorm:"type:varchar(10);not null;default:info" json:"level"`
	Action     string         `gorm:"type:varchar(50);not null"         json:"action"`
	OperatorID *uint          `json:"operator_id"`
	TargetType string         `gorm:"type:varchar(30);not null"         json:"target_type"`
	TargetID   *uint          `json:"target_id"`
	Detail     datatypes.JSON `json:"detail"`
	CreatedAt  time.Time      `gorm:"not null;autoCreateTime"           json:"created_at"`
}

// TableName 指定表名
func (SystemLog) TableName() string { return "system_logs" }
