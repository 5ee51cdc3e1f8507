package model

import (
	"time"

	"gorm.io/datatypes"
)

// 资源类型
const (
	ResourceVideo    = "video"
	ResourceDocument = "document"
)

// 审核状态
const (
	ResourcePending  = "pending"
	ResourceApproved = "approved"
	ResourceRejected = "rejected"
)

// Resource 教学资源（表 resources）
type Resource struct {
	ID            uint           `gorm:"primaryKey"                                  json:"id"`
	Name          string         `gorm:"type:varchar(255);not null"                  json:"name"`
	Type          string         `gorm:"type:varchar(20);not null"                   json:"type"`
	Status        string         `gorm:"type:varchar(20);not null;default:pending;index" json:"status"`
	URL           string         `gorm:"column:url;type:varchar(1024);not null"      json:"url"`
	StorageKey    *string        `gorm:"type:varchar(512)"                           json:"-"`
	FileSize      int64          `gorm:"not null;default:0"                          json:"file_size"`
	MimeType      *string        `gorm:"type:varchar(128)"                           json:"mime_type"`
	Metadata      datatypes.JSON `json:"metadata"`
	UploaderID    *uint          `json:"uploader_id"`
	ReviewerID    *uint          `json:"reviewer_id"`
	ReviewTime    *time.Time     `json:"review_time"`
	ReviewComment *string        `gorm:"type:varchar(512)"                           json:"review_comment"`
	ViewCount     int            `gorm:"not null;default:0"                          json:"view_count"`
	DownloadCount int            `gorm:"not null;default:0"                          json:"download_count"`
	BaseModel
}

// TableName 指定表名
func (Resource) TableName() string { return "resources" }
