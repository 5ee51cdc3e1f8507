package model

import (
	"time"

	"gorm.io/datatypes"
)

// 模型类型
const (
	ModelTypeStudent = "student"
	ModelTypeTeacher = "teacher"
)

// 模型状态
const (
	ModelIdle     = "idle"
	ModelTraining = "training"
	ModelDeployed = "deployed"
	ModelFailed   = "failed"
)

// Hyperparameters 训练超参数
type Hyperparameters struct {
	LearningRate float64 `json:"learning_rate"`
	Epochs       int     `json:"epochs"`
	BatchSize    int     `json:"batch_size"`
}

// AIModel 分析模型（表 models）
type AIModel struct {
	ID              uint                                `gorm:"primaryKey"                             json:"id"`
	Name            string                              `gorm:"type:varchar(100);not null"             json:"name"`
	Type            string                              `gorm:"type:varchar(20);not null"              json:"type"`
	Status          string                              `gorm:"type:varchar(20);not null;default:idle" json:"status"`
	Accuracy        *float64                            `gorm:"type:decimal(6,4)"                      json:"accuracy"`
	Hyperparameters datatypes.JSONType[Hyperparameters] `json:"hyperparameters"`
	LastTrainedAt   *time.Time                          `json:"last_trained_at"`
	BaseModel
}

// TableName 指定表名
func (AIModel) TableName() string { return "models" }
