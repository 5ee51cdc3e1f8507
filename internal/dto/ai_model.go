package dto

// ── 模型管理 DTO ──

// ModelListRequest 模型列表查询参数
type ModelListRequest struct {
	PaginationRequest
	Type   string `form:"type"   binding:"omitempty,oneof=student teacher"`
	Status string `form:"status" binding:"omitempty,oneof=idle training deployed failed"`
}

// HyperparametersRequest 训练超参数
type HyperparametersRequest struct {
	LearningRate float64 `json:"learning_rate" binding:"omitempty,gt=0,lte=1"`
	Epochs       int     `json:"epochs"        binding:"omitempty,min=1,max=10000"`
	BatchSize    int     `json:"batch_size"    binding:"omitempty,min=1,max=65536"`
}

// CreateModelRequest 创建模型请求
type CreateModelRequest struct {
	Name            string                 `json:"name"            binding:"required,max=100"`
	Type            string                 `json:"type"            binding:"required,oneof=student teacher"`
	Hyperparameters HyperparametersRequest `json:"hyperparameters"`
}

// UpdateModelRequest 更新模型请求
// 状态只允许手动设为 deployed / idle，training 与 failed 由训练流程写入
type UpdateModelRequest struct {
	Name            *string                 `json:"name"            binding:"omitempty,min=1,max=100"`
	Status          *string                 `json:"status"          binding:"omitempty,oneof=deployed idle"`
	Accuracy        *float64                `json:"accuracy"        binding:"omitempty,min=0,max=1"`
	Hyperparameters *HyperparametersRequest `json:"hyperparameters"`
}
