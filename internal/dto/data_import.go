package dto

import "eduinsight/backend/internal/model"

// ── 数据导入模块 DTO ──

// DataImportListRequest 导入历史查询参数
type DataImportListRequest struct {
	PaginationRequest
	Status string `form:"status" binding:"omitempty,oneof=success failed processing"`
}

// ImportRowError 单行导入错误
type ImportRowError struct {
	Row       int    `json:"row"` // 表格行号，表头为第 1 行
	StudentID string `json:"student_id,omitempty"`
	Reason    string `json:"reason"`
}

// ImportResponse 导入结果
type ImportResponse struct {
	Record *model.DataImport `json:"record"`
	Errors []ImportRowError  `json:"errors,omitempty"`
}
