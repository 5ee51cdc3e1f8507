package dto

// SystemLogListRequest 审计日志查询参数
type SystemLogListRequest struct {
	PaginationRequest
	Action string `form:"action" binding:"omitempty,max=50"`
	Level  string `form:"level"  binding:"omitempty,oneof=info warn error"`
}
