package dto

// ── 资源模块 DTO ──

// ResourceListRequest 资源列表查询参数
type ResourceListRequest struct {
	PaginationRequest
	Type    string `form:"type"    binding:"omitempty,oneof=video document"`
	Status  string `form:"status"  binding:"omitempty,oneof=pending approved rejected"`
	Keyword string `form:"keyword" binding:"omitempty,max=50"`
}

// CreateResourceRequest 以外部 URL 登记资源
type CreateResourceRequest struct {
	Name string `json:"name" binding:"required,max=255"`
	Type string `json:"type" binding:"required,oneof=video document"`
	URL  string `json:"url"  binding:"required,url,max=1024"`
}

// UploadResourceRequest 上传资源的表单字段（文件另取）
type UploadResourceRequest struct {
	Name string `form:"name" binding:"omitempty,max=255"`
	Type string `form:"type" binding:"required,oneof=video document"`
}

// UpdateResourceRequest 更新资源，仅允许修改名称
type UpdateResourceRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// ReviewResourceRequest 审核资源请求
type ReviewResourceRequest struct {
	Status  string  `json:"status"  binding:"required,oneof=approved rejected"`
	Comment *string `json:"comment" binding:"omitempty,max=512"`
}

// DownloadResponse 下载地址
type DownloadResponse struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"` // 秒；外链资源为 0
}
