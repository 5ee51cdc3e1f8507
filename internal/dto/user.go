package dto

// ── 用户模块 DTO ──

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	PaginationRequest
	Role     string `form:"role"      binding:"omitempty,oneof=admin teacher student"`
	Keyword  string `form:"keyword"   binding:"omitempty,max=50"`
	IsActive *bool  `form:"is_active"`
}

// CreateUserRequest 管理员创建用户
type CreateUserRequest struct {
	Phone    string  `json:"phone"     binding:"required,mobile"`
	Password string  `json:"password"  binding:"required,min=6,max=32"`
	Username *string `json:"username"  binding:"omitempty,min=2,max=50"`
	Email    *string `json:"email"     binding:"omitempty,email,max=120"`
	FullName *string `json:"full_name" binding:"omitempty,max=50"`
	Role     string  `json:"role"      binding:"required,oneof=admin teacher student"`
	IsActive *bool   `json:"is_active"`
}

// UpdateUserRequest 更新用户信息请求，nil 字段保持不变
type UpdateUserRequest struct {
	Phone    *string `json:"phone"     binding:"omitempty,mobile"`
	Username *string `json:"username"  binding:"omitempty,min=2,max=50"`
	Email    *string `json:"email"     binding:"omitempty,email,max=120"`
	FullName *string `json:"full_name" binding:"omitempty,max=50"`
	Avatar   *string `json:"avatar"    binding:"omitempty,max=255"`
	Role     *string `json:"role"      binding:"omitempty,oneof=admin teacher student"`
	IsActive *bool   `json:"is_active"`
	Password *string `json:"password"  binding:"omitempty,min=6,max=32"`
}
