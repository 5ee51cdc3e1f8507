package dto

import "time"

// ── 认证模块 DTO ──

// LoginRequest 登录请求
type LoginRequest struct {
	Phone    string `json:"phone"    binding:"required,mobile"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest 自助注册请求，角色仅可选 student / teacher
type RegisterRequest struct {
	Phone    string  `json:"phone"     binding:"required,mobile"`
	Password string  `json:"password"  binding:"required,min=6,max=32"`
	Username *string `json:"username"  binding:"omitempty,min=2,max=50"`
	Email    *string `json:"email"     binding:"omitempty,email,max=120"`
	FullName *string `json:"full_name" binding:"omitempty,max=50"`
	Role     string  `json:"role"      binding:"omitempty,oneof=student teacher"`
}

// ── 认证模块响应 ──

// LoginResponse 登录响应
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresIn   int          `json:"expires_in"` // Access Token 有效期（秒）
	User        UserResponse `json:"user"`
}

// RegisterResponse 注册成功响应
type RegisterResponse struct {
	UserID uint `json:"user_id"`
}

// StatusResponse 服务状态
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Version string `json:"version"`
}

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID          uint       `json:"id"`
	Phone       string     `json:"phone"`
	Email       *string    `json:"email"`
	Username    *string    `json:"username"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	FullName    *string    `json:"full_name"`
	Avatar      *string    `json:"avatar"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
}
