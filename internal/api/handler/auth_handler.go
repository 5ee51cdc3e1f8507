package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"eduinsight/backend/internal/dto"
	"eduinsight/backend/internal/service"
	"eduinsight/backend/pkg/response"
)

// Version 服务版本号，构建时可通过 -ldflags 覆盖
var Version = "1.0.0"

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Status 服务状态
// GET /api/v1/auth/status
func (h *AuthHandler) Status(c *gin.Context) {
	response.OK(c, dto.StatusResponse{
		Status:  "ok",
		Message: "EduInsight API 运行正常",
		Version: Version,
	})
}

// Ping 连通性检查
// GET /api/v1/auth/ping
func (h *AuthHandler) Ping(c *gin.Context) {
	response.OK(c, gin.H{"message": "pong"})
}

// Register 自助注册
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.Created(c, result)
}

// Login 用户登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// Logout 注销当前 Token
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	session, ok := MustGetSession(c)
	if !ok {
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), session); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// Me 当前登录用户
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	session, ok := MustGetSession(c)
	if !ok {
		return
	}

	user, err := h.authSvc.Me(c.Request.Context(), session.UserID)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, user)
}

func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, 11001, "手机号或密码错误")
	case errors.Is(err, service.ErrAccountDisabled):
		response.Forbidden(c, 11002, "账号已停用")
	case errors.Is(err, service.ErrRoleNotAllowed):
		response.BadRequest(c, 11003, "不允许注册该角色")
	case errors.Is(err, service.ErrPhoneExists):
		response.Conflict(c, 11004, "手机号已被注册")
	case errors.Is(err, service.ErrEmailExists):
		response.Conflict(c, 11005, "邮箱已被使用")
	case errors.Is(err, service.ErrUsernameExists):
		response.Conflict(c, 11006, "用户名已被使用")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11007, "用户不存在")
	default:
		response.InternalError(c)
	}
}
