package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"eduinsight/backend/internal/api/middleware"
	"eduinsight/backend/internal/service"
	"eduinsight/backend/pkg/response"
	"eduinsight/backend/pkg/validator"
)

// MustGetSession 从 Gin 上下文中安全提取认证会话。
// JWT 中间件未注入会话时写入 401 响应并返回 false，调用方应直接 return。
func MustGetSession(c *gin.Context) (*service.Session, bool) {
	v, exists := c.Get(middleware.SessionKey)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	s, ok := v.(*service.Session)
	if !ok || s == nil || s.UserID == 0 {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	return s, true
}

// parseIDParam 解析路径中的正整数 ID，失败时写入 400 响应
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, 10001, "无效的 ID")
		return 0, false
	}
	return uint(id), true
}

// bindFailed 参数绑定失败，带上字段级的中文说明
func bindFailed(c *gin.Context, err error) {
	response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", validator.Describe(err))
}
