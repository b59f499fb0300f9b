package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AbnormalDerp/TMM-Dashboard/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetTokenMeta 从 Gin 上下文中安全提取当前 token 的 jti 与过期时间，
// 用于登出时写入黑名单。
func MustGetTokenMeta(c *gin.Context) (string, time.Time, bool) {
	jti, exists := c.Get("token_jti")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", time.Time{}, false
	}
	jtiStr, ok := jti.(string)
	if !ok || jtiStr == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", time.Time{}, false
	}
	exp, exists := c.Get("token_exp")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", time.Time{}, false
	}
	expTime, ok := exp.(time.Time)
	if !ok {
		response.Unauthorized(c, 10002, "未认证")
		return "", time.Time{}, false
	}
	return jtiStr, expTime, true
}
