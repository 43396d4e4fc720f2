package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/posttag-api/internal/config"
	"github.com/nsxzhou1114/posttag-api/internal/logger"
	"github.com/nsxzhou1114/posttag-api/pkg/auth"
	"github.com/nsxzhou1114/posttag-api/pkg/response"
)

// 上下文中保存的认证信息键
const (
	userIDKey   = "userID"
	userRoleKey = "userRole"
	tokenIDKey  = "tokenID"
	tokenKey    = "token"
)

// bearerToken 从Authorization头中取出令牌
func bearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", errors.New("缺少Authorization头")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if !(len(parts) == 2 && parts[0] == "Bearer") || parts[1] == "" {
		return "", errors.New("Authorization格式错误")
	}
	return parts[1], nil
}

// authenticate 校验令牌并写入上下文，失败时已写出响应
func authenticate(c *gin.Context) bool {
	token, err := bearerToken(c)
	if err != nil {
		response.Unauthorized(c, "请先登录", err)
		return false
	}

	claims, err := auth.ParseToken(c.Request.Context(), token)
	if err != nil {
		logger.Warnf("无效的令牌: %v", err)
		if errors.Is(err, auth.ErrTokenRevoked) {
			response.Unauthorized(c, "令牌已失效", err)
			return false
		}
		response.Unauthorized(c, "无效的令牌", err)
		return false
	}

	// 令牌将在缓冲时间内过期时提示客户端重新获取
	bufferTime := time.Duration(config.GetConfig().JWT.BufferSeconds) * time.Second
	if time.Until(time.Unix(claims.ExpiresAt, 0)) < bufferTime {
		c.Header("X-Token-Expire-Soon", "true")
	}

	c.Set(userIDKey, claims.UserID)
	c.Set(userRoleKey, claims.Role)
	c.Set(tokenIDKey, claims.Id)
	c.Set(tokenKey, token)
	return true
}

// JWTAuth JWT认证中间件
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c) {
			return
		}
		c.Next()
	}
}

// AdminAuth 管理员认证中间件
func AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c) {
			return
		}

		role, _ := GetUserRole(c)
		if role != auth.RoleAdmin {
			logger.Warnf("非管理员访问管理接口: %s %s", c.Request.Method, c.FullPath())
			response.Forbidden(c, "需要管理员权限", nil)
			return
		}

		c.Next()
	}
}

// GetUserID 从上下文中获取用户ID
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}

// GetUserRole 从上下文中获取用户角色
func GetUserRole(c *gin.Context) (string, bool) {
	userRole, exists := c.Get(userRoleKey)
	if !exists {
		return "", false
	}
	role, ok := userRole.(string)
	return role, ok
}

// GetTokenID 从上下文中获取令牌ID
func GetTokenID(c *gin.Context) (string, bool) {
	tokenID, exists := c.Get(tokenIDKey)
	if !exists {
		return "", false
	}
	id, ok := tokenID.(string)
	return id, ok
}

// GetToken 从上下文中获取原始令牌
func GetToken(c *gin.Context) (string, bool) {
	token, exists := c.Get(tokenKey)
	if !exists {
		return "", false
	}
	t, ok := token.(string)
	return t, ok
}
