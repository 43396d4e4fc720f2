package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/posttag-api/internal/logger"
	"github.com/nsxzhou1114/posttag-api/internal/middleware"
	"github.com/nsxzhou1114/posttag-api/pkg/auth"
	"github.com/nsxzhou1114/posttag-api/pkg/response"
	"go.uber.org/zap"
)

// AuthApi 令牌API控制器
type AuthApi struct {
	logger *zap.SugaredLogger
}

// NewAuthApi 创建令牌API控制器
func NewAuthApi() *AuthApi {
	return &AuthApi{logger: logger.GetSugaredLogger()}
}

// Me 获取当前令牌信息
func (api *AuthApi) Me(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)
	tokenID, _ := middleware.GetTokenID(c)

	response.Success(c, "获取成功", gin.H{
		"user_id":  userID,
		"role":     role,
		"token_id": tokenID,
	})
}

// Logout 撤销当前令牌
func (api *AuthApi) Logout(c *gin.Context) {
	token, exists := middleware.GetToken(c)
	if !exists {
		response.Unauthorized(c, "请先登录", nil)
		return
	}

	if err := auth.RevokeToken(c.Request.Context(), token); err != nil {
		api.logger.Errorf("撤销令牌失败: %v", err)
		response.InternalServerError(c, "退出失败", err)
		return
	}

	userID, _ := middleware.GetUserID(c)
	api.logger.Infof("用户 %d 已退出", userID)
	response.Success(c, "退出成功", nil)
}
