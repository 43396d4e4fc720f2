package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// requestIDKey 与logger.RequestIDKey保持一致，pkg不依赖internal
const requestIDKey = "requestID"

// Response 统一响应结构
type Response struct {
	Code      int    `json:"code"`                 // 状态码，成功为0
	Message   string `json:"message"`              // 响应消息
	Data      any    `json:"data"`                 // 响应数据
	RequestID string `json:"request_id,omitempty"` // 请求ID，便于排查日志
}

// Success 返回成功响应
func Success(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Response{
		Code:      0,
		Message:   message,
		Data:      data,
		RequestID: c.GetString(requestIDKey),
	})
}

// Error 错误响应，详细错误挂到gin上下文交给访问日志，不向客户端暴露
func Error(c *gin.Context, code int, message string, err error) {
	if err != nil {
		_ = c.Error(err)
	}

	c.JSON(code, Response{
		Code:      code,
		Message:   message,
		RequestID: c.GetString(requestIDKey),
	})
}

// Abort 返回错误响应并终止后续处理，供中间件使用
func Abort(c *gin.Context, code int, message string, err error) {
	Error(c, code, message, err)
	c.Abort()
}

// BadRequest 400错误响应
func BadRequest(c *gin.Context, message string, err error) {
	Error(c, http.StatusBadRequest, message, err)
}

// Unauthorized 401错误响应
func Unauthorized(c *gin.Context, message string, err error) {
	Abort(c, http.StatusUnauthorized, message, err)
}

// Forbidden 403错误响应
func Forbidden(c *gin.Context, message string, err error) {
	Abort(c, http.StatusForbidden, message, err)
}

// NotFound 404错误响应
func NotFound(c *gin.Context, message string, err error) {
	Error(c, http.StatusNotFound, message, err)
}

// InternalServerError 500错误响应
func InternalServerError(c *gin.Context, message string, err error) {
	Error(c, http.StatusInternalServerError, message, err)
}

// ServiceUnavailable 503错误响应
func ServiceUnavailable(c *gin.Context, message string, err error) {
	Error(c, http.StatusServiceUnavailable, message, err)
}
