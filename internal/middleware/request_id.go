package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nsxzhou1114/posttag-api/internal/logger"
)

// RequestIDHeader 请求ID头
const RequestIDHeader = "X-Request-ID"

// RequestID 为每个请求分配ID，客户端传入的ID原样沿用
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.NewString()
		}

		c.Set(logger.RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}
