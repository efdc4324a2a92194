package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// HeaderRequestID 请求ID头
	HeaderRequestID = "X-Request-ID"
	// ContextRequestIDKey 请求ID在 gin.Context 中的键
	ContextRequestIDKey = "request_id"
)

// RequestID 为每个请求分配ID，客户端已提供合法 UUID 时沿用
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}

		c.Set(ContextRequestIDKey, requestID)
		c.Header(HeaderRequestID, requestID)
		c.Next()
	}
}
