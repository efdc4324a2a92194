package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MaxBytesReader 限制请求体大小，超出后读取会返回错误
func MaxBytesReader(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
