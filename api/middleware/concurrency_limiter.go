package middleware

import (
	"net/http"

	"github.com/anoixa/imgdrop/api/common"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

// ConcurrencyLimiter 限制同时处理的请求数，上传会把整个文件读入内存
type ConcurrencyLimiter struct {
	sem *semaphore.Weighted
	max int64
}

// NewConcurrencyLimiter 并发限制器，maxConcurrency <= 0 表示不限制
func NewConcurrencyLimiter(maxConcurrency int64) *ConcurrencyLimiter {
	cl := &ConcurrencyLimiter{max: maxConcurrency}
	if maxConcurrency > 0 {
		cl.sem = semaphore.NewWeighted(maxConcurrency)
	}
	return cl
}

// Middleware 返回 Gin 中间件，满载时立即返回 503
func (cl *ConcurrencyLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if cl.sem == nil {
			c.Next()
			return
		}

		if !cl.sem.TryAcquire(1) {
			log.WithField("limit", cl.max).Warn("[ConcurrencyLimiter] Rejecting request, server is busy")
			common.RespondErrorAbort(c, http.StatusServiceUnavailable, "Server is busy, please try again later")
			return
		}
		defer cl.sem.Release(1)

		c.Next()
	}
}
