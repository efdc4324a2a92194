package core

import (
	"context"
	"net/http"
	"time"

	"github.com/anoixa/imgdrop/config"
	"github.com/anoixa/imgdrop/database"
	"github.com/anoixa/imgdrop/storage"
	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

var startTime = time.Now()

// HealthHandler 健康检查
type HealthHandler struct {
	db      database.Provider
	staging storage.Provider
}

func NewHealthHandler(db database.Provider, staging storage.Provider) *HealthHandler {
	return &HealthHandler{db: db, staging: staging}
}

// Handle 任一检查失败返回 503
func (h *HealthHandler) Handle(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	checks := gin.H{
		"database": checkDatabaseHealth(ctx, h.db),
		"staging":  checkStagingHealth(ctx, h.staging),
	}

	status := "ok"
	httpStatus := http.StatusOK
	for _, result := range checks {
		if result != "ok" {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
			break
		}
	}

	c.JSON(httpStatus, gin.H{
		"status":  status,
		"uptime":  time.Since(startTime).Round(time.Second).String(),
		"version": config.Version,
		"checks":  checks,
	})
}

func checkDatabaseHealth(ctx context.Context, provider database.Provider) string {
	if provider == nil {
		return "not initialized"
	}
	if err := provider.Ping(ctx); err != nil {
		return "unavailable: " + err.Error()
	}
	return "ok"
}

func checkStagingHealth(ctx context.Context, provider storage.Provider) string {
	if provider == nil {
		return "not initialized"
	}
	if err := provider.Health(ctx); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}
