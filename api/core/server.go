package core

import (
	"net/http"
	"time"

	handlerImages "github.com/anoixa/imgdrop/api/handler/images"
	"github.com/anoixa/imgdrop/api/middleware"
	"github.com/anoixa/imgdrop/config"
	"github.com/anoixa/imgdrop/database"
	"github.com/anoixa/imgdrop/storage"
	"github.com/anoixa/imgdrop/utils/format"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// ServerDependencies 服务器依赖项
type ServerDependencies struct {
	Config       *config.Config
	Database     database.Provider
	Staging      storage.Provider
	ImageHandler *handlerImages.Handler
}

// setupRouter 创建 gin 引擎并注册中间件和路由
func setupRouter(deps *ServerDependencies) *gin.Engine {
	cfg := deps.Config
	router := gin.New()

	// 仅在开发版本时启用 gin 日志
	if config.IsDevelopment() {
		router.Use(gin.Logger())
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORSOrigins(),
		AllowMethods:  []string{"GET", "POST", "HEAD", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}))

	_ = router.SetTrustedProxies(nil)

	uploadLimit := format.MegabytesToBytes(cfg.UploadMaxSizeMB)
	router.MaxMultipartMemory = uploadLimit

	// 并发限制，避免内存过载
	concurrencyLimiter := middleware.NewConcurrencyLimiter(cfg.ServerMaxConcurrency)
	router.Use(concurrencyLimiter.Middleware())

	// 请求体大小限制，留出 multipart 边界开销
	if uploadLimit > 0 {
		router.Use(middleware.MaxBytesReader(uploadLimit + 1<<20))
	}

	// 请求ID追踪
	router.Use(middleware.RequestID())

	RegisterRoutes(router, deps)

	return router
}

// StartServer 创建 http.Server
func StartServer(deps *ServerDependencies) *http.Server {
	cfg := deps.Config
	router := setupRouter(deps)

	return &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}
}
