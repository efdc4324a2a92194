package core

import (
	_ "embed"
	"net/http"
	"os"
	"path/filepath"

	"github.com/anoixa/imgdrop/api/common"
	"github.com/anoixa/imgdrop/api/middleware"
	"github.com/anoixa/imgdrop/config"
	_ "github.com/anoixa/imgdrop/docs"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//go:embed assets/external.svg
var externalSVG []byte

const landingText = "Hello, World!"

// RegisterRoutes 注册所有路由
func RegisterRoutes(router *gin.Engine, deps *ServerDependencies) {
	// 基础路由
	registerBasicRoutes(router, deps)

	// 静态资源
	registerAssetRoutes(router, deps.Config)

	// 图片上传与访问
	registerImageRoutes(router, deps)
}

// registerBasicRoutes 注册基础路由
func registerBasicRoutes(router *gin.Engine, deps *ServerDependencies) {
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, landingText)
	})

	healthHandler := NewHealthHandler(deps.Database, deps.Staging)
	router.GET("/health", healthHandler.Handle)

	router.GET("/version", func(c *gin.Context) {
		common.RespondSuccess(c, gin.H{
			"version": config.Version,
			"commit":  config.CommitHash,
		})
	})

	if deps.Config.ServerEnableDocs {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}

// registerAssetRoutes favicon 从 static_dir 读取，外链图标内嵌在二进制中
func registerAssetRoutes(router *gin.Engine, cfg *config.Config) {
	faviconPath := filepath.Join(cfg.StaticDir, "favicon.ico")
	router.GET("/favicon.ico", func(c *gin.Context) {
		info, err := os.Stat(faviconPath)
		if err != nil || info.IsDir() {
			common.RespondError(c, http.StatusNotFound, "Not found")
			return
		}
		c.File(faviconPath)
	})

	router.GET("/assets/external.svg", func(c *gin.Context) {
		c.Header("Cache-Control", "public, max-age=86400")
		c.Data(http.StatusOK, "image/svg+xml", externalSVG)
	})
}

// registerImageRoutes 上传需要共享密钥，访问公开
func registerImageRoutes(router *gin.Engine, deps *ServerDependencies) {
	router.POST("/upload", middleware.SharedSecretAuth(deps.Config.AuthSecret), deps.ImageHandler.UploadImage) // POST /upload
	router.GET("/:filename", deps.ImageHandler.GetImage)                                                       // GET /{id}.{ext}
}
