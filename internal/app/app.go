package app

import (
	"errors"
	"fmt"

	"github.com/anoixa/imgdrop/api/core"
	handlerImages "github.com/anoixa/imgdrop/api/handler/images"
	"github.com/anoixa/imgdrop/config"
	"github.com/anoixa/imgdrop/database"
	"github.com/anoixa/imgdrop/database/repo/images"
	imageSvc "github.com/anoixa/imgdrop/internal/services/image"
	"github.com/anoixa/imgdrop/storage"
	"github.com/anoixa/imgdrop/utils"
)

// Container 依赖注入容器 - 管理所有服务的生命周期
type Container struct {
	config          *config.Config
	databaseFactory *database.Factory
	staging         *storage.LocalStorage

	ImagesRepo   *images.Repository
	UploadSvc    *imageSvc.UploadService
	QuerySvc     *imageSvc.QueryService
	ImageHandler *handlerImages.Handler
}

// NewContainer 创建新的依赖注入容器
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config: cfg,
	}
}

// Init 依次初始化数据库、暂存区和服务
func (c *Container) Init() error {
	if err := c.InitDatabase(); err != nil {
		return err
	}
	if err := c.InitStaging(); err != nil {
		return err
	}
	c.InitServices()
	return nil
}

func (c *Container) InitDatabase() error {
	utils.LogIfDev("Initializing DI container...")

	factory, err := database.NewFactory(c.config)
	if err != nil {
		return fmt.Errorf("failed to initialize database factory: %w", err)
	}
	c.databaseFactory = factory
	c.ImagesRepo = images.NewRepository(factory.GetProvider())

	utils.LogIfDev("Database factory initialized")
	return nil
}

// InitStaging 初始化上传暂存目录
func (c *Container) InitStaging() error {
	staging, err := storage.NewLocalStorage(c.config.StagingDir)
	if err != nil {
		return fmt.Errorf("failed to initialize staging area: %w", err)
	}
	c.staging = staging
	utils.LogIfDevf("Staging area initialized at %s", staging.BasePath())
	return nil
}

// InitServices 需要在 InitDatabase 和 InitStaging 之后调用
func (c *Container) InitServices() {
	c.UploadSvc = imageSvc.NewUploadService(c.ImagesRepo, c.staging, c.config.BaseURL(), nil)
	c.QuerySvc = imageSvc.NewQueryService(c.ImagesRepo)
	c.ImageHandler = handlerImages.NewHandler(c.UploadSvc, c.QuerySvc)
	utils.LogIfDev("Services initialized")
}

// ServerDependencies 构建 HTTP 服务依赖
func (c *Container) ServerDependencies() *core.ServerDependencies {
	return &core.ServerDependencies{
		Config:       c.config,
		Database:     c.GetDatabaseProvider(),
		Staging:      c.staging,
		ImageHandler: c.ImageHandler,
	}
}

// GetDatabaseFactory 获取数据库工厂
func (c *Container) GetDatabaseFactory() *database.Factory {
	return c.databaseFactory
}

// GetDatabaseProvider 获取数据库提供者
func (c *Container) GetDatabaseProvider() database.Provider {
	if c.databaseFactory == nil {
		return nil
	}
	return c.databaseFactory.GetProvider()
}

// GetStaging 获取暂存区
func (c *Container) GetStaging() *storage.LocalStorage {
	return c.staging
}

// GetConfig 获取配置
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// Close 关闭所有服务
func (c *Container) Close() error {
	utils.LogIfDev("Closing DI container...")

	var errs []error
	if c.databaseFactory != nil {
		if err := c.databaseFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}

	utils.LogIfDev("DI container closed")
	return errors.Join(errs...)
}
