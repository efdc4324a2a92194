package database

import (
	"context"

	"gorm.io/gorm"
)

// Provider 数据库提供者接口
// 仓库层只依赖此接口，不关心底层是 SQLite 还是 PostgreSQL
type Provider interface {
	// WithContext 返回带上下文的 *gorm.DB
	WithContext(ctx context.Context) *gorm.DB

	// AutoMigrate 自动迁移数据库结构
	AutoMigrate(models ...interface{}) error

	// Ping 检查数据库连接
	Ping(ctx context.Context) error

	// Close 关闭数据库连接
	Close() error

	// Name 返回数据库名称
	Name() string
}
