package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/anoixa/imgdrop/config"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormProvider GORM 数据库提供者实现
type GormProvider struct {
	db     *gorm.DB
	dbType string
}

// NewGormProvider 按配置打开数据库并设置连接池
func NewGormProvider(cfg *config.Config) (*GormProvider, error) {
	gormConfig := &gorm.Config{
		Logger:                 newGormLogger(),
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
	}

	var dialector gorm.Dialector
	dbType := cfg.DBType
	switch dbType {
	case "sqlite", "sqlite3", "":
		dbType = "sqlite"
		if cfg.DBDSN == "" && cfg.DBFilePath != "" {
			if err := os.MkdirAll(filepath.Dir(cfg.DBFilePath), 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dialector = sqlite.Open(cfg.DSN())
	case "postgres", "postgresql":
		dbType = "postgres"
		dialector = postgres.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.DBType)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", dbType, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB instance: %w", err)
	}

	maxOpenConns := cfg.DBMaxOpenConns
	if maxOpenConns <= 0 {
		maxOpenConns = 100
	}
	maxIdleConns := cfg.DBMaxIdleConns
	if maxIdleConns <= 0 {
		maxIdleConns = 10
	}
	connMaxLifetime := cfg.DBConnMaxLifetime
	if connMaxLifetime <= 0 {
		connMaxLifetime = 3600
	}

	sqlDB.SetConnMaxLifetime(time.Duration(connMaxLifetime) * time.Second)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetMaxOpenConns(maxOpenConns)

	log.Printf("Connected to %s database", dbType)

	return &GormProvider{
		db:     db,
		dbType: dbType,
	}, nil
}

// NewGormProviderWithDB 包装已打开的连接，测试中使用
func NewGormProviderWithDB(db *gorm.DB, dbType string) *GormProvider {
	return &GormProvider{db: db, dbType: dbType}
}

// newGormLogger 开发构建输出 SQL，生产构建静默
func newGormLogger() logger.Interface {
	logLevel := logger.Silent
	colorful := false
	if config.IsDevelopment() {
		logLevel = logger.Info
		colorful = true
	}

	return logger.New(
		log.StandardLogger(),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  colorful,
		},
	)
}

// WithContext 返回带上下文的 *gorm.DB
func (p *GormProvider) WithContext(ctx context.Context) *gorm.DB {
	return p.db.WithContext(ctx)
}

// AutoMigrate 自动迁移数据库结构
func (p *GormProvider) AutoMigrate(models ...interface{}) error {
	return p.db.AutoMigrate(models...)
}

// Ping 检查数据库连接
func (p *GormProvider) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close 关闭数据库连接
func (p *GormProvider) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	log.Println("Closing database connection...")
	return sqlDB.Close()
}

// Name 返回数据库名称
func (p *GormProvider) Name() string {
	return p.dbType
}
