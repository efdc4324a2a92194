package storage

import (
	"context"
	"io"
)

// Provider 暂存区接口
// 上传过程中文件先落盘到暂存区，读回内存后写入数据库，最后删除
type Provider interface {
	// SaveWithContext 保存文件到暂存区
	SaveWithContext(ctx context.Context, name string, file io.Reader) error

	// GetWithContext 打开暂存文件，调用方负责关闭
	GetWithContext(ctx context.Context, name string) (io.ReadCloser, error)

	// DeleteWithContext 删除暂存文件
	DeleteWithContext(ctx context.Context, name string) error

	// Health 检查暂存区是否可用
	Health(ctx context.Context) error

	// Name 返回存储名称
	Name() string
}
