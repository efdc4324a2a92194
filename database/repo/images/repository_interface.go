package images

import (
	"context"

	"github.com/anoixa/imgdrop/database/models"
)

// RepositoryInterface 图片仓库接口
type RepositoryInterface interface {
	// CreateImage 插入一条图片记录
	CreateImage(ctx context.Context, image *models.Image) error
	// GetImageByID 通过标识符获取图片，不存在时返回 gorm.ErrRecordNotFound
	GetImageByID(ctx context.Context, id string) (*models.Image, error)
	// ImageExists 检查标识符是否已被占用
	ImageExists(ctx context.Context, id string) (bool, error)
}

// 确保 Repository 实现了 RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)
