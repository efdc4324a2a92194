package images

import (
	"context"
	"fmt"

	"github.com/anoixa/imgdrop/database"
	"github.com/anoixa/imgdrop/database/models"
)

// Repository 图片仓库 - 封装所有图片相关的数据库操作
type Repository struct {
	db database.Provider
}

// NewRepository 创建新的图片仓库
func NewRepository(db database.Provider) *Repository {
	return &Repository{db: db}
}

// CreateImage 插入图片记录，单行插入由数据库保证原子性
func (r *Repository) CreateImage(ctx context.Context, image *models.Image) error {
	if err := r.db.WithContext(ctx).Create(image).Error; err != nil {
		return fmt.Errorf("failed to create image %s: %w", image.ID, err)
	}
	return nil
}

// GetImageByID 通过标识符获取图片
func (r *Repository) GetImageByID(ctx context.Context, id string) (*models.Image, error) {
	var image models.Image
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&image).Error
	if err != nil {
		return nil, err
	}
	return &image, nil
}

// ImageExists 检查图片是否存在
func (r *Repository) ImageExists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Image{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
