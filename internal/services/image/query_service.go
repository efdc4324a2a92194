package image

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anoixa/imgdrop/database/models"
	"github.com/anoixa/imgdrop/database/repo/images"
	"gorm.io/gorm"
)

// QueryService 图片查询服务，每次请求都直接读数据库
type QueryService struct {
	repo images.RepositoryInterface
}

// NewQueryService 创建查询服务
func NewQueryService(repo images.RepositoryInterface) *QueryService {
	return &QueryService{repo: repo}
}

// IDFromFilename 取第一个 "." 之前的部分作为标识符，扩展名不参与校验
func IDFromFilename(filename string) string {
	id, _, _ := strings.Cut(filename, ".")
	return id
}

// GetByFilename 按请求文件名查询图片
// 返回 ErrImageNotFound 或 ErrLookup，调用方可区分记录日志
func (s *QueryService) GetByFilename(ctx context.Context, filename string) (*models.Image, error) {
	id := IDFromFilename(filename)

	image, err := s.repo.GetImageByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrLookup, err)
	}
	return image, nil
}
