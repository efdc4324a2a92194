package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/anoixa/imgdrop/database/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConflictStrategy 目标库已有相同 id 时的处理方式
type ConflictStrategy string

const (
	ConflictSkip      ConflictStrategy = "skip"
	ConflictOverwrite ConflictStrategy = "overwrite"
	ConflictError     ConflictStrategy = "error"
)

// ErrRecordExists 冲突策略为 error 时目标库已存在该记录
var ErrRecordExists = errors.New("record already exists in target database")

// ParseConflictStrategy 解析命令行传入的冲突策略
func ParseConflictStrategy(s string) (ConflictStrategy, error) {
	switch ConflictStrategy(s) {
	case ConflictSkip, ConflictOverwrite, ConflictError:
		return ConflictStrategy(s), nil
	default:
		return "", fmt.Errorf("invalid on-conflict strategy: %s (must be skip, overwrite, or error)", s)
	}
}

// TransferStats 复制统计
type TransferStats struct {
	Total       int64
	Copied      int
	Skipped     int
	Overwritten int
}

// CopyImages 按主键顺序分批把 images 表从 source 复制到 target
func CopyImages(ctx context.Context, source, target *gorm.DB, batchSize int, onConflict ConflictStrategy) (*TransferStats, error) {
	if batchSize <= 0 {
		batchSize = 100
	}

	if err := target.WithContext(ctx).AutoMigrate(&models.Image{}); err != nil {
		return nil, fmt.Errorf("failed to migrate target schema: %w", err)
	}

	stats := &TransferStats{}
	if err := source.WithContext(ctx).Model(&models.Image{}).Count(&stats.Total).Error; err != nil {
		return nil, fmt.Errorf("failed to count source images: %w", err)
	}

	lastID := ""
	for {
		var batch []models.Image
		err := source.WithContext(ctx).
			Where("id > ?", lastID).
			Order("id").
			Limit(batchSize).
			Find(&batch).Error
		if err != nil {
			return stats, fmt.Errorf("failed to read source images after %q: %w", lastID, err)
		}
		if len(batch) == 0 {
			break
		}

		for i := range batch {
			if err := copyOne(ctx, target, &batch[i], onConflict, stats); err != nil {
				return stats, err
			}
		}

		lastID = batch[len(batch)-1].ID
		log.Printf("[CopyImages] %d/%d images processed", stats.Copied+stats.Skipped, stats.Total)
	}

	return stats, nil
}

func copyOne(ctx context.Context, target *gorm.DB, image *models.Image, onConflict ConflictStrategy, stats *TransferStats) error {
	var count int64
	if err := target.WithContext(ctx).Model(&models.Image{}).Where("id = ?", image.ID).Count(&count).Error; err != nil {
		return fmt.Errorf("conflict check failed for image %s: %w", image.ID, err)
	}

	if count == 0 {
		if err := target.WithContext(ctx).Create(image).Error; err != nil {
			return fmt.Errorf("failed to copy image %s: %w", image.ID, err)
		}
		stats.Copied++
		return nil
	}

	switch onConflict {
	case ConflictOverwrite:
		err := target.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"image_data", "mimetype"}),
		}).Create(image).Error
		if err != nil {
			return fmt.Errorf("failed to overwrite image %s: %w", image.ID, err)
		}
		stats.Copied++
		stats.Overwritten++
	case ConflictError:
		return fmt.Errorf("%w: %s", ErrRecordExists, image.ID)
	default:
		stats.Skipped++
	}
	return nil
}
