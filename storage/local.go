package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// LocalStorage 本地磁盘暂存区
type LocalStorage struct {
	absBasePath string
}

// NewLocalStorage 创建本地暂存区，目录不存在时自动创建并检查可写
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for '%s': %w", basePath, err)
	}

	if err := os.MkdirAll(absPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create staging directory '%s': %w", absPath, err)
	}

	testFile := filepath.Join(absPath, ".write_test_"+strconv.FormatInt(time.Now().UnixNano(), 10))
	f, err := os.Create(testFile)
	if err != nil {
		return nil, fmt.Errorf("staging directory '%s' is not writable: %w", absPath, err)
	}
	_ = f.Close()
	_ = os.Remove(testFile)

	return &LocalStorage{
		absBasePath: absPath + string(os.PathSeparator),
	}, nil
}

// resolve 校验文件名并返回绝对路径
func (s *LocalStorage) resolve(name string) (string, error) {
	if !IsValidStagingName(name) {
		return "", fmt.Errorf("invalid staging name: %q", name)
	}

	fullPath := filepath.Join(s.absBasePath, name)
	// 防止目录遍历
	if !strings.HasPrefix(fullPath, s.absBasePath) {
		return "", fmt.Errorf("invalid staging path, potential directory traversal: %s", name)
	}
	return fullPath, nil
}

// SaveWithContext 保存文件到暂存区
func (s *LocalStorage) SaveWithContext(ctx context.Context, name string, file io.Reader) error {
	dstPath, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed to create staging file '%s': %w", dstPath, err)
	}

	if _, err := io.Copy(dst, file); err != nil {
		_ = dst.Close()
		_ = os.Remove(dstPath)
		return fmt.Errorf("failed to copy content to '%s': %w", dstPath, err)
	}

	// 关闭失败意味着数据可能没有完整写入
	if err := dst.Close(); err != nil {
		_ = os.Remove(dstPath)
		return fmt.Errorf("failed to close staging file '%s': %w", dstPath, err)
	}
	return nil
}

// GetWithContext 打开暂存文件
func (s *LocalStorage) GetWithContext(ctx context.Context, name string) (io.ReadCloser, error) {
	fullPath, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("staging file not found: %s", name)
		}
		return nil, fmt.Errorf("failed to open staging file '%s': %w", name, err)
	}
	return file, nil
}

// DeleteWithContext 删除暂存文件
func (s *LocalStorage) DeleteWithContext(ctx context.Context, name string) error {
	fullPath, err := s.resolve(name)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("staging file to delete not found: %s", name)
		}
		return fmt.Errorf("failed to delete staging file '%s': %w", fullPath, err)
	}
	return nil
}

// Health 检查暂存区健康状态
func (s *LocalStorage) Health(ctx context.Context) error {
	_, err := os.ReadDir(s.absBasePath)
	return err
}

// Name 返回存储名称
func (s *LocalStorage) Name() string {
	return "local"
}

// BasePath 返回暂存区的基础路径
func (s *LocalStorage) BasePath() string {
	return s.absBasePath
}

// CleanOlderThan 删除修改时间早于 cutoff 的暂存文件，返回被（或将被）删除的文件名
// dryRun 为 true 时只列出不删除
func (s *LocalStorage) CleanOlderThan(cutoff time.Time, dryRun bool) ([]string, error) {
	entries, err := os.ReadDir(s.absBasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read staging directory: %w", err)
	}

	var removed []string
	var lastErr error
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if !dryRun {
			if err := os.Remove(filepath.Join(s.absBasePath, entry.Name())); err != nil {
				lastErr = fmt.Errorf("failed to remove staging file %s: %w", entry.Name(), err)
				continue
			}
		}
		removed = append(removed, entry.Name())
	}
	return removed, lastErr
}

// IsValidStagingName 暂存文件名只允许单层文件名，形如 {id}.{ext}
func IsValidStagingName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}

	// 不允许绝对路径、子目录与目录遍历
	if filepath.IsAbs(name) || strings.Contains(name, "..") {
		return false
	}

	for _, r := range name {
		if (r < 'a' || r > 'z') &&
			(r < 'A' || r > 'Z') &&
			(r < '0' || r > '9') &&
			r != '-' && r != '_' && r != '.' {
			return false
		}
	}
	return true
}
