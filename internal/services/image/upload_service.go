package image

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/anoixa/imgdrop/database/models"
	"github.com/anoixa/imgdrop/database/repo/images"
	"github.com/anoixa/imgdrop/storage"
	"github.com/anoixa/imgdrop/utils"
	"github.com/anoixa/imgdrop/utils/format"
	"github.com/anoixa/imgdrop/utils/generator"
	log "github.com/sirupsen/logrus"
)

// maxIDAttempts 标识符冲突时的最大生成次数
const maxIDAttempts = 5

// UploadReceipt 上传结果，序列化后即为响应体
type UploadReceipt struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Extension string `json:"-"`
}

// UploadService 图片上传服务
type UploadService struct {
	repo    images.RepositoryInterface
	staging storage.Provider
	baseURL string
	newID   func() string
}

// NewUploadService 创建上传服务，newID 为 nil 时使用默认生成器
func NewUploadService(repo images.RepositoryInterface, staging storage.Provider, baseURL string, newID func() string) *UploadService {
	if newID == nil {
		newID = generator.NewID
	}
	return &UploadService{
		repo:    repo,
		staging: staging,
		baseURL: strings.TrimRight(baseURL, "/"),
		newID:   newID,
	}
}

// UploadFile 处理 multipart 文件
func (s *UploadService) UploadFile(ctx context.Context, fileHeader *multipart.FileHeader) (*UploadReceipt, error) {
	mimeType := fileHeader.Header.Get("Content-Type")
	if strings.TrimSpace(mimeType) == "" {
		return nil, ErrMissingMIMEType
	}
	if _, ok := utils.ExtensionForMIME(mimeType); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMIMEType, mimeType)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open uploaded file: %w", ErrStaging, err)
	}
	defer func() { _ = src.Close() }()

	return s.Upload(ctx, mimeType, src)
}

// Upload 暂存 -> 读回 -> 入库；暂存文件在任何退出路径上都会被尝试删除
func (s *UploadService) Upload(ctx context.Context, mimeType string, src io.Reader) (*UploadReceipt, error) {
	if strings.TrimSpace(mimeType) == "" {
		return nil, ErrMissingMIMEType
	}
	ext, ok := utils.ExtensionForMIME(mimeType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMIMEType, mimeType)
	}

	id, err := s.allocateID(ctx)
	if err != nil {
		return nil, err
	}

	name := id + "." + ext
	logger := log.WithFields(log.Fields{"id": id, "staging": name})

	if err := s.staging.SaveWithContext(ctx, name, src); err != nil {
		logger.WithError(err).Error("[Upload] Failed to write staging file")
		return nil, fmt.Errorf("%w: %w", ErrStaging, err)
	}
	defer s.removeStaged(name, logger)

	data, err := s.readStaged(ctx, name)
	if err != nil {
		logger.WithError(err).Error("[Upload] Failed to read staging file")
		return nil, fmt.Errorf("%w: %w", ErrStaging, err)
	}

	image := &models.Image{
		ID:        id,
		ImageData: data,
		MimeType:  sql.NullString{String: mimeType, Valid: true},
	}
	if err := s.repo.CreateImage(ctx, image); err != nil {
		logger.WithError(err).Error("[Upload] Failed to insert image")
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	logger.WithFields(log.Fields{"size": format.HumanReadableSize(int64(len(data))), "mimetype": utils.SanitizeLogMessage(mimeType)}).Info("[Upload] Image stored")

	return &UploadReceipt{
		ID:        id,
		URL:       utils.BuildImageURL(s.baseURL, id, ext),
		Extension: ext,
	}, nil
}

// allocateID 生成未被占用的标识符
func (s *UploadService) allocateID(ctx context.Context) (string, error) {
	for attempt := 1; attempt <= maxIDAttempts; attempt++ {
		id := s.newID()
		exists, err := s.repo.ImageExists(ctx, id)
		if err != nil {
			log.WithError(err).Error("[Upload] Failed to check id availability")
			return "", fmt.Errorf("%w: %w", ErrStorage, err)
		}
		if !exists {
			return id, nil
		}
		log.WithFields(log.Fields{"id": id, "attempt": attempt}).Warn("[Upload] Generated id already taken, regenerating")
	}
	return "", fmt.Errorf("%w: no free id after %d attempts", ErrStorage, maxIDAttempts)
}

// readStaged 将暂存文件完整读入内存
func (s *UploadService) readStaged(ctx context.Context, name string) ([]byte, error) {
	rc, err := s.staging.GetWithContext(ctx, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(rc)
}

// removeStaged 尽力删除暂存文件，失败只记录日志
func (s *UploadService) removeStaged(name string, logger *log.Entry) {
	if err := s.staging.DeleteWithContext(context.Background(), name); err != nil {
		logger.WithError(err).Warn("[Upload] Failed to remove staging file")
	}
}
