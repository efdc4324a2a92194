package images

import (
	imageSvc "github.com/anoixa/imgdrop/internal/services/image"
)

// Handler 图片处理器
type Handler struct {
	uploadService *imageSvc.UploadService
	queryService  *imageSvc.QueryService
}

// NewHandler 图片处理器
func NewHandler(uploadService *imageSvc.UploadService, queryService *imageSvc.QueryService) *Handler {
	return &Handler{
		uploadService: uploadService,
		queryService:  queryService,
	}
}
