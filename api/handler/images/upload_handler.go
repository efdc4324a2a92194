package images

import (
	"errors"
	"mime/multipart"
	"net/http"
	"sort"

	"github.com/anoixa/imgdrop/api/common"
	"github.com/anoixa/imgdrop/api/middleware"
	imageSvc "github.com/anoixa/imgdrop/internal/services/image"
	"github.com/anoixa/imgdrop/utils"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// UploadImage 上传单张图片
// @Summary      Upload image
// @Description  Store one multipart file and return its id and public URL
// @Tags         images
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Image file, the part's Content-Type decides the extension"
// @Success      200   {object}  image.UploadReceipt  "Image stored"
// @Failure      400   {object}  common.Response      "Missing file or unsupported MIME type"
// @Failure      401   {object}  common.Response      "Unauthorized"
// @Failure      413   {object}  common.Response      "File too large"
// @Failure      500   {object}  common.Response      "Storage failure"
// @Security     SharedSecret
// @Router       /upload [post]
func (h *Handler) UploadImage(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			common.RespondError(c, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		common.RespondError(c, http.StatusBadRequest, "Invalid form data")
		return
	}

	fileHeader := pickFile(form)
	if fileHeader == nil {
		common.RespondError(c, http.StatusBadRequest, "A file is required")
		return
	}

	receipt, err := h.uploadService.UploadFile(c.Request.Context(), fileHeader)
	if err != nil {
		h.handleUploadError(c, err)
		return
	}

	c.JSON(http.StatusOK, receipt)
}

// pickFile 优先取 file 字段，否则取字段名排序后的第一个文件
func pickFile(form *multipart.Form) *multipart.FileHeader {
	if files := form.File["file"]; len(files) > 0 {
		return files[0]
	}

	keys := make([]string, 0, len(form.File))
	for key := range form.File {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if files := form.File[key]; len(files) > 0 {
			return files[0]
		}
	}
	return nil
}

// handleUploadError 客户端错误返回 400，其余一律 500 且不暴露细节
func (h *Handler) handleUploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, imageSvc.ErrMissingMIMEType):
		common.RespondError(c, http.StatusBadRequest, "File has no declared MIME type")
	case errors.Is(err, imageSvc.ErrUnsupportedMIMEType):
		common.RespondError(c, http.StatusBadRequest, "Unsupported MIME type")
	case utils.IsClientDisconnect(err):
		log.WithField("request_id", c.GetString(middleware.ContextRequestIDKey)).Info("[UploadImage] Client disconnected during upload")
		common.RespondError(c, http.StatusInternalServerError, "Failed to store image")
	default:
		log.WithFields(log.Fields{
			"request_id": c.GetString(middleware.ContextRequestIDKey),
			"error":      err,
		}).Error("[UploadImage] Upload failed")
		common.RespondError(c, http.StatusInternalServerError, "Failed to store image")
	}
}
