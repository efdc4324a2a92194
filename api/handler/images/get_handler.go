package images

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/anoixa/imgdrop/api/common"
	"github.com/anoixa/imgdrop/api/middleware"
	imageSvc "github.com/anoixa/imgdrop/internal/services/image"
	"github.com/anoixa/imgdrop/utils"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// GetImage 获取图片
// @Summary      Get image
// @Description  Stream a stored image. Only the part before the first dot is used as id.
// @Tags         images
// @Produce      octet-stream
// @Param        filename  path  string  true  "{id}.{ext}, extension optional and not checked"
// @Success      200  {file}    binary           "Image bytes with the stored Content-Type"
// @Failure      404  {object}  common.Response  "Image not found"
// @Router       /{filename} [get]
func (h *Handler) GetImage(c *gin.Context) {
	filename := c.Param("filename")

	image, err := h.queryService.GetByFilename(c.Request.Context(), filename)
	if err != nil {
		logger := log.WithFields(log.Fields{
			"request_id": c.GetString(middleware.ContextRequestIDKey),
			"filename":   utils.SanitizeLogMessage(filename),
		})
		if errors.Is(err, imageSvc.ErrImageNotFound) {
			logger.Debug("[GetImage] Image not found")
		} else {
			logger.WithError(err).Error("[GetImage] Image lookup failed")
		}
		common.RespondError(c, http.StatusNotFound, "Image not found")
		return
	}

	c.Header("Content-Length", strconv.Itoa(len(image.ImageData)))
	c.Header("X-Content-Type-Options", "nosniff")
	c.Data(http.StatusOK, image.ContentType(), image.ImageData)
}
