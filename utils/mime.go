package utils

import (
	"strings"
)

// mimeToExtMap 允许上传的MIME类型到扩展名（不带点）的映射
// 图片会以存储的 Content-Type 原样返回，可执行脚本的类型（SVG、HTML 等）不在此列
var mimeToExtMap = map[string]string{
	"image/png":                "png",
	"image/apng":               "apng",
	"image/jpeg":               "jpg",
	"image/pjpeg":              "jpg",
	"image/gif":                "gif",
	"image/webp":               "webp",
	"image/bmp":                "bmp",
	"image/x-ms-bmp":           "bmp",
	"image/avif":               "avif",
	"image/heic":               "heic",
	"image/heif":               "heif",
	"image/tiff":               "tiff",
	"image/x-icon":             "ico",
	"image/vnd.microsoft.icon": "ico",
	"image/jxl":                "jxl",
}

// NormalizeMIMEType 去除参数并转为小写，例如 "Image/PNG; q=1" -> "image/png"
func NormalizeMIMEType(mimeType string) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}

// ExtensionForMIME 根据MIME类型返回扩展名，未知类型返回 false
func ExtensionForMIME(mimeType string) (string, bool) {
	ext, ok := mimeToExtMap[NormalizeMIMEType(mimeType)]
	return ext, ok
}
