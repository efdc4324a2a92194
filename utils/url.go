package utils

import "strings"

// BuildImageURL 拼接图片公开地址 {baseURL}/{id}.{ext}
func BuildImageURL(baseURL, id, ext string) string {
	url := strings.TrimRight(baseURL, "/") + "/" + id
	if ext != "" {
		url += "." + ext
	}
	return url
}
