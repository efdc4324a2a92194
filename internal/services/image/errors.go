package image

import "errors"

var (
	// ErrMissingMIMEType 上传文件未声明 Content-Type
	ErrMissingMIMEType = errors.New("missing mime type")
	// ErrUnsupportedMIMEType MIME 类型没有对应扩展名
	ErrUnsupportedMIMEType = errors.New("unsupported mime type")
	// ErrStaging 暂存文件写入或读取失败
	ErrStaging = errors.New("staging failure")
	// ErrStorage 数据库写入失败
	ErrStorage = errors.New("storage failure")
	// ErrImageNotFound 图片不存在
	ErrImageNotFound = errors.New("image not found")
	// ErrLookup 查询失败（对外同样表现为 404）
	ErrLookup = errors.New("image lookup failed")
)
