package models

import "database/sql"

// Image 图片记录，创建后不可变
type Image struct {
	// ID 10 位字母标识符，同时作为公开访问路径
	ID        string         `gorm:"column:id;primaryKey;type:text"`
	ImageData []byte         `gorm:"column:image_data;not null"`
	MimeType  sql.NullString `gorm:"column:mimetype;type:text"`
}

// TableName 固定表名
func (Image) TableName() string {
	return "images"
}

// ContentType 返回存储的 MIME 类型，缺失时回退为 image/png
func (i *Image) ContentType() string {
	if i.MimeType.Valid && i.MimeType.String != "" {
		return i.MimeType.String
	}
	return "image/png"
}
