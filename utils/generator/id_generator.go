package generator

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// IDLength 图片标识符长度
	IDLength = 10

	// IDAlphabet 52 个大小写字母，区分大小写，不含数字与符号
	IDAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NewID 生成图片标识符
// 唯一性依赖 52^10 的键空间，不查询存储
func NewID() string {
	return gonanoid.MustGenerate(IDAlphabet, IDLength)
}

// IsValidID 检查字符串是否为合法标识符格式
func IsValidID(id string) bool {
	if len(id) != IDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
