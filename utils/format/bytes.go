package format

import (
	"strconv"
)

const byteUnit = 1024

var units = []string{"B", "KB", "MB", "GB", "TB", "PB"}

// HumanReadableSize 字节数转为两位小数的可读格式，用于日志
func HumanReadableSize(bytes int64) string {
	if bytes < 0 {
		return "-" + HumanReadableSize(-bytes)
	}
	if bytes < byteUnit {
		return strconv.FormatInt(bytes, 10) + " B"
	}

	value := float64(bytes)
	exp := 0
	for value >= byteUnit && exp < len(units)-1 {
		value /= byteUnit
		exp++
	}
	return strconv.FormatFloat(value, 'f', 2, 64) + " " + units[exp]
}

// MegabytesToBytes 配置中以 MB 为单位的大小转为字节，非正数返回 0
func MegabytesToBytes(mb int) int64 {
	if mb <= 0 {
		return 0
	}
	return int64(mb) << 20
}
