package utils

import (
	"context"
	"errors"
	"io"
	"strings"
	"syscall"
)

// IsContextCanceled 检查错误是否是由于上下文取消导致的
func IsContextCanceled(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	// 部分驱动只保留错误文本
	return strings.Contains(err.Error(), "context canceled")
}

// IsClientDisconnect 检查错误是否是客户端中途断开（请求取消、上传体被截断、连接被重置）
func IsClientDisconnect(err error) bool {
	if err == nil {
		return false
	}
	if IsContextCanceled(err) {
		return true
	}
	return errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ECONNRESET)
}
