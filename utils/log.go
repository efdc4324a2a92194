package utils

import (
	"strings"
	"unicode"

	log "github.com/sirupsen/logrus"
)

// SetupLogger 按配置设置日志级别，无法解析时回退到 info
func SetupLogger(level string, development bool) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		log.Warnf("Unknown log level %q, falling back to info", level)
		lvl = log.InfoLevel
	}
	if development && lvl < log.DebugLevel {
		lvl = log.DebugLevel
	}
	log.SetLevel(lvl)
}

// LogIfDev 仅在 debug 级别输出
func LogIfDev(args ...interface{}) {
	log.Debug(args...)
}

// LogIfDevf 仅在 debug 级别输出
func LogIfDevf(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

// SanitizeLogMessage 去除客户端输入中的控制字符，防止日志注入
func SanitizeLogMessage(msg string) string {
	var sb strings.Builder
	for _, r := range msg {
		if r == '\n' || r == '\r' {
			sb.WriteRune('_')
		} else if unicode.IsPrint(r) || unicode.IsGraphic(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
