package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/anoixa/imgdrop/api/common"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrAuthMissing 请求未携带 Authorization 头
	ErrAuthMissing = errors.New("missing authorization header")
	// ErrAuthInvalid Authorization 头与共享密钥不一致
	ErrAuthInvalid = errors.New("invalid authorization header")
)

// CheckSharedSecret 比较请求头与共享密钥，逐字节精确匹配，恒定时间
func CheckSharedSecret(header, secret string) error {
	if header == "" {
		return ErrAuthMissing
	}
	if subtle.ConstantTimeCompare([]byte(header), []byte(secret)) != 1 {
		return ErrAuthInvalid
	}
	return nil
}

// SharedSecretAuth 写接口鉴权
// 缺失与错误都返回 401，只在日志中区分
func SharedSecretAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := CheckSharedSecret(c.GetHeader("Authorization"), secret)
		if err == nil {
			c.Next()
			return
		}

		outcome := "invalid"
		if errors.Is(err, ErrAuthMissing) {
			outcome = "missing"
		}
		log.WithFields(log.Fields{
			"request_id": c.GetString(ContextRequestIDKey),
			"client_ip":  c.ClientIP(),
			"outcome":    outcome,
		}).Warn("[Auth] Rejected upload request")

		common.RespondErrorAbort(c, http.StatusUnauthorized, "Unauthorized")
	}
}
