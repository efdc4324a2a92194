package config

// 构建时通过 -ldflags 注入
var (
	Version    = "dev"
	CommitHash = "n/a"
)

// IsDevelopment 开发构建：未注入提交哈希
func IsDevelopment() bool {
	return CommitHash == "n/a" || CommitHash == ""
}
