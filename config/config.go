package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config 扁平化配置结构体，进程启动时构建一次，之后只读
type Config struct {
	// 服务器配置
	ServerHost           string        `mapstructure:"server_host"`
	ServerPort           int           `mapstructure:"server_port"`
	ServerBaseURL        string        `mapstructure:"server_base_url"`
	ServerReadTimeout    time.Duration `mapstructure:"server_read_timeout"`
	ServerWriteTimeout   time.Duration `mapstructure:"server_write_timeout"`
	ServerIdleTimeout    time.Duration `mapstructure:"server_idle_timeout"`
	ServerMaxConcurrency int64         `mapstructure:"server_max_concurrency"`
	ServerEnableDocs     bool          `mapstructure:"server_enable_docs"`
	ServerCORSOrigins    []string      `mapstructure:"server_cors_origins"`

	// 上传鉴权
	AuthSecret string `mapstructure:"auth_secret"`

	// 数据库配置
	DBType            string `mapstructure:"db_type"`
	DBDSN             string `mapstructure:"db_dsn"`
	DBHost            string `mapstructure:"db_host"`
	DBPort            int    `mapstructure:"db_port"`
	DBUsername        string `mapstructure:"db_username"`
	DBPassword        string `mapstructure:"db_password"`
	DBName            string `mapstructure:"db_name"`
	DBFilePath        string `mapstructure:"db_file_path"`
	DBMaxOpenConns    int    `mapstructure:"db_max_open_conns"`
	DBMaxIdleConns    int    `mapstructure:"db_max_idle_conns"`
	DBConnMaxLifetime int    `mapstructure:"db_conn_max_lifetime"`

	// 上传配置
	UploadMaxSizeMB int           `mapstructure:"upload_max_size_mb"`
	StagingDir      string        `mapstructure:"staging_dir"`
	StagingMaxAge   time.Duration `mapstructure:"staging_max_age"`

	// 静态资源
	StaticDir string `mapstructure:"static_dir"`

	LogLevel string `mapstructure:"log_level"`
}

// Load 读取配置：默认值 < 配置文件 < 环境变量
// path 为空时尝试当前目录下的 .env
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		path = ".env"
	}
	v.SetConfigFile(path)
	if strings.HasSuffix(path, ".env") {
		v.SetConfigType("env")
	}

	if err := v.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Info: %s not loaded, using defaults and environment variables\n", path)
	} else {
		fmt.Fprintf(os.Stderr, "Info: Loaded configuration from %s\n", path)
	}

	v.AutomaticEnv()
	for _, key := range v.AllKeys() {
		_ = v.BindEnv(key)
	}

	cfg, err := decode(v.AllSettings())
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode 将 viper 的扁平 map 解码到 Config
func decode(settings map[string]interface{}) (*Config, error) {
	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create config decoder: %w", err)
	}
	if err := decoder.Decode(settings); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}

// setDefaults 设置默认值
func setDefaults(v *viper.Viper) {
	// 服务器配置默认值
	v.SetDefault("server_host", "127.0.0.1")
	v.SetDefault("server_port", 8080)
	v.SetDefault("server_base_url", "")
	v.SetDefault("server_read_timeout", "15s")
	v.SetDefault("server_write_timeout", "30s")
	v.SetDefault("server_idle_timeout", "120s")
	v.SetDefault("server_max_concurrency", 100)
	v.SetDefault("server_enable_docs", true)
	v.SetDefault("server_cors_origins", "")

	v.SetDefault("auth_secret", "")

	// 数据库配置默认值
	v.SetDefault("db_type", "sqlite")
	v.SetDefault("db_dsn", "")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", 5432)
	v.SetDefault("db_username", "postgres")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", "imgdrop")
	v.SetDefault("db_file_path", "./data/images.db")
	v.SetDefault("db_max_open_conns", 100)
	v.SetDefault("db_max_idle_conns", 25)
	v.SetDefault("db_conn_max_lifetime", 3600)

	// 上传配置默认值
	v.SetDefault("upload_max_size_mb", 50)
	v.SetDefault("staging_dir", "./data/temp")
	v.SetDefault("staging_max_age", "24h")

	v.SetDefault("static_dir", "./public")
	v.SetDefault("log_level", "info")
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.AuthSecret == "" {
		return errors.New("auth_secret must be set")
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("invalid server_port: %d", c.ServerPort)
	}
	if c.ServerBaseURL != "" {
		u, err := url.Parse(c.ServerBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("server_base_url must be an absolute URL: %q", c.ServerBaseURL)
		}
	}
	switch c.DBType {
	case "sqlite", "sqlite3", "postgres", "postgresql":
	default:
		return fmt.Errorf("unsupported database type: %s", c.DBType)
	}
	if c.StagingDir == "" {
		return errors.New("staging_dir must be set")
	}
	return nil
}

// Addr 返回监听地址，格式为 "host:port"
func (c *Config) Addr() string {
	host := c.ServerHost
	if host == "" {
		host = "0.0.0.0"
	}
	port := c.ServerPort
	if port == 0 {
		port = 8080
	}
	return fmt.Sprintf("%s:%d", host, port)
}

// BaseURL 返回基础 URL，用于生成图片链接，不带末尾斜杠
func (c *Config) BaseURL() string {
	if c.ServerBaseURL != "" {
		return strings.TrimRight(c.ServerBaseURL, "/")
	}
	host := c.ServerHost
	if host == "" || host == "0.0.0.0" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, c.ServerPort)
}

// CORSOrigins 返回允许的跨域来源，未配置时只允许 BaseURL 的 scheme://host
func (c *Config) CORSOrigins() []string {
	var origins []string
	for _, o := range c.ServerCORSOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{originOf(c.BaseURL())}
	}
	return origins
}

// originOf 去掉 URL 的路径、查询和片段，只保留来源部分
func originOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return rawURL
	}
	return u.Scheme + "://" + u.Host
}

// DSN 返回数据库连接串，db_dsn 优先
func (c *Config) DSN() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}
	switch c.DBType {
	case "postgres", "postgresql":
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			c.DBHost, c.DBPort, c.DBUsername, c.DBPassword, c.DBName)
	default:
		path := c.DBFilePath
		if path == "" {
			path = "./data/images.db"
		}
		// WAL 模式
		return fmt.Sprintf("%s?_journal_mode=WAL", path)
	}
}
