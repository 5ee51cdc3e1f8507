package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"db"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Auth         AuthConfig         `mapstructure:"auth"`
	Log          LogConfig          `mapstructure:"log"`
	Storage      StorageConfig      `mapstructure:"storage"`
	ModelService ModelServiceConfig `mapstructure:"model_service"`
	ContentCheck ContentCheckConfig `mapstructure:"content_check"`
	Import       ImportConfig       `mapstructure:"import"`
	Metrics      MetricsConfig      `mapstructure:"metrics"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port         int        `mapstructure:"port"`
	BaseURL      string     `mapstructure:"base_url"`
	MaxBodyBytes int64      `mapstructure:"max_body_bytes"`
	CORS         CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig MySQL 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	Params          string `mapstructure:"params"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 连接最大生命周期（分钟）
	SlowQueryMs     int    `mapstructure:"slow_query_ms"`
}

// DSN 生成 MySQL 连接字符串
// multiStatements 供迁移脚本使用，parseTime 让 DATETIME 映射为 time.Time
func (c *DatabaseConfig) DSN() string {
	params := c.Params
	if params == "" {
		params = "charset=utf8mb4&parseTime=true&loc=Local&multiStatements=true"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s", c.User, c.Password, c.Host, c.Port, c.Name, params)
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig JWT 认证配置
type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	AdminPhone     string        `mapstructure:"admin_phone"`
	AdminPassword  string        `mapstructure:"admin_password"`
	LoginRateLimit int           `mapstructure:"login_rate_limit"` // 每分钟每 IP 登录次数
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// StorageConfig 资源文件存储配置
type StorageConfig struct {
	Provider   string        `mapstructure:"provider"` // local | oss
	LocalDir   string        `mapstructure:"local_dir"`
	PublicURL  string        `mapstructure:"public_url"`
	PresignTTL time.Duration `mapstructure:"presign_ttl"`
	SigningKey string        `mapstructure:"signing_key"` // 本地下载令牌密钥，缺省沿用 auth.jwt_secret
	OSS        OSSConfig     `mapstructure:"oss"`
}

// OSSConfig 阿里云 OSS 配置
type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
}

// ModelServiceConfig 外部模型服务配置
type ModelServiceConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ContentCheckConfig 资源内容检查服务配置，三个接口均未配置时不启用
type ContentCheckConfig struct {
	SensitiveAPI  string        `mapstructure:"sensitive_api"`
	SimilarityAPI string        `mapstructure:"similarity_api"`
	QualityAPI    string        `mapstructure:"quality_api"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// ImportConfig 数据导入配置
type ImportConfig struct {
	MaxRows      int   `mapstructure:"max_rows"`
	MaxFileBytes int64 `mapstructure:"max_file_bytes"`
}

// MetricsConfig 监控面板配置
type MetricsConfig struct {
	SeriesLength int `mapstructure:"series_length"`
	TopN         int `mapstructure:"top_n"`
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > .env > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	// .env 不存在时忽略
	_ = godotenv.Load()

	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 6060)
	v.SetDefault("server.base_url", "http://localhost:6060")
	v.SetDefault("server.max_body_bytes", 16<<20)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:3000"})

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 3306)
	v.SetDefault("db.name", "eduinsight")
	v.SetDefault("db.user", "root")
	v.SetDefault("db.password", "")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.slow_query_ms", 200)

	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.access_token_ttl", "24h")
	v.SetDefault("auth.admin_phone", "13800000000")
	v.SetDefault("auth.admin_password", "admin123")
	v.SetDefault("auth.login_rate_limit", 20)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("storage.provider", "local")
	v.SetDefault("storage.local_dir", "uploads")
	v.SetDefault("storage.public_url", "/uploads")
	v.SetDefault("storage.presign_ttl", "1h")
	v.SetDefault("storage.signing_key", "")

	v.SetDefault("model_service.base_url", "")
	v.SetDefault("model_service.timeout", "10s")

	v.SetDefault("content_check.sensitive_api", "")
	v.SetDefault("content_check.similarity_api", "")
	v.SetDefault("content_check.quality_api", "")
	v.SetDefault("content_check.timeout", "30s")

	v.SetDefault("import.max_rows", 1000)
	v.SetDefault("import.max_file_bytes", 10<<20)

	v.SetDefault("metrics.series_length", 60)
	v.SetDefault("metrics.top_n", 5)

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("EDU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if cfg.Storage.SigningKey == "" {
		cfg.Storage.SigningKey = cfg.Auth.JWTSecret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 不能为空")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 长度不能少于 16 字符")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	switch c.Storage.Provider {
	case "local":
	case "oss":
		if c.Storage.OSS.Endpoint == "" || c.Storage.OSS.Bucket == "" {
			return fmt.Errorf("配置校验失败: storage.oss.endpoint 与 storage.oss.bucket 不能为空")
		}
	default:
		return fmt.Errorf("配置校验失败: 未知的 storage.provider %q", c.Storage.Provider)
	}
	return nil
}
