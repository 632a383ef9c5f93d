// Package config 提供 TOML 配置加载、.env 与环境变量覆盖、默认值与校验
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 服务配置
type Config struct {
	// 服务名称
	ServiceName string `mapstructure:"service_name"`
	// 环境：dev, staging, prod
	Environment string `mapstructure:"environment"`
	// HTTP 服务配置
	HTTP HTTPConfig `mapstructure:"http"`
	// 数据库配置
	Database DatabaseConfig `mapstructure:"database"`
	// Redis 配置
	Redis RedisConfig `mapstructure:"redis"`
	// Kafka 配置
	Kafka KafkaConfig `mapstructure:"kafka"`
	// 日志配置
	Logger LoggerConfig `mapstructure:"logger"`
	// 指标配置
	Metrics MetricsConfig `mapstructure:"metrics"`
	// 认证配置
	Auth AuthConfig `mapstructure:"auth"`
	// 店面会话配置
	Storefront StorefrontConfig `mapstructure:"storefront"`
}

// HTTPConfig HTTP 服务配置
type HTTPConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	// 允许的跨域来源
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// Addr 返回监听地址
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// 驱动：mysql, postgres
	Driver             string `mapstructure:"driver"`
	DSN                string `mapstructure:"dsn"`
	MaxOpenConns       int    `mapstructure:"max_open_conns"`
	MaxIdleConns       int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime    int    `mapstructure:"conn_max_lifetime"`
	LogEnabled         bool   `mapstructure:"log_enabled"`
	SlowQueryThreshold int    `mapstructure:"slow_query_threshold"`
	// 启动时自动建表（仅 dev）
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	MaxPoolSize  int    `mapstructure:"max_pool_size"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

// KafkaConfig Kafka 配置，brokers 为空时事件只写日志
type KafkaConfig struct {
	Brokers      []string `mapstructure:"brokers"`
	MaxRetries   int      `mapstructure:"max_retries"`
	RetryBackoff int      `mapstructure:"retry_backoff"`
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
	WithCaller bool   `mapstructure:"with_caller"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// AuthConfig 认证配置
type AuthConfig struct {
	// 密码校验方式：plain（与现有 users 表兼容）或 bcrypt
	PasswordScheme string `mapstructure:"password_scheme"`
	// 会话令牌签名密钥
	TokenSecret string `mapstructure:"token_secret"`
	// 会话有效期
	SessionTTL time.Duration `mapstructure:"session_ttl"`
	// 每个 IP 每分钟允许的登录次数，<= 0 关闭限流
	LoginRate int `mapstructure:"login_rate"`
	// 登录突发上限
	LoginBurst int `mapstructure:"login_burst"`
}

// StorefrontConfig 访问会话配置
type StorefrontConfig struct {
	// 访问会话闲置多久后回收
	VisitIdleTimeout time.Duration `mapstructure:"visit_idle_timeout"`
	// 提示消息存活时间
	NoticeTTL time.Duration `mapstructure:"notice_ttl"`
	// 匿名结账的用户 ID 前缀
	AnonymousPrefix string `mapstructure:"anonymous_prefix"`
}

// Load 从 TOML 文件加载配置，文件不存在时使用默认值；支持 .env 与 APP_ 前缀环境变量覆盖
func Load(configPath string) (*Config, error) {
	// .env 可选
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate 验证配置的有效性
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return errors.New("service_name is required")
	}
	if c.Environment == "" {
		c.Environment = "dev"
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database DSN is required for %s driver", c.Database.Driver)
	}
	switch c.Auth.PasswordScheme {
	case "plain", "bcrypt":
	default:
		return fmt.Errorf("unsupported password scheme: %s", c.Auth.PasswordScheme)
	}
	if c.Auth.TokenSecret == "" {
		return errors.New("auth.token_secret is required")
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("invalid auth.session_ttl: %s", c.Auth.SessionTTL)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service_name", "corepnl-storefront")
	v.SetDefault("environment", "dev")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read_timeout", 30)
	v.SetDefault("http.write_timeout", 30)
	v.SetDefault("http.allow_origins", []string{})

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 300)
	v.SetDefault("database.log_enabled", false)
	v.SetDefault("database.slow_query_threshold", 1000)
	v.SetDefault("database.auto_migrate", false)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.max_pool_size", 10)
	v.SetDefault("redis.read_timeout", 3)
	v.SetDefault("redis.write_timeout", 3)

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.max_retries", 3)
	v.SetDefault("kafka.retry_backoff", 100)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.file_path", "logs/storefront.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 10)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.with_caller", false)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("auth.password_scheme", "plain")
	v.SetDefault("auth.token_secret", "")
	v.SetDefault("auth.session_ttl", "24h")
	v.SetDefault("auth.login_rate", 10)
	v.SetDefault("auth.login_burst", 10)

	v.SetDefault("storefront.visit_idle_timeout", "2h")
	v.SetDefault("storefront.notice_ttl", "4s")
	v.SetDefault("storefront.anonymous_prefix", "demo-user-")
}
