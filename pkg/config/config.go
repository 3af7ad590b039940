// Package config 提供 TOML 配置加载与环境变量覆盖
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 服务配置
type Config struct {
	// 服务名称
	ServiceName string `mapstructure:"service_name"`
	// 服务版本
	Version string `mapstructure:"version"`
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
	// 限流配置
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	// JWT 配置
	JWT JWTConfig `mapstructure:"jwt"`
	// Outbox 转发配置
	Outbox OutboxConfig `mapstructure:"outbox"`
}

// HTTPConfig HTTP 服务配置
type HTTPConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// 驱动：mysql
	Driver string `mapstructure:"driver"`
	// 数据源名称
	DSN string `mapstructure:"dsn"`
	// 最大连接数
	MaxOpenConns int `mapstructure:"max_open_conns"`
	// 最大空闲连接数
	MaxIdleConns int `mapstructure:"max_idle_conns"`
	// 连接最大生命周期（秒）
	ConnMaxLifetime int `mapstructure:"conn_max_lifetime"`
	// 是否启用 SQL 日志
	LogEnabled bool `mapstructure:"log_enabled"`
	// 慢查询阈值（毫秒）
	SlowQueryThreshold int `mapstructure:"slow_query_threshold"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	MaxPoolSize  int    `mapstructure:"max_pool_size"`
	ConnTimeout  int    `mapstructure:"conn_timeout"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	// 商品缓存 TTL（秒）
	ProductTTL int `mapstructure:"product_ttl"`
}

// KafkaConfig Kafka 配置
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
	Port int    `mapstructure:"port"`
	Path string `mapstructure:"path"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Enabled bool `mapstructure:"enabled"`
	QPS     int  `mapstructure:"qps"`
	Burst   int  `mapstructure:"burst"`
}

// JWTConfig JWT 配置
type JWTConfig struct {
	// 签名密钥
	Secret string `mapstructure:"secret"`
	// access token 有效期（分钟）
	AccessTTLMinutes int `mapstructure:"access_ttl_minutes"`
	// refresh token 有效期（天）
	RefreshTTLDays int `mapstructure:"refresh_ttl_days"`
}

// AccessTTL access token 有效期
func (c JWTConfig) AccessTTL() time.Duration {
	return time.Duration(c.AccessTTLMinutes) * time.Minute
}

// RefreshTTL refresh token 有效期
func (c JWTConfig) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTTLDays) * 24 * time.Hour
}

// OutboxConfig Outbox 转发配置
type OutboxConfig struct {
	// 轮询间隔（毫秒）
	PollInterval int `mapstructure:"poll_interval"`
	// 单次处理条数
	BatchSize int `mapstructure:"batch_size"`
	// 事件主题前缀
	TopicPrefix string `mapstructure:"topic_prefix"`
}

// Load 加载配置文件并应用环境变量覆盖
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	v.SetEnvPrefix("ECOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt.secret must be set")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service_name", "ecommerce")
	v.SetDefault("environment", "dev")
	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read_timeout", 30)
	v.SetDefault("http.write_timeout", 30)
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 300)
	v.SetDefault("database.slow_query_threshold", 1000)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.max_pool_size", 10)
	v.SetDefault("redis.conn_timeout", 5)
	v.SetDefault("redis.read_timeout", 3)
	v.SetDefault("redis.write_timeout", 3)
	v.SetDefault("redis.product_ttl", 60)
	v.SetDefault("kafka.max_retries", 3)
	v.SetDefault("kafka.retry_backoff", 100)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.file_path", "logs/app.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 10)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("ratelimit.enabled", false)
	v.SetDefault("ratelimit.qps", 100)
	v.SetDefault("ratelimit.burst", 200)
	v.SetDefault("jwt.access_ttl_minutes", 30)
	v.SetDefault("jwt.refresh_ttl_days", 7)
	v.SetDefault("outbox.poll_interval", 500)
	v.SetDefault("outbox.batch_size", 100)
	v.SetDefault("outbox.topic_prefix", "ecommerce")
}
