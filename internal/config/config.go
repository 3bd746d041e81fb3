package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Backend   BackendConfig
	Session   SessionConfig
	Redis     RedisConfig
	Chat      ChatConfig
	Analytics AnalyticsConfig
	Log       LogConfig
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// 配置文件所在目录，供热更新使用
	Path string `mapstructure:"-"`
}

type ServerConfig struct {
	Port string
	Mode string
}

// BackendConfig 辅导后端地址
type BackendConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// 未登录会话使用的默认用户
	UserID string `mapstructure:"user_id"`
	// 0 表示不设置超时
	Timeout time.Duration `mapstructure:"timeout"`
}

type SessionConfig struct {
	Secret     string        `mapstructure:"secret"`
	CookieName string        `mapstructure:"cookie_name"`
	IdleTTL    time.Duration `mapstructure:"idle_ttl"`
	// memory 或 redis
	Store string `mapstructure:"store"`
}

type ChatConfig struct {
	KeywordDisplayLimit int `mapstructure:"keyword_display_limit"`
}

type AnalyticsConfig struct {
	Chronological bool `mapstructure:"chronological"`
}

type LogConfig struct {
	File string `mapstructure:"file"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.mode", "release")
	v.SetDefault("backend.base_url", "http://127.0.0.1:5000")
	v.SetDefault("backend.user_id", "test_user")
	v.SetDefault("backend.timeout", 0)
	v.SetDefault("session.cookie_name", "dsa_tutor_session")
	v.SetDefault("session.idle_ttl", "2h")
	v.SetDefault("session.store", "memory")
	v.SetDefault("chat.keyword_display_limit", 10)
	v.SetDefault("analytics.chronological", false)
	v.SetDefault("log.file", "logs/app.log")
	v.SetDefault("rate_limit.max_requests", 600)
	v.SetDefault("rate_limit.window_minutes", 1)
	v.SetDefault("redis.port", 6379)
}

func LoadConfig(path string) (*Config, error) {
	// .env 可选
	if err := godotenv.Load(filepath.Join(path, "..", ".env")); err != nil {
		_ = godotenv.Load()
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("DSA_TUTOR")
	v.AutomaticEnv()
	setDefaults(v)

	// Server
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.mode", "SERVER_MODE")

	// Backend
	v.BindEnv("backend.base_url", "BACKEND_BASE_URL")
	v.BindEnv("backend.user_id", "BACKEND_USER_ID")

	// Session
	v.BindEnv("session.secret", "SESSION_SECRET")
	v.BindEnv("session.store", "SESSION_STORE")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.Path = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return errors.New("backend.base_url is required")
	}
	if c.Chat.KeywordDisplayLimit <= 0 {
		return fmt.Errorf("chat.keyword_display_limit must be positive, got %d", c.Chat.KeywordDisplayLimit)
	}
	switch c.Session.Store {
	case "memory":
	case "redis":
		if c.Redis.Host == "" {
			return errors.New("redis.host is required when session.store is redis")
		}
	default:
		return fmt.Errorf("unknown session.store %q", c.Session.Store)
	}

	// 生产环境校验会话密钥强度
	if c.Server.Mode == "release" && len(c.Session.Secret) < 32 {
		return fmt.Errorf("session secret is too short (%d chars), must be at least 32 characters in release mode", len(c.Session.Secret))
	}
	return nil
}
