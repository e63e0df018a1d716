package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	JWT       JWTConfig
	Storage   StorageConfig
	Quiz      QuizConfig      `mapstructure:"quiz"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type StorageConfig struct {
	// DataDir 全部用户 CSV 数据的根目录，users.csv 位于根目录，
	// 每个用户一个子目录存放 characters/progress/quiz-history
	DataDir string `mapstructure:"data_dir"`
}

type QuizConfig struct {
	// AdvanceDelayMS 答题反馈后自动进入下一题的延迟（毫秒）
	AdvanceDelayMS int `mapstructure:"advance_delay_ms"`
	// SessionTTLMinutes 闲置测验会话的回收时间（分钟）
	SessionTTLMinutes int `mapstructure:"session_ttl_minutes"`
}

type RedisConfig struct {
	Enabled  bool `mapstructure:"enabled"`
	Host     string
	Port     int
	Password string
	DB       int
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("HANZI_LEARN")
	viper.AutomaticEnv()

	// Server
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.mode", "SERVER_MODE")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// Storage
	viper.BindEnv("storage.data_dir", "DATA_DIR")

	// Redis
	viper.BindEnv("redis.enabled", "REDIS_ENABLED")
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	if cfg.Quiz.AdvanceDelayMS <= 0 {
		cfg.Quiz.AdvanceDelayMS = 2000
	}
	if cfg.Quiz.SessionTTLMinutes <= 0 {
		cfg.Quiz.SessionTTLMinutes = 30
	}

	// 生产环境校验 JWT Secret 强度
	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "data"
	}
	if _, err := os.Stat(cfg.Storage.DataDir); os.IsNotExist(err) {
		os.MkdirAll(cfg.Storage.DataDir, 0755)
	}

	return &cfg, nil
}

// AdvanceDelay 以 time.Duration 返回自动进题延迟
func (c *QuizConfig) AdvanceDelay() time.Duration {
	return time.Duration(c.AdvanceDelayMS) * time.Millisecond
}

// SessionTTL 以 time.Duration 返回会话闲置回收时间
func (c *QuizConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}
