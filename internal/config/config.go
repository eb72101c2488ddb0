package config

import (
	"os"
	"strconv"

	"contacts-data/pkg/database"
)

// Config contacts-data（HTTP API）配置
type Config struct {
	HTTP struct {
		Addr string
	}
	DBEnabled bool
	Database  database.Config
	Redis     struct {
		Addr     string
		Password string
		DB       int
	}
	Log struct {
		Level  string
		Format string
	}
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Notify    NotifyConfig
}

// AuthConfig JWT认证配置
type AuthConfig struct {
	JWTSecret    string // HS256 签名密钥
	TokenTTLMin  int    // 访问令牌有效期（分钟）
	UserCacheTTL int    // Redis 用户缓存有效期（秒）
}

// RateLimitConfig 限流配置（固定窗口）
type RateLimitConfig struct {
	Enabled  bool
	Requests int // 每窗口允许的请求数
	WindowS  int // 窗口大小（秒）
}

// NotifyConfig 生日提醒 Webhook 配置（默认禁用）
type NotifyConfig struct {
	WebhookURL string // 为空则不启动提醒任务
	Days       int    // 查询未来多少天的生日
	IntervalS  int    // 推送间隔（秒）
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	// Default to true for local dev: if DB is unavailable, contacts-data will fall back to
	// in-memory repositories so the API still works with plain `go run`.
	cfg.DBEnabled = getEnv("DB_ENABLED", "true") == "true"
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "contacts")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "10"), 10)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "5"), 5)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = 0

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	// Auth 配置
	cfg.Auth.JWTSecret = getEnv("AUTH_JWT_SECRET", "dev-secret-change-me")
	cfg.Auth.TokenTTLMin = parseInt(getEnv("AUTH_TOKEN_TTL_MINUTES", "60"), 60)
	cfg.Auth.UserCacheTTL = parseInt(getEnv("AUTH_USER_CACHE_TTL_SECONDS", "900"), 900)

	// 限流配置（登录/注册默认 5 次/分钟）
	cfg.RateLimit.Enabled = getEnv("RATE_LIMIT_ENABLED", "true") == "true"
	cfg.RateLimit.Requests = parseInt(getEnv("RATE_LIMIT_REQUESTS", "5"), 5)
	cfg.RateLimit.WindowS = parseInt(getEnv("RATE_LIMIT_WINDOW_SECONDS", "60"), 60)

	// 生日提醒 Webhook（默认禁用）
	cfg.Notify.WebhookURL = getEnv("NOTIFY_WEBHOOK_URL", "")
	cfg.Notify.Days = parseInt(getEnv("NOTIFY_DAYS", "7"), 7)
	cfg.Notify.IntervalS = parseInt(getEnv("NOTIFY_INTERVAL_SECONDS", "86400"), 86400)

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
