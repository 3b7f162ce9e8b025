package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config sheep-rentals（HTTP API）配置
type Config struct {
	HTTP struct {
		Addr string
	}

	// Store 记录存储后端："memory" | "redis" | "postgres"
	Store struct {
		Backend string
	}

	Database struct {
		Host     string
		Port     int
		User     string
		Password string
		Database string
		SSLMode  string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	// Identity 身份提供方配置（外部托管服务）
	Identity struct {
		BaseURL string // 为空时使用内存实现（本地开发）
		APIKey  string
	}

	// Blob 对象存储配置（外部托管服务）
	Blob struct {
		BaseURL   string // 为空时使用内存实现（本地开发）
		Bucket    string
		PublicURL string // 上传后对外暴露的 URL 前缀
		APIKey    string
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load 从环境变量加载配置（.env 文件可选，仅本地开发使用）
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	// Default to memory for local dev: plain `go run` works without any backing service.
	cfg.Store.Backend = getEnv("STORE_BACKEND", "memory")

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "sheeprentals")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = 0

	cfg.Identity.BaseURL = getEnv("IDENTITY_BASE_URL", "")
	cfg.Identity.APIKey = getEnv("IDENTITY_API_KEY", "")

	cfg.Blob.BaseURL = getEnv("BLOB_BASE_URL", "")
	cfg.Blob.Bucket = getEnv("BLOB_BUCKET", "sheep-rentals-uploads")
	cfg.Blob.PublicURL = getEnv("BLOB_PUBLIC_URL", "")
	cfg.Blob.APIKey = getEnv("BLOB_API_KEY", "")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

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
