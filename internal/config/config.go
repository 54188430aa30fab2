package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

const defaultSessionSecret = "dev-secret-change-me"

type Config struct {
	Port          string
	DatabaseDSN   string
	AdminPassword string
	SessionSecret string
	Env           string
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

// Load 读取环境变量，若存在 .env 文件则先加载。
func Load() Config {
	_ = godotenv.Load()
	return Config{
		Port:          getenv("APP_PORT", "8080"),
		DatabaseDSN:   getenv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=mugamili port=5432 sslmode=disable TimeZone=UTC"),
		AdminPassword: getenv("ADMIN_PASSWORD", ""),
		SessionSecret: getenv("ADMIN_SESSION_SECRET", defaultSessionSecret),
		Env:           getenv("APP_ENV", "dev"),
	}
}

// Validate 检查启动所需的配置项，store 凭据缺失属于启动致命错误。
func Validate(cfg Config) error {
	if cfg.Port == "" {
		return errors.New("config: port is required")
	}
	if cfg.DatabaseDSN == "" {
		return errors.New("config: database dsn is required")
	}
	if cfg.Env != "dev" {
		if cfg.SessionSecret == defaultSessionSecret || cfg.SessionSecret == "" {
			return errors.New("config: admin session secret must be set outside dev")
		}
		if cfg.AdminPassword == "" {
			return errors.New("config: admin password must be set outside dev")
		}
	}
	return nil
}
