package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

func init() {
	// Load .env file if it exists (ignores error if not found)
	godotenv.Load()
}

type Config struct {
	Port    string
	BaseURL string

	// Credential store
	DatabaseDriver string // "sqlite3" or "postgres"
	DatabasePath   string // sqlite3
	DatabaseURL    string // postgres

	// Session store
	RedisAddr     string
	RedisPassword string
	SessionTTL    time.Duration
	SessionCookie string
	SecureCookies bool

	// Mail transport
	SMTPHost   string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	SMTPSecure bool

	DefaultAvatarURL string
}

func Load() *Config {
	return &Config{
		Port:             getEnv("PORT", "8005"),
		BaseURL:          getEnv("BASE_URL", "http://localhost:8005"),
		DatabaseDriver:   getEnv("DATABASE_DRIVER", "sqlite3"),
		DatabasePath:     getEnv("DATABASE_PATH", "./data/authgate.db"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		SessionTTL:       time.Duration(getEnvAsInt64("SESSION_TTL_SECONDS", 2600)) * time.Second,
		SessionCookie:    getEnv("SESSION_COOKIE", "sid"),
		SecureCookies:    getEnvAsBool("SECURE_COOKIES", false),
		SMTPHost:         getEnv("SMTP_HOST", "localhost"),
		SMTPPort:         int(getEnvAsInt64("SMTP_PORT", 587)),
		SMTPUser:         getEnv("SMTP_USER", ""),
		SMTPPass:         getEnv("SMTP_PASS", ""),
		SMTPSecure:       getEnvAsBool("PRODUCTION", false),
		DefaultAvatarURL: getEnv("DEFAULT_AVATAR_URL", "https://localhost/images/blank.jpg"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
