package config

import (
	"os"
	"strconv"
)

// DatabaseURLSources lists the environment variables consulted for the
// Postgres connection string, in priority order. First non-empty wins.
var DatabaseURLSources = []string{
	"DATABASE_URL",
	"POSTGRES_URL",
	"POSTGRES_URL_NON_POOLING",
	"POSTGRES_PRISMA_URL",
}

// SSLMode is the explicit TLS policy for database connections. It is supplied
// via DB_SSL_MODE, never guessed from the connection string or the filesystem.
type SSLMode string

const (
	SSLDisable    SSLMode = "disable"
	SSLRequire    SSLMode = "require"
	SSLVerifyCA   SSLMode = "verify-ca"
	SSLVerifyFull SSLMode = "verify-full"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string
	DatabaseURL string
	DBSSLMode   SSLMode
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	JWTSecret   string
	SwaggerHost string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		DatabaseURL: firstEnv(DatabaseURLSources),
		DBSSLMode:   SSLMode(getEnv("DB_SSL_MODE", string(SSLDisable))),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:     getEnvInt("REDIS_DB", 0),
		RedisPass:   os.Getenv("REDIS_PASSWORD"),
		JWTSecret:   getEnv("JWT_SECRET", "change-me"),
		SwaggerHost: os.Getenv("SWAGGER_HOST"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func firstEnv(keys []string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}
