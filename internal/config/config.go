package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort      string
	JWTSecret       string
	BcryptCost      int
	LogLevel        string
	LogDev          bool
	LogFile         string
	CORSOrigins     []string
	CatalogFile     string
	SwaggerHost     string
	ShutdownTimeout time.Duration
}

// Load builds Config from environment with sensible defaults. A .env file in
// the working directory is read first when present; real environment
// variables take precedence over it.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:      getEnv("SERVER_PORT", "5000"),
		JWTSecret:       getEnv("JWT_SECRET", "change-me"),
		BcryptCost:      getEnvInt("BCRYPT_COST", 10),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogDev:          getEnvBool("LOG_DEV", false),
		LogFile:         os.Getenv("LOG_FILE"),
		CORSOrigins:     getEnvList("CORS_ALLOW_ORIGINS", []string{"*"}),
		CatalogFile:     os.Getenv("CATALOG_FILE"),
		SwaggerHost:     os.Getenv("SWAGGER_HOST"),
		ShutdownTimeout: time.Duration(getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 5)) * time.Second,
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

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
