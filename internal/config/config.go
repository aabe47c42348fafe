package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string
	Backend  string
	Storage  StorageConfig
}

// StorageConfig locates the dataset exports for each backend.
type StorageConfig struct {
	ExportDir string

	SQLitePath   string
	SQLiteDriver string

	PostgresDSN    string
	PostgresSchema string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// Load reads .env from the working directory or up to two parents, then
// the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			slog.Default().Debug(".env file not found, using environment variables and defaults")
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only.
func FromEnv() *Config {
	return &Config{
		Env:      getEnv("RANCH_ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Backend:  getEnv("RANCH_BACKEND", "dir"),
		Storage: StorageConfig{
			ExportDir:      getEnv("RANCH_EXPORT_DIR", "data"),
			SQLitePath:     getEnv("RANCH_SQLITE_PATH", "ranch.db"),
			SQLiteDriver:   getEnv("RANCH_SQLITE_DRIVER", "sqlite"),
			PostgresDSN:    getEnv("RANCH_PG_DSN", ""),
			PostgresSchema: getEnv("RANCH_PG_SCHEMA", "ranch"),
			RedisAddr:      getEnv("RANCH_REDIS_ADDR", "localhost:6379"),
			RedisPassword:  getEnv("RANCH_REDIS_PASSWORD", ""),
			RedisDB:        getEnvInt("RANCH_REDIS_DB", 0),
			RedisPrefix:    getEnv("RANCH_REDIS_PREFIX", "ranch"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var intValue int
		if _, err := fmt.Sscanf(value, "%d", &intValue); err == nil {
			return intValue
		}
	}
	return defaultValue
}
