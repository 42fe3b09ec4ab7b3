package config

import (
	"log/slog"
	"os"
	"strings"
)

type Config struct {
	Environment string
	LogLevel    slog.Level

	DataDir      string // item catalog and dialogue node JSON
	SaveDir      string // save files and thumbnails
	SaveBaseName string
	SaveSecret   string
	DeviceID     string
	GameVersion  string

	RedisURL string // optional save mirror and event channel; empty disables
}

func Load() *Config {
	return &Config{
		Environment:  getEnv("ENVIRONMENT", "development"),
		LogLevel:     parseLogLevel(getEnv("LOG_LEVEL", "info")),
		DataDir:      getEnv("DATA_DIR", "./data"),
		SaveDir:      getEnv("SAVE_DIR", "./saves"),
		SaveBaseName: getEnv("SAVE_BASE_NAME", "save"),
		SaveSecret:   getEnv("SAVE_SECRET", "ashfall-dev-secret"),
		DeviceID:     getEnv("DEVICE_ID", hostnameOrDefault()),
		GameVersion:  getEnv("GAME_VERSION", "0.1.0"),
		RedisURL:     getEnv("REDIS_URL", ""),
	}
}

func hostnameOrDefault() string {
	if name, err := os.Hostname(); err == nil && name != "" {
		return name
	}
	return "unknown-device"
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
