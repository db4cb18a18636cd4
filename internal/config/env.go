package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// loadFromEnv overrides config from environment variables. A .env file in
// the current directory is loaded first; already-set variables win.
func loadFromEnv(cfg *Config) {
	godotenv.Load()

	if v := os.Getenv("TASKDECK_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("TASKDECK_NOTIFY"); v != "" {
		cfg.Notifications = boolFromString(v)
	}
	if v := os.Getenv("TASKDECK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TASKDECK_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("TASKDECK_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
	}
}

// boolFromString interprets common truthy strings.
func boolFromString(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
