package config

import (
	"log/slog"
	"os"
	"strings"
	"time"
)

// Config holds all configuration values.
type Config struct {
	// Globus service endpoints
	AuthTokenURL string
	TransferURL  string
	TimerURL     string

	// Timeouts
	HTTPTimeout    time.Duration
	CommandTimeout time.Duration

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables.
// Client credentials are not part of Config; they only come from the secrets file.
func Load() Config {
	return Config{
		AuthTokenURL: getEnv("GLOBUS_AUTH_TOKEN_URL", "https://auth.globus.org/v2/oauth2/token"),
		TransferURL:  getEnv("GLOBUS_TRANSFER_URL", "https://transfer.api.globus.org/v0.10"),
		TimerURL:     getEnv("GLOBUS_TIMER_URL", "https://timer.automate.globus.org"),

		HTTPTimeout:    parseDuration(getEnv("GLOBUS_TIMER_HTTP_TIMEOUT", ""), 30*time.Second),
		CommandTimeout: parseDuration(getEnv("GLOBUS_TIMER_COMMAND_TIMEOUT", ""), 2*time.Minute),

		LogFile:  getEnv("GLOBUS_TIMER_LOG_FILE", "/tmp/globus-timer.log"),
		LogLevel: parseLogLevel(getEnv("GLOBUS_TIMER_LOG_LEVEL", "WARN")),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// parseDuration falls back to def on empty, malformed or non-positive input.
func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
