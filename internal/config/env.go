package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("TODO_PATH"); v != "" {
		cfg.TodoPath = v
		cfg.setSource("todo_path", SourceEnv)
	}
	if v := os.Getenv("TODO_STYLE"); v != "" {
		cfg.Style = v
		cfg.setSource("style", SourceEnv)
	}
	if v := os.Getenv("TODO_LOCK"); v != "" {
		cfg.Lock = boolFromString(v)
		cfg.setSource("lock", SourceEnv)
	}
	if v := os.Getenv("TODO_LOCK_TIMEOUT"); v != "" {
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("TODO_LOCK_TIMEOUT: %w", err)
		}
		cfg.LockTimeoutSeconds = i
		cfg.setSource("lock_timeout_seconds", SourceEnv)
	}

	// Logging configuration
	if v := os.Getenv("TODO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		cfg.setSource("log_level", SourceEnv)
	}
	if v := os.Getenv("TODO_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		cfg.setSource("log_format", SourceEnv)
	}
	if v := os.Getenv("TODO_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		cfg.setSource("log_timestamps", SourceEnv)
	}
	return nil
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
