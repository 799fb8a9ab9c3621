// Package config handles configuration loading and defaults.
package config

import (
	"strconv"
	"time"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault ConfigSource = "default"
	SourceFile    ConfigSource = "config file"
	SourceEnv     ConfigSource = "environment"
	SourceFlag    ConfigSource = "flag"
)

// Default values.
const (
	DefaultTodoFileName       = ".todo"
	DefaultStyle              = "auto"
	DefaultLock               = true
	DefaultLockTimeoutSeconds = 5
	DefaultLogLevel           = "info"
	DefaultLogFormat          = "text"
)

// Config holds the full configuration for todo.
type Config struct {
	// Task file
	TodoPath string `toml:"todo_path"`

	// Rendering of completed tasks: auto, ansi, or markdown
	Style string `toml:"style"`

	// Advisory locking of the task file
	Lock               bool `toml:"lock"`
	LockTimeoutSeconds int  `toml:"lock_timeout_seconds"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`

	// ConfigFile is the config file that was loaded, if any.
	ConfigFile string `toml:"-"`

	// Sources maps field keys to where their value came from.
	Sources map[string]ConfigSource `toml:"-"`
}

// Field is a single configuration value with its origin.
type Field struct {
	Key    string
	Value  string
	Source ConfigSource
}

// fieldKeys lists the configurable keys in display order.
func fieldKeys() []string {
	return []string{
		"todo_path",
		"style",
		"lock",
		"lock_timeout_seconds",
		"log_level",
		"log_format",
		"log_timestamps",
	}
}

// LockTimeout returns how long to wait for the task file lock.
// Zero means wait until interrupted.
func (c *Config) LockTimeout() time.Duration {
	if c.LockTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.LockTimeoutSeconds) * time.Second
}

// Source returns the origin of the value stored under key.
func (c *Config) Source(key string) ConfigSource {
	if src, ok := c.Sources[key]; ok {
		return src
	}
	return SourceDefault
}

// Fields returns every configurable value with its source.
func (c *Config) Fields() []Field {
	fields := make([]Field, 0, len(fieldKeys()))
	for _, key := range fieldKeys() {
		fields = append(fields, Field{Key: key, Value: c.value(key), Source: c.Source(key)})
	}
	return fields
}

func (c *Config) value(key string) string {
	switch key {
	case "todo_path":
		return c.TodoPath
	case "style":
		return c.Style
	case "lock":
		return strconv.FormatBool(c.Lock)
	case "lock_timeout_seconds":
		return strconv.Itoa(c.LockTimeoutSeconds)
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return strconv.FormatBool(c.LogTimestamps)
	default:
		return ""
	}
}

func (c *Config) setSource(key string, src ConfigSource) {
	if c.Sources == nil {
		c.Sources = make(map[string]ConfigSource)
	}
	c.Sources[key] = src
}
