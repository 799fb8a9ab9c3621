package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/todo-go/internal/todo"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. Config file (--config, TODO_CONFIG, or the user config directory)
// 3. Environment variables
// 4. CLI flags
//
// fs receives the global flags; callers may register extra flags (such as
// --help) before calling Load and read fs.Args() afterwards.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	if fs == nil {
		fs = flag.NewFlagSet("todo", flag.ContinueOnError)
	}
	flags := bindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	cfg := &Config{}

	// 1. Set defaults
	setDefaults(cfg)

	// 2. Config file
	configFile, explicit := resolveConfigFile(flags.configFile)
	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil || explicit {
			if err := loadConfigFile(cfg, configFile); err != nil {
				return nil, fmt.Errorf("loading config file %s: %w", configFile, err)
			}
			cfg.ConfigFile = configFile
		}
	}

	// 3. Override from environment
	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}

	// 4. CLI flags override everything
	applyFlags(cfg, fs, flags)

	// 5. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return cfg, nil
}

// resolveConfigFile picks the config file path. The boolean reports whether
// the path was requested explicitly, in which case it must exist.
func resolveConfigFile(flagValue string) (string, bool) {
	if flagValue != "" {
		return expandPath(flagValue), true
	}
	if v := os.Getenv("TODO_CONFIG"); v != "" {
		return expandPath(v), true
	}
	return findUserConfigFile(), false
}

// loadConfigFile validates and decodes the TOML config at path into cfg.
func loadConfigFile(cfg *Config, path string) error {
	if err := ValidateFile(path); err != nil {
		return err
	}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	for _, key := range fieldKeys() {
		if md.IsDefined(key) {
			cfg.setSource(key, SourceFile)
		}
	}
	return nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.TodoPath = ""
	cfg.Style = DefaultStyle
	cfg.Lock = DefaultLock
	cfg.LockTimeoutSeconds = DefaultLockTimeoutSeconds
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = false
	cfg.Sources = make(map[string]ConfigSource)
}

// DefaultTodoPath returns $HOME/.todo.
func DefaultTodoPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, DefaultTodoFileName), nil
}

// finalizeConfig computes derived values and validates settings.
func finalizeConfig(cfg *Config) error {
	if cfg.TodoPath == "" {
		p, err := DefaultTodoPath()
		if err != nil {
			return err
		}
		cfg.TodoPath = p
		cfg.setSource("todo_path", SourceDefault)
	}
	// TODO_PATH is taken verbatim; the shell has already expanded it.
	if cfg.Source("todo_path") != SourceEnv {
		cfg.TodoPath = expandPath(cfg.TodoPath)
	}

	if _, err := todo.ParseStyle(cfg.Style); err != nil {
		return err
	}
	if cfg.LockTimeoutSeconds < 0 {
		return fmt.Errorf("lock timeout must not be negative, got %d", cfg.LockTimeoutSeconds)
	}
	return nil
}
