package config

import (
	"flag"
)

// flagValues holds the raw global flag values before they are applied.
type flagValues struct {
	todoPath   string
	configFile string
	style      string
	logLevel   string
	logFormat  string
	noLock     bool
}

// bindFlags defines the global flags on fs.
func bindFlags(fs *flag.FlagSet) *flagValues {
	v := &flagValues{}
	fs.StringVar(&v.todoPath, "file", "", "Path to task file (default $TODO_PATH or ~/.todo)")
	fs.StringVar(&v.todoPath, "f", "", "Path to task file (shorthand)")
	fs.StringVar(&v.configFile, "config", "", "Path to config file")
	fs.StringVar(&v.style, "style", "", "Completed task style (auto|ansi|markdown)")
	fs.StringVar(&v.logLevel, "log-level", "", "Log level (debug|info|warn|error)")
	fs.StringVar(&v.logFormat, "log-format", "", "Log format (text|json|logfmt)")
	fs.BoolVar(&v.noLock, "no-lock", false, "Do not lock the task file")
	return v
}

// applyFlags copies explicitly set flags into cfg.
func applyFlags(cfg *Config, fs *flag.FlagSet, v *flagValues) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "file", "f":
			cfg.TodoPath = v.todoPath
			cfg.setSource("todo_path", SourceFlag)
		case "style":
			cfg.Style = v.style
			cfg.setSource("style", SourceFlag)
		case "log-level":
			cfg.LogLevel = v.logLevel
			cfg.setSource("log_level", SourceFlag)
		case "log-format":
			cfg.LogFormat = v.logFormat
			cfg.setSource("log_format", SourceFlag)
		case "no-lock":
			cfg.Lock = !v.noLock
			cfg.setSource("lock", SourceFlag)
		}
	})
}
