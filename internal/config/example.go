package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# todo configuration file
# Values can be overridden by environment variables or CLI flags

# Task file (supports ~ and $VAR expansion, default ~/.todo)
# todo_path = "~/.todo"

# How completed tasks are struck through: auto, ansi, or markdown
# auto uses terminal styling when stdout is a terminal and NO_COLOR is unset
style = "auto"

# Take an advisory lock on <todo_path>.lock while reading or writing
lock = true

# Seconds to wait for the lock (0 waits until interrupted)
lock_timeout_seconds = 5

# Logging: debug, info, warn, error
log_level = "info"

# Log format: text, json, logfmt
log_format = "text"

# Prefix log lines with a timestamp
log_timestamps = false
`
}
