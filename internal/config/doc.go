// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. Config file (--config, $TODO_CONFIG, or the user config directory)
// 3. Environment variables (TODO_*)
// 4. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations, first match wins:
// - Linux/BSD: $XDG_CONFIG_HOME/todo/todo.toml or ~/.config/todo/todo.toml
// - macOS: ~/Library/Application Support/todo/todo.toml
// - Windows: %APPDATA%\todo\todo.toml
// - ~/.todo.toml
//
// The task file defaults to $HOME/.todo when neither TODO_PATH, --file, nor
// todo_path in the config file is set.
//
// Config files are validated against an embedded JSON Schema before they are
// decoded, so unknown keys and out-of-range values are reported with the
// offending key.
package config
