package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// configDirName is the directory under the OS config dir holding todo.toml.
const configDirName = "todo"

// configFileName is the name of the config file.
const configFileName = "todo.toml"

// findUserConfigFile returns the first existing user-level config file, or
// the empty string when there is none.
func findUserConfigFile() string {
	for _, candidate := range userConfigCandidates() {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

// userConfigCandidates lists config file locations in lookup order.
func userConfigCandidates() []string {
	var candidates []string
	if dir := osUserConfigDir(); dir != "" {
		candidates = append(candidates, filepath.Join(dir, configDirName, configFileName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".todo.toml"))
	}
	return candidates
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		return os.Getenv("APPDATA")
	case "darwin":
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}

// expandPath expands environment variables and a leading ~ in p.
// On Windows both ~\ and %VAR% forms are understood.
func expandPath(p string) string {
	if p == "" {
		return p
	}

	expanded := os.ExpandEnv(p)
	if runtime.GOOS == "windows" {
		expanded = expandWindowsEnv(expanded)
	}

	switch {
	case expanded == "~":
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
	case strings.HasPrefix(expanded, "~/"),
		runtime.GOOS == "windows" && strings.HasPrefix(expanded, `~\`):
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, expanded[2:])
		}
	}
	return expanded
}

// expandWindowsEnv replaces %VAR% references. Unknown variables are kept.
func expandWindowsEnv(p string) string {
	if !strings.Contains(p, "%") {
		return p
	}
	var b strings.Builder
	for i := 0; i < len(p); {
		if p[i] != '%' {
			b.WriteByte(p[i])
			i++
			continue
		}
		end := strings.IndexByte(p[i+1:], '%')
		if end < 0 {
			b.WriteString(p[i:])
			break
		}
		key := p[i+1 : i+1+end]
		if val, ok := os.LookupEnv(key); ok && key != "" {
			b.WriteString(val)
		} else {
			b.WriteString(p[i : i+end+2])
		}
		i += end + 2
	}
	return b.String()
}
