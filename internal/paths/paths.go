// Package paths resolves the on-disk locations soundpad uses.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

const appName = "soundpad"

// ExpandHome replaces a leading "~" with the user's home directory.
// Paths without a leading "~" are returned cleaned but otherwise unchanged.
func ExpandHome(p string) string {
	if p == "" {
		return ""
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Clean(p)
		}
		return filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return filepath.Clean(p)
}

// DataDir returns the directory holding the database and log file.
// $XDG_DATA_HOME is honoured; otherwise ~/.local/share/soundpad.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "."+appName)
	}
	return filepath.Join(home, ".local", "share", appName)
}

// ConfigDir returns the user-level configuration directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "."+appName)
	}
	return filepath.Join(home, ".config", appName)
}

// DefaultConfigPath returns ~/.config/soundpad/config.yaml (or the XDG equivalent).
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DefaultDBPath returns the default SQLite database location.
func DefaultDBPath() string {
	return filepath.Join(DataDir(), appName+".db")
}

// DefaultLogPath returns the default log file location.
func DefaultLogPath() string {
	return filepath.Join(DataDir(), appName+".log")
}
