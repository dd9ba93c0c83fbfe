// Package paths provides XDG-compliant path resolution for teamwatch.
//
// Resolution order:
// 1. TEAMWATCH_HOME (portable root) → $TEAMWATCH_HOME/{config,state}
// 2. XDG env vars → $XDG_*_HOME/teamwatch
// 3. Platform defaults → ~/.config/teamwatch, ~/.local/state/teamwatch
package paths

import (
	"os"
	"path/filepath"
)

const appName = "teamwatch"

// getConfigHome returns the base config home directory.
func getConfigHome() string {
	if home := os.Getenv("TEAMWATCH_HOME"); home != "" {
		return filepath.Join(home, "config")
	}
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config")
	}
	return ""
}

// getStateHome returns the base state home directory.
func getStateHome() string {
	if home := os.Getenv("TEAMWATCH_HOME"); home != "" {
		return filepath.Join(home, "state")
	}
	if xdgStateHome := os.Getenv("XDG_STATE_HOME"); xdgStateHome != "" {
		return xdgStateHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".local", "state")
	}
	return ""
}

// ConfigDir returns the configuration directory holding teamwatch.yml and
// custom locale tables.
func ConfigDir() string {
	base := getConfigHome()
	if base == "" {
		return ""
	}
	if os.Getenv("TEAMWATCH_HOME") != "" {
		return base
	}
	return filepath.Join(base, appName)
}

// StateDir returns the directory for logs and other runtime state.
func StateDir() string {
	base := getStateHome()
	if base == "" {
		return ""
	}
	if os.Getenv("TEAMWATCH_HOME") != "" {
		return base
	}
	return filepath.Join(base, appName)
}

// LocaleDir returns the directory searched for user locale tables by name.
func LocaleDir() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "locales")
}

// LogFilePath returns the default log file location.
func LogFilePath() string {
	dir := StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "teamwatch.log")
}
