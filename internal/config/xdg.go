// ABOUTME: Locates agileflow's data and config directories
// ABOUTME: Follows XDG env vars, falling back under $HOME
package config

import (
	"os"
	"path/filepath"
)

// GetDataHome returns the base directory for user data files.
// Honors XDG_DATA_HOME, defaulting to ~/.local/share.
func GetDataHome() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return xdg
	}
	home := os.Getenv("HOME")
	return filepath.Join(home, ".local", "share")
}

// GetConfigHome returns the base directory for user config files.
// Honors XDG_CONFIG_HOME, defaulting to ~/.config.
func GetConfigHome() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return xdg
	}
	home := os.Getenv("HOME")
	return filepath.Join(home, ".config")
}
