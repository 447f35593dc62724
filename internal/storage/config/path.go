// Package config provides configuration file parsing and the default
// directory layout.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// DefaultConfigDir is $XDG_CONFIG_HOME/blendio, or ~/.config/blendio.
func DefaultConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "blendio")
	}
	return ExpandPath("~/.config/blendio")
}

// DefaultDataDir is $XDG_DATA_HOME/blendio, or ~/.local/share/blendio.
func DefaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "blendio")
	}
	return ExpandPath("~/.local/share/blendio")
}
