package fs

import (
	"os"
	"path/filepath"
)

// DefaultConfigPath returns the default location of the toolkit config
// file. Uses XDG_CONFIG_HOME if set, otherwise ~/.config/aibatch, or a
// config.json in the working directory if home is unavailable.
func DefaultConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "aibatch", "config.json")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "config.json"
	}
	return filepath.Join(home, ".config", "aibatch", "config.json")
}
