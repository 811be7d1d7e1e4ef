// Package storage persists the viewer's session and preferences.
package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "chesslens"

// GetDataDir returns the platform-specific data directory for the application.
// - macOS: ~/Library/Application Support/chesslens/
// - Linux: ~/.local/share/chesslens/
// - Windows: %APPDATA%/chesslens/
func GetDataDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		baseDir = filepath.Join(homeDir, "Library", "Application Support")

	case "windows":
		baseDir = os.Getenv("APPDATA")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, "AppData", "Roaming")
		}

	default:
		// XDG_DATA_HOME wins over ~/.local/share
		baseDir = os.Getenv("XDG_DATA_HOME")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, ".local", "share")
		}
	}

	dataDir := filepath.Join(baseDir, appName)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}

// DatabaseDir resolves the BadgerDB directory. An empty dir means the "db"
// folder under GetDataDir.
func DatabaseDir(dir string) (string, error) {
	if dir == "" {
		dataDir, err := GetDataDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(dataDir, "db")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
