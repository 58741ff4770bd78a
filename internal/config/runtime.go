package config

import (
	"os"
	"path/filepath"
)

// GetRuntimePath is usable before any config is parsed, e.g. to locate .env.
func GetRuntimePath() string {
	path := os.Getenv("SENTINEL_RUNTIME_PATH")
	if path == "" {
		path = ".sentinel"
	}
	return resolveRuntimePath(path)
}

// resolveRuntimePath anchors relative paths in the user's home directory.
func resolveRuntimePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path)
}
