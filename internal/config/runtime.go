package config

import (
	"os"
	"path/filepath"
)

// GetRuntimePath is usable before any config is parsed, e.g. to find the .env file.
func GetRuntimePath() string {
	return resolveRuntimePath(os.Getenv("TELMII_RUNTIME_PATH"))
}

func resolveRuntimePath(path string) string {
	if path == "" {
		path = ".telmii"
	}

	if !filepath.IsAbs(path) {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path)
	}
	return path
}
