package config

import (
	"os"
	"path/filepath"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// DataDir returns ~/.statussage, creating it when missing.
func DataDir() string {
	home, _ := os.UserHomeDir()
	path := filepath.Join(home, ".statussage")
	_ = os.MkdirAll(path, 0700)
	return path
}

// SecretsPath returns the encrypted fallback secrets file used when no OS keychain is available.
func SecretsPath() string {
	return filepath.Join(DataDir(), "secrets.json")
}
