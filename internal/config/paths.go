package config

import (
	"os"
	"path/filepath"
)

// ZenithPath returns the root directory for Zenith data.
// It uses $ZENITH_PATH if set, otherwise defaults to ~/.zenith.
func ZenithPath() string {
	if v := os.Getenv("ZENITH_PATH"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".zenith")
	}
	return filepath.Join(home, ".zenith")
}

// ConfigPath returns the path to the Zenith config file.
func ConfigPath() string {
	return filepath.Join(ZenithPath(), "config.jsonc")
}

// DotenvPath returns the path to the Zenith .env file.
func DotenvPath() string {
	return filepath.Join(ZenithPath(), ".env")
}

// ProfilePath returns the path to the user profile file.
func ProfilePath() string {
	return filepath.Join(ZenithPath(), "profile.yaml")
}

// DatabasePath returns the path to the SQLite database holding tasks,
// habits, and the memory bank.
func DatabasePath() string {
	return filepath.Join(ZenithPath(), "zenith.db")
}

// SessionsPath returns the directory holding conversation transcripts.
func SessionsPath() string {
	return filepath.Join(ZenithPath(), "sessions")
}
