// Package profile manages the per-user on-disk layout under ~/.sociochat:
// config, logs, and the single-instance lock for each user profile.
package profile

import (
	"os"
	"path/filepath"
)

// BaseDir returns ~/.sociochat.
func BaseDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".sociochat")
}

// ConfigPath returns the global config file path.
func ConfigPath() string {
	return filepath.Join(BaseDir(), "config.toml")
}

// Dir returns the profile-specific directory for a user.
func Dir(user string) string {
	return filepath.Join(BaseDir(), "profiles", user)
}

// LogDir returns the log directory for a profile.
func LogDir(user string) string {
	return filepath.Join(Dir(user), "logs")
}

// LogPath returns the session log file path for a profile.
func LogPath(user string) string {
	return filepath.Join(LogDir(user), "sociochat.log")
}

// EnsureDir creates the profile directory tree with 0700 permissions.
func EnsureDir(user string) error {
	for _, d := range []string{Dir(user), LogDir(user)} {
		if err := os.MkdirAll(d, 0700); err != nil {
			return err
		}
	}
	return nil
}
