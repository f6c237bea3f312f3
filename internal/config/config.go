package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	defaultConnectTimeout = 10 * time.Second
	defaultFetchTimeout   = 10 * time.Second
)

// Config represents the global ~/.sociochat/config.toml.
type Config struct {
	APIURL      string `toml:"api_url"`
	SocketURL   string `toml:"socket_url"`
	DefaultUser string `toml:"default_user"`

	// Timeouts in seconds; zero means the built-in default.
	ConnectTimeoutSec int `toml:"connect_timeout_sec"`
	FetchTimeoutSec   int `toml:"fetch_timeout_sec"`
}

// ConnectTimeout returns the transport dial timeout.
func (c *Config) ConnectTimeout() time.Duration {
	if c.ConnectTimeoutSec <= 0 {
		return defaultConnectTimeout
	}
	return time.Duration(c.ConnectTimeoutSec) * time.Second
}

// FetchTimeout returns the history request timeout.
func (c *Config) FetchTimeout() time.Duration {
	if c.FetchTimeoutSec <= 0 {
		return defaultFetchTimeout
	}
	return time.Duration(c.FetchTimeoutSec) * time.Second
}

// Load reads config from the given path. Returns an error if the file is
// missing or malformed.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to the given path with 0600 permissions, creating
// parent directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
