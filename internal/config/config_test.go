package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := &Config{
		APIURL:            "https://api.sociofy.example",
		SocketURL:         "wss://api.sociofy.example/socket",
		DefaultUser:       "a@sociofy.io",
		ConnectTimeoutSec: 5,
	}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.APIURL != cfg.APIURL || loaded.SocketURL != cfg.SocketURL {
		t.Errorf("loaded = %+v, want %+v", loaded, cfg)
	}
	if loaded.DefaultUser != "a@sociofy.io" {
		t.Errorf("DefaultUser = %q", loaded.DefaultUser)
	}
	if loaded.ConnectTimeout() != 5*time.Second {
		t.Errorf("ConnectTimeout() = %v, want 5s", loaded.ConnectTimeout())
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load("/nonexistent/config.toml"); err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestSavePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	if err := Save(path, &Config{DefaultUser: "a@sociofy.io"}); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file permission = %o, want 0600", perm)
	}
}

func TestTimeoutDefaults(t *testing.T) {
	cfg := &Config{}
	if cfg.ConnectTimeout() != defaultConnectTimeout {
		t.Errorf("ConnectTimeout() = %v, want default", cfg.ConnectTimeout())
	}
	if cfg.FetchTimeout() != defaultFetchTimeout {
		t.Errorf("FetchTimeout() = %v, want default", cfg.FetchTimeout())
	}
}

func TestResolveUserPrecedence(t *testing.T) {
	cfg := &Config{DefaultUser: "cfg@sociofy.io"}

	if got := ResolveUser("flag@sociofy.io", cfg); got != "flag@sociofy.io" {
		t.Errorf("flag override: got %q", got)
	}
	if got := ResolveUser("", cfg); got != "cfg@sociofy.io" {
		t.Errorf("config default: got %q", got)
	}
	if got := ResolveUser("", nil); got != "" {
		t.Errorf("nothing configured: got %q, want empty", got)
	}
}
