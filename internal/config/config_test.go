package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Snapshot.Backend != BackendMemory {
		t.Errorf("backend = %q, want memory", cfg.Snapshot.Backend)
	}
	if cfg.Router.NotFound != "/404" {
		t.Errorf("notFound = %q, want /404", cfg.Router.NotFound)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `{
  "name": "pong",
  "server": {"port": 8080},
  "router": {"notFound": "/missing"},
  "snapshot": {"backend": "disk", "dir": "/tmp/snaps"}
}`
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Name != "pong" {
		t.Errorf("name = %q", cfg.Name)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Router.NotFound != "/missing" {
		t.Errorf("notFound = %q", cfg.Router.NotFound)
	}
	if cfg.Snapshot.Backend != BackendDisk || cfg.Snapshot.Dir != "/tmp/snaps" {
		t.Errorf("snapshot = %+v", cfg.Snapshot)
	}
	// Unset sections keep their defaults.
	if cfg.Live.PingInterval != "30s" {
		t.Errorf("pingInterval = %q, want 30s", cfg.Live.PingInterval)
	}
}

func TestLoadRejectsInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults pass", func(c *Config) {}, false},
		{"unknown backend", func(c *Config) { c.Snapshot.Backend = "redis" }, true},
		{"sql without dsn", func(c *Config) { c.Snapshot.Backend = BackendSQL }, true},
		{"sql with dsn", func(c *Config) {
			c.Snapshot.Backend = BackendSQL
			c.Snapshot.DSN = "postgres://localhost/pathline"
		}, false},
		{"s3 without bucket", func(c *Config) { c.Snapshot.Backend = BackendS3 }, true},
		{"bad duration", func(c *Config) { c.Live.ReadTimeout = "soon" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := New()
	cfg.Name = "pong"
	if err := cfg.SaveTo(filepath.Join(dir, ConfigFileName)); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Name != "pong" {
		t.Errorf("name = %q, want pong", loaded.Name)
	}
}

func TestAddressAndDuration(t *testing.T) {
	cfg := New()
	if got := cfg.Address(); got != "localhost:3000" {
		t.Errorf("address = %q", got)
	}
	cfg.Server.Host = ""
	cfg.Server.Port = 0
	if got := cfg.Address(); got != "localhost:3000" {
		t.Errorf("zero-value address = %q", got)
	}

	if got := Duration("45s", time.Minute); got != 45*time.Second {
		t.Errorf("Duration(45s) = %v", got)
	}
	if got := Duration("", time.Minute); got != time.Minute {
		t.Errorf("Duration empty = %v", got)
	}
	if got := Duration("junk", time.Minute); got != time.Minute {
		t.Errorf("Duration junk = %v", got)
	}
}
