package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "STORE_BACKEND", "DATA_DIR", "SQLITE_PATH", "STORAGE_KEY", "REORDER_HOLD", "HEADER_HOLD", "WORKER_COUNT"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.StoreBackend != "file" {
		t.Errorf("expected file backend, got %q", cfg.StoreBackend)
	}
	if cfg.StorageKey != "safari_dashboard_data" {
		t.Errorf("expected default storage key, got %q", cfg.StorageKey)
	}
	if want := filepath.Join("./data", "startpage.db"); cfg.SQLitePath != want {
		t.Errorf("expected sqlite path %q, got %q", want, cfg.SQLitePath)
	}
	if cfg.ReorderHold != 400*time.Millisecond || cfg.HeaderHold != 500*time.Millisecond {
		t.Errorf("expected 400ms/500ms holds, got %v/%v", cfg.ReorderHold, cfg.HeaderHold)
	}
	if cfg.ClearLookback != 24*time.Hour {
		t.Errorf("expected 24h lookback, got %v", cfg.ClearLookback)
	}
	if cfg.NoticeTTL != 3*time.Second {
		t.Errorf("expected 3s notice ttl, got %v", cfg.NoticeTTL)
	}
	if cfg.WorkerCount != 1 || cfg.MaxQueueSize != 16 {
		t.Errorf("expected 1 worker / queue 16, got %d / %d", cfg.WorkerCount, cfg.MaxQueueSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("DATA_DIR", "/var/lib/startpage")
	t.Setenv("SQLITE_PATH", "")
	t.Setenv("REORDER_HOLD", "250ms")
	t.Setenv("WORKER_COUNT", "3")
	t.Setenv("MAX_IMPORT_BYTES", "1024")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("expected port 9000, got %q", cfg.Port)
	}
	if cfg.SQLitePath != "/var/lib/startpage/startpage.db" {
		t.Errorf("expected sqlite path under data dir, got %q", cfg.SQLitePath)
	}
	if cfg.ReorderHold != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %v", cfg.ReorderHold)
	}
	if cfg.WorkerCount != 3 {
		t.Errorf("expected 3 workers, got %d", cfg.WorkerCount)
	}
	if cfg.MaxImportBytes != 1024 {
		t.Errorf("expected 1024, got %d", cfg.MaxImportBytes)
	}
}

func TestLoad_ClampsInvalidValues(t *testing.T) {
	t.Setenv("WORKER_COUNT", "-2")
	t.Setenv("HEADER_HOLD", "-1s")
	t.Setenv("NOTICE_TTL", "not-a-duration")

	cfg := Load()
	if cfg.WorkerCount != 1 {
		t.Errorf("expected clamped worker count 1, got %d", cfg.WorkerCount)
	}
	if cfg.HeaderHold != 500*time.Millisecond {
		t.Errorf("expected clamped header hold, got %v", cfg.HeaderHold)
	}
	if cfg.NoticeTTL != 3*time.Second {
		t.Errorf("expected default notice ttl, got %v", cfg.NoticeTTL)
	}
}

func TestValidate(t *testing.T) {
	base := Config{StoreBackend: "file", StorageKey: "k"}
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"file ok", func(c *Config) {}, false},
		{"memory ok", func(c *Config) { c.StoreBackend = "memory" }, false},
		{"unknown backend", func(c *Config) { c.StoreBackend = "redis" }, true},
		{"pathstore without url", func(c *Config) { c.StoreBackend = "pathstore"; c.PathstoreAPIKey = "x" }, true},
		{"pathstore without key", func(c *Config) { c.StoreBackend = "pathstore"; c.PathstoreURL = "http://ps" }, true},
		{"pathstore ok", func(c *Config) {
			c.StoreBackend = "pathstore"
			c.PathstoreURL = "http://ps"
			c.PathstoreAPIKey = "x"
		}, false},
		{"empty key", func(c *Config) { c.StorageKey = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("expected error=%v, got %v", tt.wantErr, err)
			}
		})
	}
}
