package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Persistence
	StoreBackend string
	DataDir      string
	SQLitePath   string
	StorageKey   string

	// Pathstore connection
	PathstoreURL    string
	PathstoreAPIKey string

	// Host bridge for clearing browsing data
	BridgeURL     string
	BridgeAPIKey  string
	BridgeTimeout time.Duration
	ClearLookback time.Duration

	// Gesture thresholds
	ReorderHold time.Duration
	HeaderHold  time.Duration

	// Transient notices
	NoticeTTL time.Duration

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Job state
	JobTTL time.Duration

	// Import limits
	MaxImportBytes    int64
	TitleFetchTimeout time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("STARTPAGE_API_KEY"),

		StoreBackend: envOr("STORE_BACKEND", "file"),
		DataDir:      envOr("DATA_DIR", "./data"),
		SQLitePath:   os.Getenv("SQLITE_PATH"),
		StorageKey:   envOr("STORAGE_KEY", "safari_dashboard_data"),

		PathstoreURL:    os.Getenv("PATHSTORE_URL"),
		PathstoreAPIKey: os.Getenv("PATHSTORE_API_KEY"),

		BridgeURL:     os.Getenv("BRIDGE_URL"),
		BridgeAPIKey:  os.Getenv("BRIDGE_API_KEY"),
		BridgeTimeout: envDuration("BRIDGE_TIMEOUT", 30*time.Second),
		ClearLookback: envDuration("CLEAR_LOOKBACK", 24*time.Hour),

		ReorderHold: envDuration("REORDER_HOLD", 400*time.Millisecond),
		HeaderHold:  envDuration("HEADER_HOLD", 500*time.Millisecond),

		NoticeTTL: envDuration("NOTICE_TTL", 3*time.Second),

		WorkerCount:  envInt("WORKER_COUNT", 1),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 16),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		MaxImportBytes:    envInt64("MAX_IMPORT_BYTES", 5242880), // 5MB
		TitleFetchTimeout: envDuration("TITLE_FETCH_TIMEOUT", 5*time.Second),
	}

	if cfg.SQLitePath == "" {
		cfg.SQLitePath = filepath.Join(cfg.DataDir, "startpage.db")
	}
	if cfg.BridgeTimeout <= 0 {
		cfg.BridgeTimeout = 30 * time.Second
	}
	if cfg.ClearLookback <= 0 {
		cfg.ClearLookback = 24 * time.Hour
	}
	if cfg.ReorderHold <= 0 {
		cfg.ReorderHold = 400 * time.Millisecond
	}
	if cfg.HeaderHold <= 0 {
		cfg.HeaderHold = 500 * time.Millisecond
	}
	if cfg.NoticeTTL <= 0 {
		cfg.NoticeTTL = 3 * time.Second
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 1
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 16
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.MaxImportBytes <= 0 {
		cfg.MaxImportBytes = 5242880
	}
	if cfg.TitleFetchTimeout <= 0 {
		cfg.TitleFetchTimeout = 5 * time.Second
	}

	return cfg
}

func (c Config) Validate() error {
	switch c.StoreBackend {
	case "memory", "file", "sqlite":
	case "pathstore":
		if c.PathstoreURL == "" {
			return fmt.Errorf("PATHSTORE_URL is required for the pathstore backend")
		}
		if c.PathstoreAPIKey == "" {
			return fmt.Errorf("PATHSTORE_API_KEY is required for the pathstore backend")
		}
	default:
		return fmt.Errorf("STORE_BACKEND %q is not one of memory, file, sqlite, pathstore", c.StoreBackend)
	}
	if c.StorageKey == "" {
		return fmt.Errorf("STORAGE_KEY must not be empty")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
