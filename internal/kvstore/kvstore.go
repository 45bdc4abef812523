// Package kvstore persists opaque values under string keys. The dashboard
// document is one such value.
package kvstore

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgallion1/startpage/internal/pathstore"
)

// Store is a key-value persistence backend. Get reports ok == false when
// the key has never been written or was deleted.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

const (
	BackendMemory    = "memory"
	BackendFile      = "file"
	BackendSQLite    = "sqlite"
	BackendPathstore = "pathstore"
)

var ErrUnknownBackend = errors.New("unknown store backend")

// Options selects and configures a backend.
type Options struct {
	Backend string

	// file
	DataDir string

	// sqlite
	SQLitePath string

	// pathstore
	PathstoreURL    string
	PathstoreAPIKey string
	Timeout         time.Duration
}

// Open returns the backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendMemory:
		return NewMemory(), nil
	case BackendFile, "":
		return NewFile(opts.DataDir)
	case BackendSQLite:
		path := opts.SQLitePath
		if path == "" {
			path = filepath.Join(opts.DataDir, "startpage.db")
		}
		return OpenSQLite(ctx, path)
	case BackendPathstore:
		if opts.PathstoreURL == "" {
			return nil, fmt.Errorf("pathstore backend: url is required")
		}
		return NewPathstore(pathstore.NewClient(opts.PathstoreURL, opts.PathstoreAPIKey, opts.Timeout)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
