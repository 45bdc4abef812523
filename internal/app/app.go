// Package app wires configuration into the stores and clients shared by
// the server and the CLI.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dgallion1/startpage/internal/bridge"
	"github.com/dgallion1/startpage/internal/config"
	"github.com/dgallion1/startpage/internal/importer"
	"github.com/dgallion1/startpage/internal/kvstore"
	"github.com/dgallion1/startpage/internal/treestore"
)

// OpenTreeStore opens the configured backend and the tree store on top of
// it. Callers close the returned kvstore.Store.
func OpenTreeStore(ctx context.Context, cfg config.Config, log *slog.Logger) (*treestore.Store, kvstore.Store, error) {
	kv, err := kvstore.Open(ctx, kvstore.Options{
		Backend:         cfg.StoreBackend,
		DataDir:         cfg.DataDir,
		SQLitePath:      cfg.SQLitePath,
		PathstoreURL:    cfg.PathstoreURL,
		PathstoreAPIKey: cfg.PathstoreAPIKey,
		// Remote calls share one timeout.
		Timeout:         cfg.BridgeTimeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", cfg.StoreBackend, err)
	}

	titles := importer.NewTitleFetcher(&http.Client{Timeout: cfg.TitleFetchTimeout})
	store := treestore.New(kv, cfg.StorageKey, log, treestore.WithTitleFetcher(titles.FetchTitle))
	return store, kv, nil
}

// NewClearer returns the host bridge client, or a simulated clearer when
// no bridge is configured.
func NewClearer(cfg config.Config) bridge.Clearer {
	if cfg.BridgeURL == "" {
		return bridge.NewSimulated(bridge.DefaultSimulatedDelay)
	}
	return bridge.NewClient(cfg.BridgeURL, cfg.BridgeAPIKey, cfg.BridgeTimeout)
}

// CloseClearer releases idle connections held by a bridge client.
func CloseClearer(c bridge.Clearer) {
	if bc, ok := c.(*bridge.Client); ok {
		bc.Close()
	}
}
