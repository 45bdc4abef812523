package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/startpage/internal/api"
	"github.com/dgallion1/startpage/internal/app"
	"github.com/dgallion1/startpage/internal/config"
	"github.com/dgallion1/startpage/internal/gesture"
	"github.com/dgallion1/startpage/internal/pipeline"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := run(log, cfg); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize storage and clients.
	store, kv, err := app.OpenTreeStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer kv.Close()

	clearer := app.NewClearer(cfg)
	defer app.CloseClearer(clearer)

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, clearer, nil, log)
	orch.Start(ctx)

	resolver := gesture.NewResolver(store, gesture.Options{
		ReorderHold: cfg.ReorderHold,
		HeaderHold:  cfg.HeaderHold,
		Log:         log,
	})

	// Initialize HTTP server.
	srv := api.NewServer(store, resolver, orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting startpage",
			"port", cfg.Port,
			"store", cfg.StoreBackend,
			"bridge", clearer.Endpoint(),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful shutdown.
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down...")

		resolver.Close()
		orch.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
