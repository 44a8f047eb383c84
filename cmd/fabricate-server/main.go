package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/daniacca/fabricate/internal/storage/snapshots"
	"github.com/daniacca/fabricate/internal/storage/sqlstore"
)

func main() {
	cfg, err := loadServerConfig(os.Args[1:], os.Getenv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := NewLogger(cfg.LogLevel)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := setupServer(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to start: %v", err)
	}
	defer func() {
		if err := srv.Close(); err != nil {
			logger.Errorf("Shutdown error: %v", err)
		}
	}()

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Infof("fabricate-server listening on %s (store=%s snapshots=%s log_level=%s)",
		cfg.Addr, cfg.StoreDriver, cfg.SnapshotDriver, logger.Level())
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorf("Server error: %v", err)
	}
}

// setupServer wires the stores and the initial catalog into a new Server.
// A catalog file, when given, replaces whatever the store held.
func setupServer(ctx context.Context, cfg ServerConfig, logger *Logger) (*Server, error) {
	srv := NewServer(logger, cfg.SelectionOptions())

	if cfg.StoreDriver != "memory" {
		store, err := sqlstore.Open(ctx, cfg.StoreDriver, cfg.StoreDSN)
		if err != nil {
			return nil, err
		}
		srv.SetStore(store)
		if err := srv.restoreFromStore(ctx); err != nil {
			_ = srv.Close()
			return nil, fmt.Errorf("restore from %s store: %w", cfg.StoreDriver, err)
		}
	}

	switch cfg.SnapshotDriver {
	case "fs":
		store, err := snapshots.NewFSStore(cfg.SnapshotDir)
		if err != nil {
			_ = srv.Close()
			return nil, err
		}
		srv.SetSnapshotStore(store)
		logger.Infof("Snapshots stored in directory %s", cfg.SnapshotDir)
	case "s3":
		store, err := snapshots.NewS3Store(ctx, snapshots.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
		})
		if err != nil {
			_ = srv.Close()
			return nil, err
		}
		srv.SetSnapshotStore(store)
		logger.Infof("Snapshots stored in bucket %s", cfg.S3Bucket)
	}

	if cfg.CatalogFile != "" {
		catalogCfg, _, err := loadCatalogFromFile(cfg.CatalogFile)
		if err != nil {
			_ = srv.Close()
			return nil, fmt.Errorf("load catalog %s: %w", cfg.CatalogFile, err)
		}
		if _, err := srv.applyCatalog(ctx, catalogCfg); err != nil {
			_ = srv.Close()
			return nil, err
		}
	}
	return srv, nil
}
