package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/daniacca/fabricate/internal/fabricate"
	"github.com/daniacca/fabricate/internal/storage/snapshots"
	"github.com/daniacca/fabricate/internal/storage/sqlstore"
)

// Server represents the HTTP server for fabricate
type Server struct {
	manager       *fabricate.InventoryManager
	notifications *fabricate.NotificationManager
	options       fabricate.SelectionOptions
	metrics       *Metrics

	store     *sqlstore.Store // optional
	snapshots snapshots.Store // optional

	logger *Logger
}

// NewServer creates a new server instance without a catalog. Inventories
// publish their events to the server's notification manager.
func NewServer(logger *Logger, opts fabricate.SelectionOptions) *Server {
	metrics := NewMetrics()
	notifications := fabricate.NewNotificationManager(fabricate.DeliveryOptions{
		Logger:  logger,
		Observe: metrics.ObserveDelivery,
	})
	return &Server{
		manager: fabricate.NewInventoryManager(nil).
			WithSelectionOptions(opts).
			WithEventSink(notifications).
			WithLogger(logger),
		notifications: notifications,
		options:       opts,
		metrics:       metrics,
		logger:        logger,
	}
}

// SetStore enables persistence of catalogs and inventories.
func (s *Server) SetStore(store *sqlstore.Store) {
	s.store = store
}

// SetSnapshotStore enables the snapshot endpoints.
func (s *Server) SetSnapshotStore(store snapshots.Store) {
	s.snapshots = store
}

// Routes returns the HTTP handler serving every endpoint.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", s.metrics.Handler())
	mux.Handle("/loglevel", s.logger.LevelHandler())
	mux.HandleFunc("/catalog", s.handleCatalog)
	mux.HandleFunc("/select", s.handleSelect)
	mux.HandleFunc("/actors", s.handleListActors)
	mux.HandleFunc("/actors/", s.handleActorRoutes)
	mux.HandleFunc("/notifiers", s.handleNotifiersRoutes)
	mux.HandleFunc("/notifiers/", s.handleNotifiersRoutes)
	mux.HandleFunc("/ws/", s.handleWebSocket)
	return mux
}

// applyCatalog builds cfg, rebinds every inventory to it and persists it
// when a store is configured.
func (s *Server) applyCatalog(ctx context.Context, cfg fabricate.CatalogConfig) (*fabricate.Catalog, error) {
	catalog, err := fabricate.BuildCatalogFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	s.manager.SetCatalog(catalog)
	if s.store != nil {
		if err := s.store.SaveCatalog(ctx, cfg); err != nil {
			return nil, err
		}
	}
	s.logger.Infof("Catalog loaded: name=%s essences=%d components=%d recipes=%d",
		catalog.Name, len(cfg.Essences), len(cfg.Components), len(cfg.Recipes))
	return catalog, nil
}

// restoreFromStore loads the latest catalog and every saved inventory.
// A store holding no catalog is not an error.
func (s *Server) restoreFromStore(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	cfg, err := s.store.LatestCatalog(ctx)
	if errors.Is(err, sqlstore.ErrCatalogNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	catalog, err := fabricate.BuildCatalogFromConfig(cfg)
	if err != nil {
		return err
	}
	s.manager.SetCatalog(catalog)

	records, err := s.store.ListInventories(ctx)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if rec.Catalog != catalog.Name {
			s.logger.Warnf("Inventory saved against another catalog: actor=%s catalog=%s active=%s", rec.Actor, rec.Catalog, catalog.Name)
		}
		contents, err := catalog.ComponentsFromRecord(rec.Contents)
		if err != nil {
			s.logger.Warnf("Skipping inventory: actor=%s error=%v", rec.Actor, err)
			continue
		}
		if _, err := s.manager.CreateInventory(rec.Actor, contents); err != nil {
			s.logger.Warnf("Skipping inventory: actor=%s error=%v", rec.Actor, err)
		}
	}
	s.logger.Infof("Restored from store: catalog=%s inventories=%d", catalog.Name, len(s.manager.ListInventories()))
	return nil
}

// persistInventory saves inv when a store is configured. Failures are
// logged; the in-memory state stays authoritative.
func (s *Server) persistInventory(ctx context.Context, inv *fabricate.Inventory) {
	if s.store == nil {
		return
	}
	snapshot := inv.Snapshot()
	rec := sqlstore.InventoryRecord{Actor: snapshot.ActorID, Catalog: snapshot.Catalog, Contents: snapshot.Contents}
	if err := s.store.SaveInventory(ctx, rec); err != nil {
		s.logger.Errorf("Failed to persist inventory: actor=%s error=%v", rec.Actor, err)
	}
}

// Close stops the notification workers and closes the store.
func (s *Server) Close() error {
	err := s.notifications.Close()
	if s.store != nil {
		if cerr := s.store.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
