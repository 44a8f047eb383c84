// Package sqlstore persists catalogs and inventories in SQLite or Postgres
// through database/sql. Payloads are stored as JSON documents.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/daniacca/fabricate/internal/fabricate"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver
)

var (
	ErrCatalogNotFound   = errors.New("catalog not found")
	ErrInventoryNotFound = errors.New("inventory not found")
)

// InventoryRecord is one persisted inventory.
type InventoryRecord struct {
	Actor    fabricate.ActorID
	Catalog  string
	Contents fabricate.Record
}

// Store is a SQL-backed store for catalogs and inventories.
type Store struct {
	db       *sql.DB
	postgres bool
	now      func() time.Time
}

// Open connects to the database and creates the tables when missing.
// driver is "sqlite" or "postgres" (alias "pgx").
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	var sqlDriver string
	switch driver {
	case "sqlite":
		sqlDriver = "sqlite"
		if dsn == "" {
			dsn = "fabricate.db"
		}
	case "postgres", "pgx":
		sqlDriver = "pgx"
		if dsn == "" {
			return nil, fmt.Errorf("postgres store requires a DSN")
		}
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}

	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	if sqlDriver == "sqlite" {
		// A single connection serializes writers and avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, postgres: sqlDriver == "pgx", now: time.Now}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS catalogs (
			name TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			saved_at BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS inventories (
			actor TEXT PRIMARY KEY,
			catalog TEXT NOT NULL,
			payload TEXT NOT NULL,
			saved_at BIGINT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}
	return nil
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *Store) rebind(query string) string {
	if !s.postgres {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// SaveCatalog upserts a catalog under its name.
func (s *Store) SaveCatalog(ctx context.Context, cfg fabricate.CatalogConfig) error {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode catalog %s: %w", cfg.Name, err)
	}
	_, err = s.db.ExecContext(ctx, s.rebind(`INSERT INTO catalogs (name, payload, saved_at) VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at`),
		cfg.Name, string(payload), s.now().UnixNano())
	if err != nil {
		return fmt.Errorf("save catalog %s: %w", cfg.Name, err)
	}
	return nil
}

// LoadCatalog returns the catalog saved under name.
func (s *Store) LoadCatalog(ctx context.Context, name string) (fabricate.CatalogConfig, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT payload FROM catalogs WHERE name = ?`), name)
	return scanCatalog(row, name)
}

// LatestCatalog returns the most recently saved catalog.
func (s *Store) LatestCatalog(ctx context.Context) (fabricate.CatalogConfig, error) {
	row := s.db.QueryRowContext(ctx, `SELECT payload FROM catalogs ORDER BY saved_at DESC, name LIMIT 1`)
	return scanCatalog(row, "latest")
}

func scanCatalog(row *sql.Row, name string) (fabricate.CatalogConfig, error) {
	var payload string
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fabricate.CatalogConfig{}, fmt.Errorf("%w: %s", ErrCatalogNotFound, name)
		}
		return fabricate.CatalogConfig{}, fmt.Errorf("load catalog %s: %w", name, err)
	}
	var cfg fabricate.CatalogConfig
	if err := json.Unmarshal([]byte(payload), &cfg); err != nil {
		return fabricate.CatalogConfig{}, fmt.Errorf("decode catalog %s: %w", name, err)
	}
	return cfg, nil
}

// ListCatalogs returns the saved catalog names in sorted order.
func (s *Store) ListCatalogs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM catalogs ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list catalogs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan catalog: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalogs: %w", err)
	}
	return names, nil
}

// SaveInventory upserts the contents of an actor's inventory.
func (s *Store) SaveInventory(ctx context.Context, rec InventoryRecord) error {
	contents := rec.Contents
	if contents == nil {
		contents = fabricate.Record{}
	}
	payload, err := json.Marshal(contents)
	if err != nil {
		return fmt.Errorf("encode inventory %s: %w", rec.Actor, err)
	}
	_, err = s.db.ExecContext(ctx, s.rebind(`INSERT INTO inventories (actor, catalog, payload, saved_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (actor) DO UPDATE SET catalog = excluded.catalog, payload = excluded.payload, saved_at = excluded.saved_at`),
		string(rec.Actor), rec.Catalog, string(payload), s.now().UnixNano())
	if err != nil {
		return fmt.Errorf("save inventory %s: %w", rec.Actor, err)
	}
	return nil
}

// LoadInventory returns the saved inventory of actor.
func (s *Store) LoadInventory(ctx context.Context, actor fabricate.ActorID) (InventoryRecord, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT actor, catalog, payload FROM inventories WHERE actor = ?`), string(actor))
	rec, err := scanInventory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return InventoryRecord{}, fmt.Errorf("%w: %s", ErrInventoryNotFound, actor)
	}
	return rec, err
}

// ListInventories returns every saved inventory ordered by actor.
func (s *Store) ListInventories(ctx context.Context) ([]InventoryRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT actor, catalog, payload FROM inventories ORDER BY actor`)
	if err != nil {
		return nil, fmt.Errorf("list inventories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := []InventoryRecord{}
	for rows.Next() {
		rec, err := scanInventory(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inventories: %w", err)
	}
	return records, nil
}

// DeleteInventory removes an actor's inventory.
func (s *Store) DeleteInventory(ctx context.Context, actor fabricate.ActorID) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM inventories WHERE actor = ?`), string(actor))
	if err != nil {
		return fmt.Errorf("delete inventory %s: %w", actor, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrInventoryNotFound, actor)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInventory(row scanner) (InventoryRecord, error) {
	var (
		actor, catalog, payload string
	)
	if err := row.Scan(&actor, &catalog, &payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return InventoryRecord{}, err
		}
		return InventoryRecord{}, fmt.Errorf("scan inventory: %w", err)
	}
	var contents fabricate.Record
	if err := json.Unmarshal([]byte(payload), &contents); err != nil {
		return InventoryRecord{}, fmt.Errorf("decode inventory %s: %w", actor, err)
	}
	return InventoryRecord{Actor: fabricate.ActorID(actor), Catalog: catalog, Contents: contents}, nil
}
