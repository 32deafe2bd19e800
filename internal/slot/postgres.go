package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

const (
	postgresDriver = "pgx"
	// Default DSN targets a local development database; override via env.
	defaultPostgresDSN = "postgres://localhost/rimborsikm?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Postgres stores the document in a single-row state table keyed by slot
// name, with a JSONB payload.
type Postgres struct {
	db  *sql.DB
	key string
}

// NewPostgres opens a Postgres-backed slot using the provided DSN (falls
// back to defaultPostgresDSN) and ensures the state table exists.
func NewPostgres(ctx context.Context, dsn, key string) (*Postgres, error) {
	if dsn == "" {
		dsn = defaultPostgresDSN
	}
	if err := validateKey(key); err != nil {
		return nil, err
	}
	openMu.Lock()
	db, err := sqlOpen(postgresDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS state (
		slot TEXT PRIMARY KEY,
		payload JSONB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("ensure state table: %w", err)
	}
	return &Postgres{db: db, key: key}, nil
}

func (p *Postgres) Driver() Driver { return DriverPostgres }

func (p *Postgres) Read(ctx context.Context) ([]byte, error) {
	var payload []byte
	err := p.db.QueryRowContext(ctx, `SELECT payload FROM state WHERE slot = $1`, p.key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select state: %w", err)
	}
	return payload, nil
}

func (p *Postgres) Write(ctx context.Context, payload []byte) error {
	if _, err := p.db.ExecContext(ctx,
		`INSERT INTO state(slot,payload) VALUES($1,$2) ON CONFLICT(slot) DO UPDATE SET payload=EXCLUDED.payload`,
		p.key, payload); err != nil {
		return fmt.Errorf("upsert state: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (p *Postgres) Close() error { return p.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (p *Postgres) DB() *sql.DB { return p.db }

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a
// restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
