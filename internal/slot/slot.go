// Package slot provides the durable persistence slot: a single opaque
// key-value location holding the whole application document. Drivers cover
// the local filesystem (default), an in-memory map for tests, S3-compatible
// object storage, SQLite, and Postgres. Every driver reads and writes the
// entire document; there are no partial updates.
package slot

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// DefaultKey names the document inside the slot backend. It is the storage
// key the application has always persisted under, so existing documents stay
// readable across releases.
const DefaultKey = "itfvAppState"

// ErrNotFound reports that the slot holds no document yet.
var ErrNotFound = errors.New("slot: document not found")

// Driver identifies a slot backend.
type Driver string

const (
	DriverFilesystem Driver = "fs"
	DriverMemory     Driver = "memory"
	DriverS3         Driver = "s3"
	DriverSQLite     Driver = "sqlite"
	DriverPostgres   Driver = "postgres"
)

// Slot is a whole-document store for one named key.
type Slot interface {
	// Read returns the stored document, or ErrNotFound when none exists.
	Read(ctx context.Context) ([]byte, error)
	// Write replaces the stored document atomically.
	Write(ctx context.Context, payload []byte) error
	Driver() Driver
}

// Open selects a Slot implementation using environment variables.
//
//	RIMBORSIKM_SLOT_DRIVER: fs|memory|s3|sqlite|postgres (default fs)
//	RIMBORSIKM_SLOT_FS_ROOT: directory root when driver=fs (default ./data)
//	RIMBORSIKM_SQLITE_PATH: database path when driver=sqlite
//	RIMBORSIKM_POSTGRES_DSN: connection string when driver=postgres
//	(S3 specific variables documented in s3.go)
func Open(ctx context.Context) (Slot, error) {
	driver := os.Getenv("RIMBORSIKM_SLOT_DRIVER")
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	switch Driver(driver) {
	case DriverFilesystem:
		return NewFilesystem(os.Getenv("RIMBORSIKM_SLOT_FS_ROOT"), DefaultKey)
	case DriverMemory:
		return NewMemory(DefaultKey), nil
	case DriverS3:
		return OpenS3FromEnv(ctx, DefaultKey)
	case DriverSQLite:
		return NewSQLite(os.Getenv("RIMBORSIKM_SQLITE_PATH"), DefaultKey)
	case DriverPostgres:
		return NewPostgres(ctx, os.Getenv("RIMBORSIKM_POSTGRES_DSN"), DefaultKey)
	default:
		return nil, fmt.Errorf("unknown slot driver %s", driver)
	}
}
