// Package storage defines the key-value persistence contract shared by the
// sqlite, postgres, redis, file and memory backends.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get when the key has never been written.
	ErrNotFound = errors.New("key not found")
	// ErrNotInitialized is returned when the backing store has not been
	// created yet.
	ErrNotInitialized = errors.New("storage not initialized, run 'korastor init' first")
)

// Provider persists opaque blobs under string keys.
type Provider interface {
	// Lifecycle
	Init() error // create the backing store and schema
	Load() error // open an existing backing store
	Close() error

	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error

	// Describe names the backend and location, without secrets.
	Describe() string
}

// Pinger is implemented by backends that can check connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Migrator is implemented by SQL backends with a versioned schema.
type Migrator interface {
	SchemaVersion(ctx context.Context) (current, latest int, err error)
}
