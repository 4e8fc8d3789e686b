// Package store provides durable key-value persistence for the device-local
// records (bookmarks, onboarding state, chat sessions).
package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store closed")

// Repository persists opaque JSON blobs under string keys.
type Repository interface {
	// Get returns the value stored under key, or nil with no error when absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set creates or replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// SetMany writes every entry in one transaction. Either all entries are
	// stored or none are.
	SetMany(ctx context.Context, entries map[string][]byte) error

	// Delete removes keys in one transaction. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend.
	Close() error
}

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Open returns the Repository for driver. dsn is a file path for sqlite and a
// connection URL for postgres; it is ignored for memory.
func Open(ctx context.Context, driver, dsn string) (Repository, error) {
	switch driver {
	case DriverSQLite:
		s, err := NewSQLite(dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverPostgres:
		s, err := NewPostgres(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

// Keys are the namespaced record keys of the three stores.
type Keys struct {
	Bookmarks           string
	Chats               string
	OnboardingCompleted string
	OnboardingData      string
}

// DefaultNamespace is the key prefix used by the mobile client.
const DefaultNamespace = "@bible_ai"

// NewKeys derives the record keys for namespace.
func NewKeys(namespace string) Keys {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return Keys{
		Bookmarks:           namespace + "_bookmarks",
		Chats:               namespace + "_chats",
		OnboardingCompleted: namespace + "_onboarding_completed",
		OnboardingData:      namespace + "_onboarding_data",
	}
}
