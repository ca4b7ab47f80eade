// Package kvstore provides the small persisted key-value contract the
// comparison subsystem uses for cross-view state, with memory, SQLite,
// and postgres backends.
package kvstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has never been written
var ErrNotFound = errors.New("kvstore: key not found")

// Store is a single-key read/write contract. Writes are last-write-wins:
// values are only written on direct user action, never concurrently from
// two sources, so no merge logic is needed.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
