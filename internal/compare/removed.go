package compare

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/comparekart/catalog-service/internal/kvstore"
)

// RemovedKey is the single persisted key holding the JSON array of
// removed product ids.
const RemovedKey = "comparison_removed_ids"

// RemovedSet is the persisted exclusion list: products the user removed
// from a comparison must not reappear when the same comparison state is
// reloaded. Loaded once at results-assembly init, written on every
// removal (read-modify-write, last write wins).
type RemovedSet struct {
	store kvstore.Store

	mu  sync.Mutex
	ids map[string]struct{}
}

// NewRemovedSet creates a removed-id set over the given store
func NewRemovedSet(store kvstore.Store) *RemovedSet {
	return &RemovedSet{
		store: store,
		ids:   make(map[string]struct{}),
	}
}

// Load reads the persisted id list. A missing key is an empty set, and a
// corrupt value is discarded rather than failing the comparison.
func (r *RemovedSet) Load(ctx context.Context) error {
	value, err := r.store.Get(ctx, RemovedKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading removed ids: %w", err)
	}

	var ids []string
	if err := json.Unmarshal(value, &ids); err != nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		r.ids[id] = struct{}{}
	}
	return nil
}

// Contains reports whether id is in the exclusion set
func (r *RemovedSet) Contains(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.ids[id]
	return ok
}

// Add records id and persists the full set
func (r *RemovedSet) Add(ctx context.Context, id string) error {
	r.mu.Lock()
	r.ids[id] = struct{}{}
	ids := make([]string, 0, len(r.ids))
	for v := range r.ids {
		ids = append(ids, v)
	}
	r.mu.Unlock()

	value, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshaling removed ids: %w", err)
	}
	if err := r.store.Set(ctx, RemovedKey, value); err != nil {
		return fmt.Errorf("persisting removed ids: %w", err)
	}
	return nil
}
