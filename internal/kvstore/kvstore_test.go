package kvstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "k", []byte(`["a","b"]`)))
	value, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `["a","b"]`, string(value))

	// Last write wins
	require.NoError(t, store.Set(ctx, "k", []byte(`["c"]`)))
	value, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `["c"]`, string(value))
}

func TestSQLiteGetSet(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLite(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "removed", []byte(`["p1"]`)))
	value, err := store.Get(ctx, "removed")
	require.NoError(t, err)
	assert.Equal(t, `["p1"]`, string(value))

	require.NoError(t, store.Set(ctx, "removed", []byte(`["p1","p2"]`)))
	value, err = store.Get(ctx, "removed")
	require.NoError(t, err)
	assert.Equal(t, `["p1","p2"]`, string(value))
}
