package compare

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comparekart/catalog-service/internal/catalog"
	"github.com/comparekart/catalog-service/internal/kvstore"
)

// mockGetter serves canned products and errors per id
type mockGetter struct {
	products map[string]*catalog.Product
	errs     map[string]error
}

func newMockGetter() *mockGetter {
	return &mockGetter{
		products: make(map[string]*catalog.Product),
		errs:     make(map[string]error),
	}
}

func (m *mockGetter) add(id string) {
	m.products[id] = &catalog.Product{
		ID:    id,
		Title: "Product " + id,
		Vendors: map[string]catalog.VendorOffer{
			"amazon": {Price: catalog.NewNumber(1000), DiscountPrice: catalog.NewNumber(900)},
		},
	}
}

func (m *mockGetter) addVendorless(id string) {
	m.products[id] = &catalog.Product{ID: id, Title: "Product " + id}
}

func (m *mockGetter) fail(id string) {
	m.errs[id] = errors.New("fetch failed")
}

func (m *mockGetter) GetProduct(_ context.Context, id string) (*catalog.Product, error) {
	if err, ok := m.errs[id]; ok {
		return nil, err
	}
	if p, ok := m.products[id]; ok {
		return p, nil
	}
	return nil, errors.New("not found")
}

func newTestAssembler(getter ProductGetter, removed *RemovedSet) *Assembler {
	return NewAssembler(getter, removed, AssemblerConfig{}, zerolog.Nop())
}

func TestAssemblerReady(t *testing.T) {
	getter := newMockGetter()
	getter.add("a")
	getter.add("b")
	getter.add("c")

	a := newTestAssembler(getter, nil)
	require.Equal(t, StateIdle, a.State())

	require.NoError(t, a.Load(context.Background(), []string{"a", "b", "c"}))
	assert.Equal(t, StateReady, a.State())

	entries := a.Entries()
	require.Len(t, entries, 4, "3 real + 1 fallback")
	assert.Equal(t, "a", entries[0].Product.ID)
	assert.Equal(t, "b", entries[1].Product.ID)
	assert.Equal(t, "c", entries[2].Product.ID)
	assert.True(t, entries[3].IsFallback)
}

func TestAssemblerToleratesPerProductFailure(t *testing.T) {
	getter := newMockGetter()
	getter.add("a")
	getter.add("b")
	getter.fail("c")

	a := newTestAssembler(getter, nil)
	require.NoError(t, a.Load(context.Background(), []string{"a", "b", "c"}))

	assert.Equal(t, StateReady, a.State())
	entries := a.Entries()
	require.Len(t, entries, 4)
	assert.Equal(t, "a", entries[0].Product.ID)
	assert.Equal(t, "b", entries[1].Product.ID)
	assert.True(t, entries[2].IsFallback)
	assert.True(t, entries[3].IsFallback)
}

func TestAssemblerOrderFollowsInput(t *testing.T) {
	getter := newMockGetter()
	for _, id := range []string{"z", "m", "a"} {
		getter.add(id)
	}

	a := newTestAssembler(getter, nil)
	require.NoError(t, a.Load(context.Background(), []string{"z", "m", "a"}))

	entries := a.Entries()
	assert.Equal(t, "z", entries[0].Product.ID)
	assert.Equal(t, "m", entries[1].Product.ID)
	assert.Equal(t, "a", entries[2].Product.ID)
}

func TestAssemblerDedupesIDs(t *testing.T) {
	getter := newMockGetter()
	getter.add("a")
	getter.add("b")

	a := newTestAssembler(getter, nil)
	require.NoError(t, a.Load(context.Background(), []string{"a", "a", "b"}))

	entries := a.Entries()
	assert.Equal(t, 2, countReal(entries))
}

func TestAssemblerFiltersVendorlessAndRemoved(t *testing.T) {
	ctx := context.Background()
	getter := newMockGetter()
	getter.add("keep")
	getter.addVendorless("no-vendors")
	getter.add("hidden")

	store := kvstore.NewMemory()
	removed := NewRemovedSet(store)
	require.NoError(t, removed.Add(ctx, "hidden"))

	a := newTestAssembler(getter, NewRemovedSet(store))
	require.NoError(t, a.Load(ctx, []string{"keep", "no-vendors", "hidden"}))

	assert.Equal(t, StateReady, a.State())
	entries := a.Entries()
	assert.Equal(t, 1, countReal(entries))
	assert.Equal(t, "keep", entries[0].Product.ID)
}

func TestAssemblerEmptyState(t *testing.T) {
	getter := newMockGetter()
	getter.fail("a")
	getter.fail("b")

	a := newTestAssembler(getter, nil)
	require.NoError(t, a.Load(context.Background(), []string{"a", "b"}))

	assert.Equal(t, StateEmpty, a.State())
	// Layout must not collapse: fallbacks still fill the display list
	entries := a.Entries()
	require.Len(t, entries, 4)
	for _, e := range entries {
		assert.True(t, e.IsFallback)
	}
}

func TestAssemblerErrorAndRetry(t *testing.T) {
	getter := newMockGetter()
	getter.add("a")
	getter.add("b")

	a := newTestAssembler(getter, nil)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	err := a.Load(cancelled, []string{"a", "b"})
	require.Error(t, err)
	assert.Equal(t, StateError, a.State())
	assert.Error(t, a.Err())

	// Retry re-enters Loading with the original ids
	require.NoError(t, a.Retry(context.Background()))
	assert.Equal(t, StateReady, a.State())

	// Retry from a non-error state is rejected
	assert.ErrorIs(t, a.Retry(context.Background()), ErrNotRetryable)
}
