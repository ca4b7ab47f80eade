package compare

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comparekart/catalog-service/internal/catalog"
	"github.com/comparekart/catalog-service/internal/kvstore"
)

var testPriority = []string{"amazon", "flipkart"}

func testProduct(id, title string, vendors map[string]catalog.VendorOffer) *catalog.Product {
	return &catalog.Product{
		ID:      id,
		Title:   title,
		Vendors: vendors,
		Image:   catalog.Image{Thumbnail: "https://img.example.com/" + id + ".jpg"},
	}
}

func offerWithDiscount(discount float64) catalog.VendorOffer {
	return catalog.VendorOffer{
		Price:         catalog.NewNumber(discount + 1000),
		DiscountPrice: catalog.NewNumber(discount),
	}
}

func TestProjectRefVendorPriority(t *testing.T) {
	t.Run("primary vendor discount wins", func(t *testing.T) {
		p := testProduct("p1", "Phone One", map[string]catalog.VendorOffer{
			"amazon":   offerWithDiscount(129999),
			"flipkart": offerWithDiscount(119999),
		})
		ref := ProjectRef(p, testPriority)
		// Priority list, not minimum: amazon wins despite flipkart being cheaper
		assert.Equal(t, "129999", ref.Price)
		assert.Equal(t, "Phone One", ref.Name)
		assert.Equal(t, "https://img.example.com/p1.jpg", ref.ImageURL)
	})

	t.Run("falls through to secondary vendor", func(t *testing.T) {
		p := testProduct("p2", "Phone Two", map[string]catalog.VendorOffer{
			"flipkart": offerWithDiscount(99999),
		})
		ref := ProjectRef(p, testPriority)
		assert.Equal(t, "99999", ref.Price)
	})

	t.Run("default priority is flipkart first", func(t *testing.T) {
		p := testProduct("p4", "Phone Four", map[string]catalog.VendorOffer{
			"amazon":   offerWithDiscount(44999),
			"flipkart": offerWithDiscount(46999),
		})
		ref := ProjectRef(p, DefaultVendorPriority)
		// Flipkart's discount price is shown even when amazon's is lower
		assert.Equal(t, "46999", ref.Price)
	})

	t.Run("no priority vendor has a discount price", func(t *testing.T) {
		p := testProduct("p3", "Phone Three", map[string]catalog.VendorOffer{
			"croma": offerWithDiscount(89999),
		})
		ref := ProjectRef(p, testPriority)
		assert.Equal(t, PriceNotAvailable, ref.Price)
	})
}

func TestSlotManagerSelectOverwrite(t *testing.T) {
	m := NewSlotManager(4, testPriority, nil)

	require.NoError(t, m.SelectForSlot(1, testProduct("a", "A", nil)))
	require.NoError(t, m.SelectForSlot(1, testProduct("b", "B", nil)))

	slots := m.Slots()
	require.NotNil(t, slots[1])
	assert.Equal(t, "b", slots[1].ID, "overwrite must fully replace the prior occupant")
	assert.Nil(t, slots[0])
}

func TestSlotManagerIndexBounds(t *testing.T) {
	m := NewSlotManager(4, testPriority, nil)
	assert.Error(t, m.SelectForSlot(-1, testProduct("a", "A", nil)))
	assert.Error(t, m.SelectForSlot(4, testProduct("a", "A", nil)))
}

func TestSlotManagerRemoveIdempotent(t *testing.T) {
	ctx := context.Background()
	m := NewSlotManager(4, testPriority, nil)

	require.NoError(t, m.SelectForSlot(2, testProduct("a", "A", nil)))
	require.NoError(t, m.RemoveSlot(ctx, 2))
	assert.Nil(t, m.Slots()[2])

	// Second removal of the same slot is a no-op, not an error
	require.NoError(t, m.RemoveSlot(ctx, 2))
	assert.Nil(t, m.Slots()[2])
}

func TestSlotManagerRemovePersistsID(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	removed := NewRemovedSet(store)
	m := NewSlotManager(4, testPriority, removed)

	require.NoError(t, m.SelectForSlot(0, testProduct("gone", "Gone", nil)))
	require.NoError(t, m.RemoveSlot(ctx, 0))

	value, err := store.Get(ctx, RemovedKey)
	require.NoError(t, err)
	var ids []string
	require.NoError(t, json.Unmarshal(value, &ids))
	assert.Contains(t, ids, "gone")

	// A fresh set over the same store sees the removal
	reloaded := NewRemovedSet(store)
	require.NoError(t, reloaded.Load(ctx))
	assert.True(t, reloaded.Contains("gone"))
}

func TestSlotManagerSubmit(t *testing.T) {
	t.Run("empty selection fails", func(t *testing.T) {
		m := NewSlotManager(4, testPriority, nil)
		_, err := m.Submit()
		assert.ErrorIs(t, err, ErrInsufficientSelection)
	})

	t.Run("single selection fails", func(t *testing.T) {
		m := NewSlotManager(4, testPriority, nil)
		require.NoError(t, m.SelectForSlot(0, testProduct("a", "A", nil)))
		_, err := m.Submit()
		assert.ErrorIs(t, err, ErrInsufficientSelection)
	})

	t.Run("ids returned in slot-index order", func(t *testing.T) {
		m := NewSlotManager(4, testPriority, nil)
		require.NoError(t, m.SelectForSlot(3, testProduct("late", "Late", nil)))
		require.NoError(t, m.SelectForSlot(0, testProduct("early", "Early", nil)))
		require.NoError(t, m.SelectForSlot(2, testProduct("mid", "Mid", nil)))

		ids, err := m.Submit()
		require.NoError(t, err)
		assert.Equal(t, []string{"early", "mid", "late"}, ids)
	})
}

func TestSlotManagerReset(t *testing.T) {
	m := NewSlotManager(4, testPriority, nil)
	require.NoError(t, m.SelectForSlot(0, testProduct("a", "A", nil)))
	require.NoError(t, m.SelectForSlot(1, testProduct("b", "B", nil)))

	m.Reset()
	for i, slot := range m.Slots() {
		assert.Nil(t, slot, "slot %d should be empty after reset", i)
	}
}
