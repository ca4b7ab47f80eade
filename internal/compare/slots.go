// Package compare implements the product comparison subsystem: the
// fixed-size selection slots, the results assembly state machine, and
// the section views rendered from dynamically-shaped feature trees.
package compare

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/comparekart/catalog-service/internal/catalog"
)

// DefaultSlotCount is the number of comparison positions
const DefaultSlotCount = 4

// PriceNotAvailable is the literal display price used when no priority
// vendor carries a usable discount price.
const PriceNotAvailable = "Price not available"

// DefaultVendorPriority is the slot display-price priority: flipkart's
// discount price wins over amazon's when both are present.
var DefaultVendorPriority = []string{"flipkart", "amazon"}

// ErrInsufficientSelection is returned by Submit when fewer than two
// slots are occupied.
var ErrInsufficientSelection = errors.New("compare: at least 2 products must be selected")

// ProductRef is the reduced projection of a product stored in a slot:
// just enough for the picker UI, never the full record.
type ProductRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	ImageURL string `json:"imageUrl"`
}

// SlotManager owns the ordered fixed-size selection for an in-progress
// comparison. A nil slot is empty.
type SlotManager struct {
	mu             sync.Mutex
	slots          []*ProductRef
	vendorPriority []string
	removed        *RemovedSet
}

// NewSlotManager creates a manager with n empty slots. vendorPriority is
// the configured display-price priority list: the first vendor with a
// usable discount price wins, which is not the normalizer's minimum-price
// policy (see ProjectRef). removed may be nil for ephemeral sessions.
func NewSlotManager(n int, vendorPriority []string, removed *RemovedSet) *SlotManager {
	if n <= 0 {
		n = DefaultSlotCount
	}
	return &SlotManager{
		slots:          make([]*ProductRef, n),
		vendorPriority: vendorPriority,
		removed:        removed,
	}
}

// ProjectRef builds the slot projection of a product. The display price
// is the discount price of the first priority vendor that has one; this
// priority-list policy is distinct from normalize.MinVendorPrice and the
// two must not be unified.
func ProjectRef(p *catalog.Product, vendorPriority []string) ProductRef {
	price := PriceNotAvailable
	for _, vendor := range vendorPriority {
		offer, ok := p.Vendors[vendor]
		if !ok {
			continue
		}
		if _, valid := offer.DiscountPrice.Float(); valid {
			price = offer.DiscountPrice.String()
			break
		}
	}

	return ProductRef{
		ID:       p.ID,
		Name:     p.Title,
		Price:    price,
		ImageURL: p.Image.Thumbnail,
	}
}

// SelectForSlot stores the projection of p at index, overwriting any
// prior occupant.
func (m *SlotManager) SelectForSlot(index int, p *catalog.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if index < 0 || index >= len(m.slots) {
		return fmt.Errorf("compare: slot index %d out of range [0,%d)", index, len(m.slots))
	}

	ref := ProjectRef(p, m.vendorPriority)
	m.slots[index] = &ref
	return nil
}

// RemoveSlot empties the slot at index and records the removed id in the
// persisted exclusion set. Removing an already-empty slot is a no-op.
func (m *SlotManager) RemoveSlot(ctx context.Context, index int) error {
	m.mu.Lock()
	if index < 0 || index >= len(m.slots) {
		m.mu.Unlock()
		return fmt.Errorf("compare: slot index %d out of range [0,%d)", index, len(m.slots))
	}

	occupant := m.slots[index]
	m.slots[index] = nil
	m.mu.Unlock()

	if occupant == nil || m.removed == nil {
		return nil
	}
	return m.removed.Add(ctx, occupant.ID)
}

// Reset empties every slot. Called when the active category tab changes.
func (m *SlotManager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.slots {
		m.slots[i] = nil
	}
}

// Submit collects the occupied slot ids in slot-index order. Fails with
// ErrInsufficientSelection when fewer than two slots are occupied;
// navigation to the results view must not happen in that case.
func (m *SlotManager) Submit() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.slots))
	for _, slot := range m.slots {
		if slot != nil {
			ids = append(ids, slot.ID)
		}
	}

	if len(ids) < 2 {
		return nil, ErrInsufficientSelection
	}
	return ids, nil
}

// Slots returns a copy of the current slot state
func (m *SlotManager) Slots() []*ProductRef {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*ProductRef, len(m.slots))
	for i, slot := range m.slots {
		if slot != nil {
			ref := *slot
			out[i] = &ref
		}
	}
	return out
}
