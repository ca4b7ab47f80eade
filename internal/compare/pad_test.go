package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/comparekart/catalog-service/internal/catalog"
)

func realEntry(id string) Entry {
	return Entry{Product: &catalog.Product{ID: id}, Name: id}
}

func TestPadToMinimum(t *testing.T) {
	tests := []struct {
		name      string
		real      int
		wantLen   int
		wantPads  int
	}{
		{"Zero real entries", 0, 4, 4},
		{"Two real entries", 2, 4, 2},
		{"Exactly four", 4, 4, 0},
		{"More than four keeps all, no padding", 6, 6, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := make([]Entry, 0, tt.real)
			for i := 0; i < tt.real; i++ {
				list = append(list, realEntry("p"))
			}

			out := PadToMinimum(list, 4, FallbackEntry)
			assert.Len(t, out, tt.wantLen)

			pads := 0
			for _, e := range out {
				if e.IsFallback {
					pads++
				}
			}
			assert.Equal(t, tt.wantPads, pads)
		})
	}
}

func TestPadPreservesOrder(t *testing.T) {
	out := PadToMinimum([]Entry{realEntry("a"), realEntry("b")}, 4, FallbackEntry)
	assert.Equal(t, "a", out[0].Product.ID)
	assert.Equal(t, "b", out[1].Product.ID)
	assert.True(t, out[2].IsFallback)
	assert.True(t, out[3].IsFallback)
}
