package compare

import "github.com/comparekart/catalog-service/internal/catalog"

// Entry is one display position in a comparison result: either a real
// product or a fallback placeholder kept so the layout doesn't collapse.
// Fallback entries are never removable and never persisted.
type Entry struct {
	Product    *catalog.Product `json:"product,omitempty"`
	IsFallback bool             `json:"isFallback"`
	Name       string           `json:"name"`
	ImageURL   string           `json:"imageUrl,omitempty"`
}

// FallbackEntry builds the placeholder used to pad short result lists
func FallbackEntry() Entry {
	return Entry{
		IsFallback: true,
		Name:       "No product selected",
	}
}

// PadToMinimum pads list with entries from fallback until it holds at
// least n entries. Lists already at or above n are returned unchanged:
// padding never truncates and never exceeds what n requires.
func PadToMinimum(list []Entry, n int, fallback func() Entry) []Entry {
	for len(list) < n {
		list = append(list, fallback())
	}
	return list
}
