package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comparekart/catalog-service/internal/catalog"
)

func productFromJSON(t *testing.T, raw string) *catalog.Product {
	t.Helper()
	var p catalog.Product
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	return &p
}

func TestMinVendorPrice(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  float64
		valid bool
	}{
		{
			"Separator stripped string wins",
			`{"vendors":{"amazon":{"price":140000,"discountPrice":134999},"flipkart":{"price":140000,"discountPrice":"132,499"}}}`,
			132499, true,
		},
		{
			"Falls back to list price when discount missing",
			`{"vendors":{"amazon":{"price":1000},"flipkart":{"price":900}}}`,
			900, true,
		},
		{
			"Non-numeric values ignored",
			`{"vendors":{"amazon":{"price":"n/a","discountPrice":"tbd"},"flipkart":{"price":500}}}`,
			500, true,
		},
		{
			"No usable prices",
			`{"vendors":{"amazon":{"price":"n/a"}}}`,
			0, false,
		},
		{
			"Infinity in the feed never surfaces",
			`{"vendors":{"amazon":{"price":"Inf","discountPrice":"NaN"}}}`,
			0, false,
		},
		{
			"Empty vendor map",
			`{"vendors":{}}`,
			0, false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := productFromJSON(t, tt.raw)
			got, ok := MinVendorPrice(p)
			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestMinVendorPriceIsLowerBound(t *testing.T) {
	p := productFromJSON(t, `{"vendors":{
		"amazon":{"price":134999,"discountPrice":133000},
		"flipkart":{"price":"1,40,000","discountPrice":"1,32,499"},
		"croma":{"price":139000}
	}}`)

	min, ok := MinVendorPrice(p)
	require.True(t, ok)

	for _, name := range p.VendorNames() {
		resolved := ResolvedPrice(p.Vendors[name])
		assert.LessOrEqual(t, min, resolved, "min must not exceed %s's resolved price", name)
	}
	assert.Equal(t, 132499.0, min)
}

func TestBestRatedVendor(t *testing.T) {
	t.Run("highest rating wins", func(t *testing.T) {
		p := productFromJSON(t, `{"vendors":{
			"amazon":{"rating":4.1},
			"flipkart":{"rating":4.6},
			"croma":{"rating":3.9}
		}}`)
		name, offer, ok := BestRatedVendor(p)
		require.True(t, ok)
		assert.Equal(t, "flipkart", name)
		rating, _ := offer.Rating.Float()
		assert.Equal(t, 4.6, rating)
	})

	t.Run("tie resolves to first in iteration order", func(t *testing.T) {
		p := productFromJSON(t, `{"vendors":{
			"flipkart":{"rating":4.5},
			"amazon":{"rating":4.5}
		}}`)
		name, _, ok := BestRatedVendor(p)
		require.True(t, ok)
		assert.Equal(t, "amazon", name)
	})

	t.Run("no numeric ratings falls back to first vendor", func(t *testing.T) {
		p := productFromJSON(t, `{"vendors":{
			"flipkart":{"rating":"unrated"},
			"amazon":{}
		}}`)
		name, _, ok := BestRatedVendor(p)
		require.True(t, ok)
		assert.Equal(t, "amazon", name)
	})

	t.Run("zero vendors", func(t *testing.T) {
		p := &catalog.Product{}
		_, _, ok := BestRatedVendor(p)
		assert.False(t, ok)
	})
}

func TestAttribute(t *testing.T) {
	p := &catalog.Product{
		Features: catalog.Features{
			Type: catalog.FeatureTypeMobile,
			Details: map[string]map[string]string{
				"network&connectivity": {"sim": "Nano SIM", "network": "5G"},
				"display":              {"size": "6.7 inch"},
			},
		},
	}

	tests := []struct {
		name    string
		section string
		label   string
		want    string
	}{
		{"Lowercase label match", "display", "Size", "6.7 inch"},
		{"Exact key", "network&connectivity", "network", "5G"},
		{"Missing attribute", "display", "Refresh Rate", "-"},
		{"Missing section", "design", "Weight", "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Attribute(p, tt.section, tt.label))
		})
	}
}
