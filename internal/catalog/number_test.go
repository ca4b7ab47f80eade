package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		valid bool
	}{
		{"Plain number", `134999`, 134999, true},
		{"Float number", `4.5`, 4.5, true},
		{"Numeric string", `"132499"`, 132499, true},
		{"Thousands separator", `"132,499"`, 132499, true},
		{"Indian grouping", `"1,32,499"`, 132499, true},
		{"Null", `null`, 0, false},
		{"Empty string", `""`, 0, false},
		{"Non-numeric string", `"out of stock"`, 0, false},
		{"Infinity string", `"Inf"`, 0, false},
		{"Negative infinity string", `"-inf"`, 0, false},
		{"NaN string", `"NaN"`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n Number
			require.NoError(t, json.Unmarshal([]byte(tt.input), &n))
			v, ok := n.Float()
			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.Equal(t, tt.want, v)
			}
		})
	}
}

func TestNumberUnmarshalInsideOffer(t *testing.T) {
	raw := `{"price": 134999, "discountPrice": "1,29,999", "rating": "4.3", "affiliateLink": "https://example.com/p"}`

	var offer VendorOffer
	require.NoError(t, json.Unmarshal([]byte(raw), &offer))

	price, ok := offer.Price.Float()
	require.True(t, ok)
	assert.Equal(t, 134999.0, price)

	discount, ok := offer.DiscountPrice.Float()
	require.True(t, ok)
	assert.Equal(t, 129999.0, discount)

	rating, ok := offer.Rating.Float()
	require.True(t, ok)
	assert.Equal(t, 4.3, rating)
}

func TestNumberMarshal(t *testing.T) {
	b, err := json.Marshal(NewNumber(132499))
	require.NoError(t, err)
	assert.Equal(t, "132499", string(b))

	b, err = json.Marshal(Number{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}

func TestVendorNamesSorted(t *testing.T) {
	p := Product{Vendors: map[string]VendorOffer{
		"flipkart": {},
		"amazon":   {},
		"croma":    {},
	}}
	assert.Equal(t, []string{"amazon", "croma", "flipkart"}, p.VendorNames())
}
