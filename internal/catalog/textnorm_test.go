package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoldSearchText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Galaxy S24 Ultra", "galaxy s24 ultra"},
		{"  POCO   X6  ", "poco x6"},
		{"Realmé", "realme"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, FoldSearchText(tt.input))
		})
	}
}

func TestSearchText(t *testing.T) {
	p := &Product{
		Title:    "iPhone 15 Pro",
		Brand:    "Apple",
		Category: "Mobiles",
		Tags:     []string{"popular", "5G"},
	}
	assert.Equal(t, "iphone 15 pro apple mobiles popular 5g", SearchText(p))
}
