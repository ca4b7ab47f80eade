package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FoldSearchText normalizes text for search matching: diacritics
// stripped, lowercased, whitespace collapsed. Applied identically to the
// stored search_text column and to incoming queries so "Poco" matches
// "POCO" and "Realmé" matches "realme".
func FoldSearchText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)
	return strings.Join(strings.Fields(folded), " ")
}

// SearchText builds the indexed search text for a product from its
// title, brand, category, and tags.
func SearchText(p *Product) string {
	parts := []string{p.Title, p.Brand, p.Category}
	parts = append(parts, p.Tags...)
	return FoldSearchText(strings.Join(parts, " "))
}
