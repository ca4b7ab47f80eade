// Package normalize derives flat, comparison-ready fields from raw catalog
// records with heterogeneous vendor pricing data.
package normalize

import (
	"math"
	"strings"

	"github.com/comparekart/catalog-service/internal/catalog"
)

// Missing is the placeholder rendered for absent attribute values
const Missing = "-"

// ResolvedPrice returns the effective price of an offer: the discount
// price when it parses to a number, the list price otherwise. Offers
// without a usable price resolve to +Inf so they lose every minimum
// reduction.
func ResolvedPrice(offer catalog.VendorOffer) float64 {
	if v, ok := offer.DiscountPrice.Float(); ok {
		return v
	}
	if v, ok := offer.Price.Float(); ok {
		return v
	}
	return math.Inf(1)
}

// MinVendorPrice returns the minimum effective price across all vendor
// offers. The second return is false when no vendor yields a finite
// number; +Inf never leaks to the caller.
func MinVendorPrice(p *catalog.Product) (float64, bool) {
	min := math.Inf(1)
	for _, name := range p.VendorNames() {
		if v := ResolvedPrice(p.Vendors[name]); v < min {
			min = v
		}
	}
	if math.IsInf(min, 1) {
		return 0, false
	}
	return min, true
}

// BestRatedVendor picks the vendor with the highest numeric rating, ties
// resolving to the first vendor in iteration order. When no vendor has a
// numeric rating the first vendor wins; with zero vendors the third
// return is false.
func BestRatedVendor(p *catalog.Product) (string, catalog.VendorOffer, bool) {
	names := p.VendorNames()
	if len(names) == 0 {
		return "", catalog.VendorOffer{}, false
	}

	bestName := ""
	bestRating := math.Inf(-1)
	for _, name := range names {
		rating, ok := p.Vendors[name].Rating.Float()
		if !ok {
			continue
		}
		if rating > bestRating {
			bestName = name
			bestRating = rating
		}
	}

	if bestName == "" {
		bestName = names[0]
	}
	return bestName, p.Vendors[bestName], true
}

// Attribute looks up features.details[sectionKey][lowercase(label)] and
// returns "-" when the section or attribute is absent. Section renderers
// pass human-readable labels while stored keys are lowercase, so matching
// is case-insensitive on the label; no other normalization is applied.
func Attribute(p *catalog.Product, sectionKey, label string) string {
	section, ok := p.Features.Details[sectionKey]
	if !ok {
		return Missing
	}
	value, ok := section[strings.ToLower(label)]
	if !ok || value == "" {
		return Missing
	}
	return value
}
