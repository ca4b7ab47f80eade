package catalog

import (
	"sort"
	"time"
)

// Product represents a catalog entity with per-vendor offers and a
// variant-shaped feature tree.
type Product struct {
	ID        string                 `json:"id"`
	Title     string                 `json:"title"`
	Brand     string                 `json:"brand"`
	Category  string                 `json:"category"`
	Vendors   map[string]VendorOffer `json:"vendors"`
	Image     Image                  `json:"image"`
	Features  Features               `json:"features"`
	Tags      []string               `json:"tags"`
	CreatedAt time.Time              `json:"created_at,omitempty"`
	UpdatedAt time.Time              `json:"updated_at,omitempty"`
}

// VendorOffer is one retailer's priced, linked listing for a product
type VendorOffer struct {
	Price         Number   `json:"price"`
	DiscountPrice Number   `json:"discountPrice"`
	Rating        Number   `json:"rating"`
	AffiliateLink string   `json:"affiliateLink"`
	Offers        []string `json:"offers,omitempty"`
}

// Image holds the thumbnail and gallery URLs for a product
type Image struct {
	Thumbnail string   `json:"thumbnail"`
	URLs      []string `json:"urls"`
}

// Features is the variant feature tree. The shape of Details varies with
// Type (mobile, laptop, generic); section and attribute keys are stored
// lowercase.
type Features struct {
	Type    string                       `json:"type"`
	Details map[string]map[string]string `json:"details"`
}

// Product feature types
const (
	FeatureTypeMobile  = "mobile"
	FeatureTypeLaptop  = "laptop"
	FeatureTypeGeneric = "generic"
)

// HasVendorData reports whether the product carries at least one vendor
// offer. Records without any are tolerated but filtered from comparison
// results.
func (p *Product) HasVendorData() bool {
	return len(p.Vendors) > 0
}

// VendorNames returns the vendor names in deterministic (sorted) order.
// Go map iteration order is random, so every "first vendor" tie-break in
// the comparison subsystem goes through this.
func (p *Product) VendorNames() []string {
	names := make([]string, 0, len(p.Vendors))
	for name := range p.Vendors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasTag reports whether the product carries the given tag
func (p *Product) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Pagination describes one page of a search result
type Pagination struct {
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// SearchResult is one page of products plus pagination metadata
type SearchResult struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}
