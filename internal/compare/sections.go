package compare

import (
	"strings"

	"github.com/comparekart/catalog-service/internal/normalize"
)

// Section configures one comparison sub-table. Every section shares the
// same layout contract (one row per label, one column per entry) and
// differs only in this configuration.
type Section struct {
	Title       string            `json:"title"`
	Labels      []string          `json:"labels"`
	SectionKey  string            `json:"sectionKey"`
	LabelKeyMap map[string]string `json:"labelKeyMap,omitempty"`
}

// StorageKey resolves the feature-tree lookup key for a display label:
// the mapped key when LabelKeyMap has one, the lowercased label otherwise.
func (s Section) StorageKey(label string) string {
	if key, ok := s.LabelKeyMap[label]; ok {
		return key
	}
	return strings.ToLower(label)
}

// Row is one label row across all product columns
type Row struct {
	Label string   `json:"label"`
	Cells []string `json:"cells"`
}

// SectionView is a rendered section. Open defaults to true; each section
// is independently collapsible.
type SectionView struct {
	Title string `json:"title"`
	Open  bool   `json:"open"`
	Rows  []Row  `json:"rows"`
}

// Render resolves every label × entry cell through the normalizer.
// Fallback columns render "-" in every row. Sections never share state;
// each recomputes its own cells.
func (s Section) Render(entries []Entry) SectionView {
	view := SectionView{
		Title: s.Title,
		Open:  true,
		Rows:  make([]Row, 0, len(s.Labels)),
	}

	for _, label := range s.Labels {
		key := s.StorageKey(label)
		row := Row{Label: label, Cells: make([]string, 0, len(entries))}
		for _, entry := range entries {
			if entry.Product == nil {
				row.Cells = append(row.Cells, normalize.Missing)
				continue
			}
			row.Cells = append(row.Cells, normalize.Attribute(entry.Product, s.SectionKey, key))
		}
		view.Rows = append(view.Rows, row)
	}
	return view
}

// DefaultSections returns the stock section set for mobile-class
// products. The network section's label map covers the places where the
// display label differs from the stored attribute key.
func DefaultSections() []Section {
	return []Section{
		{
			Title:      "Design",
			SectionKey: "design",
			Labels:     []string{"dimensions", "weight", "form_factor", "color"},
		},
		{
			Title:      "Display",
			SectionKey: "display",
			Labels:     []string{"resolution", "touchscreen", "display_features", "screen_size", "pixel_density"},
		},
		{
			Title:      "Network & Connectivity",
			SectionKey: "network&connectivity",
			Labels:     []string{"Sim Size", "Network Support", "Wi-Fi", "Wi-Fi Features", "Bluetooth"},
			LabelKeyMap: map[string]string{
				"Sim Size":        "sim",
				"Network Support": "wireless_tech",
				"Wi-Fi":           "connectivity",
				"Wi-Fi Features":  "wifi_features",
				"Bluetooth":       "bluetooth",
			},
		},
	}
}

// PriceCell is one vendor × product price cell: display price plus the
// affiliate "Buy" link, or not-available.
type PriceCell struct {
	Display   string `json:"display"`
	BuyLink   string `json:"buyLink,omitempty"`
	Available bool   `json:"available"`
}

// PriceRow is one vendor row across all product columns
type PriceRow struct {
	Vendor string      `json:"vendor"`
	Cells  []PriceCell `json:"cells"`
}

// PriceSectionView is the rendered price section
type PriceSectionView struct {
	Title string     `json:"title"`
	Open  bool       `json:"open"`
	Rows  []PriceRow `json:"rows"`
}

// PriceSection is the price specialization of the section contract: rows
// are fixed vendor identifiers instead of feature labels.
type PriceSection struct {
	Vendors []string
}

// DefaultPriceVendors is the fixed row order of the price table.
var DefaultPriceVendors = []string{"amazon", "flipkart", "croma", "jiomart", "vijaysales"}

const priceCellNotAvailable = "Not Available"

// Render builds one row per configured vendor. Cells show the vendor's
// list price; the discounted figure stays on the slot projection. A
// product without an offer from that vendor, and every fallback column,
// renders as not-available.
func (s PriceSection) Render(entries []Entry) PriceSectionView {
	view := PriceSectionView{
		Title: "Price",
		Open:  true,
		Rows:  make([]PriceRow, 0, len(s.Vendors)),
	}

	for _, vendor := range s.Vendors {
		row := PriceRow{Vendor: vendor, Cells: make([]PriceCell, 0, len(entries))}
		for _, entry := range entries {
			if entry.Product == nil {
				row.Cells = append(row.Cells, PriceCell{Display: priceCellNotAvailable})
				continue
			}
			offer, ok := entry.Product.Vendors[vendor]
			if !ok {
				row.Cells = append(row.Cells, PriceCell{Display: priceCellNotAvailable})
				continue
			}

			display := offer.Price.String()
			if display == "" {
				row.Cells = append(row.Cells, PriceCell{Display: priceCellNotAvailable})
				continue
			}
			row.Cells = append(row.Cells, PriceCell{
				Display:   display,
				BuyLink:   offer.AffiliateLink,
				Available: true,
			})
		}
		view.Rows = append(view.Rows, row)
	}
	return view
}

// Document is the full comparison payload: the padded entry list plus
// every rendered section.
type Document struct {
	Entries  []Entry           `json:"entries"`
	Sections []SectionView     `json:"sections"`
	Price    *PriceSectionView `json:"price,omitempty"`
}

// BuildDocument renders all sections and the price section over the
// assembled entries.
func BuildDocument(entries []Entry, sections []Section, price PriceSection) Document {
	doc := Document{
		Entries:  entries,
		Sections: make([]SectionView, 0, len(sections)),
	}
	for _, section := range sections {
		doc.Sections = append(doc.Sections, section.Render(entries))
	}
	priceView := price.Render(entries)
	doc.Price = &priceView
	return doc
}
