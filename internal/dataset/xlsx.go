package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/comparekart/catalog-service/internal/catalog"
)

// LoadError describes one rejected spreadsheet row
type LoadError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// LoadResult holds parsed products and per-row errors. A bad row never
// aborts the load.
type LoadResult struct {
	Products  []catalog.Product
	Errors    []LoadError
	TotalRows int
}

// Loader reads a product seed workbook. The first row is a header; the
// fixed columns are id, title, brand, category, image and tags
// (comma-separated). Vendor offers come from <vendor>_price,
// <vendor>_discount_price, <vendor>_rating, <vendor>_link and
// <vendor>_offers columns, and spec attributes from feature:<section>:<label>
// columns.
type Loader struct {
	sheet string
}

func NewLoader() *Loader {
	return &Loader{}
}

// SetSheet selects a sheet by name. The first sheet is used otherwise.
func (l *Loader) SetSheet(name string) {
	l.sheet = name
}

type columnMap struct {
	fixed    map[string]int            // column name -> index
	vendors  map[string]map[string]int // vendor -> field -> index
	features map[int][2]string         // index -> {section, label}
}

var vendorFields = []string{"price", "discount_price", "rating", "link", "offers"}

// Load parses workbook bytes into products
func (l *Loader) Load(content []byte) (*LoadResult, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheet := l.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return &LoadResult{}, nil
	}

	cols := mapColumns(rows[0])
	result := &LoadResult{TotalRows: len(rows) - 1}

	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after header
		if isEmptyRow(row) {
			result.TotalRows--
			continue
		}

		product, err := parseRow(row, cols)
		if err != nil {
			result.Errors = append(result.Errors, LoadError{Row: rowNum, Message: err.Error()})
			continue
		}
		result.Products = append(result.Products, product)
	}

	return result, nil
}

func mapColumns(header []string) columnMap {
	cols := columnMap{
		fixed:    make(map[string]int),
		vendors:  make(map[string]map[string]int),
		features: make(map[int][2]string),
	}

	for i, raw := range header {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}

		if section, label, ok := featureColumn(name, header[i]); ok {
			cols.features[i] = [2]string{section, label}
			continue
		}

		if vendor, field, ok := vendorColumn(name); ok {
			if cols.vendors[vendor] == nil {
				cols.vendors[vendor] = make(map[string]int)
			}
			cols.vendors[vendor][field] = i
			continue
		}

		cols.fixed[name] = i
	}
	return cols
}

// featureColumn matches "feature:<section>:<label>". The label keeps the
// original casing so storage keys line up with the section label maps.
func featureColumn(lower, original string) (section, label string, ok bool) {
	if !strings.HasPrefix(lower, "feature:") {
		return "", "", false
	}
	parts := strings.SplitN(original, ":", 3)
	if len(parts) != 3 {
		return "", "", false
	}
	return strings.ToLower(strings.TrimSpace(parts[1])), strings.TrimSpace(parts[2]), true
}

func vendorColumn(name string) (vendor, field string, ok bool) {
	for _, f := range vendorFields {
		suffix := "_" + f
		if strings.HasSuffix(name, suffix) && len(name) > len(suffix) {
			return name[:len(name)-len(suffix)], f, true
		}
	}
	return "", "", false
}

func parseRow(row []string, cols columnMap) (catalog.Product, error) {
	id := cell(row, cols.fixed, "id")
	title := cell(row, cols.fixed, "title")
	if id == "" {
		return catalog.Product{}, fmt.Errorf("missing id")
	}
	if title == "" {
		return catalog.Product{}, fmt.Errorf("missing title")
	}

	now := time.Now().UTC()
	product := catalog.Product{
		ID:        id,
		Title:     title,
		Brand:     cell(row, cols.fixed, "brand"),
		Category:  strings.ToLower(cell(row, cols.fixed, "category")),
		Vendors:   make(map[string]catalog.VendorOffer),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if image := cell(row, cols.fixed, "image"); image != "" {
		product.Image = catalog.Image{Thumbnail: image}
	}
	if tags := cell(row, cols.fixed, "tags"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if t := strings.TrimSpace(tag); t != "" {
				product.Tags = append(product.Tags, t)
			}
		}
	}

	product.Features.Type = strings.ToLower(cell(row, cols.fixed, "type"))
	for idx, sectionLabel := range cols.features {
		value := cellAt(row, idx)
		if value == "" {
			continue
		}
		if product.Features.Details == nil {
			product.Features.Details = make(map[string]map[string]string)
		}
		section, label := sectionLabel[0], sectionLabel[1]
		if product.Features.Details[section] == nil {
			product.Features.Details[section] = make(map[string]string)
		}
		product.Features.Details[section][strings.ToLower(label)] = value
	}

	for vendor, fields := range cols.vendors {
		offer, ok := parseOffer(row, fields)
		if ok {
			product.Vendors[vendor] = offer
		}
	}

	return product, nil
}

func parseOffer(row []string, fields map[string]int) (catalog.VendorOffer, bool) {
	var offer catalog.VendorOffer
	any := false

	if idx, ok := fields["price"]; ok {
		if v := cellAt(row, idx); v != "" {
			offer.Price = parseNumber(v)
			any = true
		}
	}
	if idx, ok := fields["discount_price"]; ok {
		if v := cellAt(row, idx); v != "" {
			offer.DiscountPrice = parseNumber(v)
			any = true
		}
	}
	if idx, ok := fields["rating"]; ok {
		if v := cellAt(row, idx); v != "" {
			offer.Rating = parseNumber(v)
			any = true
		}
	}
	if idx, ok := fields["link"]; ok {
		if v := cellAt(row, idx); v != "" {
			offer.AffiliateLink = v
			any = true
		}
	}
	if idx, ok := fields["offers"]; ok {
		if v := cellAt(row, idx); v != "" {
			for _, o := range strings.Split(v, "|") {
				if o = strings.TrimSpace(o); o != "" {
					offer.Offers = append(offer.Offers, o)
				}
			}
			any = true
		}
	}

	return offer, any
}

// parseNumber reuses the catalog number parsing so spreadsheet cells
// accept the same separator formats as the API.
func parseNumber(value string) catalog.Number {
	var n catalog.Number
	raw, _ := json.Marshal(value)
	_ = n.UnmarshalJSON(raw)
	return n
}

func cell(row []string, fixed map[string]int, name string) string {
	idx, ok := fixed[name]
	if !ok {
		return ""
	}
	return cellAt(row, idx)
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
