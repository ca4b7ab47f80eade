package dataset

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]string) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, value))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

var seedHeader = []string{
	"id", "title", "brand", "category", "image", "tags", "type",
	"amazon_price", "amazon_discount_price", "amazon_rating", "amazon_link",
	"flipkart_price", "flipkart_link",
	"feature:display:Size", "feature:network&connectivity:Sim",
}

func TestLoaderParsesProducts(t *testing.T) {
	content := buildWorkbook(t, [][]string{
		seedHeader,
		{
			"p1", "Nova Phone 5G", "nova", "Mobiles", "https://img.example/p1.jpg",
			"latest-popular, hot-deals", "Mobile",
			"44,999", "42,999", "4.3", "https://amazon.example/p1",
			"43,500", "https://flipkart.example/p1",
			"6.1 inch", "Nano",
		},
	})

	result, err := NewLoader().Load(content)
	require.NoError(t, err)
	require.Len(t, result.Products, 1)
	assert.Empty(t, result.Errors)

	p := result.Products[0]
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "Nova Phone 5G", p.Title)
	assert.Equal(t, "mobiles", p.Category)
	assert.Equal(t, "mobile", p.Features.Type)
	assert.Equal(t, []string{"latest-popular", "hot-deals"}, p.Tags)
	assert.Equal(t, "https://img.example/p1.jpg", p.Image.Thumbnail)

	require.Contains(t, p.Vendors, "amazon")
	amazon := p.Vendors["amazon"]
	assert.Equal(t, "44999", amazon.Price.String())
	assert.Equal(t, "42999", amazon.DiscountPrice.String())
	assert.Equal(t, "https://amazon.example/p1", amazon.AffiliateLink)

	require.Contains(t, p.Vendors, "flipkart")
	assert.Equal(t, "43500", p.Vendors["flipkart"].Price.String())

	assert.Equal(t, "6.1 inch", p.Features.Details["display"]["size"])
	assert.Equal(t, "Nano", p.Features.Details["network&connectivity"]["sim"])
}

func TestLoaderRejectsRowsWithoutIDOrTitle(t *testing.T) {
	content := buildWorkbook(t, [][]string{
		{"id", "title", "brand"},
		{"", "No ID Product", "nova"},
		{"p2", "", "nova"},
		{"p3", "Valid Product", "nova"},
	})

	result, err := NewLoader().Load(content)
	require.NoError(t, err)
	assert.Len(t, result.Products, 1)
	assert.Len(t, result.Errors, 2)
	assert.Equal(t, 2, result.Errors[0].Row)
	assert.Equal(t, 3, result.Errors[1].Row)
}

func TestLoaderSkipsEmptyRows(t *testing.T) {
	content := buildWorkbook(t, [][]string{
		{"id", "title"},
		{"p1", "Product One"},
		{"", ""},
		{"p2", "Product Two"},
	})

	result, err := NewLoader().Load(content)
	require.NoError(t, err)
	assert.Len(t, result.Products, 2)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 2, result.TotalRows)
}

func TestLoaderVendorWithoutAnyCellsIsOmitted(t *testing.T) {
	content := buildWorkbook(t, [][]string{
		{"id", "title", "amazon_price", "flipkart_price"},
		{"p1", "Product One", "999", ""},
	})

	result, err := NewLoader().Load(content)
	require.NoError(t, err)
	require.Len(t, result.Products, 1)

	p := result.Products[0]
	assert.Contains(t, p.Vendors, "amazon")
	assert.NotContains(t, p.Vendors, "flipkart")
}
