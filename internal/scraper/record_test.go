package scraper

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sjsage522/priceworker/pkg/errors"
)

func strPtr(s string) *string {
	return &s
}

var testProduct = Product{
	ProductID: 1,
	Name:      "Osprey Aether II 65",
	Color:     "black",
	URL:       "https://example.com/aether",
}

func TestBuildRecord(t *testing.T) {
	builder := RecordBuilder{LegacyNullShopName: true}
	batchTime := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)

	record, err := builder.BuildRecord(testProduct, ParsedOffer{
		ShopName:  strPtr("ShopA"),
		PriceText: strPtr("1299"),
	}, batchTime)
	require.NoError(t, err)

	assert.Equal(t, batchTime, record.DateExtracted)
	assert.Equal(t, 1, record.ProductID)
	assert.Equal(t, "Osprey Aether II 65", record.ProductName)
	assert.Equal(t, "black", record.Color)
	assert.Equal(t, "ShopA", record.ShopName)
	assert.Equal(t, 1299.0, record.Price)
}

func TestBuildRecordMissingShopName(t *testing.T) {
	batchTime := time.Now().UTC()

	// Legacy mode renders the literal string "None", matching the rows
	// already in the warehouse
	legacy := RecordBuilder{LegacyNullShopName: true}
	record, err := legacy.BuildRecord(testProduct, ParsedOffer{PriceText: strPtr("999")}, batchTime)
	require.NoError(t, err)
	assert.Equal(t, "None", record.ShopName)

	plain := RecordBuilder{LegacyNullShopName: false}
	record, err = plain.BuildRecord(testProduct, ParsedOffer{PriceText: strPtr("999")}, batchTime)
	require.NoError(t, err)
	assert.Equal(t, "", record.ShopName)
}

func TestBuildRecordConversionErrors(t *testing.T) {
	builder := RecordBuilder{LegacyNullShopName: true}
	batchTime := time.Now().UTC()

	tests := []struct {
		name  string
		offer ParsedOffer
	}{
		{"nil price text", ParsedOffer{ShopName: strPtr("ShopA")}},
		{"empty price text", ParsedOffer{ShopName: strPtr("ShopA"), PriceText: strPtr("")}},
		{"non-numeric price text", ParsedOffer{ShopName: strPtr("ShopA"), PriceText: strPtr("abc")}},
		{"negative price", ParsedOffer{ShopName: strPtr("ShopA"), PriceText: strPtr("-10")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := builder.BuildRecord(testProduct, tt.offer, batchTime)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeConversion))
		})
	}
}

func TestPriceRecordRow(t *testing.T) {
	record := PriceRecord{
		DateExtracted: time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC),
		ProductID:     2,
		ProductName:   "Osprey Kestrel 58",
		Color:         "bonsai green",
		ShopName:      "ShopB",
		Price:         1350.0,
	}

	row := record.Row()
	assert.Equal(t, "2023-06-01T12:00:00Z", row["date_extracted"])
	assert.Equal(t, 2, row["product_id"])
	assert.Equal(t, "Osprey Kestrel 58", row["product_name"])
	assert.Equal(t, "bonsai green", row["color"])
	assert.Equal(t, "ShopB", row["shop_name"])
	assert.Equal(t, 1350.0, row["price"])
}

func TestDefaultCatalog(t *testing.T) {
	catalog := DefaultCatalog()
	assert.Len(t, catalog, 8)

	// (ProductID, Color) is the unique key; ProductID alone is not
	seen := make(map[string]bool)
	for _, p := range catalog {
		key := fmt.Sprintf("%d/%s", p.ProductID, p.Color)
		assert.False(t, seen[key], "duplicate catalog entry %v", key)
		seen[key] = true
		assert.NotEmpty(t, p.URL)
		assert.Greater(t, p.ProductID, 0)
	}
}
