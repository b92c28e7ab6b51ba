package scraper

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"sjsage522/priceworker/pkg/errors"
	"sjsage522/priceworker/services/loader"
)

// PriceRecord is one normalized warehouse row
type PriceRecord struct {
	DateExtracted time.Time `json:"date_extracted"`
	ProductID     int       `json:"product_id"`
	ProductName   string    `json:"product_name"`
	Color         string    `json:"color"`
	ShopName      string    `json:"shop_name"`
	Price         float64   `json:"price"`
}

// Row converts the record into a warehouse row keyed by schema field name
func (r PriceRecord) Row() loader.Row {
	return loader.Row{
		"date_extracted": r.DateExtracted.UTC().Format(time.RFC3339Nano),
		"product_id":     r.ProductID,
		"product_name":   r.ProductName,
		"color":          r.Color,
		"shop_name":      r.ShopName,
		"price":          r.Price,
	}
}

// RecordBuilder combines a parsed offer with its product metadata and
// the batch timestamp into a normalized row.
type RecordBuilder struct {
	// LegacyNullShopName renders an absent seller as the literal string
	// "None". The existing warehouse rows were written that way and any
	// consumer comparing against them relies on it. With the flag off
	// an absent seller is an empty string.
	LegacyNullShopName bool
}

// BuildRecord builds the warehouse row for one offer. Every record of
// a batch carries the same timestamp. A missing or unparsable price is
// a conversion error; the batch cannot proceed with it.
func (b RecordBuilder) BuildRecord(product Product, offer ParsedOffer, batchTime time.Time) (PriceRecord, error) {
	stage := fmt.Sprintf("%s/%s", product.Name, product.Color)

	if offer.PriceText == nil {
		return PriceRecord{}, errors.NewConversion(stage, "offer has no price element", nil)
	}

	price, err := strconv.ParseFloat(*offer.PriceText, 64)
	if err != nil {
		return PriceRecord{}, errors.NewConversion(stage,
			fmt.Sprintf("price text %q is not a number", *offer.PriceText), err)
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return PriceRecord{}, errors.NewConversion(stage,
			fmt.Sprintf("price %v is not a finite non-negative number", price), nil)
	}

	shopName := ""
	if offer.ShopName != nil {
		shopName = *offer.ShopName
	} else if b.LegacyNullShopName {
		shopName = "None"
	}

	return PriceRecord{
		DateExtracted: batchTime,
		ProductID:     product.ProductID,
		ProductName:   product.Name,
		Color:         product.Color,
		ShopName:      shopName,
		Price:         price,
	}, nil
}
