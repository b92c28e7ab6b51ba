package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CSS selectors for the fields within one offer section
const (
	shopLogoSelector = "img.c-offer__shop-logo.e-image-with-fallback"
	priceSelector    = "span.c-offer__price.u-extra-bold.u-delta"
)

var digitRegex = regexp.MustCompile(`\d`)

// ParsedOffer holds the fields parsed out of one offer section.
// A nil field means the expected markup element was absent.
type ParsedOffer struct {
	ShopName  *string
	PriceText *string
}

// OfferParser extracts the seller name and price text from one offer
// section. It never fails: absent markup degrades to nil fields and
// the record builder decides what is fatal.
type OfferParser struct{}

// ParseOffer parses a single offer section.
// Price text keeps only decimal digits, dropping thousands separators,
// currency symbols and whitespace ("1 299 Kč" becomes "1299"). Prices
// on the source site never carry decimals; a price that did would be
// corrupted by this stripping.
func (OfferParser) ParseOffer(s *goquery.Selection) ParsedOffer {
	var offer ParsedOffer

	logo := s.Find(shopLogoSelector)
	if logo.Length() > 0 {
		alt := logo.AttrOr("alt", "")
		offer.ShopName = &alt
	}

	priceSel := s.Find(priceSelector)
	if priceSel.Length() > 0 {
		price := strings.Join(digitRegex.FindAllString(strings.TrimSpace(priceSel.Text()), -1), "")
		offer.PriceText = &price
	}

	return offer
}
