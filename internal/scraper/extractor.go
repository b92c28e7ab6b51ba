package scraper

import (
	"github.com/PuerkitoBio/goquery"

	"sjsage522/priceworker/pkg/errors"
)

// CSS selectors for the heureka.cz offer comparison list
const (
	offersListSelector = "div.c-offers-list__cont"
	offerSelector      = "section.c-offer"
)

// OfferExtractor isolates the genuine offer list within a listing page.
// The page renders a promotional "recommended offers" container before
// the real comparison list, so only the last container counts.
type OfferExtractor struct{}

// ExtractOffers returns the offer sections of the last offers-list
// container in document order, preserving the seller ranking shown on
// the page. A page without any offers-list container is a structure
// error; a container with zero offers yields an empty slice.
func (OfferExtractor) ExtractOffers(doc *goquery.Document) ([]*goquery.Selection, error) {
	containers := doc.Find(offersListSelector)
	if containers.Length() == 0 {
		return nil, errors.NewStructure("extractor", "no offers-list container found")
	}

	var offers []*goquery.Selection
	containers.Last().Find(offerSelector).Each(func(i int, s *goquery.Selection) {
		offers = append(offers, s)
	})

	return offers, nil
}
