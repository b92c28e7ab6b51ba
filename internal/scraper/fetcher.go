package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"

	"sjsage522/priceworker/helpers"
	"sjsage522/priceworker/logger"
	"sjsage522/priceworker/pkg/errors"
	"sjsage522/priceworker/services/cache"
)

// PageFetcher retrieves a product listing page and parses it into a
// goquery document. An optional cache acts as a rate-limit guard: when
// the source responds 429, further requests to the same host are
// blocked until the cache entry expires.
type PageFetcher struct {
	client    *http.Client
	cacheSvc  cache.CacheService
	blockTime time.Duration
	log       *logger.Logger
}

// NewPageFetcher creates a page fetcher with the given request timeout.
// cacheSvc may be nil, disabling the rate-limit guard.
func NewPageFetcher(timeout time.Duration, cacheSvc cache.CacheService, blockTime time.Duration) *PageFetcher {
	return &PageFetcher{
		client:    &http.Client{Timeout: timeout},
		cacheSvc:  cacheSvc,
		blockTime: blockTime,
		log:       logger.ForFetcher(),
	}
}

// Fetch performs a single GET against the page URL. Non-2xx responses
// are logged but the body is still parsed; the page structure check
// downstream catches anything unusable.
func (f *PageFetcher) Fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	blockKey, err := f.rateLimitKey(pageURL)
	if err != nil {
		return nil, errors.NewFetch(pageURL, "invalid URL", err)
	}

	if f.cacheSvc != nil {
		if _, err := f.cacheSvc.Get(blockKey); err == nil {
			return nil, errors.NewFetch(pageURL,
				fmt.Sprintf("host blocked for %d seconds after rate limiting", int(f.blockTime/time.Second)), nil)
		}
	}

	req, err := helpers.NewBrowserRequest(ctx, pageURL)
	if err != nil {
		return nil, errors.NewFetch(pageURL, "failed to create request", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.NewFetch(pageURL, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		if f.cacheSvc != nil {
			retryAfter := resp.Header.Get("Retry-After")
			if setErr := f.cacheSvc.Set(blockKey, []byte(retryAfter), f.blockTime); setErr != nil {
				f.log.Warn().Err(setErr).Msg("Failed to set rate-limit cache entry")
			}
		}
		return nil, errors.NewFetch(pageURL, "rate limited by source", nil)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// The source has been observed serving parsable markup with odd
		// status codes, so parsing is still attempted.
		f.log.Warn().
			Int("status", resp.StatusCode).
			Str("url", pageURL).
			Msg("Non-success status, attempting parse anyway")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewFetch(pageURL, "failed to read response body", err)
	}

	utf8Body, err := helpers.DecodeToUTF8(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, errors.NewFetch(pageURL, "failed to decode response body", err)
	}

	doc, err := goquery.NewDocumentFromReader(utf8Body)
	if err != nil {
		return nil, errors.NewFetch(pageURL, "failed to parse HTML", err)
	}

	return doc, nil
}

// rateLimitKey builds the per-host cache key for the rate-limit guard
func (f *PageFetcher) rateLimitKey(pageURL string) (string, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}
	return "fetch_blocked:" + parsed.Host, nil
}
