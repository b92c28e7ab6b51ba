package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"sjsage522/priceworker/internal/handler"
	"sjsage522/priceworker/internal/scraper"
	"sjsage522/priceworker/services/loader"
	"sjsage522/priceworker/services/notifier"
)

// This test HTML mimics a heureka product listing page with the
// promotional recommended-offers block before the real comparison list
const testListingHTML = `
<!DOCTYPE html>
<html>
<head>
    <title>Osprey Aether II 65 black</title>
</head>
<body>
    <div class="c-offers-list__cont">
        <section class="c-offer">
            <img class="c-offer__shop-logo e-image-with-fallback" alt="PromoShop" src="/logo.png" />
            <span class="c-offer__price u-extra-bold u-delta">1 Kč</span>
        </section>
    </div>
    <div class="c-offers-list__cont">
        <section class="c-offer">
            <img class="c-offer__shop-logo e-image-with-fallback" alt="ShopA" src="/logo-a.png" />
            <span class="c-offer__price u-extra-bold u-delta">1 299 Kč</span>
        </section>
        <section class="c-offer">
            <span class="c-offer__price u-extra-bold u-delta">1 350 Kč</span>
        </section>
    </div>
</body>
</html>
`

func TestEndToEndRun(t *testing.T) {
	// Product listing server
	pageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(testListingHTML))
	}))
	defer pageServer.Close()

	// BigQuery insertAll endpoint
	var insertedRows []map[string]interface{}
	bqServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Rows []struct {
				JSON map[string]interface{} `json:"json"`
			} `json:"rows"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		for _, row := range body.Rows {
			insertedRows = append(insertedRows, row.JSON)
		}
		w.Write([]byte(`{"kind":"bigquery#tableDataInsertAllResponse"}`))
	}))
	defer bqServer.Close()

	// Telegram sendMessage endpoint
	var notifiedChats []string
	tgServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		notifiedChats = append(notifiedChats, r.URL.Query().Get("chat_id"))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer tgServer.Close()

	catalog := []scraper.Product{
		{ProductID: 1, Name: "Osprey Aether II 65", Color: "black", URL: pageServer.URL + "/aether-black"},
	}

	fetcher := scraper.NewPageFetcher(5*time.Second, nil, time.Minute)
	builder := scraper.RecordBuilder{LegacyNullShopName: true}
	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"})
	bqLoader := loader.NewBigQueryLoader(bqServer.URL, "test-project", "prices", "l0_backpack_prices", tokenSource)
	telegram := notifier.NewTelegramNotifier(tgServer.URL, "test-token", "log-channel", "alert-channel")

	pipeline := scraper.NewPipeline(catalog, fetcher, builder, bqLoader, nil)
	h := handler.New(pipeline, telegram)

	resp, err := h.Handle(context.Background(), handler.Event{})
	require.NoError(t, err)

	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, resp.Body.Message, "Data is being uploaded")

	// The decoy offer is skipped; both real offers land in the warehouse
	require.Len(t, insertedRows, 2)
	assert.Equal(t, "ShopA", insertedRows[0]["shop_name"])
	assert.Equal(t, 1299.0, insertedRows[0]["price"])
	assert.Equal(t, "None", insertedRows[1]["shop_name"])
	assert.Equal(t, 1350.0, insertedRows[1]["price"])
	assert.Equal(t, insertedRows[0]["date_extracted"], insertedRows[1]["date_extracted"])

	// Success goes to the quiet logging channel
	assert.Equal(t, []string{"log-channel"}, notifiedChats)
}

func TestEndToEndLoadFailure(t *testing.T) {
	pageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(testListingHTML))
	}))
	defer pageServer.Close()

	bqServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer bqServer.Close()

	var notifiedChats []string
	tgServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		notifiedChats = append(notifiedChats, r.URL.Query().Get("chat_id"))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer tgServer.Close()

	catalog := []scraper.Product{
		{ProductID: 1, Name: "Osprey Aether II 65", Color: "black", URL: pageServer.URL + "/aether-black"},
	}

	fetcher := scraper.NewPageFetcher(5*time.Second, nil, time.Minute)
	builder := scraper.RecordBuilder{LegacyNullShopName: true}
	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"})
	bqLoader := loader.NewBigQueryLoader(bqServer.URL, "test-project", "prices", "l0_backpack_prices", tokenSource)
	telegram := notifier.NewTelegramNotifier(tgServer.URL, "test-token", "log-channel", "alert-channel")

	pipeline := scraper.NewPipeline(catalog, fetcher, builder, bqLoader, nil)
	h := handler.New(pipeline, telegram)

	resp, err := h.Handle(context.Background(), handler.Event{})
	require.NoError(t, err)

	assert.Equal(t, 500, resp.StatusCode)
	assert.Contains(t, resp.Body.Message, "Failed to upload")

	// Failure alerts the alerting channel
	assert.Equal(t, []string{"alert-channel"}, notifiedChats)
}
