package scraper

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/errgroup"

	"sjsage522/priceworker/logger"
	"sjsage522/priceworker/services/loader"
	"sjsage522/priceworker/services/publisher"
)

// BatchResult summarizes one successful pipeline run
type BatchResult struct {
	Records   int           `json:"records"`
	Elapsed   time.Duration `json:"elapsed"`
	BatchTime time.Time     `json:"batch_time"`
}

// Pipeline drives the extraction of all catalog products and hands the
// accumulated batch to the warehouse loader. Products are fetched in
// parallel; the policy is fail-fast: any single product failure cancels
// the in-flight fetches and aborts the whole batch.
type Pipeline struct {
	catalog   []Product
	fetcher   *PageFetcher
	extractor OfferExtractor
	parser    OfferParser
	builder   RecordBuilder
	loader    loader.Loader
	publisher publisher.Publisher
	log       *logger.Logger
}

// NewPipeline creates a pipeline over the given catalog.
// pub may be nil, disabling the stream mirror.
func NewPipeline(catalog []Product, fetcher *PageFetcher, builder RecordBuilder, ldr loader.Loader, pub publisher.Publisher) *Pipeline {
	return &Pipeline{
		catalog:   catalog,
		fetcher:   fetcher,
		builder:   builder,
		loader:    ldr,
		publisher: pub,
		log:       logger.ForPipeline(),
	}
}

// Run executes one extraction batch: fetch and parse every catalog
// product, then load the accumulated rows in one call. The batch
// timestamp is captured once before fan-out so every row of the run
// carries the same extraction instant.
func (p *Pipeline) Run(ctx context.Context) (*BatchResult, error) {
	start := time.Now()
	batchTime := time.Now().UTC()

	perProduct := make([][]PriceRecord, len(p.catalog))

	g, gctx := errgroup.WithContext(ctx)
	for i, product := range p.catalog {
		i, product := i, product
		g.Go(func() error {
			records, err := p.scrapeProduct(gctx, product, batchTime)
			if err != nil {
				return err
			}
			perProduct[i] = records
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var records []PriceRecord
	for _, batch := range perProduct {
		records = append(records, batch...)
	}

	rows := make([]loader.Row, 0, len(records))
	for _, record := range records {
		rows = append(rows, record.Row())
	}

	if err := p.loader.Load(ctx, rows, loader.TableSchema()); err != nil {
		return nil, err
	}

	result := &BatchResult{
		Records:   len(records),
		Elapsed:   time.Since(start),
		BatchTime: batchTime,
	}

	p.mirror(ctx, result, records)

	p.log.Info().
		Int("records", result.Records).
		Dur("elapsed", result.Elapsed).
		Msg("Batch complete")

	return result, nil
}

// scrapeProduct fetches one product page and builds its records
func (p *Pipeline) scrapeProduct(ctx context.Context, product Product, batchTime time.Time) ([]PriceRecord, error) {
	doc, err := p.fetcher.Fetch(ctx, product.URL)
	if err != nil {
		return nil, err
	}

	offers, err := p.extractor.ExtractOffers(doc)
	if err != nil {
		return nil, err
	}

	records := make([]PriceRecord, 0, len(offers))
	for _, offer := range offers {
		record, err := p.builder.BuildRecord(product, p.parser.ParseOffer(offer), batchTime)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	p.log.Debug().
		Str("product", product.Name).
		Str("color", product.Color).
		Int("offers", len(records)).
		Msg("Product scraped")

	return records, nil
}

// mirror publishes the batch to the stream mirror, if configured.
// Fire-and-forget: a publish failure never fails a loaded batch.
func (p *Pipeline) mirror(ctx context.Context, result *BatchResult, records []PriceRecord) {
	if p.publisher == nil {
		return
	}

	message, err := json.Marshal(struct {
		BatchTime time.Time     `json:"batch_time"`
		Records   []PriceRecord `json:"records"`
	}{BatchTime: result.BatchTime, Records: records})
	if err != nil {
		p.log.Error().Err(err).Msg("Failed to encode batch for mirror")
		return
	}

	if err := p.publisher.Publish(ctx, message); err != nil {
		p.log.Error().Err(err).Msg("Failed to publish batch mirror")
		return
	}
	if err := p.publisher.TrimStream(ctx); err != nil {
		p.log.Warn().Err(err).Msg("Failed to trim mirror stream")
	}
}
