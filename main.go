package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"

	"sjsage522/priceworker/config"
	"sjsage522/priceworker/internal/handler"
	"sjsage522/priceworker/internal/scraper"
	"sjsage522/priceworker/logger"
	"sjsage522/priceworker/services/cache"
	"sjsage522/priceworker/services/loader"
	"sjsage522/priceworker/services/notifier"
	"sjsage522/priceworker/services/publisher"
	"sjsage522/priceworker/services/secrets"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("table", cfg.BQProject+"."+cfg.BQDataset+"."+cfg.BQTable).
		Msg("Starting price worker")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h, cleanup, err := buildHandler(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer cleanup()

	// Inside Lambda the runtime drives invocations; locally one batch
	// runs immediately and the process exits.
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		lambda.Start(h.Handle)
		return
	}

	resp, _ := h.Handle(ctx, handler.Event{})
	log.Info().
		Int("status", resp.StatusCode).
		Str("message", resp.Body.Message).
		Msg("Run finished")
	if resp.StatusCode != 200 {
		cleanup()
		os.Exit(1)
	}
}

// buildHandler wires all services into an invocation handler
func buildHandler(ctx context.Context, cfg *config.Config) (*handler.Handler, func(), error) {
	tokenSource, err := secrets.NewTokenSource(ctx, cfg.GoogleEncryptedKey)
	if err != nil {
		return nil, nil, err
	}

	var cacheSvc cache.CacheService
	if cfg.MemcacheAddr != "" {
		cacheSvc = cache.NewMemcacheService(cfg.MemcacheAddr)
		logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)
	}

	fetcher := scraper.NewPageFetcher(cfg.FetchTimeout, cacheSvc, cfg.FetchBlockTime)
	builder := scraper.RecordBuilder{LegacyNullShopName: cfg.LegacyNullShopName}
	bqLoader := loader.NewBigQueryLoader(cfg.BQEndpoint, cfg.BQProject, cfg.BQDataset, cfg.BQTable, tokenSource)

	cleanup := func() {}
	var pub publisher.Publisher
	if cfg.RedisAddr != "" {
		redisPub := publisher.NewRedisPublisher(cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream, cfg.RedisStreamMaxLen)
		pub = redisPub
		cleanup = func() { redisPub.Close() }
		logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)", cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
	}

	telegram := notifier.NewTelegramNotifier(
		cfg.TelegramEndpoint,
		cfg.TelegramBotToken,
		cfg.TelegramLoggingChannelID,
		cfg.TelegramAlertingChannelID,
	)

	pipeline := scraper.NewPipeline(scraper.DefaultCatalog(), fetcher, builder, bqLoader, pub)

	return handler.New(pipeline, telegram), cleanup, nil
}
