package config

import (
	"os"
	"strconv"
	"time"

	"sjsage522/priceworker/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// BigQuery configuration
	BQProject          string
	BQDataset          string
	BQTable            string
	BQEndpoint         string
	GoogleEncryptedKey string

	// Telegram configuration
	TelegramBotToken          string
	TelegramEndpoint          string
	TelegramLoggingChannelID  string
	TelegramAlertingChannelID string

	// Redis mirror configuration (optional)
	RedisAddr         string
	RedisDB           int
	RedisStream       string
	RedisStreamMaxLen int

	// Memcache configuration (optional rate-limit guard)
	MemcacheAddr string

	// Fetch configuration
	FetchTimeout   time.Duration
	FetchBlockTime time.Duration

	// LegacyNullShopName keeps the historical "None" shop name for
	// offers without a seller logo, matching the existing warehouse rows
	LegacyNullShopName bool

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	redisStreamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	fetchTimeout, _ := strconv.Atoi(getEnv("FETCH_TIMEOUT_SECONDS", "10"))
	fetchBlockTime, _ := strconv.Atoi(getEnv("FETCH_BLOCK_TIME_SECONDS", "300"))
	legacyNullShopName, _ := strconv.ParseBool(getEnv("LEGACY_NULL_SHOP_NAME", "true"))

	return &Config{
		BQProject:                 getEnv("BQ_PROJECT_ID", ""),
		BQDataset:                 getEnv("BQ_DATASET", ""),
		BQTable:                   getEnv("BQ_L0_TABLE_NAME", ""),
		BQEndpoint:                getEnv("BQ_ENDPOINT", "https://bigquery.googleapis.com"),
		GoogleEncryptedKey:        getEnv("GOOGLE_ENCRYPTED_KEY", ""),
		TelegramBotToken:          getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramEndpoint:          getEnv("TELEGRAM_ENDPOINT", "https://api.telegram.org"),
		TelegramLoggingChannelID:  getEnv("TELEGRAM_LOGGING_CHANNEL_ID", ""),
		TelegramAlertingChannelID: getEnv("TELEGRAM_ALERTING_CHANNEL_ID", ""),
		RedisAddr:                 getEnv("REDIS_ADDR", ""),
		RedisDB:                   redisDB,
		RedisStream:               getEnv("REDIS_STREAM", "price_records"),
		RedisStreamMaxLen:         redisStreamMaxLen,
		MemcacheAddr:              getEnv("MEMCACHE_ADDR", ""),
		FetchTimeout:              time.Duration(fetchTimeout) * time.Second,
		FetchBlockTime:            time.Duration(fetchBlockTime) * time.Second,
		LegacyNullShopName:        legacyNullShopName,
		Environment:               getEnv("PRICEWORKER_ENVIRONMENT", "development"),
	}
}

// Validate checks that the configuration is complete enough to run
func (c *Config) Validate() error {
	if c.BQProject == "" {
		return errors.NewConfiguration("BQ_PROJECT_ID is required", nil)
	}
	if c.BQDataset == "" {
		return errors.NewConfiguration("BQ_DATASET is required", nil)
	}
	if c.BQTable == "" {
		return errors.NewConfiguration("BQ_L0_TABLE_NAME is required", nil)
	}
	if c.GoogleEncryptedKey == "" {
		return errors.NewConfiguration("GOOGLE_ENCRYPTED_KEY is required", nil)
	}
	if c.FetchTimeout <= 0 {
		return errors.NewConfiguration("fetch timeout must be positive", nil)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
