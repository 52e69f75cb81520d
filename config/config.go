package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	// Card site configuration
	BaseURL       string
	SearchPath    string
	DeckBasePath  string
	PageSize      int
	FallbackTotal int

	// Delay between detail requests within one listing page
	RequestDelay time.Duration

	// Fetch rate-limit block duration after a 429
	BlockTime time.Duration

	// Store configuration
	DatabasePath string

	// Memcache configuration
	MemcacheAddr string

	// Redis configuration (batch publishing, optional)
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int
	PublishBatches       bool

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	pageSize, _ := strconv.Atoi(getEnv("CARD_PAGE_SIZE", "24"))
	fallbackTotal, _ := strconv.Atoi(getEnv("CARD_FALLBACK_TOTAL", "1000"))
	delayMs, _ := strconv.Atoi(getEnv("REQUEST_DELAY_MS", "2000"))
	blockSeconds, _ := strconv.Atoi(getEnv("FETCH_BLOCK_SECONDS", "300"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	streamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	publish, _ := strconv.ParseBool(getEnv("PUBLISH_BATCHES", "false"))

	return Config{
		BaseURL:              getEnv("CARD_BASE_URL", "https://www.pokemon-card.com"),
		SearchPath:           getEnv("CARD_SEARCH_PATH", "/card-search/index.php"),
		DeckBasePath:         getEnv("DECK_BASE_PATH", "/deck/deckView.php/deckID/"),
		PageSize:             pageSize,
		FallbackTotal:        fallbackTotal,
		RequestDelay:         time.Duration(delayMs) * time.Millisecond,
		BlockTime:            time.Duration(blockSeconds) * time.Second,
		DatabasePath:         getEnv("DATABASE_PATH", "cards.db"),
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", "localhost:11211"),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "cards"),
		RedisStreamCount:     streamCount,
		RedisStreamMaxLength: streamMaxLen,
		PublishBatches:       publish,
		Environment:          getEnv("CARD_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got %d", c.PageSize)
	}
	if c.FallbackTotal <= 0 {
		return fmt.Errorf("fallback total must be positive, got %d", c.FallbackTotal)
	}
	if c.RequestDelay < 0 {
		return fmt.Errorf("request delay must not be negative")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database path is required")
	}
	if c.PublishBatches && c.RedisAddr == "" {
		return fmt.Errorf("redis address is required when batch publishing is enabled")
	}
	return nil
}

// SearchURL returns the listing URL for the given page (page 0 means no page parameter)
func (c *Config) SearchURL(page int) string {
	if page <= 0 {
		return c.BaseURL + c.SearchPath
	}
	return fmt.Sprintf("%s%s?page=%d", c.BaseURL, c.SearchPath, page)
}

// DeckURL returns the deck view URL for a deck code
func (c *Config) DeckURL(code string) string {
	return c.BaseURL + c.DeckBasePath + code
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
