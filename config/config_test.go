package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Test with default values
	config := LoadConfig()
	assert.Equal(t, "https://www.pokemon-card.com", config.BaseURL)
	assert.Equal(t, 24, config.PageSize)
	assert.Equal(t, 1000, config.FallbackTotal)
	assert.Equal(t, 2*time.Second, config.RequestDelay)
	assert.Equal(t, "cards.db", config.DatabasePath)
	assert.Equal(t, "localhost:11211", config.MemcacheAddr)
	assert.Equal(t, "localhost:6379", config.RedisAddr)
	assert.False(t, config.PublishBatches)

	// Test with environment variables
	os.Setenv("CARD_BASE_URL", "https://cards.example.com")
	os.Setenv("CARD_PAGE_SIZE", "12")
	os.Setenv("REQUEST_DELAY_MS", "50")
	os.Setenv("DATABASE_PATH", "/tmp/cards.db")
	os.Setenv("PUBLISH_BATCHES", "true")

	config = LoadConfig()
	assert.Equal(t, "https://cards.example.com", config.BaseURL)
	assert.Equal(t, 12, config.PageSize)
	assert.Equal(t, 50*time.Millisecond, config.RequestDelay)
	assert.Equal(t, "/tmp/cards.db", config.DatabasePath)
	assert.True(t, config.PublishBatches)

	// Clean up
	os.Unsetenv("CARD_BASE_URL")
	os.Unsetenv("CARD_PAGE_SIZE")
	os.Unsetenv("REQUEST_DELAY_MS")
	os.Unsetenv("DATABASE_PATH")
	os.Unsetenv("PUBLISH_BATCHES")
}

func TestValidate(t *testing.T) {
	config := LoadConfig()
	assert.NoError(t, config.Validate())

	invalid := config
	invalid.PageSize = 0
	assert.Error(t, invalid.Validate())

	invalid = config
	invalid.DatabasePath = ""
	assert.Error(t, invalid.Validate())

	invalid = config
	invalid.PublishBatches = true
	invalid.RedisAddr = ""
	assert.Error(t, invalid.Validate())
}

func TestSearchURL(t *testing.T) {
	config := LoadConfig()
	assert.Equal(t, "https://www.pokemon-card.com/card-search/index.php", config.SearchURL(0))
	assert.Equal(t, "https://www.pokemon-card.com/card-search/index.php?page=3", config.SearchURL(3))
}

func TestDeckURL(t *testing.T) {
	config := LoadConfig()
	assert.Equal(t, "https://www.pokemon-card.com/deck/deckView.php/deckID/abc123", config.DeckURL("abc123"))
}
