package publisher

import "knagahashi/cardharvester/internal/crawler"

// Publisher represents a service for publishing merged card batches
type Publisher interface {
	// PublishBatch publishes one page's merged records
	PublishBatch(records []crawler.CardRecord) error

	// TrimStreams trims all streams to the configured maximum length
	TrimStreams() error

	// Close closes the publisher connection
	Close() error
}
