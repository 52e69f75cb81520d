package crawler

import (
	"context"
	"time"
)

// CardRecord represents one scraped trading card.
//
// Optional string fields use "" for absent. HP and RetreatCost use nil for
// absent: a field is present exactly when its markup was located, so a
// parsed zero is stored as a real zero.
type CardRecord struct {
	CardID      string `json:"card_id"`
	Name        string `json:"name"`
	ImageURL    string `json:"image_url"`
	PageURL     string `json:"page_url"`
	Expansion   string `json:"expansion,omitempty"`
	Rarity      string `json:"rarity,omitempty"`
	CardType    string `json:"card_type,omitempty"`
	HP          *int   `json:"hp,omitempty"`
	Attack1     string `json:"attack1,omitempty"`
	Attack2     string `json:"attack2,omitempty"`
	Ability     string `json:"ability,omitempty"`
	Weakness    string `json:"weakness,omitempty"`
	Resistance  string `json:"resistance,omitempty"`
	RetreatCost *int   `json:"retreat_cost,omitempty"`
}

// Fetcher retrieves the UTF-8 text of a page
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// EventKind identifies the kind of a crawl event
type EventKind int

const (
	// EventProgress reports the page transition (currentPage, totalPages)
	EventProgress EventKind = iota
	// EventBatch delivers the parsed records of one listing page
	EventBatch
	// EventFinished reports normal completion of the run
	EventFinished
	// EventFailed reports a terminal failure of the run
	EventFailed
)

// Event is one notification emitted by a crawl run
type Event struct {
	Kind       EventKind
	Page       int
	TotalPages int
	Records    []CardRecord
	Err        error
}

// Options configures the crawl orchestrator
type Options struct {
	// BaseURL is the site root used to resolve relative links
	BaseURL string
	// SearchPath is the listing page path under BaseURL
	SearchPath string
	// PageSize is the number of cards per listing page
	PageSize int
	// FallbackTotal is used when the result count cannot be discovered
	FallbackTotal int
	// Delay staggers detail fetches within one page's fan-out
	Delay time.Duration
}
