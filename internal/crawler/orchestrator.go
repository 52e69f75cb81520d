package crawler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"knagahashi/cardharvester/logger"
)

// ErrAlreadyRunning is returned by Start while a run is in flight
var ErrAlreadyRunning = errors.New("a crawl run is already in progress")

// Orchestrator owns the page-by-page traversal of the card search listing.
// One orchestrator supports a single run at a time; Start rejects a second
// call while running.
type Orchestrator struct {
	fetcher Fetcher
	parser  *DetailParser
	opts    Options
	log     *logger.Logger
	running atomic.Bool
}

// NewOrchestrator creates a crawl orchestrator with an injected fetcher
func NewOrchestrator(fetcher Fetcher, opts Options) *Orchestrator {
	return &Orchestrator{
		fetcher: fetcher,
		parser:  &DetailParser{BaseURL: opts.BaseURL},
		opts:    opts,
		log:     logger.ForCrawler(),
	}
}

// Run is the handle of one crawl run. Events are delivered in order:
// progress once per page transition, one batch per page, then exactly one
// of finished or failed. A cancelled run delivers no terminal event; the
// channel just closes.
type Run struct {
	events chan Event
	cancel context.CancelFunc
}

// Events returns the run's event stream. The channel is closed when the
// run reaches a terminal state.
func (r *Run) Events() <-chan Event {
	return r.events
}

// Cancel requests cooperative cancellation. In-flight requests are not
// aborted; their results are discarded at the next suspension point.
func (r *Run) Cancel() {
	r.cancel()
}

// Start begins a crawl run. It returns ErrAlreadyRunning while a previous
// run has not reached a terminal state.
func (o *Orchestrator) Start(ctx context.Context) (*Run, error) {
	if !o.running.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	run := &Run{
		events: make(chan Event, 16),
		cancel: cancel,
	}

	go o.crawl(runCtx, run)
	return run, nil
}

func (o *Orchestrator) searchURL(page int) string {
	if page <= 0 {
		return o.opts.BaseURL + o.opts.SearchPath
	}
	return fmt.Sprintf("%s%s?page=%d", o.opts.BaseURL, o.opts.SearchPath, page)
}

// emit delivers an event unless the run has been cancelled. It reports
// whether the event was delivered.
func (o *Orchestrator) emit(ctx context.Context, run *Run, ev Event) bool {
	select {
	case <-ctx.Done():
		return false
	case run.events <- ev:
		return true
	}
}

func (o *Orchestrator) fail(ctx context.Context, run *Run, err error) {
	o.log.Error().Err(err).Msg("Crawl run failed")
	o.emit(ctx, run, Event{Kind: EventFailed, Err: err})
}

func (o *Orchestrator) crawl(ctx context.Context, run *Run) {
	defer o.running.Store(false)
	defer run.cancel()
	defer close(run.events)

	// Discovering: the first listing page carries the total result count
	body, err := o.fetcher.Fetch(ctx, o.searchURL(0))
	if err != nil {
		o.fail(ctx, run, err)
		return
	}

	totalCount := DiscoverTotalCount(body, o.opts.FallbackTotal)
	totalPages := (totalCount + o.opts.PageSize - 1) / o.opts.PageSize

	o.log.Info().
		Int("total_count", totalCount).
		Int("total_pages", totalPages).
		Msg("Discovered result count")

	if !o.emit(ctx, run, Event{Kind: EventProgress, Page: 0, TotalPages: totalPages}) {
		return
	}

	for page := 1; page <= totalPages; page++ {
		if ctx.Err() != nil {
			return
		}
		if !o.emit(ctx, run, Event{Kind: EventProgress, Page: page, TotalPages: totalPages}) {
			return
		}

		listing, err := o.fetcher.Fetch(ctx, o.searchURL(page))
		if err != nil {
			// Listing errors are terminal: no partial completion past this page
			o.fail(ctx, run, err)
			return
		}

		links := ExtractDetailLinks(listing, o.opts.BaseURL)
		records := o.fetchDetails(ctx, links)

		if ctx.Err() != nil {
			return
		}
		if !o.emit(ctx, run, Event{Kind: EventBatch, Page: page, TotalPages: totalPages, Records: records}) {
			return
		}
	}

	o.emit(ctx, run, Event{Kind: EventFinished})
}

// fetchDetails fans out one listing page's detail fetches. All requests are
// issued concurrently but start-staggered by index; the page is aggregated
// only after every scheduled fetch has reported, success or failure. A
// failed detail fetch is dropped, not retried: one bad card must not abort
// a multi-thousand-card crawl.
func (o *Orchestrator) fetchDetails(ctx context.Context, links []string) []CardRecord {
	results := make(chan CardRecord, len(links))
	var wg sync.WaitGroup

	for i, link := range links {
		wg.Add(1)
		go func(i int, link string) {
			defer wg.Done()

			timer := time.NewTimer(time.Duration(i) * o.opts.Delay)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}

			body, err := o.fetcher.Fetch(ctx, link)
			if err != nil {
				o.log.Debug().Err(err).Str("url", link).Msg("Detail fetch dropped")
				return
			}

			record, err := o.parser.Parse(body, link)
			if err != nil {
				o.log.Debug().Err(err).Str("url", link).Msg("Detail page dropped")
				return
			}

			results <- *record
		}(i, link)
	}

	wg.Wait()
	close(results)

	records := make([]CardRecord, 0, len(links))
	for record := range results {
		records = append(records, record)
	}
	return records
}
