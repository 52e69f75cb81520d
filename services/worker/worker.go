package worker

import (
	"context"

	"knagahashi/cardharvester/internal/crawler"
	"knagahashi/cardharvester/logger"
	"knagahashi/cardharvester/services/publisher"
	"knagahashi/cardharvester/services/store"
)

// Worker drives one crawl run: it consumes the orchestrator's events,
// merges each batch into the store and optionally publishes merged batches.
type Worker struct {
	orchestrator *crawler.Orchestrator
	store        *store.CardStore
	publisher    publisher.Publisher
	log          *logger.Logger
}

// NewWorker creates a new worker. publisher may be nil.
func NewWorker(orchestrator *crawler.Orchestrator, cardStore *store.CardStore, pub publisher.Publisher) *Worker {
	return &Worker{
		orchestrator: orchestrator,
		store:        cardStore,
		publisher:    pub,
		log:          logger.ForWorker(),
	}
}

// Run starts a crawl and processes its events until a terminal state.
// A persistence error on one batch is logged and surfaced at the end but
// does not stop the run; partial results merged before a failure point are
// kept.
func (w *Worker) Run(ctx context.Context) error {
	run, err := w.orchestrator.Start(ctx)
	if err != nil {
		return err
	}
	defer run.Cancel()

	var persistErr error
	merged := 0

	for ev := range run.Events() {
		switch ev.Kind {
		case crawler.EventProgress:
			w.log.Info().
				Int("current_page", ev.Page).
				Int("total_pages", ev.TotalPages).
				Msg("Crawl progress")

		case crawler.EventBatch:
			if err := w.store.MergeBatch(ctx, ev.Records); err != nil {
				w.log.Error().Err(err).Int("page", ev.Page).Msg("Batch merge failed")
				persistErr = err
				continue
			}
			merged += len(ev.Records)
			w.log.Info().
				Int("page", ev.Page).
				Int("records", len(ev.Records)).
				Int("merged_total", merged).
				Msg("Merged batch")

			if w.publisher != nil && len(ev.Records) > 0 {
				if err := w.publisher.PublishBatch(ev.Records); err != nil {
					w.log.Error().Err(err).Msg("Batch publish failed")
				}
			}

		case crawler.EventFinished:
			w.log.Info().Int("merged_total", merged).Msg("Crawl finished")
			w.trim()
			return persistErr

		case crawler.EventFailed:
			w.trim()
			return ev.Err
		}
	}

	// Channel closed without a terminal event: the run was cancelled
	w.log.Info().Int("merged_total", merged).Msg("Crawl cancelled")
	w.trim()
	return ctx.Err()
}

func (w *Worker) trim() {
	if w.publisher == nil {
		return
	}
	if err := w.publisher.TrimStreams(); err != nil {
		w.log.Error().Err(err).Msg("Stream trimming failed")
	}
}
