package cmd

import (
	"os/signal"
	"syscall"

	"knagahashi/cardharvester/internal/crawler"
	"knagahashi/cardharvester/logger"
	"knagahashi/cardharvester/services/cache"
	"knagahashi/cardharvester/services/publisher"
	"knagahashi/cardharvester/services/store"
	"knagahashi/cardharvester/services/worker"

	"github.com/spf13/cobra"
)

var crawlDb *string

func init() {
	crawlDb = crawlCmd.Flags().String("db", "", "The database to write crawled cards to (defaults to DATABASE_PATH).")
	rootCmd.AddCommand(crawlCmd)
}

var crawlCmd = &cobra.Command{
	Use:   "crawl [--db <path/to/cards.db>]",
	Short: "Crawls every card of the paginated card search and merges the records into the store.",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.ForWorker()

		dbPath := cfg.DatabasePath
		if *crawlDb != "" {
			dbPath = *crawlDb
		}

		cardStore, err := store.Open(dbPath)
		if err != nil {
			return err
		}
		defer cardStore.Close()

		guard := cache.NewRateLimitGuard(cache.NewMemcacheService(cfg.MemcacheAddr), cfg.BlockTime)

		orchestrator := crawler.NewOrchestrator(&crawler.HTTPFetcher{Guard: guard}, crawler.Options{
			BaseURL:       cfg.BaseURL,
			SearchPath:    cfg.SearchPath,
			PageSize:      cfg.PageSize,
			FallbackTotal: cfg.FallbackTotal,
			Delay:         cfg.RequestDelay,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var pub publisher.Publisher
		if cfg.PublishBatches {
			redisPub := publisher.NewRedisPublisher(ctx, cfg.RedisAddr, cfg.RedisDB,
				cfg.RedisStream, cfg.RedisStreamCount, cfg.RedisStreamMaxLength)
			defer redisPub.Close()
			pub = redisPub
			log.Info().Str("redis", cfg.RedisAddr).Msg("Publishing merged batches")
		}

		log.Info().
			Str("base_url", cfg.BaseURL).
			Str("db", dbPath).
			Msg("Starting crawl")

		return worker.NewWorker(orchestrator, cardStore, pub).Run(ctx)
	},
}
