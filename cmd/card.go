package cmd

import (
	"fmt"

	"knagahashi/cardharvester/internal/crawler"
	"knagahashi/cardharvester/services/store"

	"github.com/spf13/cobra"
)

var cardDb *string

func init() {
	cardDb = cardCmd.Flags().String("db", "", "The database to write the card to (defaults to DATABASE_PATH).")
	rootCmd.AddCommand(cardCmd)
}

var cardCmd = &cobra.Command{
	Use:   "card <detail-page-url>",
	Short: "Fetches one card detail page and merges its record into the store.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := cfg.DatabasePath
		if *cardDb != "" {
			dbPath = *cardDb
		}

		cardStore, err := store.Open(dbPath)
		if err != nil {
			return err
		}
		defer cardStore.Close()

		single := crawler.NewSingleCardCrawler(cfg.BaseURL)
		record, err := single.Crawl(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if err := cardStore.MergeBatch(cmd.Context(), []crawler.CardRecord{*record}); err != nil {
			return err
		}

		fmt.Printf("stored %s (%s)\n", record.Name, record.CardID)
		return nil
	},
}
