package cmd

import (
	"fmt"

	"knagahashi/cardharvester/internal/crawler"
	"knagahashi/cardharvester/services/store"

	"github.com/spf13/cobra"
)

var deckDb *string

func init() {
	deckDb = deckCmd.Flags().String("db", "", "The database to resolve deck cards against (defaults to DATABASE_PATH).")
	rootCmd.AddCommand(deckCmd)
}

var deckCmd = &cobra.Command{
	Use:   "deck <deck-code>",
	Short: "Resolves a deck code into its card list, looked up against stored cards in deck order.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := cfg.DatabasePath
		if *deckDb != "" {
			dbPath = *deckDb
		}

		resolver := crawler.NewDeckResolver(cfg.DeckURL)
		cardIDs, err := resolver.Resolve(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if len(cardIDs) == 0 {
			fmt.Println("no cards found in deck")
			return nil
		}

		cardStore, err := store.Open(dbPath)
		if err != nil {
			return err
		}
		defer cardStore.Close()

		cards, missing, err := cardStore.ResolveDeck(cmd.Context(), cardIDs)
		if err != nil {
			return err
		}

		for _, card := range cards {
			fmt.Printf("%s\t%s\n", card.CardID, card.Name)
		}
		for _, id := range missing {
			fmt.Printf("%s\t(not in store)\n", id)
		}
		return nil
	},
}
