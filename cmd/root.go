package cmd

import (
	"os"

	"knagahashi/cardharvester/config"
	"knagahashi/cardharvester/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "cardharvester",
	Short: "Harvests trading card records from the card search site into a local store.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		godotenv.Load()
		logger.Init()

		cfg = config.LoadConfig()
		return cfg.Validate()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
