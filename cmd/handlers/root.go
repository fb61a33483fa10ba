package handlers

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cryptobrief/internal/config"
)

var cfgFile string

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cryptobrief",
		Short: "cryptobrief enriches crypto market news and stores it for semantic search.",
		Long: `cryptobrief is a processing pipeline for crypto market news articles.

It adds temporal context, runs AI enrichment (sentiment, categories,
market impact), fact-checks claims against reputable sources, embeds
the results and stores them in a tiered vector store with a local
SQLite fallback.`,
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.cryptobrief.yaml)")

	rootCmd.AddCommand(NewEnrichCmd())
	rootCmd.AddCommand(NewValidateCmd())
	rootCmd.AddCommand(NewSearchCmd())
	rootCmd.AddCommand(NewStatsCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if _, err := config.Load(cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
}
