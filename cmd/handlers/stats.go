package handlers

import (
	"fmt"

	"github.com/spf13/cobra"

	"cryptobrief/internal/config"
)

// NewStatsCmd creates the stats command
func NewStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show vector store statistics",
		Long: `Display per-tier document counts and whether the store is running
in fallback mode after a remote tier failure.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := buildStore(config.Get())
			if err != nil {
				return fmt.Errorf("failed to build vector store: %w", err)
			}
			info, err := store.Info(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to read store info: %w", err)
			}
			return printJSON(info)
		},
	}
}
