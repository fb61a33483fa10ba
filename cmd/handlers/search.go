package handlers

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cryptobrief/internal/config"
	"cryptobrief/internal/embedding"
	"cryptobrief/internal/logger"
	"cryptobrief/internal/vectorstore"
)

// NewSearchCmd creates the search command
func NewSearchCmd() *cobra.Command {
	var (
		limit    int
		minScore float64
		topic    string
		local    bool
	)

	cmd := &cobra.Command{
		Use:   "search [query text]",
		Short: "Semantic search over stored articles",
		Long: `Search the vector store for articles similar to a text query.

The query is embedded with the configured Gemini model; pass --local to
use the offline text vector instead, which only matches against the
local SQLite tier.

Examples:
  cryptobrief search "bitcoin etf approval"
  cryptobrief search "regulation in the EU" --topic ETH --limit 3`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, strings.Join(args, " "), limit, minScore, topic, local)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 5, "Maximum number of results")
	cmd.Flags().Float64VarP(&minScore, "min-score", "m", 0, "Minimum similarity score (0.0-1.0)")
	cmd.Flags().StringVarP(&topic, "topic", "t", "", "Restrict results to one crypto topic symbol")
	cmd.Flags().BoolVar(&local, "local", false, "Use the offline text vector and search only the local tier")

	return cmd
}

func runSearch(cmd *cobra.Command, text string, limit int, minScore float64, topic string, local bool) error {
	ctx := cmd.Context()
	cfg := config.Get()

	store, err := buildStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to build vector store: %w", err)
	}

	var vector []float64
	if local {
		vector = vectorstore.TextVector(text)
	} else {
		embedder, err := embedding.NewGeminiEmbedder(ctx)
		if err != nil {
			return fmt.Errorf("failed to create embedder: %w", err)
		}
		vector, err = embedder.Embed(ctx, text)
		if err != nil {
			return fmt.Errorf("failed to embed query: %w", err)
		}
	}

	query := vectorstore.Query{
		Vector:   vector,
		Limit:    limit,
		MinScore: minScore,
	}
	if topic != "" {
		query.Filter = map[string]any{"crypto_topic": topic}
	}

	matches, err := store.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if store.InFallbackMode() {
		logger.Warn("a remote tier failed, results served from a lower tier")
	}

	if len(matches) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No matching articles found.")
		return nil
	}
	return printJSON(matches)
}
