package handlers

import (
	"fmt"

	"github.com/spf13/cobra"

	"cryptobrief/internal/config"
	"cryptobrief/internal/embedding"
	"cryptobrief/internal/enrich"
	"cryptobrief/internal/factcheck"
	"cryptobrief/internal/logger"
	"cryptobrief/internal/pipeline"
	"cryptobrief/internal/search"
)

// NewEnrichCmd creates the enrich command
func NewEnrichCmd() *cobra.Command {
	var (
		validate  bool
		skipEmbed bool
	)

	cmd := &cobra.Command{
		Use:   "enrich [articles.json]",
		Short: "Process a batch of articles through the enrichment pipeline",
		Long: `Run the full pipeline over a JSON file of raw articles: temporal
context, AI enrichment, chunking, embedding and storage.

Articles whose enrichment fails are kept with documented fallback
values; articles whose embedding or storage fails are dropped and
counted in the batch statistics.

Examples:
  # Enrich a batch
  cryptobrief enrich articles.json

  # Enrich with fact-checking enabled
  cryptobrief enrich articles.json --validate`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnrich(cmd, args[0], validate, skipEmbed)
		},
	}

	cmd.Flags().BoolVar(&validate, "validate", false, "Fact-check articles against web sources before storing")
	cmd.Flags().BoolVar(&skipEmbed, "skip-embedding", false, "Skip dense embedding and store with local text vectors only")

	return cmd
}

func runEnrich(cmd *cobra.Command, path string, validate, skipEmbed bool) error {
	ctx := cmd.Context()
	cfg := config.Get()

	articles, err := loadArticles(path)
	if err != nil {
		return err
	}

	enricher, err := enrich.NewGeminiEnricher(ctx, cfg.Gemini.Model)
	if err != nil {
		return fmt.Errorf("failed to create enricher: %w", err)
	}

	var embedder pipeline.DenseEmbedder
	if !skipEmbed {
		gemini, err := embedding.NewGeminiEmbedder(ctx)
		if err != nil {
			return fmt.Errorf("failed to create embedder: %w", err)
		}
		embedder = gemini
	}

	store, err := buildStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to build vector store: %w", err)
	}

	var validator pipeline.Validator
	if validate || cfg.Pipeline.Validate {
		provider, err := search.NewProvider(search.ProviderType(cfg.Search.DefaultProvider))
		if err != nil {
			return fmt.Errorf("failed to create search provider: %w", err)
		}
		judge, err := factcheck.NewGeminiJudge(ctx, cfg.Gemini.JudgeModel)
		if err != nil {
			return fmt.Errorf("failed to create fact-check judge: %w", err)
		}
		validator = factcheck.NewValidator(provider, judge)
		validate = true
	}

	p, err := pipeline.NewPipeline(enricher, embedder, store, validator, &pipeline.Config{
		ValidateArticles: validate,
		TopCategoryCount: cfg.Pipeline.TopCategoryCount,
	})
	if err != nil {
		return err
	}

	logger.Info("starting enrichment batch", "articles", len(articles), "validate", validate)
	batch, err := p.Process(ctx, articles)
	if err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}

	if store.InFallbackMode() {
		fmt.Fprintln(cmd.ErrOrStderr(), "Warning: a remote store tier failed during this run; documents were kept in the local tier.")
	}

	return printJSON(batch)
}
