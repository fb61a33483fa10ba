package handlers

import (
	"fmt"

	"github.com/spf13/cobra"

	"cryptobrief/internal/config"
	"cryptobrief/internal/factcheck"
	"cryptobrief/internal/logger"
	"cryptobrief/internal/search"
)

// NewValidateCmd creates the validate command
func NewValidateCmd() *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "validate [articles.json]",
		Short: "Fact-check a batch of articles against web sources",
		Long: `Extract the core claims of each article, search reputable news
sources for corroboration and produce a verdict per article.

Validation is conservative: when evidence is missing or the judgment
fails, articles come back unverified with a high risk level instead of
erroring out.

Examples:
  cryptobrief validate articles.json
  cryptobrief validate articles.json --provider mock`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args[0], provider)
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Search provider to use (duckduckgo, mock)")

	return cmd
}

func runValidate(cmd *cobra.Command, path, providerName string) error {
	ctx := cmd.Context()
	cfg := config.Get()

	articles, err := loadArticles(path)
	if err != nil {
		return err
	}

	if providerName == "" {
		providerName = cfg.Search.DefaultProvider
	}
	provider, err := search.NewProvider(search.ProviderType(providerName))
	if err != nil {
		return fmt.Errorf("failed to create search provider: %w", err)
	}

	judge, err := factcheck.NewGeminiJudge(ctx, cfg.Gemini.JudgeModel)
	if err != nil {
		return fmt.Errorf("failed to create fact-check judge: %w", err)
	}

	validator := factcheck.NewValidator(provider, judge)

	logger.Info("validating batch", "articles", len(articles), "provider", provider.GetName())
	results, summary := validator.ValidateBatch(ctx, articles)

	return printJSON(map[string]any{
		"results": results,
		"summary": summary,
	})
}
