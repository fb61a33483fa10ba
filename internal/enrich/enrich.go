package enrich

import (
	"context"
	"unicode/utf8"

	"cryptobrief/internal/core"
)

// Enricher is the AI enrichment capability. Implementations call an external
// model and may fail; callers are expected to substitute Fallback values
// rather than abort the batch.
type Enricher interface {
	// Enrich analyzes an article and returns sentiment, trust, categories,
	// summary, urgency, market impact and time relevance.
	Enrich(ctx context.Context, article core.RawArticle) (core.EnrichmentResult, error)
}

const fallbackSummaryLimit = 200

// Fallback returns the documented neutral enrichment values used whenever the
// enrichment capability fails, times out or returns malformed data. The
// summary is the first 200 characters of the article content.
func Fallback(content string) core.EnrichmentResult {
	summary := content
	if len(summary) > fallbackSummaryLimit {
		cut := fallbackSummaryLimit
		// Back up to a rune boundary so the cut never leaves invalid UTF-8.
		for cut > 0 && !utf8.RuneStart(summary[cut]) {
			cut--
		}
		summary = summary[:cut]
	}
	return core.EnrichmentResult{
		Sentiment:     0.5,
		Trust:         0.5,
		Categories:    []string{"Cryptocurrency"},
		MacroCategory: "Finance",
		Summary:       summary,
		UrgencyScore:  0.5,
		MarketImpact:  core.ImpactMedium,
		TimeRelevance: "recent",
		Fallback:      true,
	}
}
