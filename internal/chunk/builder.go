package chunk

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"cryptobrief/internal/core"
	"cryptobrief/internal/temporal"
)

// contentPreviewLimit bounds the raw-content preview stored in metadata.
// The truncation is lossy and intentional; the searchable text is built from
// the summary, not the body.
const contentPreviewLimit = 500

// Build combines an article with its temporal context and enrichment into a
// single search-optimized Chunk. The searchable text concatenates fields in a
// fixed order so the embedding favors "what is this article about" queries
// over full-text recall.
func Build(article core.RawArticle, tc core.TemporalContext, enrichment core.EnrichmentResult) core.Chunk {
	articleID := core.ArticleID(article.CryptoTopic, article.PublishedAt, article.Title)

	var text strings.Builder
	text.WriteString("Title: " + article.Title + "\n")
	text.WriteString("Summary: " + enrichment.Summary + "\n")
	text.WriteString("Topic: " + article.CryptoTopic + "\n")
	text.WriteString("Source: " + article.SourceName + "\n")
	text.WriteString("Categories: " + strings.Join(enrichment.Categories, ", ") + "\n")
	text.WriteString("Market impact: " + string(enrichment.MarketImpact) + "\n")
	text.WriteString("Time relevance: " + enrichment.TimeRelevance)

	preview := article.Content
	if len(preview) > contentPreviewLimit {
		cut := contentPreviewLimit
		// Back up to a rune boundary so the cut never leaves invalid UTF-8.
		for cut > 0 && !utf8.RuneStart(preview[cut]) {
			cut--
		}
		preview = preview[:cut]
	}

	metadata := map[string]any{
		"article_id":      articleID,
		"title":           article.Title,
		"crypto_topic":    article.CryptoTopic,
		"source_name":     article.SourceName,
		"source_url":      article.SourceURL,
		"published_at":    article.PublishedAt,
		"content_preview": preview,
		"sentiment":       enrichment.Sentiment,
		"trust":           enrichment.Trust,
		"categories":      enrichment.Categories,
		"macro_category":  enrichment.MacroCategory,
		"summary":         enrichment.Summary,
		"urgency_score":   enrichment.UrgencyScore,
		"market_impact":   string(enrichment.MarketImpact),
		"time_relevance":  enrichment.TimeRelevance,
		"hours_ago":       tc.HoursAgo,
		"is_breaking":     tc.IsBreaking,
		"is_recent":       tc.IsRecent,
		"time_category":   string(tc.TimeCategory),
		"relevance_score": tc.RelevanceScore,
		"enrich_fallback": enrichment.Fallback,
	}

	// Storage backends that index on time need a numeric timestamp; the ISO
	// string stays in published_at for human-facing metadata.
	if ts, err := temporal.ParseTimestamp(article.PublishedAt); err == nil {
		metadata["published_unix"] = ts.Unix()
	}

	return core.Chunk{
		ArticleID:  articleID,
		Text:       text.String(),
		Metadata:   metadata,
		Temporal:   tc,
		Enrichment: enrichment,
	}
}

// AttachValidation merges a fact-check verdict into a chunk's metadata under
// the dedicated "validation" key. It never overwrites enrichment fields.
func AttachValidation(c *core.Chunk, result core.ValidationResult) {
	if c.Metadata == nil {
		c.Metadata = map[string]any{}
	}
	c.Metadata["validation"] = map[string]any{
		"is_verified":         result.IsVerified,
		"confidence":          result.Confidence,
		"summary":             result.Summary,
		"conflicting_sources": result.ConflictingSources,
		"supporting_sources":  result.SupportingSources,
		"fact_check_notes":    result.FactCheckNotes,
		"risk_level":          string(result.RiskLevel),
		"recommendation":      result.Recommendation,
	}
}

// Describe renders a one-line identifier for logs.
func Describe(c core.Chunk) string {
	return fmt.Sprintf("%s (%s)", c.ArticleID, c.Metadata["crypto_topic"])
}
