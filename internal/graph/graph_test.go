package graph

import (
	"testing"

	"cryptobrief/internal/core"
)

func TestBuildRecord(t *testing.T) {
	article := core.RawArticle{
		Title:       "Bitcoin Surges Past $50,000",
		CryptoTopic: "BTC",
		SourceName:  "CoinDesk",
		SourceURL:   "https://www.coindesk.com/a",
		PublishedAt: "2025-06-01T11:00:00Z",
	}
	c := core.Chunk{
		ArticleID: core.ArticleID(article.CryptoTopic, article.PublishedAt, article.Title),
		Enrichment: core.EnrichmentResult{
			Sentiment:     0.8,
			Categories:    []string{"Bitcoin", "Markets"},
			MacroCategory: "Finance",
			MarketImpact:  core.ImpactHigh,
		},
		Temporal: core.TemporalContext{TimeCategory: core.TimeBreaking},
	}

	record := BuildRecord(c, article)

	if record.Article.ID != c.ArticleID {
		t.Errorf("article node id should be the chunk's article id")
	}
	if record.Article.Label != "Article" {
		t.Errorf("unexpected label %q", record.Article.Label)
	}

	// topic, source, impact, period plus one edge per category
	if len(record.Relationships) != 6 {
		t.Fatalf("expected 6 relationships, got %d", len(record.Relationships))
	}

	byType := map[RelationType][]Relationship{}
	for _, rel := range record.Relationships {
		byType[rel.Type] = append(byType[rel.Type], rel)
	}

	if got := byType[RelMentionsTopic]; len(got) != 1 || got[0].Target.ID != "topic:BTC" {
		t.Errorf("unexpected topic relationship: %+v", got)
	}
	if got := byType[RelHasImpact]; len(got) != 1 || got[0].Target.ID != "impact:high" {
		t.Errorf("unexpected impact relationship: %+v", got)
	}
	if got := byType[RelTimePeriod]; len(got) != 1 || got[0].Target.ID != "period:breaking" {
		t.Errorf("unexpected time period relationship: %+v", got)
	}
	if got := byType[RelCategorizedAs]; len(got) != 2 {
		t.Errorf("expected one edge per category, got %d", len(got))
	}
}
