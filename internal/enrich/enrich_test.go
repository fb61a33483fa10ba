package enrich

import (
	"strings"
	"testing"
	"unicode/utf8"

	"cryptobrief/internal/core"
)

func TestFallback_DocumentedConstants(t *testing.T) {
	result := Fallback("Bitcoin climbed above $50,000 for the first time in weeks.")

	if result.Sentiment != 0.5 {
		t.Errorf("expected sentiment 0.5, got %f", result.Sentiment)
	}
	if result.Trust != 0.5 {
		t.Errorf("expected trust 0.5, got %f", result.Trust)
	}
	if len(result.Categories) != 1 || result.Categories[0] != "Cryptocurrency" {
		t.Errorf("expected categories [Cryptocurrency], got %v", result.Categories)
	}
	if result.MacroCategory != "Finance" {
		t.Errorf("expected macro category Finance, got %s", result.MacroCategory)
	}
	if result.UrgencyScore != 0.5 {
		t.Errorf("expected urgency 0.5, got %f", result.UrgencyScore)
	}
	if result.MarketImpact != core.ImpactMedium {
		t.Errorf("expected medium impact, got %s", result.MarketImpact)
	}
	if result.TimeRelevance != "recent" {
		t.Errorf("expected time relevance recent, got %s", result.TimeRelevance)
	}
	if !result.Fallback {
		t.Error("fallback flag must be set")
	}
}

func TestFallback_SummaryTruncation(t *testing.T) {
	long := strings.Repeat("a", 500)
	result := Fallback(long)

	if len(result.Summary) != 200 {
		t.Errorf("expected 200 char summary, got %d", len(result.Summary))
	}

	short := "brief content"
	if got := Fallback(short).Summary; got != short {
		t.Errorf("short content should pass through, got %q", got)
	}
}

func TestFallback_SummaryTruncationKeepsValidUTF8(t *testing.T) {
	// 3-byte runes guarantee the 200-byte limit lands mid-rune.
	long := strings.Repeat("币", 100)
	summary := Fallback(long).Summary

	if !utf8.ValidString(summary) {
		t.Error("truncated summary must stay valid UTF-8")
	}
	if len(summary) > 200 {
		t.Errorf("summary exceeds the limit: %d bytes", len(summary))
	}
	if !strings.HasPrefix(long, summary) {
		t.Error("summary must be a prefix of the content")
	}
}

func TestValidateResult(t *testing.T) {
	valid := core.EnrichmentResult{
		Sentiment:    0.8,
		Trust:        0.7,
		Categories:   []string{"Bitcoin"},
		MarketImpact: core.ImpactHigh,
	}
	if err := validateResult(valid); err != nil {
		t.Errorf("valid result rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*core.EnrichmentResult)
	}{
		{"sentiment out of range", func(r *core.EnrichmentResult) { r.Sentiment = 1.5 }},
		{"trust out of range", func(r *core.EnrichmentResult) { r.Trust = -0.1 }},
		{"no categories", func(r *core.EnrichmentResult) { r.Categories = nil }},
		{"bad impact", func(r *core.EnrichmentResult) { r.MarketImpact = "catastrophic" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := valid
			result.Categories = append([]string(nil), valid.Categories...)
			tc.mutate(&result)
			if err := validateResult(result); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
