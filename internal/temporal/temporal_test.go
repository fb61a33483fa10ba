package temporal

import (
	"testing"
	"time"

	"cryptobrief/internal/core"
)

func TestEnhance_BreakingNews(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	article := core.RawArticle{
		Title:       "Bitcoin Surges Past $50,000",
		CryptoTopic: "BTC",
		PublishedAt: now.Add(-30 * time.Minute).Format(time.RFC3339),
	}

	tc := Enhance(article, now)

	if !tc.IsBreaking {
		t.Error("article published 30 minutes ago should be breaking")
	}
	if !tc.IsRecent {
		t.Error("breaking article should also be recent")
	}
	if tc.TimeCategory != core.TimeBreaking {
		t.Errorf("expected category %q, got %q", core.TimeBreaking, tc.TimeCategory)
	}
	if tc.RelevanceScore <= 0 || tc.RelevanceScore > 1 {
		t.Errorf("relevance score %f out of range (0,1]", tc.RelevanceScore)
	}
}

func TestEnhance_RecentAndHistorical(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		age      time.Duration
		category core.TimeCategory
	}{
		{"six hours old", 6 * time.Hour, core.TimeRecent},
		{"two days old", 48 * time.Hour, core.TimeHistorical},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			article := core.RawArticle{
				PublishedAt: now.Add(-tc.age).Format(time.RFC3339),
			}
			got := Enhance(article, now)
			if got.TimeCategory != tc.category {
				t.Errorf("expected %q, got %q", tc.category, got.TimeCategory)
			}
			if got.IsBreaking {
				t.Error("article should not be breaking")
			}
		})
	}
}

func TestEnhance_UnparsableTimestamp(t *testing.T) {
	article := core.RawArticle{PublishedAt: "not-a-date"}

	tc := Enhance(article, time.Now())

	if tc.TimeCategory != core.TimeHistorical {
		t.Errorf("unparsable timestamp should be historical, got %q", tc.TimeCategory)
	}
	if tc.HoursAgo < 1e5 {
		t.Errorf("expected sentinel hours, got %f", tc.HoursAgo)
	}
	if tc.RelevanceScore != 0 {
		t.Errorf("expected zero relevance, got %f", tc.RelevanceScore)
	}
}

func TestEnhance_TimestampWithoutZone(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	article := core.RawArticle{PublishedAt: "2025-06-01T10:00:00"}

	tc := Enhance(article, now)

	if tc.TimeCategory != core.TimeRecent {
		t.Errorf("expected recent, got %q", tc.TimeCategory)
	}
	if tc.HoursAgo < 1.9 || tc.HoursAgo > 2.1 {
		t.Errorf("expected ~2 hours, got %f", tc.HoursAgo)
	}
}

func TestRelevance_MonotonicDecay(t *testing.T) {
	prev := 1.1
	for _, hours := range []float64{0, 1, 6, 12, 24, 72, 720} {
		score := relevance(hours)
		if score < 0 || score > 1 {
			t.Errorf("relevance(%f) = %f out of [0,1]", hours, score)
		}
		if score > prev {
			t.Errorf("relevance must be non-increasing, relevance(%f) = %f > %f", hours, score, prev)
		}
		prev = score
	}
}

func TestEnhance_FuturePublicationClampedToZero(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	article := core.RawArticle{PublishedAt: now.Add(10 * time.Minute).Format(time.RFC3339)}

	tc := Enhance(article, now)

	if tc.HoursAgo != 0 {
		t.Errorf("future timestamps should clamp to zero age, got %f", tc.HoursAgo)
	}
	if tc.RelevanceScore != 1 {
		t.Errorf("zero age should score 1.0, got %f", tc.RelevanceScore)
	}
}
