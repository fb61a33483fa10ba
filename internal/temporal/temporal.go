package temporal

import (
	"math"
	"time"

	"cryptobrief/internal/core"
)

const (
	// breakingWindow is the age below which an article counts as breaking news.
	breakingWindow = 1.0
	// recentWindow is the age below which an article counts as recent news.
	recentWindow = 24.0
	// halfLife controls the relevance decay: after this many hours the score
	// drops to 0.5. Exponential decay keeps the score monotonic and in [0,1].
	halfLife = 12.0
	// sentinelHours marks articles whose publication time could not be parsed.
	sentinelHours = 1e6
)

// Enhance computes the temporal context for an article relative to now.
// An unparsable timestamp degrades to the historical bucket with a sentinel
// age; it never returns an error.
func Enhance(article core.RawArticle, now time.Time) core.TemporalContext {
	publishedAt, err := ParseTimestamp(article.PublishedAt)
	if err != nil {
		return core.TemporalContext{
			HoursAgo:       sentinelHours,
			TimeCategory:   core.TimeHistorical,
			RelevanceScore: 0,
		}
	}

	hoursAgo := now.UTC().Sub(publishedAt).Hours()
	if hoursAgo < 0 {
		hoursAgo = 0
	}

	return core.TemporalContext{
		HoursAgo:       hoursAgo,
		IsBreaking:     hoursAgo < breakingWindow,
		IsRecent:       hoursAgo < recentWindow,
		TimeCategory:   categorize(hoursAgo),
		RelevanceScore: relevance(hoursAgo),
	}
}

// ParseTimestamp parses an ISO-8601 timestamp with or without a UTC suffix.
func ParseTimestamp(value string) (time.Time, error) {
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}

	var lastErr error
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC(), nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, lastErr
}

func categorize(hoursAgo float64) core.TimeCategory {
	switch {
	case hoursAgo < breakingWindow:
		return core.TimeBreaking
	case hoursAgo < recentWindow:
		return core.TimeRecent
	default:
		return core.TimeHistorical
	}
}

// relevance is an exponential half-life decay over article age.
func relevance(hoursAgo float64) float64 {
	return math.Exp(-math.Ln2 * hoursAgo / halfLife)
}
