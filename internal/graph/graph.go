// Package graph materializes articles as node-and-relationship records ready
// for ingestion by a graph store. It is a projection, not a graph engine.
package graph

import (
	"cryptobrief/internal/core"
)

// RelationType labels the typed edges from an article node.
type RelationType string

const (
	RelMentionsTopic RelationType = "MENTIONS_TOPIC"
	RelCategorizedAs RelationType = "CATEGORIZED_AS"
	RelPublishedBy   RelationType = "PUBLISHED_BY"
	RelHasImpact     RelationType = "HAS_IMPACT"
	RelTimePeriod    RelationType = "TIME_PERIOD"
)

// Node is a graph vertex with a label and open-ended properties.
type Node struct {
	ID         string         `json:"id"`
	Label      string         `json:"label"`
	Properties map[string]any `json:"properties"`
}

// Relationship is a typed edge from the article node to a target node.
type Relationship struct {
	Type   RelationType `json:"type"`
	Target Node         `json:"target"`
}

// Record is the graph-ready view of one processed article.
type Record struct {
	Article       Node           `json:"article"`
	Relationships []Relationship `json:"relationships"`
}

// BuildRecord projects a chunk into a graph record: the article node plus its
// typed relationships to topic, categories, publisher, impact and time period.
func BuildRecord(c core.Chunk, article core.RawArticle) Record {
	articleNode := Node{
		ID:    c.ArticleID,
		Label: "Article",
		Properties: map[string]any{
			"title":           article.Title,
			"published_at":    article.PublishedAt,
			"sentiment":       c.Enrichment.Sentiment,
			"trust":           c.Enrichment.Trust,
			"urgency_score":   c.Enrichment.UrgencyScore,
			"relevance_score": c.Temporal.RelevanceScore,
		},
	}

	relationships := []Relationship{
		{
			Type: RelMentionsTopic,
			Target: Node{
				ID:    "topic:" + article.CryptoTopic,
				Label: "Topic",
				Properties: map[string]any{
					"symbol": article.CryptoTopic,
				},
			},
		},
		{
			Type: RelPublishedBy,
			Target: Node{
				ID:    "source:" + article.SourceName,
				Label: "Source",
				Properties: map[string]any{
					"name": article.SourceName,
					"url":  article.SourceURL,
				},
			},
		},
		{
			Type: RelHasImpact,
			Target: Node{
				ID:    "impact:" + string(c.Enrichment.MarketImpact),
				Label: "MarketImpact",
				Properties: map[string]any{
					"level": string(c.Enrichment.MarketImpact),
				},
			},
		},
		{
			Type: RelTimePeriod,
			Target: Node{
				ID:    "period:" + string(c.Temporal.TimeCategory),
				Label: "TimePeriod",
				Properties: map[string]any{
					"category": string(c.Temporal.TimeCategory),
				},
			},
		},
	}

	for _, category := range c.Enrichment.Categories {
		relationships = append(relationships, Relationship{
			Type: RelCategorizedAs,
			Target: Node{
				ID:    "category:" + category,
				Label: "Category",
				Properties: map[string]any{
					"name":           category,
					"macro_category": c.Enrichment.MacroCategory,
				},
			},
		})
	}

	return Record{Article: articleNode, Relationships: relationships}
}
