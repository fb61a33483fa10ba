package search

import (
	"context"
)

// Provider defines the unified interface for web search capabilities used by
// the fact-check pipeline.
type Provider interface {
	// Search performs a search with the given configuration.
	Search(ctx context.Context, query string, config Config) ([]Result, error)

	// GetName returns the name of the search provider.
	GetName() string
}

// Config holds configuration for search requests.
type Config struct {
	MaxResults     int      // Maximum number of results to return (default 5)
	IncludeDomains []string // Allow-list of domains; empty means no restriction
	ExcludeDomains []string // Deny-list of domains, applied after the allow-list
}

// DefaultConfig returns the fact-check search defaults: five results,
// restricted to reputable financial and crypto news outlets, excluding
// social media.
func DefaultConfig() Config {
	return Config{
		MaxResults:     5,
		IncludeDomains: ReputableNewsDomains(),
		ExcludeDomains: SocialMediaDomains(),
	}
}

// Result represents a unified search result.
type Result struct {
	URL           string `json:"url"`
	Title         string `json:"title"`
	Content       string `json:"content"` // Snippet or summary text
	Domain        string `json:"domain"`
	PublishedDate string `json:"published_date,omitempty"`
	Rank          int    `json:"rank"` // Position in search results
}

// ProviderType represents the type of search provider.
type ProviderType string

const (
	ProviderTypeDuckDuckGo ProviderType = "duckduckgo"
	ProviderTypeMock       ProviderType = "mock"
)

// NewProvider creates a search provider of the specified type.
func NewProvider(providerType ProviderType) (Provider, error) {
	switch providerType {
	case ProviderTypeDuckDuckGo:
		return NewDuckDuckGoProvider(), nil
	case ProviderTypeMock:
		return NewMockProvider(), nil
	default:
		return nil, ErrUnsupportedProvider
	}
}
