package search

import (
	"context"
)

// MockProvider implements Provider for testing purposes.
type MockProvider struct {
	name    string
	results []Result
	err     error
}

// NewMockProvider creates a mock provider preloaded with plausible results.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		name: "Mock",
		results: []Result{
			{
				URL:     "https://www.coindesk.com/markets/btc-institutional-flows",
				Title:   "Institutional Inflows Push Bitcoin Higher",
				Content: "Funds recorded net inflows for a third consecutive week.",
				Domain:  "coindesk.com",
				Rank:    1,
			},
			{
				URL:     "https://www.reuters.com/technology/crypto-rally",
				Title:   "Crypto markets extend rally",
				Content: "Bitcoin extended gains amid broader risk appetite.",
				Domain:  "reuters.com",
				Rank:    2,
			},
			{
				URL:     "https://twitter.com/someaccount/status/123",
				Title:   "BTC to the moon",
				Content: "Unverified social media speculation.",
				Domain:  "twitter.com",
				Rank:    3,
			},
		},
	}
}

// GetName returns the name of this provider.
func (m *MockProvider) GetName() string {
	return m.name
}

// Search returns the configured results after domain filtering, or the
// configured error.
func (m *MockProvider) Search(ctx context.Context, query string, config Config) ([]Result, error) {
	if m.err != nil {
		return nil, m.err
	}
	return FilterResults(m.results, config), nil
}

// SetResults replaces the mock result set.
func (m *MockProvider) SetResults(results []Result) {
	m.results = results
}

// SetError makes every search fail with the given error.
func (m *MockProvider) SetError(err error) {
	m.err = err
}
