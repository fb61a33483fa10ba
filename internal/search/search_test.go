package search

import (
	"context"
	"errors"
	"testing"
)

func TestFilterResults_AllowAndDenyLists(t *testing.T) {
	results := []Result{
		{URL: "https://www.coindesk.com/a", Domain: "coindesk.com"},
		{URL: "https://twitter.com/b", Domain: "twitter.com"},
		{URL: "https://randomblog.io/c", Domain: "randomblog.io"},
		{URL: "https://www.reuters.com/d", Domain: "reuters.com"},
	}

	filtered := FilterResults(results, DefaultConfig())

	if len(filtered) != 2 {
		t.Fatalf("expected 2 results, got %d", len(filtered))
	}
	for i, r := range filtered {
		if r.Domain == "twitter.com" || r.Domain == "randomblog.io" {
			t.Errorf("domain %s should have been filtered", r.Domain)
		}
		if r.Rank != i+1 {
			t.Errorf("ranks must be reassigned after filtering, got %d at %d", r.Rank, i)
		}
	}
}

func TestFilterResults_SubdomainsMatch(t *testing.T) {
	results := []Result{
		{URL: "https://markets.coindesk.com/a", Domain: "markets.coindesk.com"},
	}
	filtered := FilterResults(results, Config{MaxResults: 5, IncludeDomains: []string{"coindesk.com"}})
	if len(filtered) != 1 {
		t.Error("subdomain of an allowed domain should pass the filter")
	}
}

func TestFilterResults_MaxResultsCap(t *testing.T) {
	var results []Result
	for i := 0; i < 10; i++ {
		results = append(results, Result{URL: "https://coindesk.com/a", Domain: "coindesk.com"})
	}
	filtered := FilterResults(results, Config{MaxResults: 3})
	if len(filtered) != 3 {
		t.Errorf("expected 3 results, got %d", len(filtered))
	}
}

func TestDomainOf(t *testing.T) {
	cases := map[string]string{
		"https://www.coindesk.com/markets/btc": "coindesk.com",
		"https://theblock.co/post/1":           "theblock.co",
		"not a url ::":                         "",
	}
	for input, want := range cases {
		if got := DomainOf(input); got != want {
			t.Errorf("DomainOf(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestMockProvider_FiltersAndErrors(t *testing.T) {
	provider := NewMockProvider()

	results, err := provider.Search(context.Background(), "bitcoin", DefaultConfig())
	if err != nil {
		t.Fatalf("mock search failed: %v", err)
	}
	for _, r := range results {
		if r.Domain == "twitter.com" {
			t.Error("social media results must be excluded by the default config")
		}
	}

	provider.SetError(errors.New("boom"))
	if _, err := provider.Search(context.Background(), "bitcoin", DefaultConfig()); err == nil {
		t.Error("expected configured error")
	}
}

func TestNewProvider(t *testing.T) {
	if _, err := NewProvider(ProviderTypeMock); err != nil {
		t.Errorf("mock provider should be available: %v", err)
	}
	if _, err := NewProvider(ProviderTypeDuckDuckGo); err != nil {
		t.Errorf("duckduckgo provider should be available: %v", err)
	}
	if _, err := NewProvider("bing"); !errors.Is(err, ErrUnsupportedProvider) {
		t.Errorf("expected ErrUnsupportedProvider, got %v", err)
	}
}
