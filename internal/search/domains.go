package search

import (
	"net/url"
	"strings"
)

// ReputableNewsDomains is the allow-list of financial and crypto news outlets
// considered acceptable evidence sources for fact checking.
func ReputableNewsDomains() []string {
	return []string{
		"coindesk.com",
		"cointelegraph.com",
		"theblock.co",
		"decrypt.co",
		"reuters.com",
		"bloomberg.com",
		"cnbc.com",
		"ft.com",
		"wsj.com",
		"forbes.com",
	}
}

// SocialMediaDomains is the deny-list of user-generated content sites
// excluded from fact-check evidence.
func SocialMediaDomains() []string {
	return []string{
		"twitter.com",
		"x.com",
		"reddit.com",
		"facebook.com",
		"t.me",
		"medium.com",
		"youtube.com",
	}
}

// FilterResults applies the allow/deny domain lists to a result set and caps
// it at maxResults. An empty allow-list admits every domain not denied.
func FilterResults(results []Result, config Config) []Result {
	maxResults := config.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}

	filtered := make([]Result, 0, maxResults)
	for _, result := range results {
		domain := result.Domain
		if domain == "" {
			domain = DomainOf(result.URL)
		}
		if matchesAny(domain, config.ExcludeDomains) {
			continue
		}
		if len(config.IncludeDomains) > 0 && !matchesAny(domain, config.IncludeDomains) {
			continue
		}
		result.Domain = domain
		result.Rank = len(filtered) + 1
		filtered = append(filtered, result)
		if len(filtered) >= maxResults {
			break
		}
	}
	return filtered
}

// DomainOf extracts the bare domain from a URL, stripping any www prefix.
func DomainOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(parsed.Hostname(), "www.")
}

func matchesAny(domain string, list []string) bool {
	for _, candidate := range list {
		if domain == candidate || strings.HasSuffix(domain, "."+candidate) {
			return true
		}
	}
	return false
}
