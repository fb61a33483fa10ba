package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"cryptobrief/internal/logger"
)

// DuckDuckGoProvider implements Provider against the DuckDuckGo HTML endpoint.
type DuckDuckGoProvider struct {
	client    *http.Client
	baseURL   string
	userAgent string
	rateLimit time.Duration
	lastCall  time.Time
}

// NewDuckDuckGoProvider creates a new DuckDuckGo search provider.
func NewDuckDuckGoProvider() *DuckDuckGoProvider {
	return &DuckDuckGoProvider{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:   "https://html.duckduckgo.com/html/",
		userAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		rateLimit: 2 * time.Second,
	}
}

// GetName returns the name of this provider.
func (d *DuckDuckGoProvider) GetName() string {
	return "DuckDuckGo"
}

// Search performs a search and applies the configured domain filters.
func (d *DuckDuckGoProvider) Search(ctx context.Context, query string, config Config) ([]Result, error) {
	if elapsed := time.Since(d.lastCall); elapsed < d.rateLimit {
		time.Sleep(d.rateLimit - elapsed)
	}
	d.lastCall = time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.buildSearchURL(query), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrProviderUnavailable, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	raw := d.parseSearchResults(doc)
	if len(raw) == 0 {
		// A parsed page with zero results usually means the scrape was
		// blocked, not that the query had no hits.
		return nil, fmt.Errorf("%w for query %q", ErrNoResults, query)
	}
	results := FilterResults(raw, config)

	logger.Debug("search completed", "provider", d.GetName(), "query", query,
		"raw_results", len(raw), "filtered_results", len(results))

	return results, nil
}

func (d *DuckDuckGoProvider) buildSearchURL(query string) string {
	params := url.Values{}
	params.Set("q", query)
	params.Set("kl", "us-en")
	return d.baseURL + "?" + params.Encode()
}

// parseSearchResults extracts results from the DuckDuckGo HTML page.
func (d *DuckDuckGoProvider) parseSearchResults(doc *goquery.Document) []Result {
	var results []Result

	doc.Find("div.result").Each(func(i int, s *goquery.Selection) {
		anchor := s.Find("a.result__a").First()
		href, ok := anchor.Attr("href")
		if !ok {
			return
		}
		finalURL := d.extractFinalURL(href)
		if finalURL == "" {
			return
		}

		results = append(results, Result{
			URL:     finalURL,
			Title:   strings.TrimSpace(anchor.Text()),
			Content: strings.TrimSpace(s.Find("a.result__snippet").First().Text()),
			Domain:  DomainOf(finalURL),
			Rank:    i + 1,
		})
	})

	return results
}

// extractFinalURL resolves DuckDuckGo's redirect URLs of the form
// /l/?uddg=https%3A//example.com/...
func (d *DuckDuckGoProvider) extractFinalURL(redirectURL string) string {
	if strings.HasPrefix(redirectURL, "/l/?") || strings.HasPrefix(redirectURL, "//duckduckgo.com/l/?") {
		parsed, err := url.Parse(redirectURL)
		if err != nil {
			return ""
		}
		if uddg := parsed.Query().Get("uddg"); uddg != "" {
			decoded, err := url.QueryUnescape(uddg)
			if err != nil {
				return ""
			}
			return decoded
		}
	}
	if strings.HasPrefix(redirectURL, "http") {
		return redirectURL
	}
	return ""
}
