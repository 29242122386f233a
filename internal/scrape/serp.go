package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// OrganicResult is the slice of a SERP response the scraper cares about.
type OrganicResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

type serpResponse struct {
	OrganicResults []OrganicResult `json:"organic_results"`
}

// SerpClient queries the SERP JSON API for one page of organic results.
// Requests are paced so a scrape run over many titles stays inside the
// provider's request-per-second allowance.
type SerpClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
}

func NewSerpClient(baseURL, apiKey string) *SerpClient {
	return &SerpClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// Search runs one query. tbs restricts result freshness ("qdr:m1" = past month).
func (c *SerpClient) Search(ctx context.Context, query, tbs string) ([]OrganicResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate wait: %w", err)
	}

	params := url.Values{}
	params.Set("engine", "google")
	params.Set("google_domain", "google.com")
	params.Set("q", query)
	params.Set("tbs", tbs)
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build serp request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serp request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serp request: unexpected status %d", resp.StatusCode)
	}

	var body serpResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode serp response: %w", err)
	}

	return body.OrganicResults, nil
}
