package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL    = "https://serpapi.com"
	defaultMaxResults = 5
	defaultTimeout    = 10 * time.Second
)

// Result is one ranked search hit. Either field may be empty.
type Result struct {
	Title   string
	Snippet string
}

// Searcher retrieves ranked results for a free-text query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

type Config struct {
	APIKey string

	// BaseURL overrides the provider base URL. Useful for proxies/testing.
	BaseURL string

	// MaxResults caps the number of results per query. Defaults to 5.
	MaxResults int

	// Timeout bounds each outbound request. Defaults to 10s.
	Timeout time.Duration
}

// Client queries the SerpAPI search endpoint. One outbound GET per Search
// call; no caching, no retries.
type Client struct {
	apiKey     string
	baseURL    string
	maxResults int
	httpClient *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("search api key is required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		apiKey:     strings.TrimSpace(cfg.APIKey),
		baseURL:    baseURL,
		maxResults: maxResults,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type organicResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

type searchResponse struct {
	OrganicResults []organicResult `json:"organic_results"`
}

// Search returns at most MaxResults results in provider-ranked order. An
// empty query yields (nil, ErrEmptyQuery) without a network call.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL(query), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyErr(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		return nil, newHTTPError("search", resp)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	results := make([]Result, 0, len(body.OrganicResults))
	for _, r := range body.OrganicResults {
		if len(results) >= c.maxResults {
			break
		}
		results = append(results, Result{Title: r.Title, Snippet: r.Snippet})
	}
	return results, nil
}

func (c *Client) searchURL(query string) string {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(c.maxResults))
	params.Set("engine", "google")
	return c.baseURL + "/search?" + params.Encode()
}

// classifyErr wraps connectivity/timeout failures as transient so callers
// can distinguish them from provider rejections in logs.
func classifyErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TransientError{Err: err}
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &TransientError{Err: err}
	}
	var ue *url.Error
	if errors.As(err, &ue) {
		return &TransientError{Err: err}
	}
	return err
}
