package retrieval

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/evidentia/internal/extract"
)

const (
	searxngDefaultTimeout  = 30 * time.Second
	searxngSearchPath      = "/search"
	searxngFormatJSON      = "json"
	searxngCategoryGeneral = "general"
	searxngMaxBody         = 4 << 20
)

var (
	errSearxNGUnexpectedStatus = errors.New("searxng unexpected status")
	errSearxNGAPIError         = errors.New("searxng api error")
)

// SearxNGConfig holds configuration for the SearxNG searcher
type SearxNGConfig struct {
	BaseURL    string
	Timeout    time.Duration
	Engines    []string // optional: e.g. ["google", "duckduckgo", "bing"]
	HTTPClient *http.Client
}

// SearxNGSearcher queries a SearxNG metasearch instance
type SearxNGSearcher struct {
	baseURL    string
	httpClient *http.Client
	engines    []string
}

// NewSearxNGSearcher creates a searcher for a SearxNG instance
func NewSearxNGSearcher(cfg SearxNGConfig) *SearxNGSearcher {
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = searxngDefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	return &SearxNGSearcher{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: client,
		engines:    cfg.Engines,
	}
}

// Name returns the provider name
func (s *SearxNGSearcher) Name() string {
	return "searxng"
}

// Search performs a search query against the SearxNG instance
func (s *SearxNGSearcher) Search(ctx context.Context, q Query) ([]SearchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.buildSearchURL(q), nil)
	if err != nil {
		return nil, fmt.Errorf("create searxng request: %w", err)
	}

	// SearxNG only answers JSON when asked for it
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("searxng request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", errSearxNGUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, searxngMaxBody))
	if err != nil {
		return nil, fmt.Errorf("read searxng response: %w", err)
	}

	return s.parseResponse(body, q.MaxResults)
}

func (s *SearxNGSearcher) buildSearchURL(q Query) string {
	params := url.Values{}
	params.Set("q", q.Text)
	params.Set("format", searxngFormatJSON)
	params.Set("categories", searxngCategoryGeneral)

	if r := dateRange(q.DateRestrict); r != "" {
		params.Set("time_range", r)
	}

	if len(s.engines) > 0 {
		params.Set("engines", strings.Join(s.engines, ","))
	}

	return s.baseURL + searxngSearchPath + "?" + params.Encode()
}

type searxngResponse struct {
	Query   string          `json:"query"`
	Results []searxngResult `json:"results"`
}

type searxngResult struct {
	URL           string  `json:"url"`
	Title         string  `json:"title"`
	Content       string  `json:"content"`
	PublishedDate string  `json:"publishedDate"`
	Engine        string  `json:"engine"`
	Score         float64 `json:"score"`
}

func (s *SearxNGSearcher) parseResponse(body []byte, maxResults int) ([]SearchResult, error) {
	if err := checkSearxNGError(body); err != nil {
		return nil, err
	}

	var resp searxngResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse searxng json: %w", err)
	}

	if maxResults <= 0 {
		maxResults = len(resp.Results)
	}

	results := make([]SearchResult, 0, min(len(resp.Results), maxResults))
	for _, item := range resp.Results {
		if len(results) >= maxResults {
			break
		}
		if item.URL == "" {
			continue
		}

		result := SearchResult{
			URL:      item.URL,
			Title:    item.Title,
			Snippet:  item.Content,
			Domain:   domainOf(item.URL),
			Provider: s.Name(),
		}
		if item.PublishedDate != "" {
			result.PublishedAt = extract.ParseDate(item.PublishedDate)
		}

		results = append(results, result)
	}

	return results, nil
}

func checkSearxNGError(body []byte) error {
	trimmed := strings.TrimSpace(string(body))
	if trimmed != "" && trimmed[0] != '{' && trimmed[0] != '[' {
		// Not JSON, likely an error message or HTML page
		if len(trimmed) > 200 {
			trimmed = trimmed[:200] + "..."
		}
		return fmt.Errorf("%w: %s", errSearxNGAPIError, trimmed)
	}

	return nil
}
