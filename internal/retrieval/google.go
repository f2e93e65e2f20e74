package retrieval

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/ppiankov/evidentia/internal/extract"
)

const (
	googleCSEEndpoint   = "https://www.googleapis.com/customsearch/v1"
	googleMaxPerRequest = 10
	googleMaxBody       = 4 << 20
)

var errGoogleAPI = errors.New("google custom search error")

// GoogleConfig holds configuration for the Google Custom Search searcher
type GoogleConfig struct {
	APIKey            string
	CX                string // Programmable search engine id
	BaseURL           string // Defaults to the public endpoint
	Timeout           time.Duration
	RequestsPerSecond float64
	HTTPClient        *http.Client
}

// GoogleSearcher queries the Google Custom Search JSON API
type GoogleSearcher struct {
	apiKey     string
	cx         string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewGoogleSearcher creates a Google Custom Search searcher
func NewGoogleSearcher(cfg GoogleConfig) *GoogleSearcher {
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = googleCSEEndpoint
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}

	return &GoogleSearcher{
		apiKey:     cfg.APIKey,
		cx:         cfg.CX,
		baseURL:    baseURL,
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Name returns the provider name
func (g *GoogleSearcher) Name() string {
	return "google"
}

// Search performs one Custom Search request
func (g *GoogleSearcher) Search(ctx context.Context, q Query) ([]SearchResult, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("google rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.buildSearchURL(q), nil)
	if err != nil {
		return nil, fmt.Errorf("create google request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, googleMaxBody))
	if err != nil {
		return nil, fmt.Errorf("read google response: %w", err)
	}

	var parsed googleResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse google json (status %d): %w", resp.StatusCode, err)
	}

	if parsed.Error != nil {
		return nil, fmt.Errorf("%w: %d %s", errGoogleAPI, parsed.Error.Code, parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", errGoogleAPI, resp.StatusCode)
	}

	results := make([]SearchResult, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.Link == "" {
			continue
		}
		results = append(results, SearchResult{
			URL:         item.Link,
			Title:       item.Title,
			Snippet:     item.Snippet,
			Domain:      domainOf(item.Link),
			PublishedAt: item.publishedAt(),
			Provider:    g.Name(),
		})
	}

	return results, nil
}

func (g *GoogleSearcher) buildSearchURL(q Query) string {
	num := q.MaxResults
	if num <= 0 || num > googleMaxPerRequest {
		num = googleMaxPerRequest
	}

	params := url.Values{}
	params.Set("key", g.apiKey)
	params.Set("cx", g.cx)
	params.Set("q", q.Text)
	params.Set("num", strconv.Itoa(num))
	if q.DateRestrict != "" {
		params.Set("dateRestrict", q.DateRestrict)
	}
	// The API takes a single site restriction; wider whitelists are filtered afterwards
	if len(q.DomainWhitelist) == 1 {
		params.Set("siteSearch", q.DomainWhitelist[0])
		params.Set("siteSearchFilter", "i")
	}

	return g.baseURL + "?" + params.Encode()
}

type googleResponse struct {
	Items []googleItem `json:"items"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type googleItem struct {
	Link    string `json:"link"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Pagemap struct {
		Metatags []map[string]string `json:"metatags"`
	} `json:"pagemap"`
}

var googleDateTags = []string{"article:published_time", "og:published_time", "datepublished", "date", "dc.date"}

func (i googleItem) publishedAt() *time.Time {
	for _, tags := range i.Pagemap.Metatags {
		for _, key := range googleDateTags {
			if v, ok := tags[key]; ok && v != "" {
				if t := extract.ParseDate(v); t != nil {
					return t
				}
			}
		}
	}
	return nil
}
