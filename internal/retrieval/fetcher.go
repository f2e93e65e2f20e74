package retrieval

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ppiankov/evidentia/internal/cache"
	"github.com/ppiankov/evidentia/internal/extract"
	"github.com/ppiankov/evidentia/internal/model"
	"github.com/ppiankov/evidentia/internal/observability"
	"github.com/ppiankov/evidentia/internal/util"
	"github.com/ppiankov/evidentia/internal/worker"
)

// fetchSleepFunc waits between retries (injectable for tests)
var fetchSleepFunc = sleepContext

// Page is the readable content of one fetched evidence URL
type Page struct {
	URL         string     `json:"url"`
	FinalURL    string     `json:"final_url"`
	StatusCode  int        `json:"status_code"`
	ContentType string     `json:"content_type"`
	Title       string     `json:"title,omitempty"`
	Author      string     `json:"author,omitempty"`
	Text        string     `json:"text"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Adapter     string     `json:"adapter"`
	Cached      bool       `json:"-"`
}

// statusError is a non-2xx response
type statusError struct {
	Code   int
	Status string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status: %d %s", e.Code, e.Status)
}

// Fetcher downloads evidence pages politely: robots.txt, per-domain rate
// limits, bounded redirects and body size, and retries on transient failures
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	maxRetries int
	timeout    time.Duration

	robots    *util.RobotsChecker // nil when robots.txt is ignored
	limiter   *worker.Limiter
	extractor *extract.Extractor
	cache     cache.Cache
	logger    zerolog.Logger
}

// NewFetcher creates a fetcher from the HTTP configuration. c may be nil.
func NewFetcher(cfg model.HTTPConfig, c cache.Cache, logger zerolog.Logger) *Fetcher {
	maxRedirects := cfg.MaxRedirects
	if maxRedirects <= 0 {
		maxRedirects = 3
	}
	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 2_000_000
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	if c == nil {
		c = cache.Nop{}
	}

	client := &http.Client{
		Transport: &http.Transport{
			Proxy:               util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     90 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}

	f := &Fetcher{
		httpClient: client,
		userAgent:  cfg.UserAgent,
		maxBytes:   maxBytes,
		maxRetries: max(cfg.MaxRetries, 0),
		timeout:    timeout,
		limiter:    worker.NewLimiter(cfg.RequestsPerSecond, cfg.Burst),
		extractor:  extract.NewExtractor(),
		cache:      c,
		logger:     logger,
	}
	if cfg.RespectRobots {
		f.robots = util.NewRobotsChecker(cfg.UserAgent, 10*time.Second, client)
	}
	return f
}

// Fetch downloads and extracts rawURL. timeout bounds the whole attempt
// including retries; zero uses the configured timeout. Every failure wraps
// ErrFetchFailed.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, timeout time.Duration) (*Page, error) {
	page, err := f.fetch(ctx, rawURL, timeout)
	if err != nil {
		observability.Fetches.WithLabelValues(observability.OutcomeError).Inc()
		return nil, fmt.Errorf("%w: %s: %w", ErrFetchFailed, rawURL, err)
	}
	if page.Cached {
		observability.Fetches.WithLabelValues(observability.OutcomeCached).Inc()
	} else {
		observability.Fetches.WithLabelValues(observability.OutcomeOK).Inc()
	}
	return page, nil
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string, timeout time.Duration) (*Page, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	key := cache.Key("fetch", rawURL)
	var cached Page
	if cache.GetJSON(f.cache, key, &cached) && cached.Text != "" {
		cached.Cached = true
		return &cached, nil
	}

	if timeout <= 0 {
		timeout = f.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if f.robots != nil {
		allowed, crawlDelay, _ := f.robots.CanFetch(ctx, rawURL)
		if !allowed {
			return nil, ErrRobotsDisallowed
		}
		f.limiter.SlowDown(rawURL, crawlDelay)
	}

	raw, err := f.fetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	doc, err := f.extractor.Extract(raw.body, raw.finalURL, raw.contentType)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	page := &Page{
		URL:         rawURL,
		FinalURL:    raw.finalURL,
		StatusCode:  raw.statusCode,
		ContentType: raw.contentType,
		Title:       doc.Title,
		Author:      doc.Author,
		Text:        doc.Text,
		PublishedAt: doc.PublishedAt,
		Adapter:     doc.Adapter,
	}
	if page.PublishedAt == nil && raw.lastModified != "" {
		page.PublishedAt = extract.ParseDate(raw.lastModified)
	}

	if err := cache.SetJSON(f.cache, key, page, 0); err != nil {
		f.logger.Debug().Err(err).Str("url", rawURL).Msg("fetch cache write failed")
	}
	return page, nil
}

type rawResponse struct {
	body         []byte
	statusCode   int
	contentType  string
	finalURL     string
	lastModified string
}

// fetchWithRetry retries transient failures with exponential backoff
func (f *Fetcher) fetchWithRetry(ctx context.Context, rawURL string) (*rawResponse, error) {
	var lastErr error
	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		if err := f.limiter.Wait(ctx, rawURL); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}

		resp, err := f.fetchOnce(ctx, rawURL)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !isRetryableFetchError(err) || ctx.Err() != nil {
			return nil, err
		}

		if attempt < f.maxRetries {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			f.logger.Debug().Err(err).Str("url", rawURL).Dur("backoff", backoff).Msg("retrying fetch")
			if err := fetchSleepFunc(ctx, backoff); err != nil {
				return nil, err
			}
		}
	}
	return nil, lastErr
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) (*rawResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.5")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{Code: resp.StatusCode, Status: resp.Status}
	}

	contentType := resp.Header.Get("Content-Type")
	if !isTextual(contentType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedContent, contentType)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &rawResponse{
		body:         body,
		statusCode:   resp.StatusCode,
		contentType:  contentType,
		finalURL:     resp.Request.URL.String(),
		lastModified: resp.Header.Get("Last-Modified"),
	}, nil
}

func isTextual(contentType string) bool {
	ct := strings.ToLower(contentType)
	return ct == "" ||
		strings.HasPrefix(ct, "text/html") ||
		strings.HasPrefix(ct, "application/xhtml") ||
		strings.HasPrefix(ct, "text/plain")
}

// isRetryableFetchError reports transient failures: 429, 5xx and network
// errors such as timeouts or refused and reset connections
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}

	var se *statusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || (se.Code >= 500 && se.Code < 600)
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	s := strings.ToLower(err.Error())
	return strings.Contains(s, "timeout") ||
		strings.Contains(s, "connection refused") ||
		strings.Contains(s, "connection reset")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
