// Package retrieval finds and fetches evidence: web search through an
// ordered set of providers and polite page fetching with extraction.
package retrieval

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrFetchFailed        = errors.New("fetch failed")
	ErrNoSearchProviders  = errors.New("no search providers available")
	ErrRobotsDisallowed   = errors.New("disallowed by robots.txt")
	ErrUnsupportedContent = errors.New("unsupported content type")
)

// Query is one search request
type Query struct {
	Text            string
	MaxResults      int
	DateRestrict    string   // d<N>, w<N>, m<N>, y<N>
	DomainWhitelist []string // Restrict results to these domains
}

// SearchResult is one hit returned by a search provider
type SearchResult struct {
	URL         string     `json:"url"`
	Title       string     `json:"title"`
	Snippet     string     `json:"snippet,omitempty"`
	Domain      string     `json:"domain"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Provider    string     `json:"provider"`
}

// Searcher is a web search backend
type Searcher interface {
	Name() string
	Search(ctx context.Context, q Query) ([]SearchResult, error)
}

// dateRange maps a Google-style date restriction onto a coarse range name
func dateRange(restrict string) string {
	if restrict == "" {
		return ""
	}
	switch strings.ToLower(restrict)[0] {
	case 'd':
		return "day"
	case 'w':
		return "week"
	case 'm':
		return "month"
	case 'y':
		return "year"
	default:
		return ""
	}
}
