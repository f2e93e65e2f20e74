// Package extract turns fetched pages into plain documents and filters
// near-duplicate facts.
package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// minAdapterText is the shortest text an adapter may return before the next
// adapter is tried
const minAdapterText = 200

// Document is the readable content of one fetched page
type Document struct {
	URL         string
	Title       string
	Author      string
	Text        string
	PublishedAt *time.Time
	Adapter     string // Which adapter produced Text
}

// Extractor picks the first adapter that handles a page and yields enough text
type Extractor struct {
	adapters []Adapter
}

// NewExtractor creates an extractor with the built-in adapters. Site-specific
// adapters run before readability; visible text is the last resort.
func NewExtractor(extra ...Adapter) *Extractor {
	adapters := append([]Adapter{}, extra...)
	adapters = append(adapters, WikipediaAdapter{}, NewLegalAdapter(), ReadabilityAdapter{})
	return &Extractor{adapters: adapters}
}

// Extract parses an HTML page. Plain text bodies are passed through.
func (e *Extractor) Extract(raw []byte, pageURL, contentType string) (*Document, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}

	if strings.HasPrefix(strings.ToLower(contentType), "text/plain") {
		return &Document{URL: pageURL, Text: normalizeSpace(string(raw)), Adapter: "plain"}, nil
	}

	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	meta := readMeta(doc)
	out := &Document{
		URL:         pageURL,
		Title:       meta.Title,
		Author:      meta.Author,
		PublishedAt: ParseDate(meta.Published),
	}

	for _, a := range e.adapters {
		if !a.CanHandle(u) {
			continue
		}
		title, text := a.Extract(doc, raw, u)
		text = normalizeSpace(text)
		if utf8.RuneCountInString(text) < minAdapterText {
			continue
		}
		out.Text = text
		out.Adapter = a.Name()
		out.Title = coalesce(out.Title, title)
		return out, nil
	}

	// Fall back to all visible text
	body := findFirst(doc, isElement("body"))
	if body == nil {
		body = doc
	}
	out.Text = normalizeSpace(visibleText(body))
	out.Adapter = "visible-text"
	if out.Text == "" {
		return nil, fmt.Errorf("no readable text in %s", pageURL)
	}
	return out, nil
}

// normalizeSpace collapses runs of spaces while keeping paragraph breaks
func normalizeSpace(s string) string {
	paragraphs := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		if p = strings.Join(strings.Fields(p), " "); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n")
}
