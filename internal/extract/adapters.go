package extract

import (
	"bytes"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// Adapter extracts the main text of pages it recognizes
type Adapter interface {
	// Name returns the adapter name
	Name() string

	// CanHandle checks if this adapter can handle the given URL
	CanHandle(u *url.URL) bool

	// Extract returns the main text of the document, or "" to defer to the
	// next adapter
	Extract(doc *html.Node, raw []byte, u *url.URL) (title, text string)
}

// WikipediaAdapter reads article paragraphs, skipping infoboxes, navboxes
// and reference lists
type WikipediaAdapter struct{}

// Name returns the adapter name
func (WikipediaAdapter) Name() string { return "wikipedia" }

// CanHandle checks if this is a Wikipedia article
func (WikipediaAdapter) CanHandle(u *url.URL) bool {
	return strings.HasSuffix(u.Hostname(), "wikipedia.org") && strings.HasPrefix(u.Path, "/wiki/")
}

// Extract collects paragraph text from the parser output
func (WikipediaAdapter) Extract(doc *html.Node, _ []byte, _ *url.URL) (string, string) {
	content := findFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "div" &&
			(hasClass(n, "mw-parser-output") || attribute(n, "id") == "mw-content-text")
	})
	if content == nil {
		return "", ""
	}

	paragraphs := findAll(content, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		// Tables and reference lists are matched so that their paragraphs are skipped
		return n.Data == "p" || n.Data == "table" || hasClass(n, "reflist") || hasClass(n, "references")
	})

	var parts []string
	for _, p := range paragraphs {
		if p.Data != "p" {
			continue
		}
		if text := stripCitationMarks(visibleText(p)); text != "" {
			parts = append(parts, text)
		}
	}

	var title string
	if h := findFirst(doc, func(n *html.Node) bool { return attribute(n, "id") == "firstHeading" }); h != nil {
		title = visibleText(h)
	}
	return title, strings.Join(parts, "\n\n")
}

// stripCitationMarks removes bracketed footnote markers such as [12] or [citation needed]
func stripCitationMarks(s string) string {
	var buf strings.Builder
	depth := 0
	for _, r := range s {
		switch {
		case r == '[':
			depth++
		case r == ']' && depth > 0:
			depth--
		case depth == 0:
			buf.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(buf.String()), " ")
}

// LegalAdapter reads the operative sections of statutes and court documents
type LegalAdapter struct {
	domains []string
}

// NewLegalAdapter creates a new legal document adapter
func NewLegalAdapter() *LegalAdapter {
	return &LegalAdapter{
		domains: []string{
			"legislation.gov.uk", "law.cornell.edu", "justice.gov",
			"supremecourt.gov", "eur-lex.europa.eu", "courtlistener.com",
		},
	}
}

// Name returns the adapter name
func (a *LegalAdapter) Name() string { return "legal" }

// CanHandle checks if this is a legal document URL
func (a *LegalAdapter) CanHandle(u *url.URL) bool {
	host := strings.ToLower(u.Hostname())
	for _, domain := range a.domains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}

	path := strings.ToLower(u.Path)
	for _, marker := range []string{"/statute", "/legislation", "/opinion", "/regulation", "/ruling"} {
		if strings.Contains(path, marker) {
			return true
		}
	}
	return false
}

// Extract focuses on the main content area and its sections
func (a *LegalAdapter) Extract(doc *html.Node, _ []byte, _ *url.URL) (string, string) {
	main := findFirst(doc, isElement("main"))
	if main == nil {
		main = findFirst(doc, func(n *html.Node) bool {
			return n.Type == html.ElementNode && (n.Data == "article" || attribute(n, "role") == "main")
		})
	}
	if main == nil {
		return "", ""
	}

	var parts []string
	for _, node := range findAll(main, isElement("p", "li", "h2", "h3", "blockquote")) {
		if text := visibleText(node); text != "" {
			parts = append(parts, text)
		}
	}
	return "", strings.Join(parts, "\n")
}

// ReadabilityAdapter runs the reader-mode algorithm; it handles any page
type ReadabilityAdapter struct{}

// Name returns the adapter name
func (ReadabilityAdapter) Name() string { return "readability" }

// CanHandle always returns true
func (ReadabilityAdapter) CanHandle(*url.URL) bool { return true }

// Extract renders the readable article text
func (ReadabilityAdapter) Extract(_ *html.Node, raw []byte, u *url.URL) (string, string) {
	article, err := readability.FromReader(bytes.NewReader(raw), u)
	if err != nil {
		return "", ""
	}

	var buf bytes.Buffer
	if err := article.RenderText(&buf); err != nil {
		return article.Title(), ""
	}
	return article.Title(), strings.TrimSpace(buf.String())
}
