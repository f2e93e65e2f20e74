package extract

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"golang.org/x/net/html"
)

// skippedElements never contribute visible text
var skippedElements = map[string]bool{
	"script": true, "style": true, "noscript": true, "iframe": true,
	"nav": true, "footer": true, "header": true, "aside": true, "form": true,
}

// visibleText extracts text nodes below n, skipping scripts, styles and
// page chrome
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skippedElements[n.Data] {
			return
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return strings.TrimSpace(buf.String())
}

// hasClass checks if a node has a specific CSS class
func hasClass(n *html.Node, className string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, class := range strings.Fields(attribute(n, "class")) {
		if class == className {
			return true
		}
	}
	return false
}

// attribute gets an attribute value from a node
func attribute(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val
		}
	}
	return ""
}

// findFirst finds the first node matching a predicate, depth first
func findFirst(n *html.Node, predicate func(*html.Node) bool) *html.Node {
	if predicate(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, predicate); found != nil {
			return found
		}
	}
	return nil
}

// findAll finds all nodes matching a predicate, without descending into matches
func findAll(n *html.Node, predicate func(*html.Node) bool) []*html.Node {
	var results []*html.Node

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if predicate(node) {
			results = append(results, node)
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return results
}

func isElement(names ...string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		for _, name := range names {
			if n.Data == name {
				return true
			}
		}
		return false
	}
}

// pageMeta is what the document head says about the page
type pageMeta struct {
	Title     string
	Author    string
	Published string
}

// publishedKeys are meta names carrying a publication date, best first
var publishedKeys = []string{
	"article:published_time", "og:published_time", "datepublished",
	"dc.date", "dc.date.issued", "citation_publication_date", "date", "pubdate",
	"time", // <time datetime> in the body
}

func readMeta(doc *html.Node) pageMeta {
	var meta pageMeta
	dates := make(map[string]string)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if meta.Title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					meta.Title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				name := strings.ToLower(coalesce(attribute(n, "property"), attribute(n, "name"), attribute(n, "itemprop")))
				content := strings.TrimSpace(attribute(n, "content"))
				switch {
				case name == "og:title" && content != "":
					meta.Title = content
				case name == "author" && meta.Author == "":
					meta.Author = content
				case content != "":
					if _, seen := dates[name]; !seen {
						dates[name] = content
					}
				}
			case "time":
				if dt := attribute(n, "datetime"); dt != "" {
					if _, seen := dates["time"]; !seen {
						dates["time"] = dt
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	for _, key := range publishedKeys {
		if v := dates[key]; v != "" {
			meta.Published = v
			break
		}
	}
	return meta
}

// ParseDate parses a loosely formatted date, returning nil when it cannot
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := dateparse.ParseAny(s)
	if err != nil || t.IsZero() {
		return nil
	}
	t = t.UTC()
	return &t
}

func coalesce(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
