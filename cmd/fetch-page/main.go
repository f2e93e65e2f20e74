// Debug program showing what the evidence fetcher extracts from pages:
// adapter, title, published date, reliability tier and a text preview
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/evidentia/internal/cache"
	"github.com/ppiankov/evidentia/internal/extract"
	"github.com/ppiankov/evidentia/internal/model"
	"github.com/ppiankov/evidentia/internal/observability"
	"github.com/ppiankov/evidentia/internal/retrieval"
	"github.com/ppiankov/evidentia/internal/validate"
)

func main() {
	urls := os.Args[1:]
	if len(urls) == 0 {
		fmt.Fprintln(os.Stderr, "usage: fetch-page <url> [url...]")
		os.Exit(2)
	}

	cfg := model.DefaultConfig()
	logger := observability.NewLogger("warn", "console")
	fetcher := retrieval.NewFetcher(cfg.HTTP, cache.Nop{}, logger)

	reliability, err := validate.NewReliabilityTable(cfg.Reliability)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reliability table: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	failed := 0
	for _, u := range urls {
		fmt.Printf("Fetching: %s\n", u)
		fmt.Println(strings.Repeat("-", 60))

		page, err := fetcher.Fetch(ctx, u, cfg.HTTP.Timeout)
		if err != nil {
			fmt.Printf("  ✗ %v\n\n", err)
			failed++
			continue
		}

		tier, score := reliability.Lookup(page.FinalURL)
		fmt.Printf("  Adapter:     %s\n", page.Adapter)
		fmt.Printf("  Title:       %s\n", page.Title)
		if page.PublishedAt != nil {
			fmt.Printf("  Published:   %s\n", page.PublishedAt.Format("2006-01-02"))
		}
		if score != nil {
			fmt.Printf("  Authority:   %s (%.2f)\n", tier, *score)
		} else {
			fmt.Printf("  Authority:   %s (unrated)\n", tier)
		}
		fmt.Printf("  Text:        %d chars\n", len(page.Text))
		fmt.Printf("\n%s\n\n", extract.Truncate(page.Text, 600))
	}

	if failed > 0 {
		os.Exit(1)
	}
}
