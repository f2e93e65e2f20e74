package worker

import (
	"context"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.defaultBurst)
	}

	l3 := NewLimiter(0, 1)
	if l3.defaultRate != rate.Inf {
		t.Errorf("expected unlimited rate for 0 rps, got %v", l3.defaultRate)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "http://example.com/foo"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	// Different domain should also work
	if err := limiter.Wait(ctx, "http://google.com"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	if err := limiter.Wait(ctx, "not a url"); err == nil {
		t.Error("expected error for URL without host")
	}
}

func TestLimiter_RateLimit(t *testing.T) {
	limiter := NewLimiter(1, 1)
	ctx := context.Background()
	url := "http://example.com"

	if err := limiter.Wait(ctx, url); err != nil {
		t.Errorf("first wait failed: %v", err)
	}

	// Burst of 1 is spent
	if limiter.getLimiter("example.com").Allow() {
		t.Errorf("expected allow to fail (exhausted tokens)")
	}

	// www. and case variants share the bucket
	domain, _ := extractDomain("https://WWW.Example.com/other")
	if limiter.getLimiter(domain).Allow() {
		t.Errorf("expected www variant to share the exhausted bucket")
	}

	if !limiter.getLimiter("other.com").Allow() {
		t.Errorf("expected allow for other domain")
	}
}

func TestLimiter_SlowDown(t *testing.T) {
	limiter := NewLimiter(10, 1)
	url := "http://crawl.example/page"

	limiter.SlowDown(url, 5*time.Second)
	if got := limiter.getLimiter("crawl.example").Limit(); got != rate.Every(5*time.Second) {
		t.Errorf("limit = %v, want one per 5s", got)
	}

	// A shorter delay never speeds the domain back up
	limiter.SlowDown(url, time.Second)
	if got := limiter.getLimiter("crawl.example").Limit(); got != rate.Every(5*time.Second) {
		t.Errorf("limit = %v after shorter delay", got)
	}
}

func TestExtractDomain(t *testing.T) {
	domain, err := extractDomain("http://www.Example.com:8080/foo")
	if err != nil {
		t.Fatalf("extractDomain failed: %v", err)
	}
	if domain != "example.com" {
		t.Errorf("expected example.com, got %s", domain)
	}

	_, err = extractDomain("::invalid")
	if err == nil {
		t.Errorf("expected error for invalid URL")
	}
}
