package retrieval

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ppiankov/evidentia/internal/cache"
	"github.com/ppiankov/evidentia/internal/model"
	"github.com/ppiankov/evidentia/internal/util"
)

// ProvidersFromEnv returns search providers configured through SEARXNG_URL
// and GOOGLE_CSE_KEY / GOOGLE_CSE_CX, SearxNG first
func ProvidersFromEnv() []model.SearchProviderConfig {
	var out []model.SearchProviderConfig
	if u := os.Getenv("SEARXNG_URL"); u != "" {
		out = append(out, model.SearchProviderConfig{Name: "searxng", BaseURL: u})
	}
	if key, cx := os.Getenv("GOOGLE_CSE_KEY"), os.Getenv("GOOGLE_CSE_CX"); key != "" && cx != "" {
		out = append(out, model.SearchProviderConfig{Name: "google", APIKey: key, CX: cx})
	}
	return out
}

// NewSearcher builds one searcher from its configuration
func NewSearcher(pc model.SearchProviderConfig, cfg model.Config) (Searcher, error) {
	client := &http.Client{
		Timeout: cfg.Search.Timeout,
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy),
		},
	}

	switch strings.ToLower(pc.Name) {
	case "searxng":
		if pc.BaseURL == "" {
			return nil, fmt.Errorf("searxng: base_url is required")
		}
		return NewSearxNGSearcher(SearxNGConfig{BaseURL: pc.BaseURL, Engines: pc.Engines, HTTPClient: client}), nil
	case "google":
		if pc.APIKey == "" || pc.CX == "" {
			return nil, fmt.Errorf("google: api_key and cx are required")
		}
		return NewGoogleSearcher(GoogleConfig{APIKey: pc.APIKey, CX: pc.CX, BaseURL: pc.BaseURL, HTTPClient: client}), nil
	default:
		return nil, fmt.Errorf("unknown search provider: %s", pc.Name)
	}
}

// NewRegistryFromConfig builds the search registry. Providers come from the
// configuration, or from the environment when none are configured. Having
// none at all is a configuration error.
func NewRegistryFromConfig(cfg model.Config, c cache.Cache, logger zerolog.Logger) (*Registry, error) {
	providers := cfg.Search.Providers
	if len(providers) == 0 {
		providers = ProvidersFromEnv()
	}

	registry := NewRegistry(RegistryOptions{
		FailureThreshold: cfg.Search.FailureThreshold,
		Cooldown:         cfg.Search.Cooldown,
		Filter:           NewDomainFilter(cfg.Search.DomainWhitelist, cfg.Search.DomainDenylist, true),
		Cache:            c,
		Logger:           logger,
	})

	for _, pc := range providers {
		s, err := NewSearcher(pc, cfg)
		if err != nil {
			logger.Warn().Err(err).Str("provider", pc.Name).Msg("skipping search provider")
			continue
		}
		registry.Register(s)
	}

	if registry.Len() == 0 {
		return nil, fmt.Errorf("%w: set SEARXNG_URL or GOOGLE_CSE_KEY and GOOGLE_CSE_CX", ErrNoSearchProviders)
	}
	return registry, nil
}
