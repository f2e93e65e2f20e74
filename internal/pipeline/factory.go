package pipeline

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ppiankov/evidentia/internal/cache"
	"github.com/ppiankov/evidentia/internal/judge"
	"github.com/ppiankov/evidentia/internal/llm"
	"github.com/ppiankov/evidentia/internal/model"
	"github.com/ppiankov/evidentia/internal/retrieval"
	"github.com/ppiankov/evidentia/internal/validate"
)

// NewFromConfig wires an analyzer from the runtime configuration: the
// provider chain, search registry, fetcher, cache and reliability table.
// Missing provider credentials are returned as errors here, before any run.
func NewFromConfig(cfg model.Config, logger zerolog.Logger) (*Analyzer, error) {
	chain, err := llm.NewChainFromConfig(cfg, logger)
	if err != nil {
		return nil, err
	}

	c := cache.New(cfg.Cache)
	registry, err := retrieval.NewRegistryFromConfig(cfg, c, logger)
	if err != nil {
		return nil, err
	}

	rel, err := validate.NewReliabilityTable(cfg.Reliability)
	if err != nil {
		return nil, fmt.Errorf("reliability table: %w", err)
	}

	logger.Debug().
		Str("inference", chain.Name()).
		Strs("search", registry.Providers()).
		Msg("analyzer configured")

	return New(Options{
		Config:      cfg,
		Judge:       judge.New(chain, cfg.LLM.Timeout, logger),
		Search:      registry,
		Fetcher:     retrieval.NewFetcher(cfg.HTTP, c, logger),
		Reliability: rel,
		Logger:      logger,
	})
}
