package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ppiankov/evidentia/internal/observability"
)

// Chain tries providers in priority order. A provider that fails is skipped
// for that call only; the next call starts from the top again.
type Chain struct {
	providers []Provider
	logger    zerolog.Logger
}

// NewChain creates a fallback chain over providers
func NewChain(logger zerolog.Logger, providers ...Provider) *Chain {
	return &Chain{providers: providers, logger: logger}
}

// Name returns the names of the chained providers
func (c *Chain) Name() string {
	name := "chain("
	for i, p := range c.providers {
		if i > 0 {
			name += ","
		}
		name += p.Name()
	}
	return name + ")"
}

// Len returns the number of chained providers
func (c *Chain) Len() int {
	return len(c.providers)
}

// IsAvailable reports whether any provider is available
func (c *Chain) IsAvailable(ctx context.Context) bool {
	for _, p := range c.providers {
		if p.IsAvailable(ctx) {
			return true
		}
	}
	return false
}

// Infer returns the first successful reply
func (c *Chain) Infer(ctx context.Context, req Request) (*Response, error) {
	if len(c.providers) == 0 {
		return nil, ErrNoProviders
	}

	var errs []error
	for _, p := range c.providers {
		resp, err := p.Infer(ctx, req)
		if err == nil {
			observability.InferenceCalls.WithLabelValues(p.Name(), observability.OutcomeOK).Inc()
			return resp, nil
		}
		observability.InferenceCalls.WithLabelValues(p.Name(), observability.OutcomeError).Inc()
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s: %w", p.Name(), ctx.Err())
		}

		c.logger.Warn().Err(err).Str("provider", p.Name()).Msg("inference failed, trying next provider")
		errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
	}

	return nil, fmt.Errorf("%w: %w", ErrNoProviders, errors.Join(errs...))
}
