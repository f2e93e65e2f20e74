package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ppiankov/evidentia/internal/cache"
	"github.com/ppiankov/evidentia/internal/observability"
)

const (
	defaultFailureThreshold = 3
	defaultCooldown         = 5 * time.Minute
	halfOpenSuccesses       = 2
)

// RegistryOptions configures a Registry
type RegistryOptions struct {
	FailureThreshold int           // Consecutive failures that open a provider's breaker
	Cooldown         time.Duration // How long an open breaker stays open
	Filter           *DomainFilter
	Cache            cache.Cache
	CacheTTL         time.Duration
	Logger           zerolog.Logger
}

// Registry searches through providers in priority order, skipping any whose
// circuit breaker is open
type Registry struct {
	mu        sync.RWMutex
	searchers []Searcher
	breakers  map[string]*circuitBreaker

	threshold int
	cooldown  time.Duration
	filter    *DomainFilter
	cache     cache.Cache
	cacheTTL  time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

// NewRegistry creates an empty registry
func NewRegistry(opts RegistryOptions) *Registry {
	if opts.FailureThreshold <= 0 {
		opts.FailureThreshold = defaultFailureThreshold
	}
	if opts.Cooldown <= 0 {
		opts.Cooldown = defaultCooldown
	}
	if opts.Filter == nil {
		opts.Filter = NewDomainFilter(nil, nil, true)
	}
	if opts.Cache == nil {
		opts.Cache = cache.Nop{}
	}

	return &Registry{
		breakers:  make(map[string]*circuitBreaker),
		threshold: opts.FailureThreshold,
		cooldown:  opts.Cooldown,
		filter:    opts.Filter,
		cache:     opts.Cache,
		cacheTTL:  opts.CacheTTL,
		logger:    opts.Logger,
		now:       time.Now,
	}
}

// Register appends a searcher at the lowest priority
func (r *Registry) Register(s Searcher) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.searchers = append(r.searchers, s)
	r.breakers[s.Name()] = &circuitBreaker{}
}

// Providers lists the registered provider names in priority order
func (r *Registry) Providers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.searchers))
	for i, s := range r.searchers {
		names[i] = s.Name()
	}
	return names
}

// Len returns the number of registered providers
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.searchers)
}

type cachedSearch struct {
	Provider string         `json:"provider"`
	Results  []SearchResult `json:"results"`
}

// Search runs q against the first provider that answers and returns the
// filtered results with the provider's name
func (r *Registry) Search(ctx context.Context, q Query) ([]SearchResult, string, error) {
	key := cache.Key("search", q.Text, strconv.Itoa(q.MaxResults), q.DateRestrict, strings.Join(q.DomainWhitelist, ","))

	var hit cachedSearch
	if cache.GetJSON(r.cache, key, &hit) {
		observability.Searches.WithLabelValues(hit.Provider, observability.OutcomeCached).Inc()
		return hit.Results, hit.Provider, nil
	}

	r.mu.RLock()
	searchers := append([]Searcher(nil), r.searchers...)
	r.mu.RUnlock()

	var errs []error
	for _, s := range searchers {
		name := s.Name()
		cb := r.breaker(name)
		if !cb.canAttempt(r.now(), r.cooldown) {
			observability.Searches.WithLabelValues(name, observability.OutcomeSkipped).Inc()
			continue
		}

		results, err := s.Search(ctx, q)
		if err != nil {
			cb.recordFailure(r.now(), r.threshold)
			observability.Searches.WithLabelValues(name, observability.OutcomeError).Inc()
			r.logger.Warn().Err(err).Str("provider", name).Str("query", q.Text).Msg("search provider failed")
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			if ctx.Err() != nil {
				break
			}
			continue
		}
		cb.recordSuccess()
		observability.Searches.WithLabelValues(name, observability.OutcomeOK).Inc()

		results = r.filter.Apply(results, q.DomainWhitelist)
		if q.MaxResults > 0 && len(results) > q.MaxResults {
			results = results[:q.MaxResults]
		}

		if err := cache.SetJSON(r.cache, key, cachedSearch{Provider: name, Results: results}, r.cacheTTL); err != nil {
			r.logger.Debug().Err(err).Msg("search cache write failed")
		}
		return results, name, nil
	}

	if len(errs) == 0 {
		return nil, "", ErrNoSearchProviders
	}
	return nil, "", fmt.Errorf("%w: %w", ErrNoSearchProviders, errors.Join(errs...))
}

func (r *Registry) breaker(name string) *circuitBreaker {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.breakers[name]
}

type circuitState int

const (
	circuitClosed circuitState = iota
	circuitOpen
	circuitHalfOpen
)

type circuitBreaker struct {
	mu           sync.Mutex
	failures     int
	lastFailure  time.Time
	state        circuitState
	successCount int
}

func (cb *circuitBreaker) canAttempt(now time.Time, cooldown time.Duration) bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case circuitOpen:
		if now.Sub(cb.lastFailure) > cooldown {
			cb.state = circuitHalfOpen
			cb.successCount = 0
			return true
		}
		return false
	default:
		return true
	}
}

func (cb *circuitBreaker) recordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures = 0
	if cb.state == circuitHalfOpen {
		cb.successCount++
		if cb.successCount >= halfOpenSuccesses {
			cb.state = circuitClosed
		}
	}
}

func (cb *circuitBreaker) recordFailure(now time.Time, threshold int) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++
	cb.lastFailure = now

	// A half-open probe that fails reopens immediately
	if cb.state == circuitHalfOpen || cb.failures >= threshold {
		cb.state = circuitOpen
	}
}
