// Package pipeline runs a complete evidence-driven analysis: it understands
// the input, researches evidence iteration by iteration, judges every claim
// and aggregates the calibrated verdicts.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ppiankov/evidentia/internal/calibrate"
	"github.com/ppiankov/evidentia/internal/extract"
	"github.com/ppiankov/evidentia/internal/judge"
	"github.com/ppiankov/evidentia/internal/llm"
	"github.com/ppiankov/evidentia/internal/model"
	"github.com/ppiankov/evidentia/internal/observability"
	"github.com/ppiankov/evidentia/internal/research"
	"github.com/ppiankov/evidentia/internal/retrieval"
	"github.com/ppiankov/evidentia/internal/score"
	"github.com/ppiankov/evidentia/internal/validate"
)

// ErrEmptyInput is returned when the input has neither text nor a URL
var ErrEmptyInput = errors.New("empty input: provide text or a URL")

// ProgressFunc receives milestone messages with a completion percentage.
// It is observational only.
type ProgressFunc func(message string, percent int)

// Judgment produces the structured judgments of a run
type Judgment interface {
	Understand(ctx context.Context, text string) model.Understanding
	ExtractFacts(ctx context.Context, req judge.FactRequest) []model.Fact
	RefineScopes(ctx context.Context, thesis string, claims []model.Claim, facts []model.Fact, scopes []model.Scope) (judge.Refinement, bool)
	Verdicts(ctx context.Context, thesis string, claims []model.Claim, facts []model.Fact) []model.ClaimJudgment
	Calls() int
	Defaulted() int
}

// Searcher runs one query against the configured search providers
type Searcher interface {
	Search(ctx context.Context, q retrieval.Query) ([]retrieval.SearchResult, string, error)
}

// PageFetcher downloads and extracts one evidence page
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string, timeout time.Duration) (*retrieval.Page, error)
}

// Options wires an Analyzer. Reliability may be nil; a table is then built
// from Config.Reliability.
type Options struct {
	Config      model.Config
	Judge       Judgment
	Search      Searcher
	Fetcher     PageFetcher
	Reliability *validate.ReliabilityTable
	Logger      zerolog.Logger
}

// Analyzer runs analyses. It holds only read-only collaborators, so one
// Analyzer can serve concurrent runs.
type Analyzer struct {
	cfg         model.Config
	judge       Judgment
	search      Searcher
	fetcher     PageFetcher
	reliability *validate.ReliabilityTable
	calibrator  *calibrate.Calibrator
	gates       *validate.Gates
	policy      *research.Policy
	aggregator  *score.Aggregator
	logger      zerolog.Logger
}

// New creates an analyzer. Missing collaborators are configuration errors.
func New(opts Options) (*Analyzer, error) {
	if opts.Judge == nil {
		return nil, llm.ErrNoProviders
	}
	if opts.Search == nil {
		return nil, retrieval.ErrNoSearchProviders
	}
	if opts.Fetcher == nil {
		return nil, errors.New("pipeline: fetcher is required")
	}

	cfg := opts.Config
	rel := opts.Reliability
	if rel == nil {
		var err error
		if rel, err = validate.NewReliabilityTable(cfg.Reliability); err != nil {
			return nil, fmt.Errorf("reliability table: %w", err)
		}
	}

	cal, err := calibrate.NewCalibrator(cfg.Calibration.EscalationPatterns)
	if err != nil {
		return nil, fmt.Errorf("calibration: %w", err)
	}

	return &Analyzer{
		cfg:         cfg,
		judge:       opts.Judge,
		search:      opts.Search,
		fetcher:     opts.Fetcher,
		reliability: rel,
		calibrator:  cal,
		gates:       validate.NewGates(cfg.Gates),
		policy:      research.NewPolicy(cfg.Research),
		aggregator:  score.NewAggregator(cfg.Calibration.ClusterThreshold),
		logger:      opts.Logger,
	}, nil
}

// Analyze runs an analysis without progress reporting
func (a *Analyzer) Analyze(ctx context.Context, in model.Input) (*model.Result, error) {
	return a.Run(ctx, in, nil)
}

// Run analyzes one input. Provider and retrieval failures degrade the
// result instead of failing it; an error is returned only for empty input,
// an unreadable input URL or a canceled context.
func (a *Analyzer) Run(ctx context.Context, in model.Input, progress ProgressFunc) (*model.Result, error) {
	in.Text = strings.TrimSpace(in.Text)
	in.URL = strings.TrimSpace(in.URL)
	if in.Text == "" && in.URL == "" {
		return nil, ErrEmptyInput
	}
	if progress == nil {
		progress = func(string, int) {}
	}

	r := newRun(a, in, progress)
	r.logger.Info().Str("url", in.URL).Int("chars", len(in.Text)).Msg("analysis started")

	text, err := r.inputText(ctx)
	if err != nil {
		return nil, err
	}

	r.progress("Understanding input", 5)
	r.understand(ctx, text)

	r.progress("Researching evidence", 15)
	r.research(ctx)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis canceled: %w", err)
	}

	r.progress("Refining scopes", 70)
	r.refineScopes(ctx)

	r.progress("Judging claims", 80)
	r.judgeClaims(ctx)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis canceled: %w", err)
	}

	res := r.result()
	r.progress("Done", 100)

	observability.AnalysisDuration.WithLabelValues(string(res.Verdict.Band)).Observe(time.Since(r.started).Seconds())
	observability.ResearchIterations.Observe(float64(res.Stats.Iterations))
	r.logger.Info().
		Str("band", string(res.Verdict.Band)).
		Float64("truth", res.Verdict.TruthPercentage).
		Int("facts", len(res.Facts)).
		Int("iterations", res.Stats.Iterations).
		Str("duration", res.Duration).
		Msg("analysis finished")

	return res, nil
}

// run is the request-local state of one analysis
type run struct {
	a        *Analyzer
	id       string
	input    model.Input
	started  time.Time
	logger   zerolog.Logger
	progress ProgressFunc

	state    *research.State
	sources  []model.Source
	seen     map[string]bool // Source URLs already attempted
	pageText []string        // Text of the current iteration's sources
	dedup    *extract.FactDeduplicator

	verdicts      []model.ClaimVerdict
	scopeVerdicts []model.ScopeVerdict
	overall       model.AnalysisVerdict

	searchLog []model.SearchLogEntry
	stats     model.Stats
}

func newRun(a *Analyzer, in model.Input, progress ProgressFunc) *run {
	id := uuid.NewString()
	return &run{
		a:        a,
		id:       id,
		input:    in,
		started:  time.Now(),
		logger:   a.logger.With().Str("run_id", id).Logger(),
		progress: progress,
		seen:     make(map[string]bool),
	}
}

// inputText returns the text to analyze, fetching it when the input is a URL
func (r *run) inputText(ctx context.Context) (string, error) {
	if r.input.Text != "" {
		return r.input.Text, nil
	}

	r.progress("Fetching input", 2)
	page, err := r.a.fetcher.Fetch(ctx, r.input.URL, r.a.cfg.HTTP.Timeout)
	if err != nil {
		return "", fmt.Errorf("fetch input: %w", err)
	}
	text := strings.TrimSpace(page.Text)
	if text == "" {
		return "", fmt.Errorf("%w: %s has no readable text", ErrEmptyInput, r.input.URL)
	}

	// The input page itself is never evidence for its own claims
	r.seen[page.URL] = true
	if page.FinalURL != "" {
		r.seen[page.FinalURL] = true
	}
	if page.Title != "" {
		text = page.Title + "\n\n" + text
	}
	return text, nil
}

func (r *run) repair(notes ...string) {
	for _, n := range notes {
		r.logger.Debug().Str("repair", n).Msg("invariant repaired")
	}
	r.stats.Repairs = append(r.stats.Repairs, notes...)
}

func (r *run) result() *model.Result {
	s := r.state
	r.stats.InferenceCalls = r.a.judge.Calls()
	r.stats.DefaultedJudgments = countDefaulted(r.verdicts)
	r.stats.Searches = s.Searches
	r.stats.Facts = len(s.Facts)
	r.stats.Iterations = s.Iteration

	return &model.Result{
		RunID:         r.id,
		Input:         r.input,
		Thesis:        s.Thesis,
		StartedAt:     r.started.UTC(),
		Duration:      time.Since(r.started).Round(time.Millisecond).String(),
		Claims:        s.Claims,
		Scopes:        s.Scopes,
		Facts:         s.Facts,
		Sources:       r.sources,
		ClaimVerdicts: r.verdicts,
		ScopeVerdicts: r.scopeVerdicts,
		Verdict:       r.overall,
		SearchLog:     r.searchLog,
		Stats:         r.stats,
	}
}

func countDefaulted(verdicts []model.ClaimVerdict) int {
	n := 0
	for _, v := range verdicts {
		if v.Defaulted {
			n++
		}
	}
	return n
}
