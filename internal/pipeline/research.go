package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/evidentia/internal/claims"
	"github.com/ppiankov/evidentia/internal/extract"
	"github.com/ppiankov/evidentia/internal/judge"
	"github.com/ppiankov/evidentia/internal/model"
	"github.com/ppiankov/evidentia/internal/observability"
	"github.com/ppiankov/evidentia/internal/research"
	"github.com/ppiankov/evidentia/internal/retrieval"
	"github.com/ppiankov/evidentia/internal/scope"
	"github.com/ppiankov/evidentia/internal/validate"
)

// understand builds the initial research state: claims pass the importance
// rules and Gate-1, scopes are canonicalized and deduplicated. Scopes are not
// pruned here; research may still fill the ones no claim names.
func (r *run) understand(ctx context.Context, text string) {
	u := r.a.judge.Understand(ctx, text)

	r.repair(claims.NormalizeImportance(u.Claims)...)

	admitted, g1 := r.a.gates.AdmitClaims(u.Claims)
	r.stats.Gate1 = g1
	u.Claims = admitted
	if g1.Failed > 0 || g1.CentralKept > 0 {
		r.logger.Info().Int("passed", g1.Passed).Int("failed", g1.Failed).Int("central_kept", g1.CentralKept).Msg("gate-1 applied")
	}

	out := scope.Consolidate(u.Scopes, u.Claims, nil, r.a.cfg.Scope.DedupThreshold, scope.TakeSnapshot(u.Claims, nil))
	u.Scopes = out.Scopes
	r.noteNormalize(out)

	r.state = research.NewState(u)
	r.logger.Info().
		Str("thesis", u.Thesis).
		Int("claims", len(u.Claims)).
		Int("scopes", len(u.Scopes)).
		Msg("input understood")
}

func (r *run) noteNormalize(out scope.Outcome) {
	if len(out.Remap) > 0 || out.Repairs.Total() > 0 {
		r.logger.Debug().
			Strs("remapped", out.Remap.Keys()).
			Int("references_repaired", out.Repairs.Total()).
			Msg("scopes normalized")
	}
	r.repair(out.Repairs.Notes...)
	for _, id := range out.Pruned {
		r.repair(fmt.Sprintf("scope %s pruned: no claim or fact references it", id))
	}
}

// research runs iterations until the policy reports completion
func (r *run) research(ctx context.Context) {
	maxIter := max(r.a.cfg.Research.MaxIterations, 1)

	for ctx.Err() == nil {
		d := r.a.policy.Decide(r.state)
		if d.Complete {
			r.logger.Info().Str("reason", d.Reason).Int("iterations", r.state.Iteration).Msg("research complete")
			if unmet := r.a.policy.Unmet(r.state); len(unmet) > 0 {
				r.logger.Warn().Strs("unmet", unmet).Msg("research ended with unmet requirements")
			}
			return
		}

		r.iterate(ctx, d)
		r.progress(fmt.Sprintf("Research iteration %d: %s", r.state.Iteration, d.Focus),
			15+55*min(r.state.Iteration, maxIter)/maxIter)
	}
}

type candidate struct {
	result retrieval.SearchResult
	query  string
}

type fetched struct {
	page *retrieval.Page
	err  error
}

// iterate runs one research iteration. Searching, fetching and extraction
// each fan out and are joined before the sequential merge; only the merge
// touches run state.
func (r *run) iterate(ctx context.Context, d research.Decision) {
	s := r.state
	iteration := s.Iteration + 1
	log := r.logger.With().Int("iteration", iteration).Str("focus", string(d.Focus)).Logger()

	var queries []string
	for _, q := range d.Queries {
		if !s.Issued(q) {
			queries = append(queries, q)
		}
		s.MarkIssued(q)
	}
	log.Debug().Strs("queries", queries).Str("reason", d.Reason).Msg("research decision")

	candidates := r.searchAll(ctx, d, queries, iteration)
	pages := r.fetchAll(ctx, candidates)
	first := len(r.sources)
	r.mergeSources(candidates, pages, iteration)

	extracted := r.extractAll(ctx, r.sources[first:])
	accepted, dropped := r.mergeFacts(extracted, iteration)

	s.Iteration = iteration
	s.InferenceCalls = r.a.judge.Calls()

	log.Info().
		Int("queries", len(queries)).
		Int("sources", len(candidates)).
		Int("facts_accepted", accepted).
		Int("facts_dropped", dropped).
		Int("facts_total", len(s.Facts)).
		Msg("iteration merged")
}

// searchAll issues the queries concurrently and returns new candidate URLs,
// capped at the per-iteration source limit
func (r *run) searchAll(ctx context.Context, d research.Decision, queries []string, iteration int) []candidate {
	cfg := r.a.cfg

	type searched struct {
		results  []retrieval.SearchResult
		provider string
		err      error
	}
	out := make([]searched, len(queries))

	g := new(errgroup.Group)
	g.SetLimit(concurrency(cfg.Research.Concurrency))
	for i, q := range queries {
		g.Go(func() error {
			res, provider, err := r.a.search.Search(ctx, retrieval.Query{
				Text:            q,
				MaxResults:      cfg.Search.MaxResults,
				DateRestrict:    cfg.Search.DateRestrict,
				DomainWhitelist: cfg.Search.DomainWhitelist,
			})
			out[i] = searched{results: res, provider: provider, err: err}
			return nil
		})
	}
	_ = g.Wait()

	limit := cfg.Research.MaxSourcesPerIteration
	if limit <= 0 {
		limit = model.DefaultConfig().Research.MaxSourcesPerIteration
	}

	var candidates []candidate
	for i, q := range queries {
		entry := model.SearchLogEntry{
			Iteration: iteration,
			Focus:     string(d.Focus),
			ScopeID:   d.ScopeID,
			Query:     q,
			Provider:  out[i].provider,
			Results:   len(out[i].results),
		}
		if err := out[i].err; err != nil {
			entry.Error = err.Error()
			r.logger.Warn().Err(err).Str("query", q).Msg("search failed")
		}
		r.searchLog = append(r.searchLog, entry)
		r.state.Searches++

		for _, res := range out[i].results {
			if len(candidates) >= limit {
				break
			}
			if res.URL == "" || r.seen[res.URL] {
				continue
			}
			r.seen[res.URL] = true
			candidates = append(candidates, candidate{result: res, query: q})
		}
	}
	return candidates
}

func (r *run) fetchAll(ctx context.Context, candidates []candidate) []fetched {
	out := make([]fetched, len(candidates))

	g := new(errgroup.Group)
	g.SetLimit(concurrency(r.a.cfg.Research.Concurrency))
	for i, c := range candidates {
		g.Go(func() error {
			page, err := r.a.fetcher.Fetch(ctx, c.result.URL, r.a.cfg.HTTP.Timeout)
			out[i] = fetched{page: page, err: err}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// mergeSources records every attempted source, failed fetches included
func (r *run) mergeSources(candidates []candidate, pages []fetched, iteration int) {
	first := len(r.sources)

	for i, c := range candidates {
		src := model.Source{
			ID:          fmt.Sprintf("SRC%d", len(r.sources)+1),
			URL:         c.result.URL,
			Title:       c.result.Title,
			Domain:      validate.HostOf(c.result.URL),
			PublishedAt: c.result.PublishedAt,
			Query:       c.query,
			Iteration:   iteration,
		}

		if err := pages[i].err; err != nil {
			src.Error = err.Error()
			r.stats.SourcesFailed++
			r.logger.Debug().Err(err).Str("url", src.URL).Msg("source fetch failed")
		} else {
			p := pages[i].page
			src.Fetched = true
			src.TextLength = len(p.Text)
			if p.Title != "" {
				src.Title = p.Title
			}
			if p.PublishedAt != nil {
				src.PublishedAt = p.PublishedAt
			}
			r.stats.SourcesFetched++
		}
		r.sources = append(r.sources, src)
	}

	r.a.reliability.Annotate(r.sources[first:])

	// Page text is kept out of the result; extraction reads it from here
	r.pageText = r.pageText[:0]
	for i := range candidates {
		if pages[i].err == nil {
			r.pageText = append(r.pageText, pages[i].page.Text)
		} else {
			r.pageText = append(r.pageText, "")
		}
	}
}

// extractAll runs one extraction call per fetched source
func (r *run) extractAll(ctx context.Context, sources []model.Source) [][]model.Fact {
	cfg := r.a.cfg.Research
	s := r.state
	out := make([][]model.Fact, len(sources))

	g := new(errgroup.Group)
	g.SetLimit(concurrency(cfg.Concurrency))
	for i, src := range sources {
		if !src.Fetched || r.pageText[i] == "" {
			continue
		}
		req := judge.FactRequest{
			Thesis:   s.Thesis,
			Claims:   s.Claims,
			Scopes:   s.Scopes,
			Source:   src,
			Text:     extract.Truncate(r.pageText[i], cfg.MaxSourceChars),
			MaxFacts: cfg.MaxFactsPerSource,
		}
		g.Go(func() error {
			out[i] = r.a.judge.ExtractFacts(ctx, req)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// mergeFacts accepts new facts in source order. Every fact is deduplicated
// against all facts accepted before it in the run.
func (r *run) mergeFacts(extracted [][]model.Fact, iteration int) (accepted, dropped int) {
	s := r.state
	if r.dedup == nil {
		r.dedup = extract.NewFactDeduplicator(r.a.cfg.Research.FactSimilarity, s.Facts)
	}

	scopeIDs := make(map[string]bool, len(s.Scopes))
	for _, sc := range s.Scopes {
		scopeIDs[sc.ID] = true
	}

	for _, facts := range extracted {
		for _, f := range facts {
			f.Text = extract.CleanFactText(f.Text)
			if !r.dedup.Accept(f) {
				dropped++
				observability.Facts.WithLabelValues("duplicate").Inc()
				continue
			}
			if f.ScopeID != "" && !scopeIDs[f.ScopeID] {
				r.logger.Debug().Str("scope_id", f.ScopeID).Msg("fact names unknown scope; left unscoped")
				f.ScopeID = ""
			}
			if f.ScopeID == "" && len(s.Scopes) == 1 {
				f.ScopeID = s.Scopes[0].ID
			}
			f.ID = fmt.Sprintf("F%d", len(s.Facts)+1)
			f.Iteration = iteration
			s.Facts = append(s.Facts, f)
			accepted++
			observability.Facts.WithLabelValues("accepted").Inc()
		}
	}

	r.stats.FactsDropped += dropped
	return accepted, dropped
}

func concurrency(n int) int {
	if n <= 0 {
		return model.DefaultConfig().Research.Concurrency
	}
	return n
}
