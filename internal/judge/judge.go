// Package judge runs the structured judgments of an analysis through the
// inference provider: understanding the input, extracting facts from a
// source, refining scopes and judging claims. Every operation degrades to a
// conservative default instead of failing the run.
package judge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/ppiankov/evidentia/internal/llm"
	"github.com/ppiankov/evidentia/internal/model"
)

// DefaultReasoning explains a judgment produced without a usable reply
const DefaultReasoning = "No usable judgment from the inference provider; left unverified."

// Judge wraps an inference provider with validation, one strict retry and
// conservative fallbacks
type Judge struct {
	provider llm.Provider
	timeout  time.Duration
	logger   zerolog.Logger

	calls     atomic.Int64
	defaulted atomic.Int64
}

// New creates a judge. timeout bounds each inference call; zero means none.
func New(provider llm.Provider, timeout time.Duration, logger zerolog.Logger) *Judge {
	return &Judge{provider: provider, timeout: timeout, logger: logger}
}

// Calls returns the number of inference calls made, retries included
func (j *Judge) Calls() int { return int(j.calls.Load()) }

// Defaulted returns the number of operations that fell back to a default
func (j *Judge) Defaulted() int { return int(j.defaulted.Load()) }

type promptFunc func(l promptLimits) string

// infer runs one operation: a normal attempt, then a strict attempt with a
// smaller prompt. Each attempt decodes into a fresh T and validates it.
func infer[T any](ctx context.Context, j *Judge, op, system, schema string, prompt promptFunc) (T, error) {
	var errs []error
	for attempt, strict := range []bool{false, true} {
		sys := system
		if strict {
			sys += strictSuffix
		}
		req := llm.Request{System: sys, Prompt: prompt(limitsFor(strict)), Schema: schema}

		var out T
		err := j.inferOnce(ctx, req, &out)
		if err == nil {
			return out, nil
		}
		errs = append(errs, err)
		j.logger.Warn().Err(err).Str("operation", op).Int("attempt", attempt+1).Msg("judgment attempt failed")

		if ctx.Err() != nil {
			break
		}
	}
	var zero T
	return zero, fmt.Errorf("%s: %w", op, errors.Join(errs...))
}

func (j *Judge) inferOnce(ctx context.Context, req llm.Request, out any) error {
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	j.calls.Add(1)
	if _, err := llm.InferJSON(ctx, j.provider, req, out); err != nil {
		return err
	}
	if err := validate.Struct(out); err != nil {
		return fmt.Errorf("%w: %v", llm.ErrSchemaMismatch, err)
	}
	return nil
}

// Understand reads the input into a thesis, claims and initial scopes. When
// no usable reply arrives the whole input becomes a single central claim.
func (j *Judge) Understand(ctx context.Context, text string) model.Understanding {
	w, err := infer[understandingWire](ctx, j, "understand", understandSystem, understandSchema,
		func(l promptLimits) string { return understandPrompt(text, l) })
	if err != nil {
		j.defaulted.Add(1)
		return DefaultUnderstanding(text)
	}

	u := model.Understanding{
		Thesis:            strings.TrimSpace(w.Thesis),
		Entities:          w.Entities,
		FrameworkRelevant: w.FrameworkRelevant,
		Comparative:       w.Comparative,
		InverseClaim:      strings.TrimSpace(w.InverseClaim),
		SuggestedQueries:  w.SuggestedQueries,
	}

	seen := make(map[string]bool, len(w.Claims))
	for _, c := range w.Claims {
		if seen[c.ID] {
			j.logger.Debug().Str("claim_id", c.ID).Msg("dropping claim with duplicate id")
			continue
		}
		seen[c.ID] = true
		u.Claims = append(u.Claims, c.model())
	}
	for _, s := range w.Scopes {
		u.Scopes = append(u.Scopes, s.model())
	}
	return u
}

// DefaultUnderstanding treats the whole input as one central factual claim
func DefaultUnderstanding(text string) model.Understanding {
	thesis := clip(firstSentence(text), 400)
	return model.Understanding{
		Thesis: thesis,
		Claims: []model.Claim{{
			ID:              "C1",
			Text:            thesis,
			Role:            model.RoleCore,
			Centrality:      model.CentralityHigh,
			ThesisRelevance: model.RelevanceDirect,
			Kind:            model.KindFactual,
			CheckWorthiness: model.WorthinessMedium,
		}},
	}
}

func firstSentence(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	for i, r := range text {
		if (r == '.' || r == '!' || r == '?') && i >= 20 {
			return text[:i+1]
		}
	}
	return text
}

// FactRequest is the input for extracting facts from one source
type FactRequest struct {
	Thesis   string
	Claims   []model.Claim
	Scopes   []model.Scope
	Source   model.Source
	Text     string
	MaxFacts int
}

// ExtractFacts pulls the facts bearing on the claims out of one fetched
// source. Facts come back without ids. A failed extraction yields no facts.
func (j *Judge) ExtractFacts(ctx context.Context, req FactRequest) []model.Fact {
	w, err := infer[factsWire](ctx, j, "extract_facts", factsSystem, factsSchema,
		func(l promptLimits) string { return factsPrompt(req, l) })
	if err != nil {
		j.defaulted.Add(1)
		return nil
	}

	claimIDs := make(map[string]bool, len(req.Claims))
	for _, c := range req.Claims {
		claimIDs[c.ID] = true
	}

	var facts []model.Fact
	for _, fw := range w.Facts {
		if err := validate.Struct(fw); err != nil {
			j.logger.Debug().Err(err).Str("source", req.Source.URL).Msg("dropping malformed fact")
			continue
		}

		// Unknown claim ids are dropped rather than trusted
		var links []string
		for _, id := range fw.ClaimIDs {
			if claimIDs[id] {
				links = append(links, id)
			}
		}

		facts = append(facts, model.Fact{
			Text:           fw.Text,
			Category:       orUnknownCategory(fw.Category),
			Directionality: orUnknownDirection(fw.Directionality),
			SourceID:       req.Source.ID,
			SourceURL:      req.Source.URL,
			ScopeID:        fw.ScopeID,
			EvidenceScope:  fw.EvidenceScope,
			ClaimIDs:       links,
		})
		if req.MaxFacts > 0 && len(facts) >= req.MaxFacts {
			break
		}
	}
	return facts
}

func orUnknownCategory(c model.FactCategory) model.FactCategory {
	if c == "" {
		return model.CategoryUnknown
	}
	return c
}

func orUnknownDirection(d model.Directionality) model.Directionality {
	if d == "" {
		return model.DirectionUnknown
	}
	return d
}

// Refinement is a proposed re-partition of scopes with the new assignment
// of claims and facts
type Refinement struct {
	Scopes           []model.Scope
	ClaimAssignments map[string]string
	FactAssignments  map[string]string
}

// RefineScopes asks for a scope partition that fits the accumulated
// evidence. ok is false when no usable proposal arrived.
func (j *Judge) RefineScopes(ctx context.Context, thesis string, claims []model.Claim, facts []model.Fact, scopes []model.Scope) (Refinement, bool) {
	w, err := infer[refinementWire](ctx, j, "refine_scopes", refineSystem, refineSchema,
		func(l promptLimits) string { return refinePrompt(thesis, claims, facts, scopes, l) })
	if err != nil {
		j.defaulted.Add(1)
		return Refinement{}, false
	}

	r := Refinement{ClaimAssignments: w.ClaimAssignments, FactAssignments: w.FactAssignments}
	for _, s := range w.Scopes {
		r.Scopes = append(r.Scopes, s.model())
	}
	return r, true
}

// Verdicts judges every claim against the evidence in one call. Claims the
// reply leaves out, and every claim when no usable reply arrives, receive
// the conservative default judgment. The result is in claim order.
func (j *Judge) Verdicts(ctx context.Context, thesis string, claims []model.Claim, facts []model.Fact) []model.ClaimJudgment {
	out := make([]model.ClaimJudgment, len(claims))
	if len(claims) == 0 {
		return out
	}

	w, err := infer[verdictsWire](ctx, j, "verdicts", verdictSystem, verdictSchema,
		func(l promptLimits) string { return verdictPrompt(thesis, claims, facts, l) })
	if err != nil {
		j.defaulted.Add(1)
	}

	byID := make(map[string]model.ClaimJudgment, len(w.Verdicts))
	for _, v := range w.Verdicts {
		if _, dup := byID[v.ClaimID]; !dup {
			byID[v.ClaimID] = v.model()
		}
	}

	for i, c := range claims {
		if jd, ok := byID[c.ID]; ok {
			out[i] = jd
			continue
		}
		if err == nil {
			j.logger.Warn().Str("claim_id", c.ID).Msg("no verdict returned for claim; defaulting")
		}
		out[i] = DefaultJudgment(c.ID)
	}
	return out
}

// DefaultJudgment is the neutral, zero-confidence judgment that calibrates to
// 50% UNVERIFIED
func DefaultJudgment(claimID string) model.ClaimJudgment {
	return model.ClaimJudgment{
		ClaimID:    claimID,
		Label:      model.LabelUncertain,
		Confidence: 0,
		Reasoning:  DefaultReasoning,
		Defaulted:  true,
	}
}
