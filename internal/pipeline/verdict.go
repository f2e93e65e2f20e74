package pipeline

import (
	"context"

	"github.com/ppiankov/evidentia/internal/claims"
	"github.com/ppiankov/evidentia/internal/judge"
	"github.com/ppiankov/evidentia/internal/model"
	"github.com/ppiankov/evidentia/internal/scope"
	"github.com/ppiankov/evidentia/internal/score"
)

// refineScopes lets the evidence re-partition the scopes, then normalizes
// the final scope set and backfills claims for evidenced scopes
func (r *run) refineScopes(ctx context.Context) {
	s := r.state
	threshold := r.a.cfg.Scope.DedupThreshold
	scopes := s.Scopes

	if len(s.Facts) >= r.a.cfg.Scope.MinFactsForRefinement {
		if ref, ok := r.a.judge.RefineScopes(ctx, s.Thesis, s.Claims, s.Facts, s.Scopes); ok {
			if accepted, reason := scope.AcceptSplit(ref.Scopes); accepted {
				prior := scope.TakeSnapshot(s.Claims, s.Facts)
				assign(s.Claims, s.Facts, ref)
				out := scope.Normalize(ref.Scopes, s.Claims, s.Facts, threshold, prior)
				r.noteNormalize(out)
				scopes = out.Scopes
				r.logger.Info().Int("scopes", len(scopes)).Msg("scope refinement accepted")
			} else {
				r.logger.Info().Str("reason", reason).Msg("scope refinement rejected")
			}
		}
	}

	// Final pass guarantees coverage and at least one scope
	out := scope.Normalize(scopes, s.Claims, s.Facts, threshold, scope.TakeSnapshot(s.Claims, s.Facts))
	r.noteNormalize(out)
	s.Scopes = out.Scopes

	before := len(s.Claims)
	s.Claims = claims.BackfillScopes(s.Claims, s.Facts, s.Scopes)
	if n := len(s.Claims) - before; n > 0 {
		r.logger.Info().Int("backfilled", n).Msg("claims backfilled for uncovered scopes")
	}
}

// assign applies a refinement's claim and fact assignments in place
func assign(cs []model.Claim, facts []model.Fact, ref judge.Refinement) {
	for i := range cs {
		if id, ok := ref.ClaimAssignments[cs[i].ID]; ok && id != "" {
			cs[i].ScopeID = id
		}
	}
	for i := range facts {
		if id, ok := ref.FactAssignments[facts[i].ID]; ok && id != "" {
			facts[i].ScopeID = id
		}
	}
}

// judgeClaims turns judgments into final verdicts. Each verdict is mutated
// in a fixed order: calibration, dependency propagation, evidence weighting
// and the Gate-4 tier. Aggregation reads the finished verdicts.
func (r *run) judgeClaims(ctx context.Context) {
	s := r.state
	judgments := r.a.judge.Verdicts(ctx, s.Thesis, s.Claims, s.Facts)

	verdicts := make([]model.ClaimVerdict, len(s.Claims))
	for i, c := range s.Claims {
		j := judge.DefaultJudgment(c.ID)
		if i < len(judgments) && judgments[i].ClaimID == c.ID {
			j = judgments[i]
		}
		cal := r.a.calibrator.Calibrate(j, c.Text)
		if cal.Escalated {
			r.logger.Info().Str("claim_id", c.ID).Msg("verdict escalated on counter-evidence")
		}
		verdicts[i] = model.ClaimVerdict{
			ClaimID:           c.ID,
			ClaimText:         c.Text,
			ScopeID:           c.ScopeID,
			Centrality:        c.Centrality,
			ThesisRelevance:   c.ThesisRelevance,
			RawScore:          cal.RawScore,
			RawConfidence:     cal.RawConfidence,
			TruthPercentage:   cal.TruthPercentage,
			Confidence:        cal.Confidence,
			Band:              cal.Band,
			EvidenceWeight:    1,
			Reasoning:         j.Reasoning,
			SupportingFactIDs: j.SupportingFactIDs,
			OpposingFactIDs:   j.OpposingFactIDs,
			Defaulted:         j.Defaulted,
		}
	}

	r.repair(score.Propagate(s.Claims, verdicts, r.a.cfg.Calibration.DependencyThreshold)...)

	byID := make(map[string]model.Source, len(r.sources))
	for _, src := range r.sources {
		byID[src.ID] = src
	}
	profiles := make([]score.EvidenceProfile, len(verdicts))
	for i := range verdicts {
		facts := score.FactsFor(verdicts[i], s.Claims[i], s.Facts)
		profiles[i] = score.Profile(facts, byID)
		score.ApplyEvidenceWeighting(&verdicts[i], profiles[i])
	}

	r.stats.Gate4 = r.a.gates.Publish(verdicts, profiles)

	r.verdicts = verdicts
	r.scopeVerdicts = r.a.aggregator.ScopeVerdicts(s.Scopes, verdicts)
	r.overall = r.a.aggregator.Overall(verdicts)
}
