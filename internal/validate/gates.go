package validate

import (
	"fmt"
	"strings"

	"github.com/ppiankov/evidentia/internal/model"
	"github.com/ppiankov/evidentia/internal/score"
)

const manualReview = "Insufficient evidence; manual review recommended."

// Gates applies the claim admission and verdict publishability checks
type Gates struct {
	cfg model.GateConfig
}

// NewGates creates the quality gates, filling unset thresholds with defaults
func NewGates(cfg model.GateConfig) *Gates {
	def := model.DefaultConfig().Gates
	if cfg.MinSpecificity <= 0 {
		cfg.MinSpecificity = def.MinSpecificity
	}
	if cfg.MinIndependentSources <= 0 {
		cfg.MinIndependentSources = def.MinIndependentSources
	}
	if cfg.MinReliability <= 0 {
		cfg.MinReliability = def.MinReliability
	}
	if cfg.MinAgreement <= 0 {
		cfg.MinAgreement = def.MinAgreement
	}
	return &Gates{cfg: cfg}
}

// AdmitClaims is Gate-1. It drops claims that cannot be fact-checked.
// Central claims are never dropped; a failing central claim is kept and
// flagged with the reason it would have been rejected.
func (g *Gates) AdmitClaims(claims []model.Claim) ([]model.Claim, model.Gate1Stats) {
	var stats model.Gate1Stats
	kept := make([]model.Claim, 0, len(claims))

	for _, c := range claims {
		reason := g.rejectReason(c)
		switch {
		case reason == "":
			stats.Passed++
			kept = append(kept, c)
		case c.IsCentral():
			stats.CentralKept++
			c.GateFlagged = true
			c.GateReason = reason
			kept = append(kept, c)
		default:
			stats.Failed++
		}
	}

	return kept, stats
}

func (g *Gates) rejectReason(c model.Claim) string {
	var reasons []string
	switch c.Kind {
	case model.KindOpinion, model.KindPrediction:
		reasons = append(reasons, string(c.Kind))
	}
	// Zero specificity means the judgment did not report one
	if c.Specificity > 0 && c.Specificity < g.cfg.MinSpecificity {
		reasons = append(reasons, fmt.Sprintf("specificity %.2f below %.2f", c.Specificity, g.cfg.MinSpecificity))
	}
	if c.CheckWorthiness == model.WorthinessLow {
		reasons = append(reasons, "low check-worthiness")
	}
	if c.ThesisRelevance == model.RelevanceIrrelevant {
		reasons = append(reasons, "irrelevant to thesis")
	}
	return strings.Join(reasons, "; ")
}

// Classify is Gate-4 for a single verdict's evidence profile
func (g *Gates) Classify(p score.EvidenceProfile) model.Tier {
	if p.Directional() == 0 || p.IndependentSources < g.cfg.MinIndependentSources {
		return model.TierInsufficient
	}
	if p.ReliabilityKnown && p.MeanReliability < g.cfg.MinReliability {
		return model.TierInsufficient
	}
	if p.Consensus() < g.cfg.MinAgreement {
		return model.TierInsufficient
	}

	// Without any known reliability a verdict cannot rank above LOW
	if !p.ReliabilityKnown {
		return model.TierLow
	}

	switch {
	case p.IndependentSources >= 4 && p.MeanReliability >= 0.75 && p.Consensus() >= 0.8:
		return model.TierHigh
	case p.IndependentSources >= 3 && p.MeanReliability >= 0.65 && p.Consensus() >= 0.7:
		return model.TierMedium
	default:
		return model.TierLow
	}
}

// Publish is Gate-4. It tiers each verdict by the profile of its evidence.
// Insufficient verdicts get a manual review note; they stay publishable only
// when the claim is central.
func (g *Gates) Publish(verdicts []model.ClaimVerdict, profiles []score.EvidenceProfile) model.Gate4Stats {
	var stats model.Gate4Stats

	for i := range verdicts {
		v := &verdicts[i]
		var p score.EvidenceProfile
		if i < len(profiles) {
			p = profiles[i]
		}

		v.Tier = g.Classify(p)
		v.Publishable = true

		switch v.Tier {
		case model.TierHigh:
			stats.High++
		case model.TierMedium:
			stats.Medium++
		case model.TierLow:
			stats.Low++
		case model.TierInsufficient:
			stats.Insufficient++
			if !strings.Contains(v.Reasoning, manualReview) {
				v.Reasoning = strings.TrimSpace(v.Reasoning + " " + manualReview)
			}
			v.Publishable = v.Centrality == model.CentralityHigh
		}
	}

	return stats
}
