package score

import (
	"github.com/ppiankov/evidentia/internal/calibrate"
	"github.com/ppiankov/evidentia/internal/model"
)

// EvidenceProfile summarizes the facts behind one verdict
type EvidenceProfile struct {
	Supporting int
	Opposing   int
	Neutral    int

	// Distinct source domains among directional facts
	IndependentSources int

	// Mean reliability of sources with a known score
	MeanReliability  float64
	ReliabilityKnown bool
}

// Directional returns the number of facts that take a side
func (p EvidenceProfile) Directional() int {
	return p.Supporting + p.Opposing
}

// Consensus is the share of directional facts on the majority side, or 0
// when no fact takes a side
func (p EvidenceProfile) Consensus() float64 {
	n := p.Directional()
	if n == 0 {
		return 0
	}
	return float64(max(p.Supporting, p.Opposing)) / float64(n)
}

// AgreementWith is the share of directional facts that agree with a verdict
// of the given truth percentage. Without directional evidence it is 1.
func (p EvidenceProfile) AgreementWith(truth float64) float64 {
	n := p.Directional()
	if n == 0 || truth == calibrate.Neutral {
		return 1
	}
	agree := p.Supporting
	if truth < calibrate.Neutral {
		agree = p.Opposing
	}
	return float64(agree) / float64(n)
}

// Profile builds the evidence profile of facts against their sources
func Profile(facts []model.Fact, sources map[string]model.Source) EvidenceProfile {
	var p EvidenceProfile
	domains := make(map[string]bool)
	counted := make(map[string]bool)
	var relSum float64
	var relN int

	for _, f := range facts {
		switch f.Directionality {
		case model.DirectionSupports:
			p.Supporting++
		case model.DirectionContradicts:
			p.Opposing++
		default:
			p.Neutral++
			continue
		}

		src, ok := sources[f.SourceID]
		if !ok {
			domains["source:"+f.SourceID] = true
			continue
		}
		key := src.Domain
		if key == "" {
			key = "source:" + src.ID
		}
		domains[key] = true

		if src.ReliabilityKnown() && !counted[src.ID] {
			counted[src.ID] = true
			relSum += *src.Reliability
			relN++
		}
	}

	p.IndependentSources = len(domains)
	if relN > 0 {
		p.MeanReliability = relSum / float64(relN)
		p.ReliabilityKnown = true
	}
	return p
}

// ApplyEvidenceWeighting pulls a verdict toward neutral in proportion to how
// much of its evidence disagrees with it and how unreliable its sources are:
//
//	weight = agreement * (0.5 + 0.5*meanReliability)
//	truth' = 50 + (truth-50) * weight
//
// Unknown reliability leaves the second factor at 1. The band is recomputed.
func ApplyEvidenceWeighting(v *model.ClaimVerdict, p EvidenceProfile) {
	weight := p.AgreementWith(v.TruthPercentage)
	if p.ReliabilityKnown {
		weight *= 0.5 + 0.5*p.MeanReliability
	}

	v.EvidenceWeight = weight
	v.TruthPercentage = calibrate.Neutral + (v.TruthPercentage-calibrate.Neutral)*weight
	v.Band = calibrate.MapToBand(v.TruthPercentage, v.Confidence)
}

// FactsFor selects the facts relevant to a verdict: those the judgment cited
// when it cited any, otherwise every fact bearing on the claim
func FactsFor(v model.ClaimVerdict, claim model.Claim, facts []model.Fact) []model.Fact {
	cited := make(map[string]model.Directionality, len(v.SupportingFactIDs)+len(v.OpposingFactIDs))
	for _, id := range v.SupportingFactIDs {
		cited[id] = model.DirectionSupports
	}
	for _, id := range v.OpposingFactIDs {
		cited[id] = model.DirectionContradicts
	}

	var out []model.Fact
	for _, f := range facts {
		if len(cited) > 0 {
			// The judgment's reading of a cited fact wins over extraction
			if dir, ok := cited[f.ID]; ok {
				f.Directionality = dir
				out = append(out, f)
			}
			continue
		}
		if f.BearsOn(claim) {
			out = append(out, f)
		}
	}
	return out
}
