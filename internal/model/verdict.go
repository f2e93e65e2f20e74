package model

// Band is one of the seven ordered truth labels
type Band string

const (
	BandTrue         Band = "TRUE"
	BandMostlyTrue   Band = "MOSTLY-TRUE"
	BandLeaningTrue  Band = "LEANING-TRUE"
	BandMixed        Band = "MIXED"
	BandUnverified   Band = "UNVERIFIED"
	BandLeaningFalse Band = "LEANING-FALSE"
	BandMostlyFalse  Band = "MOSTLY-FALSE"
	BandFalse        Band = "FALSE"
)

// Rank orders bands from FALSE (0) to TRUE (6). MIXED and UNVERIFIED share
// the middle rank; they differ in confidence, not in truth.
func (b Band) Rank() int {
	switch b {
	case BandTrue:
		return 6
	case BandMostlyTrue:
		return 5
	case BandLeaningTrue:
		return 4
	case BandMixed, BandUnverified:
		return 3
	case BandLeaningFalse:
		return 2
	case BandMostlyFalse:
		return 1
	default:
		return 0
	}
}

// Tier is the Gate-4 publishability grade of a verdict
type Tier string

const (
	TierHigh         Tier = "HIGH"
	TierMedium       Tier = "MEDIUM"
	TierLow          Tier = "LOW"
	TierInsufficient Tier = "INSUFFICIENT"
)

// ClaimJudgment is the decoded raw verdict for one claim before calibration
type ClaimJudgment struct {
	ClaimID    string           `json:"claim_id"`
	Label      QualitativeLabel `json:"label"`
	Score      *float64         `json:"score,omitempty"` // Numeric truth estimate, percent or fraction
	Confidence float64          `json:"confidence"`      // Percent or fraction
	Reasoning  string           `json:"reasoning"`

	SupportingFactIDs []string `json:"supporting_fact_ids,omitempty"`
	OpposingFactIDs   []string `json:"opposing_fact_ids,omitempty"`

	// The provider saw evidence against the claim even if its label is positive
	CounterEvidence bool `json:"counter_evidence,omitempty"`

	Defaulted bool `json:"defaulted,omitempty"` // Produced by the conservative fallback
}

// ClaimVerdict is the calibrated, propagated and weighted verdict for one claim
type ClaimVerdict struct {
	ClaimID         string          `json:"claim_id"`
	ClaimText       string          `json:"claim_text"`
	ScopeID         string          `json:"scope_id,omitempty"`
	Centrality      Centrality      `json:"centrality"`
	ThesisRelevance ThesisRelevance `json:"thesis_relevance"`

	RawScore        float64 `json:"raw_score"`
	RawConfidence   float64 `json:"raw_confidence"`
	TruthPercentage float64 `json:"truth_percentage"`
	Confidence      float64 `json:"confidence"`
	Band            Band    `json:"band"`

	DependencyFailed   bool     `json:"dependency_failed"`
	FailedDependencies []string `json:"failed_dependencies,omitempty"`
	EvidenceWeight     float64  `json:"evidence_weight"`

	Reasoning         string   `json:"reasoning"`
	SupportingFactIDs []string `json:"supporting_fact_ids,omitempty"`
	OpposingFactIDs   []string `json:"opposing_fact_ids,omitempty"`

	Tier        Tier `json:"tier,omitempty"`
	Publishable bool `json:"publishable"`
	Defaulted   bool `json:"defaulted,omitempty"`
}

// Counted reports whether the verdict participates in aggregation
func (v ClaimVerdict) Counted() bool {
	return v.ThesisRelevance == RelevanceDirect && !v.DependencyFailed
}

// ScopeVerdict aggregates the claim verdicts of one scope
type ScopeVerdict struct {
	ScopeID         string  `json:"scope_id"`
	Name            string  `json:"name"`
	TruthPercentage float64 `json:"truth_percentage"`
	Confidence      float64 `json:"confidence"`
	Band            Band    `json:"band"`
	ClaimCount      int     `json:"claim_count"`
	CountedClaims   int     `json:"counted_claims"`
}

// AnalysisVerdict is the overall verdict on the thesis
type AnalysisVerdict struct {
	TruthPercentage float64 `json:"truth_percentage"`
	Confidence      float64 `json:"confidence"`
	Band            Band    `json:"band"`
	CountedClaims   int     `json:"counted_claims"`
	Summary         string  `json:"summary,omitempty"`
}
