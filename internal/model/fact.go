package model

// Fact is an evidence snippet extracted from one source
type Fact struct {
	ID             string         `json:"id"`
	Text           string         `json:"text"`
	Category       FactCategory   `json:"category"`
	SourceID       string         `json:"source_id"`
	SourceURL      string         `json:"source_url,omitempty"`
	ScopeID        string         `json:"scope_id,omitempty"`
	Directionality Directionality `json:"directionality"`
	EvidenceScope  EvidenceScope  `json:"evidence_scope"`
	ClaimIDs       []string       `json:"claim_ids,omitempty"` // Claims the fact bears on
	Iteration      int            `json:"iteration"`
}

// EvidenceScope describes the frame of the fact's source, not an analytical Scope
type EvidenceScope struct {
	Methodology string `json:"methodology,omitempty"`
	Boundaries  string `json:"boundaries,omitempty"`
	Geography   string `json:"geography,omitempty"`
	Temporal    string `json:"temporal,omitempty"`
}

// BearsOn reports whether the fact was extracted for the given claim. Facts
// without explicit claim links bear on every claim in their scope.
func (f Fact) BearsOn(claim Claim) bool {
	if len(f.ClaimIDs) == 0 {
		return f.ScopeID == "" || claim.ScopeID == "" || f.ScopeID == claim.ScopeID
	}
	for _, id := range f.ClaimIDs {
		if id == claim.ID {
			return true
		}
	}
	return false
}

// CountCategories returns the number of distinct known categories among facts
func CountCategories(facts []Fact) int {
	seen := make(map[FactCategory]bool)
	for _, f := range facts {
		if f.Category != CategoryUnknown && f.Category != "" {
			seen[f.Category] = true
		}
	}
	return len(seen)
}
