package model

// Claim is a discrete, checkable assertion extracted from the input
type Claim struct {
	ID              string          `json:"id"`
	Text            string          `json:"text"`
	Role            ClaimRole       `json:"role"`
	DependsOn       []string        `json:"depends_on,omitempty"` // Prerequisite claim ids
	Centrality      Centrality      `json:"centrality"`
	ThesisRelevance ThesisRelevance `json:"thesis_relevance"`
	ScopeID         string          `json:"scope_id,omitempty"`

	Kind            ClaimKind       `json:"kind"`
	Specificity     float64         `json:"specificity"` // 0..1, how concrete and checkable
	CheckWorthiness CheckWorthiness `json:"check_worthiness"`
	KeyEntities     []string        `json:"key_entities,omitempty"`

	Backfilled  bool   `json:"backfilled,omitempty"`   // Copied into an otherwise claimless scope
	GateFlagged bool   `json:"gate_flagged,omitempty"` // Would have failed Gate-1 but is central
	GateReason  string `json:"gate_reason,omitempty"`
}

// IsCentral reports whether the claim is thesis-critical
func (c Claim) IsCentral() bool {
	return c.Centrality == CentralityHigh
}

// Understanding is the structured reading of the input before research starts
type Understanding struct {
	Thesis string  `json:"thesis"`
	Claims []Claim `json:"claims"`
	Scopes []Scope `json:"scopes"`

	// Named decision makers or parties with a potential conflict of interest
	Entities []string `json:"entities,omitempty"`

	// The thesis turns on a legal, regulatory or technical standard
	FrameworkRelevant bool `json:"framework_relevant"`

	// The thesis compares two things ("X is more efficient than Y")
	Comparative  bool   `json:"comparative"`
	InverseClaim string `json:"inverse_claim,omitempty"`

	SuggestedQueries []string `json:"suggested_queries,omitempty"`
}
