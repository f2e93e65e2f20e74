package model

// DefaultScopeID is the id of the synthesized catch-all scope
const DefaultScopeID = "SCP_GENERAL"

// Scope is a bounded analytical frame that claims and facts are partitioned into
type Scope struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Subject  string        `json:"subject,omitempty"`
	Status   ScopeStatus   `json:"status"`
	Metadata ScopeMetadata `json:"metadata"`

	Synthesized bool `json:"synthesized,omitempty"` // Created because nothing else survived pruning
}

// ScopeMetadata identifies what distinguishes one frame from another
type ScopeMetadata struct {
	// Primary identity
	Institution  string `json:"institution,omitempty"`
	Jurisdiction string `json:"jurisdiction,omitempty"`
	Methodology  string `json:"methodology,omitempty"`
	Boundaries   string `json:"boundaries,omitempty"`
	Standard     string `json:"standard,omitempty"`
	Regulator    string `json:"regulator,omitempty"`

	// Secondary context
	Geography string `json:"geography,omitempty"`
	Timeframe string `json:"timeframe,omitempty"`
}

// DefaultScope returns the catch-all scope used when no other scope survives
func DefaultScope() Scope {
	return Scope{
		ID:          DefaultScopeID,
		Name:        "General analysis",
		Status:      StatusUnknown,
		Synthesized: true,
	}
}
