package model

import "time"

// Input is what the caller asks to analyze. Exactly one of Text or URL is set.
type Input struct {
	Text string `json:"text,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Result is the complete output of one analysis run
type Result struct {
	RunID     string    `json:"run_id"`
	Input     Input     `json:"input"`
	Thesis    string    `json:"thesis"`
	StartedAt time.Time `json:"started_at"`
	Duration  string    `json:"duration"`

	Claims        []Claim         `json:"claims"`
	Scopes        []Scope         `json:"scopes"`
	Facts         []Fact          `json:"facts"`
	Sources       []Source        `json:"sources"`
	ClaimVerdicts []ClaimVerdict  `json:"claim_verdicts"`
	ScopeVerdicts []ScopeVerdict  `json:"scope_verdicts"`
	Verdict       AnalysisVerdict `json:"verdict"`

	SearchLog []SearchLogEntry `json:"search_log"`
	Stats     Stats            `json:"stats"`
}

// SearchLogEntry records one issued query
type SearchLogEntry struct {
	Iteration int    `json:"iteration"`
	Focus     string `json:"focus"`
	ScopeID   string `json:"scope_id,omitempty"`
	Query     string `json:"query"`
	Provider  string `json:"provider,omitempty"`
	Results   int    `json:"results"`
	Error     string `json:"error,omitempty"`
}

// Stats summarizes the work a run performed
type Stats struct {
	InferenceCalls     int `json:"inference_calls"`
	DefaultedJudgments int `json:"defaulted_judgments"`
	Searches           int `json:"searches"`
	SourcesFetched     int `json:"sources_fetched"`
	SourcesFailed      int `json:"sources_failed"`
	Facts              int `json:"facts"`
	FactsDropped       int `json:"facts_dropped"` // Near-duplicates rejected
	Iterations         int `json:"iterations"`

	Gate1 Gate1Stats `json:"gate1"`
	Gate4 Gate4Stats `json:"gate4"`

	// Invariant violations that were repaired rather than surfaced
	Repairs []string `json:"repairs,omitempty"`
}

// Gate1Stats counts claim admission outcomes
type Gate1Stats struct {
	Passed      int `json:"passed"`
	Failed      int `json:"failed"`
	CentralKept int `json:"central_kept"`
}

// Gate4Stats counts verdict tiers
type Gate4Stats struct {
	High         int `json:"high"`
	Medium       int `json:"medium"`
	Low          int `json:"low"`
	Insufficient int `json:"insufficient"`
}

// Passed reports whether every verdict cleared Gate-4
func (g Gate4Stats) Passed() bool {
	return g.Insufficient == 0
}
