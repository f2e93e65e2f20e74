// Package research decides, one iteration at a time, which evidence to look
// for next and when the evidence is sufficient to stop.
package research

import (
	"strings"

	"github.com/ppiankov/evidentia/internal/model"
)

// State is the run-scoped research state. It is created at run start, mutated
// only by the merge phase of each iteration and discarded with the run.
type State struct {
	Thesis            string
	Claims            []model.Claim
	Scopes            []model.Scope
	Entities          []string
	FrameworkRelevant bool
	Comparative       bool
	InverseClaim      string

	Facts     []model.Fact
	Iteration int

	InferenceCalls int
	Searches       int

	issued map[string]bool

	// One-shot bookkeeping. Every decision sets its flag or bumps its counter
	// before returning, which bounds the number of non-complete decisions.
	TargetedClaims        map[string]bool
	ScopeSearches         map[string]int
	FrameworkSearched     bool
	EvidenceSearched      bool
	ContradictionSearched bool
	InverseSearched       bool
	EntitiesSearched      bool
	GapSearches           int
}

// NewState seeds research state from the understood input
func NewState(u model.Understanding) *State {
	return &State{
		Thesis:            u.Thesis,
		Claims:            u.Claims,
		Scopes:            u.Scopes,
		Entities:          u.Entities,
		FrameworkRelevant: u.FrameworkRelevant,
		Comparative:       u.Comparative || IsComparative(u.Thesis),
		InverseClaim:      u.InverseClaim,
		issued:            make(map[string]bool),
		TargetedClaims:    make(map[string]bool),
		ScopeSearches:     make(map[string]int),
	}
}

func queryKey(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}

// MarkIssued records a query as searched
func (s *State) MarkIssued(q string) {
	if s.issued == nil {
		s.issued = make(map[string]bool)
	}
	s.issued[queryKey(q)] = true
}

// Issued reports whether an equivalent query was already searched
func (s *State) Issued(q string) bool {
	return s.issued[queryKey(q)]
}

// FactsFor returns the number of facts bearing on a claim
func (s *State) FactsFor(c model.Claim) int {
	n := 0
	for _, f := range s.Facts {
		if f.BearsOn(c) {
			n++
		}
	}
	return n
}

// FactsInScope returns the number of facts assigned to a scope
func (s *State) FactsInScope(scopeID string) int {
	n := 0
	for _, f := range s.Facts {
		if f.ScopeID == scopeID {
			n++
		}
	}
	return n
}

// HasCategory reports whether any accepted fact has the category
func (s *State) HasCategory(cat model.FactCategory) bool {
	for _, f := range s.Facts {
		if f.Category == cat {
			return true
		}
	}
	return false
}
