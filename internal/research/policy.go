package research

import (
	"fmt"
	"strings"

	"github.com/ppiankov/evidentia/internal/model"
	"github.com/ppiankov/evidentia/internal/textsim"
)

// Focus names what a research iteration is looking for
type Focus string

const (
	FocusClaim         Focus = "claim"
	FocusScope         Focus = "scope"
	FocusFramework     Focus = "framework"
	FocusEvidence      Focus = "evidence"
	FocusContradiction Focus = "contradiction"
	FocusInverse       Focus = "inverse"
	FocusEntities      Focus = "entities"
	FocusGap           Focus = "gap"
)

// Decision is the outcome of one policy evaluation
type Decision struct {
	Complete bool
	Focus    Focus
	ScopeID  string
	ClaimID  string
	Queries  []string
	Category model.FactCategory // Category the search is meant to surface
	Reason   string
}

// Policy is the deterministic research decision function
type Policy struct {
	minFacts       int
	minCategories  int
	maxIterations  int
	maxGapSearches int
}

// NewPolicy builds a policy from research limits
func NewPolicy(cfg model.ResearchConfig) *Policy {
	p := &Policy{
		minFacts:       cfg.MinFacts,
		minCategories:  cfg.MinCategories,
		maxIterations:  cfg.MaxIterations,
		maxGapSearches: cfg.MaxGapSearches,
	}
	if p.maxIterations <= 0 {
		p.maxIterations = 10
	}
	return p
}

type rule func(*State) (Decision, bool)

// Decide returns the next search or completion. Rules are tried in priority
// order and the first match wins. A matched rule whose queries were all
// issued before is skipped, its flag already spent.
func (p *Policy) Decide(s *State) Decision {
	if s.Iteration >= p.maxIterations {
		return Decision{Complete: true, Reason: fmt.Sprintf("iteration cap %d reached", p.maxIterations)}
	}

	rules := []rule{
		p.untargetedCentralClaim,
		p.thinScope,
		p.missingFramework,
		p.missingEvidence,
		p.contradiction,
		p.inverse,
		p.entities,
		p.gap,
	}

	for _, r := range rules {
		d, ok := r(s)
		if !ok {
			continue
		}
		d.Queries = freshQueries(s, d.Queries)
		if len(d.Queries) == 0 {
			continue
		}
		return d
	}

	return Decision{Complete: true, Reason: "evidence requirements met"}
}

// (1) a central, directly relevant core claim with no evidence yet
func (p *Policy) untargetedCentralClaim(s *State) (Decision, bool) {
	for _, c := range s.Claims {
		if !c.IsCentral() || c.ThesisRelevance != model.RelevanceDirect || c.Role != model.RoleCore {
			continue
		}
		if s.TargetedClaims[c.ID] || s.FactsFor(c) > 0 {
			continue
		}
		s.TargetedClaims[c.ID] = true
		return Decision{
			Focus:    FocusClaim,
			ClaimID:  c.ID,
			ScopeID:  c.ScopeID,
			Queries:  claimQueries(c),
			Category: model.CategoryEvidence,
			Reason:   fmt.Sprintf("central claim %s has no evidence", c.ID),
		}, true
	}
	return Decision{}, false
}

// (2) a scope with fewer than two facts, while iterations <= 2 x scopes
func (p *Policy) thinScope(s *State) (Decision, bool) {
	if s.Iteration > 2*len(s.Scopes) {
		return Decision{}, false
	}
	for _, sc := range s.Scopes {
		if s.FactsInScope(sc.ID) >= 2 || s.ScopeSearches[sc.ID] >= 2 {
			continue
		}
		s.ScopeSearches[sc.ID]++
		return Decision{
			Focus:    FocusScope,
			ScopeID:  sc.ID,
			Queries:  scopeQueries(s.Thesis, sc),
			Category: model.CategoryEvidence,
			Reason:   fmt.Sprintf("scope %s has %d facts", sc.ID, s.FactsInScope(sc.ID)),
		}, true
	}
	return Decision{}, false
}

// (3) framework or standards evidence missing
func (p *Policy) missingFramework(s *State) (Decision, bool) {
	if !s.FrameworkRelevant || s.FrameworkSearched || s.HasCategory(model.CategoryFramework) {
		return Decision{}, false
	}
	s.FrameworkSearched = true
	kw := keywords(s.Thesis, 8)
	return Decision{
		Focus:    FocusFramework,
		Queries:  []string{kw + " law regulation", kw + " official standard criteria"},
		Category: model.CategoryFramework,
		Reason:   "no framework or standards evidence",
	}, true
}

// (4) no direct evidence in the first two iterations
func (p *Policy) missingEvidence(s *State) (Decision, bool) {
	if s.Iteration > 2 || s.EvidenceSearched || s.HasCategory(model.CategoryEvidence) {
		return Decision{}, false
	}
	s.EvidenceSearched = true
	kw := keywords(s.Thesis, 8)
	return Decision{
		Focus:    FocusEvidence,
		Queries:  []string{kw + " evidence", kw + " data study"},
		Category: model.CategoryEvidence,
		Reason:   "no evidence-category facts yet",
	}, true
}

// (5) one search for criticism and counter-evidence
func (p *Policy) contradiction(s *State) (Decision, bool) {
	if s.ContradictionSearched {
		return Decision{}, false
	}
	s.ContradictionSearched = true
	kw := keywords(s.Thesis, 8)
	return Decision{
		Focus:    FocusContradiction,
		Queries:  []string{kw + " criticism", kw + " disputed false"},
		Category: model.CategoryCriticism,
		Reason:   "contradiction search not yet run",
	}, true
}

// (6) one search for the inverse of a comparative thesis
func (p *Policy) inverse(s *State) (Decision, bool) {
	if !s.Comparative || s.InverseSearched {
		return Decision{}, false
	}
	s.InverseSearched = true
	inv := s.InverseClaim
	if inv == "" {
		inv = BuildInverse(s.Thesis)
	}
	if inv == "" {
		return Decision{}, false
	}
	s.InverseClaim = inv
	return Decision{
		Focus:    FocusInverse,
		Queries:  []string{inv},
		Category: model.CategoryEvidence,
		Reason:   "comparative claim needs its inverse checked",
	}, true
}

// (7) one search on named decision makers and conflicts of interest
func (p *Policy) entities(s *State) (Decision, bool) {
	if len(s.Entities) == 0 || s.EntitiesSearched {
		return Decision{}, false
	}
	s.EntitiesSearched = true
	kw := keywords(s.Thesis, 5)
	var queries []string
	for i, e := range s.Entities {
		if i >= 2 {
			break
		}
		queries = append(queries, e+" conflict of interest", e+" "+kw)
	}
	return Decision{
		Focus:    FocusEntities,
		Queries:  queries,
		Category: model.CategoryEvent,
		Reason:   "decision makers not yet researched",
	}, true
}

// Unmet lists the completion requirements the state does not satisfy
func (p *Policy) Unmet(s *State) []string {
	var unmet []string
	if len(s.Facts) < p.minFacts {
		unmet = append(unmet, fmt.Sprintf("facts %d < %d", len(s.Facts), p.minFacts))
	}
	if n := model.CountCategories(s.Facts); n < p.minCategories {
		unmet = append(unmet, fmt.Sprintf("categories %d < %d", n, p.minCategories))
	}
	for _, sc := range s.Scopes {
		if s.FactsInScope(sc.ID) == 0 {
			unmet = append(unmet, "scope "+sc.ID+" has no facts")
		}
	}
	if s.Comparative && !s.InverseSearched {
		unmet = append(unmet, "inverse claim not searched")
	}
	return unmet
}

// (8) bounded gap searches for unmet completion requirements
func (p *Policy) gap(s *State) (Decision, bool) {
	unmet := p.Unmet(s)
	if len(unmet) == 0 || s.GapSearches >= p.maxGapSearches {
		return Decision{}, false
	}
	s.GapSearches++

	for _, sc := range s.Scopes {
		if s.FactsInScope(sc.ID) == 0 {
			return Decision{
				Focus:    FocusGap,
				ScopeID:  sc.ID,
				Queries:  gapQueries(s.Thesis, sc.Name, s.GapSearches),
				Category: model.CategoryEvidence,
				Reason:   strings.Join(unmet, "; "),
			}, true
		}
	}
	return Decision{
		Focus:    FocusGap,
		Queries:  gapQueries(s.Thesis, "", s.GapSearches),
		Category: model.CategoryStatistic,
		Reason:   strings.Join(unmet, "; "),
	}, true
}

func claimQueries(c model.Claim) []string {
	q := []string{truncateWords(c.Text, 16)}
	if len(c.KeyEntities) > 0 {
		q = append(q, strings.Join(c.KeyEntities, " ")+" "+keywords(c.Text, 6))
	}
	return q
}

func scopeQueries(thesis string, sc model.Scope) []string {
	parts := []string{sc.Name}
	if sc.Metadata.Institution != "" {
		parts = append(parts, sc.Metadata.Institution)
	}
	if sc.Metadata.Timeframe != "" {
		parts = append(parts, sc.Metadata.Timeframe)
	}
	return []string{
		strings.Join(parts, " "),
		sc.Name + " " + keywords(thesis, 5),
	}
}

func gapQueries(thesis, scopeName string, round int) []string {
	suffix := []string{"facts figures", "official report", "analysis sources"}[(round-1)%3]
	base := keywords(thesis, 8)
	if scopeName != "" {
		base = scopeName + " " + keywords(thesis, 4)
	}
	return []string{base + " " + suffix}
}

// keywords keeps the first n content tokens of text
func keywords(text string, n int) string {
	tokens := textsim.Tokenize(text)
	if len(tokens) > n {
		tokens = tokens[:n]
	}
	return strings.Join(tokens, " ")
}

func truncateWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

// freshQueries drops blank queries and queries already issued
func freshQueries(s *State, queries []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, q := range queries {
		q = strings.TrimSpace(q)
		k := queryKey(q)
		if q == "" || seen[k] || s.Issued(q) {
			continue
		}
		seen[k] = true
		out = append(out, q)
	}
	return out
}
