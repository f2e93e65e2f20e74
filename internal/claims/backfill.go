package claims

import (
	"github.com/ppiankov/evidentia/internal/model"
)

// BackfillScopes returns claims extended so that every scope holding facts
// is covered by at least one claim. An uncovered scope receives a copy of
// the most important direct claim, marked Backfilled. The input slice is not
// modified.
func BackfillScopes(claims []model.Claim, facts []model.Fact, scopes []model.Scope) []model.Claim {
	anchor, ok := thesisAnchor(claims)
	if !ok {
		return claims
	}

	covered := make(map[string]bool)
	for _, c := range claims {
		covered[c.ScopeID] = true
	}
	evidenced := make(map[string]bool)
	for _, f := range facts {
		evidenced[f.ScopeID] = true
	}

	out := append([]model.Claim(nil), claims...)
	for _, s := range scopes {
		if covered[s.ID] || !evidenced[s.ID] {
			continue
		}
		c := anchor
		c.ID = anchor.ID + "@" + s.ID
		c.ScopeID = s.ID
		c.DependsOn = nil
		c.Backfilled = true
		out = append(out, c)
		covered[s.ID] = true
	}
	return out
}

// thesisAnchor picks the claim that best stands for the thesis: the first
// core claim of the highest centrality among directly relevant claims.
func thesisAnchor(claims []model.Claim) (model.Claim, bool) {
	rank := func(c model.Claim) int {
		r := int(c.Centrality.Multiplier()) * 2
		if c.Role == model.RoleCore {
			r++
		}
		return r
	}

	best, found := model.Claim{}, false
	for _, c := range claims {
		if c.ThesisRelevance != model.RelevanceDirect || c.Backfilled {
			continue
		}
		if !found || rank(c) > rank(best) {
			best, found = c, true
		}
	}
	return best, found
}
