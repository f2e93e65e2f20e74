// Package claims enforces the role, centrality and thesis-relevance rules on
// understood claims and keeps every evidenced scope covered by a claim.
package claims

import (
	"fmt"

	"github.com/ppiankov/evidentia/internal/model"
)

// NormalizeImportance fills defaults and enforces the importance invariants
// in place:
//
//   - missing relevance is direct, missing centrality is medium
//   - attribution, source and timing claims are at most medium
//   - a claim that is not directly relevant is low
//
// After it runs, centrality=high implies thesisRelevance=direct. It returns a
// note for every claim it changed beyond filling defaults.
func NormalizeImportance(claims []model.Claim) []string {
	var notes []string

	for i := range claims {
		c := &claims[i]

		if c.ThesisRelevance == "" || c.ThesisRelevance == model.RelevanceUnknown {
			c.ThesisRelevance = model.RelevanceDirect
		}
		if c.Centrality == "" || c.Centrality == model.CentralityUnknown {
			c.Centrality = model.CentralityMedium
		}
		if c.Role == "" {
			c.Role = model.RoleUnknown
		}
		if c.Kind == "" {
			c.Kind = model.KindUnknown
		}
		if c.CheckWorthiness == "" || c.CheckWorthiness == model.WorthinessUnknown {
			c.CheckWorthiness = model.WorthinessMedium
		}
		c.Specificity = clampUnit(c.Specificity)

		if c.Centrality == model.CentralityHigh && isSupportingRole(c.Role) {
			notes = append(notes, fmt.Sprintf("claim %s: %s claim capped at medium centrality", c.ID, c.Role))
			c.Centrality = model.CentralityMedium
		}

		if c.ThesisRelevance != model.RelevanceDirect && c.Centrality != model.CentralityLow {
			notes = append(notes, fmt.Sprintf("claim %s: %s relevance forces low centrality", c.ID, c.ThesisRelevance))
			c.Centrality = model.CentralityLow
		}
	}

	return notes
}

func isSupportingRole(r model.ClaimRole) bool {
	switch r {
	case model.RoleAttribution, model.RoleSource, model.RoleTiming:
		return true
	}
	return false
}

// clampUnit reads values above 1 as percentages
func clampUnit(x float64) float64 {
	if x > 1 {
		x /= 100
	}
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
