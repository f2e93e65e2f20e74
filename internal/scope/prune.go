package scope

import (
	"github.com/ppiankov/evidentia/internal/model"
)

// PruneByCoverage drops scopes that no claim or fact references. It never
// returns an empty list: when nothing survives, a default scope is
// synthesized and every claim and fact is attached to it. When exactly one
// scope survives, unscoped claims and facts are attached to it as well.
func PruneByCoverage(scopes []model.Scope, claims []model.Claim, facts []model.Fact) (kept []model.Scope, pruned []string) {
	referenced := make(map[string]bool)
	for _, c := range claims {
		if c.ScopeID != "" {
			referenced[c.ScopeID] = true
		}
	}
	for _, f := range facts {
		if f.ScopeID != "" {
			referenced[f.ScopeID] = true
		}
	}

	for _, s := range scopes {
		if referenced[s.ID] {
			kept = append(kept, s)
		} else {
			pruned = append(pruned, s.ID)
		}
	}

	if len(kept) == 0 {
		def := model.DefaultScope()
		kept = []model.Scope{def}
		for i := range claims {
			claims[i].ScopeID = def.ID
		}
		for i := range facts {
			facts[i].ScopeID = def.ID
		}
		return kept, pruned
	}

	if len(kept) == 1 {
		only := kept[0].ID
		for i := range claims {
			if claims[i].ScopeID == "" {
				claims[i].ScopeID = only
			}
		}
		for i := range facts {
			if facts[i].ScopeID == "" {
				facts[i].ScopeID = only
			}
		}
	}

	return kept, pruned
}
