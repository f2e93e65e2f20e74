package scope

import (
	"fmt"

	"github.com/ppiankov/evidentia/internal/model"
)

// Snapshot records the scope references of claims and facts at a point in
// time, so references lost to a later transform can be restored.
type Snapshot struct {
	claims map[string]string
	facts  map[string]string
}

// TakeSnapshot captures the current scope references
func TakeSnapshot(claims []model.Claim, facts []model.Fact) Snapshot {
	snap := Snapshot{
		claims: make(map[string]string, len(claims)),
		facts:  make(map[string]string, len(facts)),
	}
	for _, c := range claims {
		if c.ScopeID != "" {
			snap.claims[c.ID] = c.ScopeID
		}
	}
	for _, f := range facts {
		if f.ScopeID != "" {
			snap.facts[f.ID] = f.ScopeID
		}
	}
	return snap
}

// Repairs counts what Reconcile had to change
type Repairs struct {
	Rewritten int
	Restored  int
	Cleared   int
	Notes     []string
}

// Total is the number of references touched
func (r Repairs) Total() int {
	return r.Rewritten + r.Restored + r.Cleared
}

// Reconcile points every claim and fact reference at a scope that exists.
// References are first mapped through remap. A reference that still names no
// scope is restored from the prior snapshot when that scope survives, and
// cleared otherwise. Nothing is left dangling.
func Reconcile(claims []model.Claim, facts []model.Fact, scopes []model.Scope, remap Remap, prior Snapshot) Repairs {
	exists := make(map[string]bool, len(scopes))
	for _, s := range scopes {
		exists[s.ID] = true
	}

	var rep Repairs
	fix := func(kind, ownerID string, ref *string, priorRef string) {
		if *ref == "" {
			return
		}
		if mapped := remap.Resolve(*ref); exists[mapped] {
			if mapped != *ref {
				rep.Rewritten++
			}
			*ref = mapped
			return
		}
		if priorRef != "" {
			if restored := remap.Resolve(priorRef); exists[restored] {
				rep.Restored++
				rep.Notes = append(rep.Notes, fmt.Sprintf("%s %s: dangling scope %s restored to %s", kind, ownerID, *ref, restored))
				*ref = restored
				return
			}
		}
		rep.Cleared++
		rep.Notes = append(rep.Notes, fmt.Sprintf("%s %s: dangling scope %s cleared", kind, ownerID, *ref))
		*ref = ""
	}

	for i := range claims {
		fix("claim", claims[i].ID, &claims[i].ScopeID, prior.claims[claims[i].ID])
	}
	for i := range facts {
		fix("fact", facts[i].ID, &facts[i].ScopeID, prior.facts[facts[i].ID])
	}
	return rep
}
