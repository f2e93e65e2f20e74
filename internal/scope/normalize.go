package scope

import (
	"github.com/ppiankov/evidentia/internal/model"
)

// Outcome is the result of a normalization pass
type Outcome struct {
	Scopes  []model.Scope
	Remap   Remap // Composed canonicalize + deduplicate remap
	Repairs Repairs
	Pruned  []string
}

// Consolidate runs canonicalize, deduplicate and reconcile in that order
// without pruning, so scopes nothing references yet survive. Claims and
// facts are updated in place. prior is the snapshot used to restore
// references that no transform accounts for.
func Consolidate(scopes []model.Scope, claims []model.Claim, facts []model.Fact, threshold float64, prior Snapshot) Outcome {
	canonical, canonRemap := Canonicalize(scopes)
	merged, mergeRemap := Deduplicate(canonical, threshold)
	remap := canonRemap.Compose(mergeRemap)

	return Outcome{
		Scopes:  merged,
		Remap:   remap,
		Repairs: Reconcile(claims, facts, merged, remap, prior),
	}
}

// Normalize consolidates and then prunes scopes by coverage. The result
// always holds at least one scope.
func Normalize(scopes []model.Scope, claims []model.Claim, facts []model.Fact, threshold float64, prior Snapshot) Outcome {
	out := Consolidate(scopes, claims, facts, threshold, prior)
	out.Scopes, out.Pruned = PruneByCoverage(out.Scopes, claims, facts)
	return out
}
