package scope

import (
	"github.com/ppiankov/evidentia/internal/model"
)

// DefaultDedupThreshold is the similarity at which two scopes are one
const DefaultDedupThreshold = 0.85

// Deduplicate greedily merges scopes whose similarity to an earlier survivor
// reaches threshold. The survivor absorbs metadata it lacks but never has a
// populated field overwritten. The result is never longer than the input.
func Deduplicate(scopes []model.Scope, threshold float64) ([]model.Scope, Remap) {
	if threshold <= 0 {
		threshold = DefaultDedupThreshold
	}

	survivors := make([]model.Scope, 0, len(scopes))
	remap := make(Remap)

	for _, s := range scopes {
		best, bestSim := -1, 0.0
		for i := range survivors {
			if sim := Similarity(survivors[i], s); sim >= threshold && sim > bestSim {
				best, bestSim = i, sim
			}
		}

		if best < 0 {
			survivors = append(survivors, s)
			continue
		}

		survivors[best] = absorb(survivors[best], s)
		if s.ID != "" && s.ID != survivors[best].ID {
			remap[s.ID] = survivors[best].ID
		}
	}

	return survivors, remap
}

// absorb fills gaps in dst from src
func absorb(dst, src model.Scope) model.Scope {
	fill := func(d *string, s string) {
		if *d == "" {
			*d = s
		}
	}

	fill(&dst.Name, src.Name)
	fill(&dst.Subject, src.Subject)
	if dst.Status == "" || dst.Status == model.StatusUnknown {
		dst.Status = src.Status
	}

	m, sm := &dst.Metadata, src.Metadata
	fill(&m.Institution, sm.Institution)
	fill(&m.Jurisdiction, sm.Jurisdiction)
	fill(&m.Methodology, sm.Methodology)
	fill(&m.Boundaries, sm.Boundaries)
	fill(&m.Standard, sm.Standard)
	fill(&m.Regulator, sm.Regulator)
	fill(&m.Geography, sm.Geography)
	fill(&m.Timeframe, sm.Timeframe)

	dst.Synthesized = dst.Synthesized && src.Synthesized
	return dst
}
