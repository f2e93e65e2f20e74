// Package scope keeps the set of analytical scopes small, stably identified
// and fully referenced.
//
// Each transform returns its id changes as a Remap. The orchestrator composes
// them in a fixed order: canonicalize, deduplicate, reconcile, prune.
package scope

import "sort"

// Remap maps an old scope id to its replacement
type Remap map[string]string

// Resolve returns the replacement for id, or id itself when unmapped. A
// remap is a single step; chains are built with Compose.
func (r Remap) Resolve(id string) string {
	if to, ok := r[id]; ok {
		return to
	}
	return id
}

// Compose returns a remap equivalent to applying r and then next
func (r Remap) Compose(next Remap) Remap {
	out := make(Remap, len(r)+len(next))
	for from, to := range r {
		out[from] = next.Resolve(to)
	}
	for from, to := range next {
		if _, ok := r[from]; !ok {
			out[from] = to
		}
	}
	for from, to := range out {
		if from == to {
			delete(out, from)
		}
	}
	return out
}

// Keys returns the remapped ids in order, for logging
func (r Remap) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
