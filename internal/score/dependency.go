package score

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/evidentia/internal/model"
)

// DefaultDependencyThreshold is the truth percentage below which a
// prerequisite claim counts as failed
const DefaultDependencyThreshold = 43.0

const dependencyMarker = "DEPENDENCY_FAILED"

// Propagate marks verdicts whose direct prerequisites scored below threshold.
// Failed dependents keep their own truth percentage but are excluded from
// aggregation. Self references, dangling ids and edges that would close a
// cycle are dropped; the returned notes describe each dropped edge.
func Propagate(claims []model.Claim, verdicts []model.ClaimVerdict, threshold float64) []string {
	if threshold <= 0 {
		threshold = DefaultDependencyThreshold
	}

	index := make(map[string]int, len(verdicts))
	for i, v := range verdicts {
		index[v.ClaimID] = i
	}

	edges, notes := dependencyEdges(claims, index)

	for i := range verdicts {
		v := &verdicts[i]
		var failed []string
		for _, dep := range edges[v.ClaimID] {
			if verdicts[index[dep]].TruthPercentage < threshold {
				failed = append(failed, dep)
			}
		}
		if len(failed) == 0 {
			continue
		}
		v.DependencyFailed = true
		v.FailedDependencies = failed
		if !strings.HasPrefix(v.Reasoning, "["+dependencyMarker) {
			v.Reasoning = strings.TrimSpace(fmt.Sprintf("[%s:%s] %s", dependencyMarker, strings.Join(failed, ","), v.Reasoning))
		}
	}

	return notes
}

// dependencyEdges returns the acyclic dependency graph restricted to claims
// that have verdicts. Traversal follows claim order so the same input always
// drops the same edges.
func dependencyEdges(claims []model.Claim, index map[string]int) (map[string][]string, []string) {
	raw := make(map[string][]string, len(claims))
	var order []string
	var notes []string

	for _, c := range claims {
		if _, ok := index[c.ID]; !ok {
			continue
		}
		if _, seen := raw[c.ID]; !seen {
			order = append(order, c.ID)
		}
		seenDep := make(map[string]bool)
		for _, dep := range c.DependsOn {
			switch {
			case dep == c.ID:
				notes = append(notes, fmt.Sprintf("claim %s depends on itself; edge dropped", c.ID))
			case seenDep[dep]:
			default:
				if _, ok := index[dep]; !ok {
					notes = append(notes, fmt.Sprintf("claim %s depends on unknown claim %s; edge dropped", c.ID, dep))
					continue
				}
				seenDep[dep] = true
				raw[c.ID] = append(raw[c.ID], dep)
			}
		}
	}

	const (
		unvisited = iota
		active
		done
	)
	state := make(map[string]int, len(order))
	edges := make(map[string][]string, len(order))

	var visit func(id string)
	visit = func(id string) {
		state[id] = active
		for _, dep := range raw[id] {
			switch state[dep] {
			case active:
				notes = append(notes, fmt.Sprintf("dependency cycle %s -> %s; edge dropped", id, dep))
				continue
			case unvisited:
				visit(dep)
			}
			edges[id] = append(edges[id], dep)
		}
		state[id] = done
	}

	for _, id := range order {
		if state[id] == unvisited {
			visit(id)
		}
	}

	for id := range edges {
		sort.Strings(edges[id])
	}
	return edges, notes
}
