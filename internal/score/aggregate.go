package score

import (
	"fmt"
	"sort"

	"github.com/ppiankov/evidentia/internal/calibrate"
	"github.com/ppiankov/evidentia/internal/model"
	"github.com/ppiankov/evidentia/internal/textsim"
)

// DefaultClusterThreshold is the token overlap at which two claims are
// treated as restatements of each other
const DefaultClusterThreshold = 0.6

// Aggregation is the weighted combination of a set of claim verdicts
type Aggregation struct {
	TruthPercentage float64
	Confidence      float64
	Band            model.Band
	Counted         int
	Clusters        int
	Unweighted      bool // All weights were zero; a plain mean was used
}

// Aggregator combines claim verdicts with centrality, confidence and
// duplicate compensation
type Aggregator struct {
	clusterThreshold float64
}

// NewAggregator creates an aggregator. A non-positive threshold uses the default.
func NewAggregator(clusterThreshold float64) *Aggregator {
	if clusterThreshold <= 0 {
		clusterThreshold = DefaultClusterThreshold
	}
	return &Aggregator{clusterThreshold: clusterThreshold}
}

// Aggregate combines the counted verdicts. Each verdict is weighted by
// centrality multiplier, confidence and a duplicate factor: the strongest
// member of a cluster of near-identical claims keeps weight 1 and the other
// n-1 members share 0.5. An empty set is neutral.
func (a *Aggregator) Aggregate(verdicts []model.ClaimVerdict) Aggregation {
	var counted []model.ClaimVerdict
	for _, v := range verdicts {
		if v.Counted() {
			counted = append(counted, v)
		}
	}

	if len(counted) == 0 {
		return Aggregation{
			TruthPercentage: calibrate.Neutral,
			Band:            calibrate.MapToBand(calibrate.Neutral, 0),
		}
	}

	clusters := a.cluster(counted)
	dup := duplicateFactors(counted, clusters)

	var weightSum, truthSum, confWeightSum, confSum, plainSum float64
	for i, v := range counted {
		base := dup[i] * v.Centrality.Multiplier()
		w := base * v.Confidence / 100

		weightSum += w
		truthSum += w * v.TruthPercentage
		confWeightSum += base
		confSum += base * v.Confidence
		plainSum += v.TruthPercentage
	}

	agg := Aggregation{Counted: len(counted), Clusters: len(clusters)}
	if weightSum > 0 {
		agg.TruthPercentage = truthSum / weightSum
	} else {
		agg.TruthPercentage = plainSum / float64(len(counted))
		agg.Unweighted = true
	}
	if confWeightSum > 0 {
		agg.Confidence = confSum / confWeightSum
	}
	agg.Band = calibrate.MapToBand(agg.TruthPercentage, agg.Confidence)
	return agg
}

// cluster groups verdict indexes by single-linkage token overlap
func (a *Aggregator) cluster(verdicts []model.ClaimVerdict) [][]int {
	parent := make([]int, len(verdicts))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}

	sets := make([]textsim.Set, len(verdicts))
	for i, v := range verdicts {
		sets[i] = textsim.NewSet(v.ClaimText)
	}
	for i := range verdicts {
		for j := i + 1; j < len(verdicts); j++ {
			if len(sets[i]) == 0 || len(sets[j]) == 0 {
				continue
			}
			if textsim.JaccardSets(sets[i], sets[j]) >= a.clusterThreshold {
				ri, rj := find(i), find(j)
				if ri != rj {
					parent[max(ri, rj)] = min(ri, rj)
				}
			}
		}
	}

	groups := make(map[int][]int)
	var roots []int
	for i := range verdicts {
		r := find(i)
		if _, ok := groups[r]; !ok {
			roots = append(roots, r)
		}
		groups[r] = append(groups[r], i)
	}

	out := make([][]int, 0, len(roots))
	for _, r := range roots {
		out = append(out, groups[r])
	}
	return out
}

// duplicateFactors assigns 1.0 to the highest-truth member of each cluster
// and 0.5/(n-1) to the rest
func duplicateFactors(verdicts []model.ClaimVerdict, clusters [][]int) []float64 {
	factors := make([]float64, len(verdicts))
	for _, members := range clusters {
		if len(members) == 1 {
			factors[members[0]] = 1
			continue
		}
		best := members[0]
		for _, m := range members[1:] {
			if outranks(verdicts[m], verdicts[best]) {
				best = m
			}
		}
		share := 0.5 / float64(len(members)-1)
		for _, m := range members {
			if m == best {
				factors[m] = 1
			} else {
				factors[m] = share
			}
		}
	}
	return factors
}

// outranks orders cluster members by truth, then centrality, then confidence
func outranks(a, b model.ClaimVerdict) bool {
	if a.TruthPercentage != b.TruthPercentage {
		return a.TruthPercentage > b.TruthPercentage
	}
	if ca, cb := a.Centrality.Multiplier(), b.Centrality.Multiplier(); ca != cb {
		return ca > cb
	}
	return a.Confidence > b.Confidence
}

// ScopeVerdicts aggregates claim verdicts per scope, in scope order
func (a *Aggregator) ScopeVerdicts(scopes []model.Scope, verdicts []model.ClaimVerdict) []model.ScopeVerdict {
	byScope := make(map[string][]model.ClaimVerdict)
	for _, v := range verdicts {
		byScope[v.ScopeID] = append(byScope[v.ScopeID], v)
	}

	out := make([]model.ScopeVerdict, 0, len(scopes))
	for _, s := range scopes {
		members := byScope[s.ID]
		agg := a.Aggregate(members)
		out = append(out, model.ScopeVerdict{
			ScopeID:         s.ID,
			Name:            s.Name,
			TruthPercentage: agg.TruthPercentage,
			Confidence:      agg.Confidence,
			Band:            agg.Band,
			ClaimCount:      len(members),
			CountedClaims:   agg.Counted,
		})
	}
	return out
}

// Overall produces the thesis-level verdict
func (a *Aggregator) Overall(verdicts []model.ClaimVerdict) model.AnalysisVerdict {
	agg := a.Aggregate(verdicts)
	return model.AnalysisVerdict{
		TruthPercentage: agg.TruthPercentage,
		Confidence:      agg.Confidence,
		Band:            agg.Band,
		CountedClaims:   agg.Counted,
		Summary:         summarize(agg, verdicts),
	}
}

func summarize(agg Aggregation, verdicts []model.ClaimVerdict) string {
	if agg.Counted == 0 {
		return fmt.Sprintf("No directly relevant claim could be assessed (%d claims judged)", len(verdicts))
	}

	bands := make(map[model.Band]int)
	failed := 0
	for _, v := range verdicts {
		if v.DependencyFailed {
			failed++
		}
		if v.Counted() {
			bands[v.Band]++
		}
	}

	names := make([]string, 0, len(bands))
	for b := range bands {
		names = append(names, string(b))
	}
	sort.Slice(names, func(i, j int) bool {
		return model.Band(names[i]).Rank() > model.Band(names[j]).Rank() ||
			(model.Band(names[i]).Rank() == model.Band(names[j]).Rank() && names[i] < names[j])
	})

	s := fmt.Sprintf("%s at %.0f%% truth, %.0f%% confidence across %d counted claims",
		agg.Band, agg.TruthPercentage, agg.Confidence, agg.Counted)
	if len(names) > 0 {
		s += " ("
		for i, n := range names {
			if i > 0 {
				s += ", "
			}
			s += fmt.Sprintf("%d %s", bands[model.Band(n)], n)
		}
		s += ")"
	}
	if failed > 0 {
		s += fmt.Sprintf("; %d excluded for failed prerequisites", failed)
	}
	return s
}
