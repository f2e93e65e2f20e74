package score

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/evidentia/internal/model"
)

func verdict(id, text string, truth, conf float64) model.ClaimVerdict {
	return model.ClaimVerdict{
		ClaimID:         id,
		ClaimText:       text,
		TruthPercentage: truth,
		Confidence:      conf,
		Centrality:      model.CentralityHigh,
		ThesisRelevance: model.RelevanceDirect,
		Reasoning:       "judged",
	}
}

func reliability(f float64) *float64 { return &f }

func TestPropagateFailedPrerequisite(t *testing.T) {
	claims := []model.Claim{
		{ID: "A", Text: "The law was passed in 2019"},
		{ID: "B", Text: "The law reduced emissions", DependsOn: []string{"A"}},
	}
	verdicts := []model.ClaimVerdict{
		verdict("A", claims[0].Text, 20, 80),
		verdict("B", claims[1].Text, 80, 80),
	}

	notes := Propagate(claims, verdicts, DefaultDependencyThreshold)
	assert.Empty(t, notes)

	assert.False(t, verdicts[0].DependencyFailed)
	b := verdicts[1]
	assert.True(t, b.DependencyFailed)
	assert.Equal(t, []string{"A"}, b.FailedDependencies)
	assert.True(t, strings.HasPrefix(b.Reasoning, "[DEPENDENCY_FAILED:A] "), b.Reasoning)
	assert.InDelta(t, 80, b.TruthPercentage, 1e-9, "own score is kept")
	assert.False(t, b.Counted())

	agg := NewAggregator(0).Aggregate(verdicts)
	assert.Equal(t, 1, agg.Counted)
	assert.InDelta(t, 20, agg.TruthPercentage, 1e-9)
}

func TestPropagateIsDirectOnly(t *testing.T) {
	claims := []model.Claim{
		{ID: "A"},
		{ID: "B", DependsOn: []string{"A"}},
		{ID: "C", DependsOn: []string{"B"}},
	}
	verdicts := []model.ClaimVerdict{
		verdict("A", "a", 10, 80),
		verdict("B", "b", 70, 80),
		verdict("C", "c", 70, 80),
	}

	Propagate(claims, verdicts, DefaultDependencyThreshold)
	assert.True(t, verdicts[1].DependencyFailed)
	assert.False(t, verdicts[2].DependencyFailed, "B scored above threshold")
}

func TestPropagateAtThresholdPasses(t *testing.T) {
	claims := []model.Claim{{ID: "A"}, {ID: "B", DependsOn: []string{"A"}}}
	verdicts := []model.ClaimVerdict{verdict("A", "a", 43, 80), verdict("B", "b", 70, 80)}

	Propagate(claims, verdicts, DefaultDependencyThreshold)
	assert.False(t, verdicts[1].DependencyFailed)
}

func TestPropagateDropsBadEdges(t *testing.T) {
	claims := []model.Claim{
		{ID: "A", DependsOn: []string{"B", "A", "ghost"}},
		{ID: "B", DependsOn: []string{"A"}},
	}
	verdicts := []model.ClaimVerdict{verdict("A", "a", 10, 80), verdict("B", "b", 10, 80)}

	notes := Propagate(claims, verdicts, DefaultDependencyThreshold)
	require.Len(t, notes, 3)
	assert.Contains(t, notes[0], "itself")
	assert.Contains(t, notes[1], "ghost")
	assert.Contains(t, notes[2], "cycle B -> A")

	// A -> B survives, B -> A closes the cycle and is dropped
	assert.True(t, verdicts[0].DependencyFailed)
	assert.False(t, verdicts[1].DependencyFailed)
}

func TestPropagateIsIdempotent(t *testing.T) {
	claims := []model.Claim{{ID: "A"}, {ID: "B", DependsOn: []string{"A"}}}
	verdicts := []model.ClaimVerdict{verdict("A", "a", 10, 80), verdict("B", "b", 70, 80)}

	Propagate(claims, verdicts, DefaultDependencyThreshold)
	first := verdicts[1].Reasoning
	Propagate(claims, verdicts, DefaultDependencyThreshold)
	assert.Equal(t, first, verdicts[1].Reasoning)
}

func TestApplyEvidenceWeightingPullsTowardNeutral(t *testing.T) {
	// "X is more efficient than Y": strong support judged, one of four facts contradicts
	v := verdict("C1", "X is more efficient than Y", 94.4, 80)
	facts := []model.Fact{
		{ID: "F1", SourceID: "s1", Directionality: model.DirectionSupports},
		{ID: "F2", SourceID: "s2", Directionality: model.DirectionSupports},
		{ID: "F3", SourceID: "s3", Directionality: model.DirectionSupports},
		{ID: "F4", SourceID: "s4", Directionality: model.DirectionContradicts},
	}

	p := Profile(facts, nil)
	assert.Equal(t, 3, p.Supporting)
	assert.Equal(t, 1, p.Opposing)
	assert.Equal(t, 4, p.IndependentSources)
	assert.False(t, p.ReliabilityKnown)

	ApplyEvidenceWeighting(&v, p)
	assert.InDelta(t, 0.75, v.EvidenceWeight, 1e-9)
	assert.InDelta(t, 83.3, v.TruthPercentage, 1e-9)
	assert.Greater(t, v.TruthPercentage, 50.0)
	assert.Equal(t, model.BandMostlyTrue, v.Band)
}

func TestApplyEvidenceWeightingUsesReliability(t *testing.T) {
	sources := map[string]model.Source{
		"s1": {ID: "s1", Domain: "a.org", Reliability: reliability(0.8)},
		"s2": {ID: "s2", Domain: "a.org", Reliability: reliability(0.4)},
	}
	facts := []model.Fact{
		{SourceID: "s1", Directionality: model.DirectionContradicts},
		{SourceID: "s2", Directionality: model.DirectionContradicts},
		{SourceID: "s2", Directionality: model.DirectionNeutral},
	}

	p := Profile(facts, sources)
	assert.Equal(t, 1, p.IndependentSources, "same domain")
	assert.InDelta(t, 0.6, p.MeanReliability, 1e-9)
	assert.InDelta(t, 1.0, p.Consensus(), 1e-9)

	v := verdict("C1", "claim", 10, 90)
	ApplyEvidenceWeighting(&v, p)
	// weight = 1 * (0.5 + 0.3)
	assert.InDelta(t, 50-40*0.8, v.TruthPercentage, 1e-9)
}

func TestApplyEvidenceWeightingWithoutEvidence(t *testing.T) {
	v := verdict("C1", "claim", 75, 70)
	ApplyEvidenceWeighting(&v, Profile(nil, nil))
	assert.InDelta(t, 75, v.TruthPercentage, 1e-9)
	assert.InDelta(t, 1, v.EvidenceWeight, 1e-9)
}

func TestFactsForPrefersCitations(t *testing.T) {
	claim := model.Claim{ID: "C1", ScopeID: "S1"}
	facts := []model.Fact{
		{ID: "F1", ScopeID: "S1", Directionality: model.DirectionSupports},
		{ID: "F2", ScopeID: "S1", Directionality: model.DirectionSupports},
		{ID: "F3", ScopeID: "S2"},
	}

	got := FactsFor(model.ClaimVerdict{}, claim, facts)
	assert.Len(t, got, 2)

	cited := model.ClaimVerdict{OpposingFactIDs: []string{"F2"}}
	got = FactsFor(cited, claim, facts)
	require.Len(t, got, 1)
	assert.Equal(t, model.DirectionContradicts, got[0].Directionality)
}

func TestAggregateEmptyIsNeutral(t *testing.T) {
	agg := NewAggregator(0).Aggregate(nil)
	assert.InDelta(t, 50, agg.TruthPercentage, 1e-9)
	assert.Equal(t, model.BandUnverified, agg.Band)
	assert.Zero(t, agg.Counted)
}

func TestAggregateSingleClaim(t *testing.T) {
	agg := NewAggregator(0).Aggregate([]model.ClaimVerdict{verdict("C1", "only claim", 67.5, 70)})
	assert.InDelta(t, 67.5, agg.TruthPercentage, 1e-9)
	assert.InDelta(t, 70, agg.Confidence, 1e-9)
}

func TestAggregateZeroConfidenceFallsBackToMean(t *testing.T) {
	agg := NewAggregator(0).Aggregate([]model.ClaimVerdict{
		verdict("C1", "first claim here", 80, 0),
		verdict("C2", "unrelated second statement", 40, 0),
	})
	assert.True(t, agg.Unweighted)
	assert.InDelta(t, 60, agg.TruthPercentage, 1e-9)
}

func TestAggregateCompensatesDuplicates(t *testing.T) {
	a := verdict("C1", "Unemployment fell sharply in 2023", 90, 80)
	b := verdict("C2", "Unemployment fell sharply in 2023", 90, 80)
	c := verdict("C3", "Wages rose faster than prices", 30, 80)

	agg := NewAggregator(0).Aggregate([]model.ClaimVerdict{a, b, c})
	assert.Equal(t, 2, agg.Clusters)
	// weights 1, 0.5, 1
	assert.InDelta(t, (90+45+30)/2.5, agg.TruthPercentage, 1e-9)
}

func TestAggregateFavorsHighestTruthDuplicate(t *testing.T) {
	low := verdict("C1", "Unemployment fell sharply in 2023", 20, 80)
	high := verdict("C2", "Unemployment fell sharply in 2023", 90, 80)

	for _, order := range [][]model.ClaimVerdict{{low, high}, {high, low}} {
		agg := NewAggregator(0).Aggregate(order)
		assert.Equal(t, 1, agg.Clusters)
		// truth 90 at weight 1, truth 20 at 0.5
		assert.InDelta(t, (90+10)/1.5, agg.TruthPercentage, 1e-9)
	}
}

func TestAggregateDuplicateTieBreaksOnCentrality(t *testing.T) {
	side := verdict("C1", "Unemployment fell sharply in 2023", 60, 80)
	side.Centrality = model.CentralityLow
	core := verdict("C2", "Unemployment fell sharply in 2023", 60, 40)

	factors := duplicateFactors([]model.ClaimVerdict{side, core}, [][]int{{0, 1}})
	assert.Equal(t, []float64{0.5, 1}, factors)
}

func TestAggregateWeighsCentralityAndRelevance(t *testing.T) {
	core := verdict("C1", "Core statement about budgets", 90, 100)
	side := verdict("C2", "Minor remark on weather", 10, 100)
	side.Centrality = model.CentralityLow
	off := verdict("C3", "Tangent about history", 0, 100)
	off.ThesisRelevance = model.RelevanceTangential

	agg := NewAggregator(0).Aggregate([]model.ClaimVerdict{core, side, off})
	assert.Equal(t, 2, agg.Counted)
	assert.InDelta(t, (3*90+1*10)/4.0, agg.TruthPercentage, 1e-9)
}

func TestScopeVerdicts(t *testing.T) {
	scopes := []model.Scope{{ID: "S1", Name: "one"}, {ID: "S2", Name: "two"}}
	a := verdict("C1", "first", 90, 80)
	a.ScopeID = "S1"
	b := verdict("C2", "second", 20, 80)
	b.ScopeID = "S2"

	agg := NewAggregator(0)
	out := agg.ScopeVerdicts(scopes, []model.ClaimVerdict{a, b})
	require.Len(t, out, 2)
	assert.InDelta(t, 90, out[0].TruthPercentage, 1e-9)
	assert.InDelta(t, 20, out[1].TruthPercentage, 1e-9)
	assert.Equal(t, 1, out[1].ClaimCount)

	overall := agg.Overall([]model.ClaimVerdict{a, b})
	assert.Equal(t, 2, overall.CountedClaims)
	assert.InDelta(t, 55, overall.TruthPercentage, 1e-9)
	assert.Contains(t, overall.Summary, "2 counted claims")
}
