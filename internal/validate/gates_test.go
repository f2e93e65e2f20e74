package validate

import (
	"strings"
	"testing"

	"github.com/ppiankov/evidentia/internal/model"
	"github.com/ppiankov/evidentia/internal/score"
)

func TestAdmitClaims(t *testing.T) {
	g := NewGates(model.GateConfig{})

	claims := []model.Claim{
		{ID: "ok", Kind: model.KindFactual, Specificity: 0.8, Centrality: model.CentralityMedium},
		{ID: "opinion", Kind: model.KindOpinion, Specificity: 0.8, Centrality: model.CentralityMedium},
		{ID: "vague", Kind: model.KindFactual, Specificity: 0.1, Centrality: model.CentralityLow},
		{ID: "unreported", Kind: model.KindFactual, Centrality: model.CentralityLow},
		{ID: "central-prediction", Kind: model.KindPrediction, Centrality: model.CentralityHigh},
		{ID: "irrelevant", ThesisRelevance: model.RelevanceIrrelevant, Centrality: model.CentralityLow},
	}

	kept, stats := g.AdmitClaims(claims)

	var ids []string
	for _, c := range kept {
		ids = append(ids, c.ID)
	}
	want := "ok,unreported,central-prediction"
	if got := strings.Join(ids, ","); got != want {
		t.Errorf("kept = %s, want %s", got, want)
	}

	if stats.Passed != 2 || stats.Failed != 3 || stats.CentralKept != 1 {
		t.Errorf("stats = %+v", stats)
	}

	central := kept[2]
	if !central.GateFlagged || central.GateReason != "prediction" {
		t.Errorf("central claim = %+v, want flagged as prediction", central)
	}
}

func TestClassifyTiers(t *testing.T) {
	g := NewGates(model.GateConfig{})

	tests := []struct {
		desc    string
		profile score.EvidenceProfile
		want    model.Tier
	}{
		{"no evidence", score.EvidenceProfile{}, model.TierInsufficient},
		{"single source", score.EvidenceProfile{Supporting: 3, IndependentSources: 1, MeanReliability: 0.9, ReliabilityKnown: true}, model.TierInsufficient},
		{"unreliable", score.EvidenceProfile{Supporting: 3, IndependentSources: 3, MeanReliability: 0.5, ReliabilityKnown: true}, model.TierInsufficient},
		{"split evidence", score.EvidenceProfile{Supporting: 2, Opposing: 2, IndependentSources: 4, MeanReliability: 0.9, ReliabilityKnown: true}, model.TierInsufficient},
		{"high", score.EvidenceProfile{Supporting: 5, IndependentSources: 4, MeanReliability: 0.8, ReliabilityKnown: true}, model.TierHigh},
		{"medium", score.EvidenceProfile{Supporting: 3, Opposing: 1, IndependentSources: 3, MeanReliability: 0.7, ReliabilityKnown: true}, model.TierMedium},
		{"low", score.EvidenceProfile{Supporting: 2, IndependentSources: 2, MeanReliability: 0.6, ReliabilityKnown: true}, model.TierLow},
		{"unknown reliability", score.EvidenceProfile{Supporting: 6, IndependentSources: 5}, model.TierLow},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := g.Classify(tt.profile); got != tt.want {
				t.Errorf("Classify() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPublishKeepsCentralInsufficient(t *testing.T) {
	g := NewGates(model.GateConfig{})

	verdicts := []model.ClaimVerdict{
		{ClaimID: "central", Centrality: model.CentralityHigh, Reasoning: "thin"},
		{ClaimID: "minor", Centrality: model.CentralityLow, Reasoning: "thin"},
		{ClaimID: "solid", Centrality: model.CentralityMedium},
	}
	profiles := []score.EvidenceProfile{
		{},
		{},
		{Supporting: 4, IndependentSources: 4, MeanReliability: 0.9, ReliabilityKnown: true},
	}

	stats := g.Publish(verdicts, profiles)

	if stats.Insufficient != 2 || stats.High != 1 || stats.Passed() {
		t.Errorf("stats = %+v", stats)
	}
	if !verdicts[0].Publishable || verdicts[0].Tier != model.TierInsufficient {
		t.Errorf("central verdict = %+v, want publishable insufficient", verdicts[0])
	}
	if verdicts[1].Publishable {
		t.Error("non-central insufficient verdict should not be publishable")
	}
	if !strings.HasSuffix(verdicts[1].Reasoning, "manual review recommended.") {
		t.Errorf("reasoning = %q", verdicts[1].Reasoning)
	}

	// Re-running does not repeat the note
	g.Publish(verdicts, profiles)
	if strings.Count(verdicts[0].Reasoning, "manual review") != 1 {
		t.Errorf("reasoning = %q", verdicts[0].Reasoning)
	}
}
