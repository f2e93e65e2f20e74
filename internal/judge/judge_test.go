package judge

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/evidentia/internal/llm"
	"github.com/ppiankov/evidentia/internal/model"
)

// scriptedProvider answers calls with replies in order, repeating the last
type scriptedProvider struct {
	mu      sync.Mutex
	replies []string
	err     error
	reqs    []llm.Request
}

func (p *scriptedProvider) Name() string                     { return "scripted" }
func (p *scriptedProvider) IsAvailable(context.Context) bool { return true }

func (p *scriptedProvider) Infer(ctx context.Context, req llm.Request) (*llm.Response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reqs = append(p.reqs, req)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.err != nil {
		return nil, p.err
	}
	i := min(len(p.reqs)-1, len(p.replies)-1)
	return &llm.Response{Text: p.replies[i], Provider: "scripted"}, nil
}

func newJudge(p llm.Provider) *Judge {
	return New(p, 0, zerolog.Nop())
}

func TestUnderstand(t *testing.T) {
	p := &scriptedProvider{replies: []string{"```json\n" + `{
		"thesis": "Solar is cheaper than coal",
		"claims": [
			{"id": "C1", "text": "Solar is cheaper than coal", "role": "core", "centrality": "high",
			 "thesis_relevance": "direct", "kind": "factual", "specificity": 70, "check_worthiness": "high"},
			{"id": "C1", "text": "duplicate id", "role": "core"},
			{"id": "C2", "text": "Coal subsidies fell", "role": "timing", "specificity": 0.3}
		],
		"scopes": [{"id": "S1", "name": "Levelized cost"}],
		"entities": ["Energy Agency"],
		"comparative": true
	}` + "\n```"}}

	j := newJudge(p)
	u := j.Understand(context.Background(), "Solar is cheaper than coal, and coal subsidies fell.")

	assert.Equal(t, "Solar is cheaper than coal", u.Thesis)
	require.Len(t, u.Claims, 2)
	assert.InDelta(t, 0.7, u.Claims[0].Specificity, 1e-9)
	assert.InDelta(t, 0.3, u.Claims[1].Specificity, 1e-9)
	assert.Equal(t, model.RoleTiming, u.Claims[1].Role)
	require.Len(t, u.Scopes, 1)
	assert.Equal(t, model.StatusUnknown, u.Scopes[0].Status)
	assert.True(t, u.Comparative)
	assert.Equal(t, 1, j.Calls())
	assert.Zero(t, j.Defaulted())
}

func TestUnderstandRetriesStrict(t *testing.T) {
	p := &scriptedProvider{replies: []string{
		"I think the claims are...",
		`{"thesis": "T", "claims": [{"id": "C1", "text": "Claim one"}]}`,
	}}

	j := newJudge(p)
	u := j.Understand(context.Background(), strings.Repeat("long input ", 3000))

	require.Len(t, u.Claims, 1)
	require.Len(t, p.reqs, 2)
	assert.True(t, strings.HasSuffix(p.reqs[1].System, strictSuffix))
	assert.Less(t, len(p.reqs[1].Prompt), len(p.reqs[0].Prompt), "strict prompt is smaller")
	assert.Equal(t, 2, j.Calls())
}

func TestUnderstandDefaultsAfterTwoFailures(t *testing.T) {
	// Valid JSON that fails validation: no claims
	p := &scriptedProvider{replies: []string{`{"thesis": "T", "claims": []}`}}

	j := newJudge(p)
	text := "The new bridge collapsed because of corrosion. Engineers warned in 2019."
	u := j.Understand(context.Background(), text)

	require.Len(t, u.Claims, 1)
	c := u.Claims[0]
	assert.Equal(t, "C1", c.ID)
	assert.Equal(t, "The new bridge collapsed because of corrosion.", c.Text)
	assert.Equal(t, model.RoleCore, c.Role)
	assert.Equal(t, model.CentralityHigh, c.Centrality)
	assert.Equal(t, model.RelevanceDirect, c.ThesisRelevance)
	assert.Equal(t, 2, j.Calls())
	assert.Equal(t, 1, j.Defaulted())
}

func TestExtractFacts(t *testing.T) {
	p := &scriptedProvider{replies: []string{`{"facts": [
		{"text": "The 2023 audit found costs fell 40 percent", "category": "statistic",
		 "directionality": "supports", "claim_ids": ["C1", "C9"]},
		{"text": "too short"},
		{"text": "Regulators set the standard in 2021 for all plants", "claim_ids": ["C1"]},
		{"text": "A third fact that would exceed the per-source cap"}
	]}`}}

	j := newJudge(p)
	facts := j.ExtractFacts(context.Background(), FactRequest{
		Thesis:   "Solar is cheaper",
		Claims:   []model.Claim{{ID: "C1", Text: "Solar is cheaper"}},
		Source:   model.Source{ID: "SRC1", URL: "https://example.org/a", Title: "Audit"},
		Text:     "body",
		MaxFacts: 2,
	})

	require.Len(t, facts, 2)
	assert.Equal(t, []string{"C1"}, facts[0].ClaimIDs, "unknown claim ids are dropped")
	assert.Equal(t, model.CategoryStatistic, facts[0].Category)
	assert.Equal(t, "SRC1", facts[0].SourceID)
	assert.Equal(t, "https://example.org/a", facts[0].SourceURL)
	assert.Equal(t, model.CategoryUnknown, facts[1].Category)
	assert.Equal(t, model.DirectionUnknown, facts[1].Directionality)
	assert.Empty(t, facts[0].ID, "ids are assigned by the caller")
}

func TestExtractFactsFailureYieldsNone(t *testing.T) {
	p := &scriptedProvider{err: llm.ErrProviderUnavailable}
	j := newJudge(p)

	facts := j.ExtractFacts(context.Background(), FactRequest{Source: model.Source{ID: "SRC1"}})
	assert.Empty(t, facts)
	assert.Equal(t, 1, j.Defaulted())
}

func TestRefineScopes(t *testing.T) {
	p := &scriptedProvider{replies: []string{`{
		"scopes": [{"id": "A", "name": "Federal case"}, {"id": "B", "name": "State case", "status": "concluded"}],
		"claim_assignments": {"C1": "A"},
		"fact_assignments": {"F1": "B"}
	}`}}

	r, ok := newJudge(p).RefineScopes(context.Background(), "T", nil, nil, nil)
	require.True(t, ok)
	require.Len(t, r.Scopes, 2)
	assert.Equal(t, "A", r.ClaimAssignments["C1"])
	assert.Equal(t, "B", r.FactAssignments["F1"])

	bad := &scriptedProvider{replies: []string{`{"scopes": []}`}}
	_, ok = newJudge(bad).RefineScopes(context.Background(), "T", nil, nil, nil)
	assert.False(t, ok)
}

func TestVerdictsFillsMissingClaims(t *testing.T) {
	p := &scriptedProvider{replies: []string{`{"verdicts": [
		{"claim_id": "C1", "label": "strong support", "score": 90, "confidence": 80, "reasoning": "F1 and F2"},
		{"claim_id": "C1", "label": "refuted", "confidence": 80},
		{"claim_id": "C7", "label": "refuted", "confidence": 60}
	]}`}}

	claims := []model.Claim{{ID: "C1", Text: "one"}, {ID: "C2", Text: "two"}}
	got := newJudge(p).Verdicts(context.Background(), "T", claims, nil)

	require.Len(t, got, 2)
	assert.Equal(t, model.LabelStrongSupport, got[0].Label, "first verdict for a claim wins")
	require.NotNil(t, got[0].Score)
	assert.InDelta(t, 90, *got[0].Score, 1e-9)
	assert.False(t, got[0].Defaulted)

	assert.Equal(t, DefaultJudgment("C2"), got[1])
}

func TestVerdictsTotalFailureDefaultsEveryClaim(t *testing.T) {
	p := &scriptedProvider{replies: []string{`{"verdicts": [{"label": "refuted"}]}`}}
	j := newJudge(p)

	claims := []model.Claim{{ID: "C1"}, {ID: "C2"}}
	got := j.Verdicts(context.Background(), "T", claims, nil)

	for i, v := range got {
		assert.Equal(t, claims[i].ID, v.ClaimID)
		assert.Equal(t, model.LabelUncertain, v.Label)
		assert.Zero(t, v.Confidence)
		assert.True(t, v.Defaulted)
	}
	assert.Equal(t, 2, j.Calls())
	assert.Equal(t, 1, j.Defaulted())
}

func TestVerdictsNoClaimsMakesNoCall(t *testing.T) {
	p := &scriptedProvider{}
	j := newJudge(p)
	assert.Empty(t, j.Verdicts(context.Background(), "T", nil, nil))
	assert.Zero(t, j.Calls())
}

func TestCanceledContextSkipsStrictRetry(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &scriptedProvider{replies: []string{"{}"}}
	j := newJudge(p)
	u := j.Understand(ctx, "Some input text that is long enough.")

	assert.Len(t, u.Claims, 1)
	assert.Equal(t, 1, j.Calls())
	assert.True(t, errors.Is(ctx.Err(), context.Canceled))
}
