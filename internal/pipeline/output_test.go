package pipeline

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/evidentia/internal/model"
)

func sampleResult() *model.Result {
	return &model.Result{
		RunID:  "run-1",
		Thesis: "Solar power is cheaper than coal power",
		ClaimVerdicts: []model.ClaimVerdict{
			{ClaimID: "C1", ClaimText: "Solar power is cheaper than coal power", Band: model.BandMostlyTrue, TruthPercentage: 78, Tier: model.TierMedium},
			{ClaimID: "C2", ClaimText: "Coal subsidies fell", Band: model.BandUnverified, TruthPercentage: 50, Tier: model.TierInsufficient, DependencyFailed: true},
		},
		Verdict: model.AnalysisVerdict{Band: model.BandMostlyTrue, TruthPercentage: 78, Confidence: 70, CountedClaims: 1},
		Stats:   model.Stats{Facts: 5, SourcesFetched: 3, Repairs: []string{"scope S9 pruned"}},
	}
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "result.json")
	require.NoError(t, WriteJSON(sampleResult(), path, true))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got model.Result
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "run-1", got.RunID)
	assert.Len(t, got.ClaimVerdicts, 2)
	assert.Contains(t, string(data), "\n  \"run_id\"")
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	WriteSummary(&buf, sampleResult(), false)
	out := buf.String()

	assert.Contains(t, out, "Verdict: MOSTLY-TRUE (78% true, 70% confidence)")
	assert.Contains(t, out, "C2")
	assert.Contains(t, out, "[dependency failed, manual review]")
	assert.NotContains(t, out, "Repairs:")

	buf.Reset()
	WriteSummary(&buf, sampleResult(), true)
	assert.Contains(t, buf.String(), "scope S9 pruned")
}
