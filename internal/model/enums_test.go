package model

import (
	"encoding/json"
	"testing"
)

func TestEnumsDecodeLeniently(t *testing.T) {
	raw := `{
		"id": "C1",
		"text": "The court annulled the election",
		"role": "Core",
		"centrality": "CENTRAL",
		"thesis_relevance": "directly",
		"kind": "Fact",
		"check_worthiness": "whatever"
	}`

	var c Claim
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if c.Role != RoleCore {
		t.Errorf("Role = %q, want %q", c.Role, RoleCore)
	}
	if c.Centrality != CentralityHigh {
		t.Errorf("Centrality = %q, want %q", c.Centrality, CentralityHigh)
	}
	if c.ThesisRelevance != RelevanceDirect {
		t.Errorf("ThesisRelevance = %q, want %q", c.ThesisRelevance, RelevanceDirect)
	}
	if c.Kind != KindFactual {
		t.Errorf("Kind = %q, want %q", c.Kind, KindFactual)
	}
	if c.CheckWorthiness != WorthinessUnknown {
		t.Errorf("CheckWorthiness = %q, want unknown", c.CheckWorthiness)
	}
}

func TestParseQualitativeLabel(t *testing.T) {
	tests := []struct {
		in   string
		want QualitativeLabel
	}{
		{"strong-support", LabelStrongSupport},
		{"Strong Support", LabelStrongSupport},
		{"PARTIAL_SUPPORT", LabelPartialSupport},
		{"uncertain", LabelUncertain},
		{"refuted", LabelRefuted},
		{"probably", LabelUnknown},
		{"", LabelUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseQualitativeLabel(tt.in); got != tt.want {
				t.Errorf("ParseQualitativeLabel(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestBandRankOrder(t *testing.T) {
	ordered := []Band{BandFalse, BandMostlyFalse, BandLeaningFalse, BandMixed, BandLeaningTrue, BandMostlyTrue, BandTrue}
	for i := 1; i < len(ordered); i++ {
		if ordered[i].Rank() <= ordered[i-1].Rank() {
			t.Errorf("%s rank %d not above %s rank %d", ordered[i], ordered[i].Rank(), ordered[i-1], ordered[i-1].Rank())
		}
	}
	if BandMixed.Rank() != BandUnverified.Rank() {
		t.Error("MIXED and UNVERIFIED should share a rank")
	}
}

func TestFactBearsOn(t *testing.T) {
	claim := Claim{ID: "C1", ScopeID: "SCP_A"}

	linked := Fact{ClaimIDs: []string{"C2", "C1"}}
	if !linked.BearsOn(claim) {
		t.Error("linked fact should bear on C1")
	}

	otherScope := Fact{ScopeID: "SCP_B"}
	if otherScope.BearsOn(claim) {
		t.Error("unlinked fact in another scope should not bear on C1")
	}

	sameScope := Fact{ScopeID: "SCP_A"}
	if !sameScope.BearsOn(claim) {
		t.Error("unlinked fact in the claim's scope should bear on it")
	}
}

func TestAuthorityTierText(t *testing.T) {
	b, err := json.Marshal(struct {
		T AuthorityTier `json:"t"`
	}{TierSecondary})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"t":"secondary"}` {
		t.Errorf("got %s", b)
	}
}
