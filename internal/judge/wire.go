package judge

import (
	"github.com/go-playground/validator/v10"

	"github.com/ppiankov/evidentia/internal/model"
)

var validate = validator.New()

// Wire types are the JSON shapes the provider is asked for. Enum fields decode
// leniently through the model types; validation rejects replies that are
// structurally unusable.

type understandingWire struct {
	Thesis            string      `json:"thesis" validate:"required"`
	Claims            []claimWire `json:"claims" validate:"required,min=1,dive"`
	Scopes            []scopeWire `json:"scopes" validate:"dive"`
	Entities          []string    `json:"entities"`
	FrameworkRelevant bool        `json:"framework_relevant"`
	Comparative       bool        `json:"comparative"`
	InverseClaim      string      `json:"inverse_claim"`
	SuggestedQueries  []string    `json:"suggested_queries"`
}

type claimWire struct {
	ID              string                `json:"id" validate:"required"`
	Text            string                `json:"text" validate:"required"`
	Role            model.ClaimRole       `json:"role"`
	DependsOn       []string              `json:"depends_on"`
	Centrality      model.Centrality      `json:"centrality"`
	ThesisRelevance model.ThesisRelevance `json:"thesis_relevance"`
	ScopeID         string                `json:"scope_id"`
	Kind            model.ClaimKind       `json:"kind"`
	Specificity     float64               `json:"specificity" validate:"gte=0,lte=100"`
	CheckWorthiness model.CheckWorthiness `json:"check_worthiness"`
	KeyEntities     []string              `json:"key_entities"`
}

func (c claimWire) model() model.Claim {
	spec := c.Specificity
	if spec > 1 {
		spec /= 100
	}
	return model.Claim{
		ID:              c.ID,
		Text:            c.Text,
		Role:            c.Role,
		DependsOn:       c.DependsOn,
		Centrality:      c.Centrality,
		ThesisRelevance: c.ThesisRelevance,
		ScopeID:         c.ScopeID,
		Kind:            c.Kind,
		Specificity:     spec,
		CheckWorthiness: c.CheckWorthiness,
		KeyEntities:     c.KeyEntities,
	}
}

type scopeWire struct {
	ID       string              `json:"id" validate:"required"`
	Name     string              `json:"name" validate:"required"`
	Subject  string              `json:"subject"`
	Status   model.ScopeStatus   `json:"status"`
	Metadata model.ScopeMetadata `json:"metadata"`
}

func (s scopeWire) model() model.Scope {
	status := s.Status
	if status == "" {
		status = model.StatusUnknown
	}
	return model.Scope{ID: s.ID, Name: s.Name, Subject: s.Subject, Status: status, Metadata: s.Metadata}
}

type factsWire struct {
	Facts []factWire `json:"facts" validate:"required"`
}

type factWire struct {
	Text           string               `json:"text" validate:"required,min=12"`
	Category       model.FactCategory   `json:"category"`
	Directionality model.Directionality `json:"directionality"`
	ClaimIDs       []string             `json:"claim_ids"`
	ScopeID        string               `json:"scope_id"`
	EvidenceScope  model.EvidenceScope  `json:"evidence_scope"`
}

type refinementWire struct {
	Scopes           []scopeWire       `json:"scopes" validate:"required,min=1,dive"`
	ClaimAssignments map[string]string `json:"claim_assignments"`
	FactAssignments  map[string]string `json:"fact_assignments"`
}

type verdictsWire struct {
	Verdicts []verdictWire `json:"verdicts" validate:"required,dive"`
}

type verdictWire struct {
	ClaimID           string                 `json:"claim_id" validate:"required"`
	Label             model.QualitativeLabel `json:"label"`
	Score             *float64               `json:"score" validate:"omitempty,gte=0,lte=100"`
	Confidence        float64                `json:"confidence" validate:"gte=0,lte=100"`
	Reasoning         string                 `json:"reasoning"`
	SupportingFactIDs []string               `json:"supporting_fact_ids"`
	OpposingFactIDs   []string               `json:"opposing_fact_ids"`
	CounterEvidence   bool                   `json:"counter_evidence"`
}

func (v verdictWire) model() model.ClaimJudgment {
	return model.ClaimJudgment{
		ClaimID:           v.ClaimID,
		Label:             v.Label,
		Score:             v.Score,
		Confidence:        v.Confidence,
		Reasoning:         v.Reasoning,
		SupportingFactIDs: v.SupportingFactIDs,
		OpposingFactIDs:   v.OpposingFactIDs,
		CounterEvidence:   v.CounterEvidence,
	}
}
