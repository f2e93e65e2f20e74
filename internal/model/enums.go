package model

import "strings"

// Judgment-facing enums are closed. Anything the provider returns outside the
// known vocabulary decodes to the Unknown variant instead of failing the call.

// normalizeToken lowercases and folds separators so "Strong Support",
// "strong-support" and "STRONG_SUPPORT" compare equal.
func normalizeToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "_", " ", "_", ".", "").Replace(s)
}

func parseEnum[T ~string](raw string, table map[string]T, unknown T) T {
	if v, ok := table[normalizeToken(raw)]; ok {
		return v
	}
	return unknown
}

// ClaimRole describes what a claim contributes to the thesis
type ClaimRole string

const (
	RoleCore        ClaimRole = "core"
	RoleAttribution ClaimRole = "attribution"
	RoleSource      ClaimRole = "source"
	RoleTiming      ClaimRole = "timing"
	RoleUnknown     ClaimRole = "unknown"
)

var roleTable = map[string]ClaimRole{
	"core":        RoleCore,
	"main":        RoleCore,
	"primary":     RoleCore,
	"attribution": RoleAttribution,
	"attributed":  RoleAttribution,
	"source":      RoleSource,
	"sourcing":    RoleSource,
	"timing":      RoleTiming,
	"temporal":    RoleTiming,
	"time":        RoleTiming,
}

// ParseClaimRole decodes a role leniently
func ParseClaimRole(s string) ClaimRole { return parseEnum(s, roleTable, RoleUnknown) }

func (r *ClaimRole) UnmarshalText(b []byte) error {
	*r = ParseClaimRole(string(b))
	return nil
}

// Centrality is how critical a claim is to the thesis
type Centrality string

const (
	CentralityHigh    Centrality = "high"
	CentralityMedium  Centrality = "medium"
	CentralityLow     Centrality = "low"
	CentralityUnknown Centrality = "unknown"
)

var centralityTable = map[string]Centrality{
	"high":     CentralityHigh,
	"central":  CentralityHigh,
	"critical": CentralityHigh,
	"medium":   CentralityMedium,
	"moderate": CentralityMedium,
	"mid":      CentralityMedium,
	"low":      CentralityLow,
	"minor":    CentralityLow,
	"marginal": CentralityLow,
}

// ParseCentrality decodes a centrality leniently
func ParseCentrality(s string) Centrality {
	return parseEnum(s, centralityTable, CentralityUnknown)
}

func (c *Centrality) UnmarshalText(b []byte) error {
	*c = ParseCentrality(string(b))
	return nil
}

// Multiplier is the aggregation weight of a centrality level
func (c Centrality) Multiplier() float64 {
	switch c {
	case CentralityHigh:
		return 3
	case CentralityMedium:
		return 2
	default:
		return 1
	}
}

// ThesisRelevance is how directly a claim bears on the thesis
type ThesisRelevance string

const (
	RelevanceDirect     ThesisRelevance = "direct"
	RelevanceTangential ThesisRelevance = "tangential"
	RelevanceIrrelevant ThesisRelevance = "irrelevant"
	RelevanceUnknown    ThesisRelevance = "unknown"
)

var relevanceTable = map[string]ThesisRelevance{
	"direct":       RelevanceDirect,
	"directly":     RelevanceDirect,
	"tangential":   RelevanceTangential,
	"indirect":     RelevanceTangential,
	"peripheral":   RelevanceTangential,
	"irrelevant":   RelevanceIrrelevant,
	"unrelated":    RelevanceIrrelevant,
	"not_relevant": RelevanceIrrelevant,
	"none":         RelevanceIrrelevant,
}

// ParseThesisRelevance decodes a relevance leniently
func ParseThesisRelevance(s string) ThesisRelevance {
	return parseEnum(s, relevanceTable, RelevanceUnknown)
}

func (r *ThesisRelevance) UnmarshalText(b []byte) error {
	*r = ParseThesisRelevance(string(b))
	return nil
}

// ClaimKind separates checkable assertions from opinion and forecasts
type ClaimKind string

const (
	KindFactual    ClaimKind = "factual"
	KindOpinion    ClaimKind = "opinion"
	KindPrediction ClaimKind = "prediction"
	KindUnknown    ClaimKind = "unknown"
)

var kindTable = map[string]ClaimKind{
	"factual":     KindFactual,
	"fact":        KindFactual,
	"empirical":   KindFactual,
	"opinion":     KindOpinion,
	"normative":   KindOpinion,
	"value":       KindOpinion,
	"prediction":  KindPrediction,
	"forecast":    KindPrediction,
	"speculative": KindPrediction,
}

// ParseClaimKind decodes a claim kind leniently
func ParseClaimKind(s string) ClaimKind { return parseEnum(s, kindTable, KindUnknown) }

func (k *ClaimKind) UnmarshalText(b []byte) error {
	*k = ParseClaimKind(string(b))
	return nil
}

// CheckWorthiness rates whether a claim is worth researching at all
type CheckWorthiness string

const (
	WorthinessHigh    CheckWorthiness = "high"
	WorthinessMedium  CheckWorthiness = "medium"
	WorthinessLow     CheckWorthiness = "low"
	WorthinessUnknown CheckWorthiness = "unknown"
)

var worthinessTable = map[string]CheckWorthiness{
	"high":   WorthinessHigh,
	"medium": WorthinessMedium,
	"low":    WorthinessLow,
	"none":   WorthinessLow,
}

// ParseCheckWorthiness decodes check-worthiness leniently
func ParseCheckWorthiness(s string) CheckWorthiness {
	return parseEnum(s, worthinessTable, WorthinessUnknown)
}

func (w *CheckWorthiness) UnmarshalText(b []byte) error {
	*w = ParseCheckWorthiness(string(b))
	return nil
}

// Directionality is a fact's stance toward the claim it was extracted for
type Directionality string

const (
	DirectionSupports    Directionality = "supports"
	DirectionContradicts Directionality = "contradicts"
	DirectionNeutral     Directionality = "neutral"
	DirectionUnknown     Directionality = "unknown"
)

var directionTable = map[string]Directionality{
	"supports":    DirectionSupports,
	"support":     DirectionSupports,
	"supporting":  DirectionSupports,
	"confirms":    DirectionSupports,
	"for":         DirectionSupports,
	"contradicts": DirectionContradicts,
	"contradict":  DirectionContradicts,
	"opposes":     DirectionContradicts,
	"refutes":     DirectionContradicts,
	"against":     DirectionContradicts,
	"neutral":     DirectionNeutral,
	"mixed":       DirectionNeutral,
	"context":     DirectionNeutral,
}

// ParseDirectionality decodes a stance leniently
func ParseDirectionality(s string) Directionality {
	return parseEnum(s, directionTable, DirectionUnknown)
}

func (d *Directionality) UnmarshalText(b []byte) error {
	*d = ParseDirectionality(string(b))
	return nil
}

// FactCategory classifies what kind of evidence a fact is
type FactCategory string

const (
	CategoryEvidence    FactCategory = "evidence"
	CategoryStatistic   FactCategory = "statistic"
	CategoryExpertQuote FactCategory = "expert_quote"
	CategoryFramework   FactCategory = "framework"
	CategoryEvent       FactCategory = "event"
	CategoryCriticism   FactCategory = "criticism"
	CategoryUnknown     FactCategory = "unknown"
)

var categoryTable = map[string]FactCategory{
	"evidence":        CategoryEvidence,
	"direct_evidence": CategoryEvidence,
	"finding":         CategoryEvidence,
	"statistic":       CategoryStatistic,
	"statistics":      CategoryStatistic,
	"data":            CategoryStatistic,
	"expert_quote":    CategoryExpertQuote,
	"quote":           CategoryExpertQuote,
	"expert":          CategoryExpertQuote,
	"framework":       CategoryFramework,
	"standard":        CategoryFramework,
	"legal_provision": CategoryFramework,
	"regulation":      CategoryFramework,
	"law":             CategoryFramework,
	"event":           CategoryEvent,
	"timeline":        CategoryEvent,
	"criticism":       CategoryCriticism,
	"counter":         CategoryCriticism,
	"rebuttal":        CategoryCriticism,
}

// ParseFactCategory decodes a fact category leniently
func ParseFactCategory(s string) FactCategory {
	return parseEnum(s, categoryTable, CategoryUnknown)
}

func (c *FactCategory) UnmarshalText(b []byte) error {
	*c = ParseFactCategory(string(b))
	return nil
}

// QualitativeLabel is the four-way judgment a provider may return instead of a number
type QualitativeLabel string

const (
	LabelStrongSupport  QualitativeLabel = "strong_support"
	LabelPartialSupport QualitativeLabel = "partial_support"
	LabelUncertain      QualitativeLabel = "uncertain"
	LabelRefuted        QualitativeLabel = "refuted"
	LabelUnknown        QualitativeLabel = "unknown"
)

var labelTable = map[string]QualitativeLabel{
	"strong_support":      LabelStrongSupport,
	"strongly_supported":  LabelStrongSupport,
	"supported":           LabelStrongSupport,
	"true":                LabelStrongSupport,
	"partial_support":     LabelPartialSupport,
	"partially_supported": LabelPartialSupport,
	"partial":             LabelPartialSupport,
	"mostly_true":         LabelPartialSupport,
	"uncertain":           LabelUncertain,
	"unclear":             LabelUncertain,
	"insufficient":        LabelUncertain,
	"mixed":               LabelUncertain,
	"refuted":             LabelRefuted,
	"false":               LabelRefuted,
	"contradicted":        LabelRefuted,
	"debunked":            LabelRefuted,
}

// ParseQualitativeLabel decodes a qualitative judgment leniently
func ParseQualitativeLabel(s string) QualitativeLabel {
	return parseEnum(s, labelTable, LabelUnknown)
}

func (l *QualitativeLabel) UnmarshalText(b []byte) error {
	*l = ParseQualitativeLabel(string(b))
	return nil
}

// ScopeStatus is the state of the proceeding or study a scope covers
type ScopeStatus string

const (
	StatusConcluded ScopeStatus = "concluded"
	StatusOngoing   ScopeStatus = "ongoing"
	StatusPending   ScopeStatus = "pending"
	StatusUnknown   ScopeStatus = "unknown"
)

var statusTable = map[string]ScopeStatus{
	"concluded": StatusConcluded,
	"closed":    StatusConcluded,
	"final":     StatusConcluded,
	"completed": StatusConcluded,
	"ongoing":   StatusOngoing,
	"active":    StatusOngoing,
	"open":      StatusOngoing,
	"pending":   StatusPending,
	"scheduled": StatusPending,
}

// ParseScopeStatus decodes a scope status leniently
func ParseScopeStatus(s string) ScopeStatus { return parseEnum(s, statusTable, StatusUnknown) }

func (s *ScopeStatus) UnmarshalText(b []byte) error {
	*s = ParseScopeStatus(string(b))
	return nil
}
