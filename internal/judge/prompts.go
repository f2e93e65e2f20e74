package judge

import (
	"fmt"
	"strings"

	"github.com/ppiankov/evidentia/internal/model"
)

const strictSuffix = "\n\nYour previous reply could not be used. Reply with ONLY the JSON object described above: no prose, no markdown fences, every required field present."

const understandSystem = `You are a fact-checking analyst. Break the input into a thesis and the discrete, checkable claims it makes.

For every claim report:
- role: core (the substance), attribution (who said it), source (where it comes from), timing (when)
- centrality: high only for claims the thesis cannot survive without
- thesis_relevance: direct, tangential or irrelevant
- kind: factual, opinion or prediction
- specificity: 0 to 1, how concrete and checkable it is
- check_worthiness: high, medium or low
- depends_on: ids of claims that must be true for this one to hold

Group claims into scopes: distinct analytical frames such as separate proceedings, studies or jurisdictions. Do not create separate scopes for different opinions about the same frame.`

const understandSchema = `{"thesis": string, "claims": [{"id": string, "text": string, "role": string, "centrality": string, "thesis_relevance": string, "kind": string, "specificity": number, "check_worthiness": string, "depends_on": [string], "scope_id": string, "key_entities": [string]}], "scopes": [{"id": string, "name": string, "subject": string, "status": string, "metadata": {"institution": string, "jurisdiction": string, "methodology": string, "boundaries": string, "standard": string, "regulator": string, "geography": string, "timeframe": string}}], "entities": [string], "framework_relevant": bool, "comparative": bool, "inverse_claim": string, "suggested_queries": [string]}`

const factsSystem = `You extract evidence from one source document for a fact-check. Extract only statements the document itself makes that bear on the listed claims. Quote or closely paraphrase; never add outside knowledge.

For every fact report its category (evidence, statistic, expert_quote, framework, event, criticism), its directionality toward the claims it bears on (supports, contradicts, neutral), the ids of those claims, and the frame of the source (methodology, boundaries, geography, temporal).`

const factsSchema = `{"facts": [{"text": string, "category": string, "directionality": string, "claim_ids": [string], "scope_id": string, "evidence_scope": {"methodology": string, "boundaries": string, "geography": string, "temporal": string}}]}`

const refineSystem = `You organize fact-check evidence into analytical scopes. A scope is a bounded frame: one proceeding, one study, one jurisdiction, one time period. Split a scope only when the evidence shows genuinely different frames that differ in methodology, boundaries, geography or time. Never split by viewpoint or by who is speaking.`

const refineSchema = `{"scopes": [{"id": string, "name": string, "subject": string, "status": string, "metadata": {"institution": string, "jurisdiction": string, "methodology": string, "boundaries": string, "standard": string, "regulator": string, "geography": string, "timeframe": string}}], "claim_assignments": {"<claim id>": "<scope id>"}, "fact_assignments": {"<fact id>": "<scope id>"}}`

const verdictSystem = `You judge claims against collected evidence. Use only the evidence listed. For each claim give a label (strong_support, partial_support, uncertain, refuted), a truth score from 0 to 100, your confidence from 0 to 100, a short reasoning that cites fact ids, the ids of supporting and opposing facts, and counter_evidence=true when any credible evidence cuts against the claim.`

const verdictSchema = `{"verdicts": [{"claim_id": string, "label": string, "score": number, "confidence": number, "reasoning": string, "supporting_fact_ids": [string], "opposing_fact_ids": [string], "counter_evidence": bool}]}`

// Limits for the first attempt and for the smaller strict retry
type promptLimits struct {
	inputChars  int
	sourceChars int
	facts       int
	factChars   int
}

var (
	normalLimits = promptLimits{inputChars: 16000, sourceChars: 12000, facts: 80, factChars: 400}
	strictLimits = promptLimits{inputChars: 6000, sourceChars: 5000, facts: 30, factChars: 200}
)

func limitsFor(strict bool) promptLimits {
	if strict {
		return strictLimits
	}
	return normalLimits
}

func clip(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n]) + "..."
}

func understandPrompt(text string, l promptLimits) string {
	return "Analyze this input:\n\n" + clip(text, l.inputChars)
}

func writeClaims(b *strings.Builder, claims []model.Claim) {
	b.WriteString("Claims:\n")
	for _, c := range claims {
		fmt.Fprintf(b, "- [%s] %s", c.ID, c.Text)
		if c.ScopeID != "" {
			fmt.Fprintf(b, " (scope %s)", c.ScopeID)
		}
		b.WriteString("\n")
	}
}

func writeScopes(b *strings.Builder, scopes []model.Scope) {
	if len(scopes) == 0 {
		return
	}
	b.WriteString("Scopes:\n")
	for _, s := range scopes {
		fmt.Fprintf(b, "- [%s] %s", s.ID, s.Name)
		if s.Subject != "" {
			fmt.Fprintf(b, ": %s", s.Subject)
		}
		b.WriteString("\n")
	}
}

func writeFacts(b *strings.Builder, facts []model.Fact, l promptLimits) {
	b.WriteString("Evidence:\n")
	if len(facts) == 0 {
		b.WriteString("(none found)\n")
		return
	}
	for i, f := range facts {
		if i >= l.facts {
			fmt.Fprintf(b, "(%d more facts omitted)\n", len(facts)-i)
			return
		}
		fmt.Fprintf(b, "- [%s] (%s, %s", f.ID, f.Category, f.Directionality)
		if f.ScopeID != "" {
			fmt.Fprintf(b, ", scope %s", f.ScopeID)
		}
		fmt.Fprintf(b, ") %s\n", clip(f.Text, l.factChars))
	}
}

func factsPrompt(req FactRequest, l promptLimits) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Thesis: %s\n\n", req.Thesis)
	writeClaims(&b, req.Claims)
	writeScopes(&b, req.Scopes)
	if req.MaxFacts > 0 {
		fmt.Fprintf(&b, "\nExtract at most %d facts.\n", req.MaxFacts)
	}
	fmt.Fprintf(&b, "\nSource: %s\nURL: %s\n", req.Source.Title, req.Source.URL)
	if req.Source.PublishedAt != nil {
		fmt.Fprintf(&b, "Published: %s\n", req.Source.PublishedAt.Format("2006-01-02"))
	}
	fmt.Fprintf(&b, "\nDocument:\n%s\n", clip(req.Text, l.sourceChars))
	return b.String()
}

func refinePrompt(thesis string, claims []model.Claim, facts []model.Fact, scopes []model.Scope, l promptLimits) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Thesis: %s\n\n", thesis)
	writeScopes(&b, scopes)
	b.WriteString("\n")
	writeClaims(&b, claims)
	b.WriteString("\n")
	writeFacts(&b, facts, l)
	b.WriteString("\nReturn the scopes that best partition this evidence and assign every claim and fact to one of them. Keep existing scope ids where a scope is unchanged.\n")
	return b.String()
}

func verdictPrompt(thesis string, claims []model.Claim, facts []model.Fact, l promptLimits) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Thesis: %s\n\n", thesis)
	writeClaims(&b, claims)
	b.WriteString("\n")
	writeFacts(&b, facts, l)
	b.WriteString("\nJudge every claim listed above.\n")
	return b.String()
}
