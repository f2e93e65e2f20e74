package scope

import (
	"strings"

	"github.com/ppiankov/evidentia/internal/model"
	"github.com/ppiankov/evidentia/internal/textsim"
)

// Similarity weights. Secondary fields weigh little so two unrelated scopes
// that share a country or a year are not merged by coincidence.
const (
	weightName      = 0.45
	weightPrimary   = 0.30
	weightSubject   = 0.20
	weightSecondary = 0.05
)

func primaryFields(m model.ScopeMetadata) []string {
	return []string{m.Institution, m.Jurisdiction, m.Methodology, m.Boundaries, m.Standard, m.Regulator}
}

func secondaryFields(m model.ScopeMetadata) []string {
	return []string{m.Geography, m.Timeframe}
}

// Similarity is a weighted blend of name, primary identity metadata, subject
// and secondary metadata similarity, in [0,1].
func Similarity(a, b model.Scope) float64 {
	name := textsim.JaccardSets(nameTokens(a.Name), nameTokens(b.Name))
	primary := groupSimilarity(primaryFields(a.Metadata), primaryFields(b.Metadata))
	subject := fieldSimilarity(a.Subject, b.Subject)
	secondary := groupSimilarity(secondaryFields(a.Metadata), secondaryFields(b.Metadata))

	return weightName*name + weightPrimary*primary + weightSubject*subject + weightSecondary*secondary
}

// fieldSimilarity compares one descriptor. Absent on both sides says nothing
// (1); present on one side only is half evidence of difference (0.5).
func fieldSimilarity(a, b string) float64 {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	switch {
	case a == "" && b == "":
		return 1
	case a == "" || b == "":
		return 0.5
	case strings.EqualFold(a, b):
		return 1
	default:
		return textsim.JaccardSets(nameTokens(a), nameTokens(b))
	}
}

// groupSimilarity averages fieldSimilarity over fields set on either side
func groupSimilarity(a, b []string) float64 {
	total, n := 0.0, 0
	for i := range a {
		if strings.TrimSpace(a[i]) == "" && strings.TrimSpace(b[i]) == "" {
			continue
		}
		total += fieldSimilarity(a[i], b[i])
		n++
	}
	if n == 0 {
		return 1
	}
	return total / float64(n)
}
