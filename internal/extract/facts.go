package extract

import (
	"strings"

	"github.com/ppiankov/evidentia/internal/model"
	"github.com/ppiankov/evidentia/internal/textsim"
)

// DefaultFactSimilarity is the token overlap at which two facts are the same
const DefaultFactSimilarity = 0.85

const (
	// A short fact restated inside a longer one is still a duplicate
	containmentThreshold = 0.95
	minContainedTokens   = 5
)

// FactDeduplicator filters near-duplicate facts against everything accepted
// so far in a run
type FactDeduplicator struct {
	threshold float64
	accepted  []textsim.Set
}

// NewFactDeduplicator seeds the filter with previously accepted facts
func NewFactDeduplicator(threshold float64, prior []model.Fact) *FactDeduplicator {
	if threshold <= 0 {
		threshold = DefaultFactSimilarity
	}
	d := &FactDeduplicator{threshold: threshold}
	for _, f := range prior {
		d.accepted = append(d.accepted, textsim.NewSet(f.Text))
	}
	return d
}

// Accept reports whether f is new and, if so, records it. Facts without any
// content word are rejected.
func (d *FactDeduplicator) Accept(f model.Fact) bool {
	set := textsim.NewSet(f.Text)
	if len(set) == 0 {
		return false
	}
	for _, prev := range d.accepted {
		if d.duplicate(set, prev) {
			return false
		}
	}
	d.accepted = append(d.accepted, set)
	return true
}

// Filter accepts facts in order and returns the new ones and the number dropped
func (d *FactDeduplicator) Filter(facts []model.Fact) ([]model.Fact, int) {
	kept := make([]model.Fact, 0, len(facts))
	for _, f := range facts {
		if d.Accept(f) {
			kept = append(kept, f)
		}
	}
	return kept, len(facts) - len(kept)
}

func (d *FactDeduplicator) duplicate(a, b textsim.Set) bool {
	if textsim.JaccardSets(a, b) >= d.threshold {
		return true
	}
	return min(len(a), len(b)) >= minContainedTokens && textsim.Containment(a, b) >= containmentThreshold
}

// CleanFactText trims quotes, bullets and whitespace the provider may wrap
// around a fact
func CleanFactText(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "-*•· ")
	s = strings.Trim(s, "\"'“”")
	return strings.Join(strings.Fields(s), " ")
}
