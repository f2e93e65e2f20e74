// Package textsim provides the token-overlap measures used for fact
// deduplication, claim clustering and scope similarity.
package textsim

import (
	"sort"
	"strings"
	"unicode"
)

var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "but": true,
	"of": true, "in": true, "on": true, "at": true, "to": true, "for": true,
	"by": true, "with": true, "from": true, "as": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "being": true,
	"it": true, "its": true, "this": true, "that": true, "these": true,
	"those": true, "has": true, "have": true, "had": true, "not": true,
	"than": true, "into": true, "about": true, "which": true, "who": true,
	"will": true, "would": true, "can": true, "could": true, "there": true,
}

// Tokenize lowercases s and splits it into word tokens, dropping stopwords
// and single-character tokens.
func Tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < 2 || stopwords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// Set is a set of tokens
type Set map[string]struct{}

// NewSet tokenizes s into a set
func NewSet(s string) Set {
	return SetOf(Tokenize(s))
}

// SetOf builds a set from already-normalized tokens
func SetOf(tokens []string) Set {
	set := make(Set, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// Sorted returns the set members in lexical order
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// JaccardSets is |a∩b| / |a∪b|. Two empty sets are identical.
func JaccardSets(a, b Set) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// Jaccard compares the token sets of two strings
func Jaccard(a, b string) float64 {
	return JaccardSets(NewSet(a), NewSet(b))
}

// Containment is |a∩b| / min(|a|,|b|). It catches a short snippet that is
// wholly repeated inside a longer one.
func Containment(a, b Set) float64 {
	small := min(len(a), len(b))
	if small == 0 {
		return 0
	}
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	return float64(inter) / float64(small)
}
