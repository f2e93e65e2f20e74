package scope

import (
	"fmt"
	"strings"

	"github.com/ppiankov/evidentia/internal/model"
	"github.com/ppiankov/evidentia/internal/textsim"
)

// distinctThreshold is the descriptor similarity below which two values are
// considered different boundaries rather than rephrasings.
const distinctThreshold = 0.5

// boundary dimensions that justify keeping two scopes apart. Institution,
// jurisdiction, regulator and standard all delimit the same thing: where the
// frame's authority ends.
var dimensions = []struct {
	name   string
	fields func(model.ScopeMetadata) []string
}{
	{"methodology", func(m model.ScopeMetadata) []string { return []string{m.Methodology} }},
	{"boundaries", func(m model.ScopeMetadata) []string {
		return []string{m.Boundaries, m.Institution, m.Jurisdiction, m.Regulator, m.Standard}
	}},
	{"geography", func(m model.ScopeMetadata) []string { return []string{m.Geography} }},
	{"time", func(m model.ScopeMetadata) []string { return []string{m.Timeframe} }},
}

// Differs returns the first boundary dimension on which a and b are both
// described and the descriptions disagree, or "" if there is none.
func Differs(a, b model.Scope) string {
	for _, d := range dimensions {
		av, bv := d.fields(a.Metadata), d.fields(b.Metadata)
		for i := range av {
			x, y := strings.TrimSpace(av[i]), strings.TrimSpace(bv[i])
			if x == "" || y == "" || strings.EqualFold(x, y) {
				continue
			}
			if textsim.JaccardSets(textsim.NewSet(x), textsim.NewSet(y)) < distinctThreshold {
				return d.name
			}
		}
	}
	return ""
}

// AcceptSplit reports whether a proposed partition into several scopes is
// grounded in real boundary differences. Every pair must differ on at least
// one dimension; phrasing or viewpoint differences do not count.
func AcceptSplit(proposed []model.Scope) (bool, string) {
	if len(proposed) < 2 {
		return true, ""
	}
	for i := 0; i < len(proposed); i++ {
		for j := i + 1; j < len(proposed); j++ {
			if Differs(proposed[i], proposed[j]) == "" {
				return false, fmt.Sprintf("scopes %q and %q share every boundary dimension", proposed[i].Name, proposed[j].Name)
			}
		}
	}
	return true, ""
}
