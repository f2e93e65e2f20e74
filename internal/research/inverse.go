package research

import (
	"fmt"
	"regexp"
	"strings"
)

// comparativeRe matches "<X> is|are|was|were <more|less adj | adj-er> than <Y>"
var comparativeRe = regexp.MustCompile(`(?i)^\s*(.+?)\s+(is|are|was|were|has been|have been)\s+((?:more|less)\s+\w+|\w+er)\s+than\s+(.+?)[\s.!?]*$`)

// IsComparative reports whether text makes a directional comparison
func IsComparative(text string) bool {
	return comparativeRe.MatchString(strings.TrimSpace(text))
}

// BuildInverse swaps the compared sides: "X is more efficient than Y"
// becomes "Y is more efficient than X". It returns "" when text is not a
// simple comparison.
func BuildInverse(text string) string {
	m := comparativeRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return ""
	}
	return fmt.Sprintf("%s %s %s than %s", m[4], m[2], m[3], m[1])
}
