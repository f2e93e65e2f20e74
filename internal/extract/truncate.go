package extract

import (
	"strings"
	"unicode/utf8"
)

// Truncate shortens text to at most limit runes, cutting at the last
// sentence boundary in the second half of the window when there is one
func Truncate(text string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}

	cut := string([]rune(text)[:limit])
	if i := strings.LastIndexAny(cut, ".!?\n"); i > len(cut)/2 {
		return cut[:i+1]
	}
	return cut
}
