package scope

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/ppiankov/evidentia/internal/model"
	"github.com/ppiankov/evidentia/internal/textsim"
)

const idPrefix = "SCP_"

// frameNouns fold interchangeable words for the kind of frame, so
// "electoral case" and "electoral proceeding" read the same.
var frameNouns = map[string]string{
	"case":          "proceeding",
	"cases":         "proceeding",
	"proceeding":    "proceeding",
	"proceedings":   "proceeding",
	"trial":         "proceeding",
	"lawsuit":       "proceeding",
	"litigation":    "proceeding",
	"matter":        "proceeding",
	"hearing":       "proceeding",
	"study":         "study",
	"studies":       "study",
	"analysis":      "study",
	"report":        "study",
	"assessment":    "study",
	"review":        "study",
	"paper":         "study",
	"survey":        "study",
	"investigation": "investigation",
	"inquiry":       "investigation",
	"probe":         "investigation",
}

// nameTokens is the normalized token set of a scope name
func nameTokens(s string) textsim.Set {
	tokens := textsim.Tokenize(s)
	for i, t := range tokens {
		if folded, ok := frameNouns[t]; ok {
			tokens[i] = folded
		}
	}
	return textsim.SetOf(tokens)
}

// anchor is the strongest identity field of a scope, if any
func anchor(s model.Scope) string {
	for _, v := range []string{s.Metadata.Institution, s.Metadata.Regulator, s.Metadata.Standard} {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// contentKey identifies a scope by what it covers, independent of its id and
// of word order or frame-noun phrasing in its name.
func contentKey(s model.Scope) string {
	return strings.Join(textsim.NewSet(anchor(s)).Sorted(), " ") + "|" +
		strings.Join(nameTokens(s.Name).Sorted(), " ")
}

func slug(s string, limit int) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToUpper(s) {
		switch {
		case unicode.IsLetter(r) && r < unicode.MaxASCII, unicode.IsDigit(r):
			b.WriteRune(r)
			lastUnderscore = false
		case !lastUnderscore:
			b.WriteByte('_')
			lastUnderscore = true
		}
		if b.Len() >= limit {
			break
		}
	}
	return strings.Trim(b.String(), "_")
}

func baseID(s model.Scope) string {
	sum := sha256.Sum256([]byte(contentKey(s)))
	hash := strings.ToUpper(hex.EncodeToString(sum[:]))[:6]
	if a := slug(anchor(s), 20); a != "" {
		return idPrefix + a + "_" + hash
	}
	return idPrefix + hash
}

// Canonicalize assigns every scope a deterministic id derived from its
// content. Scopes with identical content get numbered suffixes in a stable
// order. The remap covers every input id that changed.
func Canonicalize(scopes []model.Scope) ([]model.Scope, Remap) {
	type entry struct {
		idx  int
		key  string
		base string
	}

	entries := make([]entry, len(scopes))
	for i, s := range scopes {
		entries[i] = entry{idx: i, key: contentKey(s), base: baseID(s)}
	}

	// Suffix order must not depend on input order
	order := make([]entry, len(entries))
	copy(order, entries)
	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if a.base != b.base {
			return a.base < b.base
		}
		if scopes[a.idx].Name != scopes[b.idx].Name {
			return scopes[a.idx].Name < scopes[b.idx].Name
		}
		return scopes[a.idx].ID < scopes[b.idx].ID
	})

	newIDs := make([]string, len(scopes))
	used := make(map[string]int)
	for _, e := range order {
		used[e.base]++
		id := e.base
		if n := used[e.base]; n > 1 {
			id = fmt.Sprintf("%s_%d", e.base, n)
		}
		newIDs[e.idx] = id
	}

	out := make([]model.Scope, len(scopes))
	remap := make(Remap)
	for i, s := range scopes {
		// The synthesized default keeps its well-known id
		if s.Synthesized && s.ID == model.DefaultScopeID {
			newIDs[i] = model.DefaultScopeID
		}
		if s.ID != "" && s.ID != newIDs[i] {
			if _, dup := remap[s.ID]; !dup {
				remap[s.ID] = newIDs[i]
			}
		}
		s.ID = newIDs[i]
		out[i] = s
	}
	return out, remap
}
