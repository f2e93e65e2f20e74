package model

import "time"

// Source is a fetched (or attempted) document that facts are extracted from
type Source struct {
	ID          string        `json:"id"`
	URL         string        `json:"url"`
	Title       string        `json:"title,omitempty"`
	Domain      string        `json:"domain"`
	Authority   AuthorityTier `json:"authority"`
	Reliability *float64      `json:"reliability,omitempty"` // nil when the domain is unrated
	PublishedAt *time.Time    `json:"published_at,omitempty"`
	Query       string        `json:"query,omitempty"` // Search query that surfaced it
	Iteration   int           `json:"iteration"`       // Research iteration that fetched it
	Fetched     bool          `json:"fetched"`         // false when the fetch failed
	Error       string        `json:"error,omitempty"`
	TextLength  int           `json:"text_length,omitempty"`
}

// ReliabilityKnown reports whether the source has a reliability rating
func (s Source) ReliabilityKnown() bool {
	return s.Reliability != nil
}

// AuthorityTier represents the classification of source authority
type AuthorityTier int

const (
	TierUnknown   AuthorityTier = 0 // Not yet classified
	TierPrimary   AuthorityTier = 1 // Courts, statutes, regulators, peer-reviewed research
	TierSecondary AuthorityTier = 2 // Encyclopedias, wire services, established newsrooms
	TierTertiary  AuthorityTier = 3 // Blogs, forums, social media
)

func (t AuthorityTier) String() string {
	switch t {
	case TierPrimary:
		return "primary"
	case TierSecondary:
		return "secondary"
	case TierTertiary:
		return "tertiary"
	default:
		return "unknown"
	}
}

func (t AuthorityTier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *AuthorityTier) UnmarshalText(b []byte) error {
	*t = ParseAuthorityTier(string(b))
	return nil
}

// ParseAuthorityTier converts a tier string to AuthorityTier
func ParseAuthorityTier(s string) AuthorityTier {
	switch normalizeToken(s) {
	case "primary", "1":
		return TierPrimary
	case "secondary", "2":
		return TierSecondary
	case "tertiary", "3":
		return TierTertiary
	default:
		return TierUnknown
	}
}
