package validate

import (
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/evidentia/internal/model"
)

// ReliabilityTable scores sources by domain. Scores come from an optional
// bundle file first, then from the configured authority tier lists. Domains
// found in neither are left unknown rather than guessed.
type ReliabilityTable struct {
	bundle    map[string]float64
	suffixes  []string // Bundle keys, longest first
	primary   []string
	secondary []string
	tertiary  []string
	scores    map[model.AuthorityTier]float64
}

// bundleFile is the on-disk reliability bundle. A flat domain -> score map is
// also accepted.
type bundleFile struct {
	Domains map[string]float64 `yaml:"domains"`
}

// NewReliabilityTable builds the table, loading cfg.BundlePath when set
func NewReliabilityTable(cfg model.ReliabilityConfig) (*ReliabilityTable, error) {
	t := &ReliabilityTable{
		bundle:    make(map[string]float64),
		primary:   normalizeDomains(cfg.PrimaryDomains),
		secondary: normalizeDomains(cfg.SecondaryDomains),
		tertiary:  normalizeDomains(cfg.TertiaryDomains),
		scores: map[model.AuthorityTier]float64{
			model.TierPrimary:   cfg.PrimaryScore,
			model.TierSecondary: cfg.SecondaryScore,
			model.TierTertiary:  cfg.TertiaryScore,
		},
	}

	if cfg.BundlePath != "" {
		data, err := os.ReadFile(cfg.BundlePath)
		if err != nil {
			return nil, fmt.Errorf("read reliability bundle: %w", err)
		}
		if err := t.LoadBundle(data); err != nil {
			return nil, fmt.Errorf("load reliability bundle %s: %w", cfg.BundlePath, err)
		}
	}

	return t, nil
}

// LoadBundle merges a YAML or JSON bundle into the table
func (t *ReliabilityTable) LoadBundle(data []byte) error {
	var wrapped bundleFile
	if err := yaml.Unmarshal(data, &wrapped); err == nil && len(wrapped.Domains) > 0 {
		return t.addBundle(wrapped.Domains)
	}

	var flat map[string]float64
	if err := yaml.Unmarshal(data, &flat); err != nil {
		return fmt.Errorf("parse bundle: %w", err)
	}
	return t.addBundle(flat)
}

func (t *ReliabilityTable) addBundle(domains map[string]float64) error {
	for domain, score := range domains {
		if score > 1 {
			score /= 100
		}
		if score < 0 || score > 1 {
			return fmt.Errorf("domain %s: score %v out of range", domain, score)
		}
		t.bundle[normalizeHost(domain)] = score
	}

	t.suffixes = t.suffixes[:0]
	for domain := range t.bundle {
		t.suffixes = append(t.suffixes, domain)
	}
	sort.Slice(t.suffixes, func(i, j int) bool {
		if len(t.suffixes[i]) != len(t.suffixes[j]) {
			return len(t.suffixes[i]) > len(t.suffixes[j])
		}
		return t.suffixes[i] < t.suffixes[j]
	})
	return nil
}

// Lookup returns the authority tier and reliability of a URL. Reliability is
// nil when the domain is unknown.
func (t *ReliabilityTable) Lookup(rawURL string) (model.AuthorityTier, *float64) {
	host := HostOf(rawURL)
	if host == "" {
		return model.TierUnknown, nil
	}

	// Bundle scores win, most specific domain first
	for _, domain := range t.suffixes {
		if matchesDomain(host, domain) {
			score := t.bundle[domain]
			return tierForScore(score), &score
		}
	}

	tier := t.Classify(host)
	if tier == model.TierUnknown {
		return tier, nil
	}
	score := t.scores[tier]
	return tier, &score
}

// Classify returns the authority tier of a host from the configured lists
func (t *ReliabilityTable) Classify(host string) model.AuthorityTier {
	host = normalizeHost(host)

	switch {
	case matchesAny(host, t.primary):
		return model.TierPrimary
	case matchesAny(host, t.secondary):
		return model.TierSecondary
	case matchesAny(host, t.tertiary):
		return model.TierTertiary
	}

	// Academic and government TLDs that often indicate authority
	if strings.HasSuffix(host, ".gov") || strings.HasSuffix(host, ".edu") || strings.HasSuffix(host, ".ac.uk") {
		return model.TierPrimary
	}

	return model.TierUnknown
}

// Annotate sets domain, tier and reliability on every source
func (t *ReliabilityTable) Annotate(sources []model.Source) {
	for i := range sources {
		s := &sources[i]
		if s.Domain == "" {
			s.Domain = HostOf(s.URL)
		}
		s.Authority, s.Reliability = t.Lookup(s.URL)
	}
}

// HostOf extracts the normalized host of a URL, or "" when it has none
func HostOf(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return normalizeHost(parsed.Hostname())
}

func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	host = strings.TrimSuffix(host, ".")
	return strings.TrimPrefix(host, "www.")
}

func normalizeDomains(domains []string) []string {
	out := make([]string, 0, len(domains))
	for _, d := range domains {
		if d = normalizeHost(d); d != "" {
			out = append(out, d)
		}
	}
	return out
}

// matchesDomain reports whether host is domain or one of its subdomains.
// A bare TLD such as "gov" matches every host under it.
func matchesDomain(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}

func matchesAny(host string, domains []string) bool {
	for _, d := range domains {
		if matchesDomain(host, d) {
			return true
		}
	}
	return false
}

func tierForScore(score float64) model.AuthorityTier {
	switch {
	case score >= 0.85:
		return model.TierPrimary
	case score >= 0.65:
		return model.TierSecondary
	default:
		return model.TierTertiary
	}
}
