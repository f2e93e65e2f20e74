package retrieval

import (
	"net/url"
	"strings"
)

// socialDomains never yield citable evidence: their content needs
// JavaScript or they only redirect elsewhere
var socialDomains = []string{
	"twitter.com", "x.com", "t.co",
	"facebook.com", "fb.com", "fb.me", "instagram.com", "threads.net",
	"tiktok.com", "linkedin.com", "pinterest.com", "snapchat.com",
	"t.me", "discord.gg", "whatsapp.com",
	"bit.ly", "goo.gl", "tinyurl.com", "ow.ly", "buff.ly", "is.gd", "cutt.ly",
}

// DomainFilter handles domain allowlist/denylist filtering for evidence sources
type DomainFilter struct {
	allowlist []string
	denylist  []string
}

// NewDomainFilter creates a filter. A non-empty allowlist admits only those
// domains. The denylist is always applied, together with social and
// shortener domains when skipSocial is set.
func NewDomainFilter(allowlist, denylist []string, skipSocial bool) *DomainFilter {
	deny := normalizeDomainList(denylist)
	if skipSocial {
		deny = append(deny, socialDomains...)
	}
	return &DomainFilter{
		allowlist: normalizeDomainList(allowlist),
		denylist:  deny,
	}
}

// IsAllowed checks a domain against the filter
func (f *DomainFilter) IsAllowed(domain string) bool {
	domain = normalizeDomain(domain)
	if domain == "" {
		return false
	}
	if matchesAnyDomain(domain, f.denylist) {
		return false
	}
	return len(f.allowlist) == 0 || matchesAnyDomain(domain, f.allowlist)
}

// Apply keeps allowed results, further restricted to whitelist when given,
// dropping repeated URLs
func (f *DomainFilter) Apply(results []SearchResult, whitelist []string) []SearchResult {
	extra := normalizeDomainList(whitelist)
	seen := make(map[string]bool, len(results))

	out := results[:0:0]
	for _, r := range results {
		domain := r.Domain
		if domain == "" {
			domain = domainOf(r.URL)
		}
		if !f.IsAllowed(domain) {
			continue
		}
		if len(extra) > 0 && !matchesAnyDomain(normalizeDomain(domain), extra) {
			continue
		}
		key := strings.TrimSuffix(r.URL, "/")
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return normalizeDomain(u.Hostname())
}

func normalizeDomain(domain string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(domain)), "www.")
}

func normalizeDomainList(domains []string) []string {
	out := make([]string, 0, len(domains))
	for _, d := range domains {
		if d = normalizeDomain(d); d != "" {
			out = append(out, d)
		}
	}
	return out
}

func matchesAnyDomain(domain string, list []string) bool {
	for _, d := range list {
		if domain == d || strings.HasSuffix(domain, "."+d) {
			return true
		}
	}
	return false
}
