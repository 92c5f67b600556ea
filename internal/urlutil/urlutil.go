package urlutil

import (
	"net/url"
	"strings"
)

// Category tells whether a link belongs to the crawled site.
type Category int

const (
	// External links point at a different authority than the base domain.
	External Category = iota
	// Internal links share the base domain.
	Internal
)

func (c Category) String() string {
	if c == Internal {
		return "internal"
	}

	return "external"
}

// Resolve resolves href against base and returns an absolute URL.
// An empty href stands for base itself. Fragment-only references and results
// without a scheme or an authority (mailto:, javascript:) are rejected.
// Fragments of other references are kept.
func Resolve(base *url.URL, href string) (string, bool) {
	trimmed := strings.TrimSpace(href)
	if strings.HasPrefix(trimmed, "#") {
		return "", false
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", false
	}

	resolved := base.ResolveReference(parsed)
	if !hasSchemeAndHost(resolved) {
		return "", false
	}

	return resolved.String(), true
}

// IsValid reports whether raw parses to a URL with both a scheme and an authority.
func IsValid(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}

	return hasSchemeAndHost(parsed)
}

// Domain returns the authority (host and optional port) of raw.
// The comparison key is used as is: no case folding and no "www." stripping.
func Domain(raw string) (string, bool) {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return "", false
	}

	return parsed.Host, true
}

// Classify categorizes link relative to baseDomain by exact authority equality.
func Classify(baseDomain, link string) Category {
	domain, ok := Domain(link)
	if ok && domain == baseDomain {
		return Internal
	}

	return External
}

// ContainsFold reports whether value contains substr, ignoring case.
func ContainsFold(value, substr string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(substr))
}

func hasSchemeAndHost(u *url.URL) bool {
	return u.Scheme != "" && u.Host != ""
}
