package crawler

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"sitecrawler/internal/urlutil"
)

// Summary is a set of derived numbers describing a crawl result.
type Summary struct {
	TotalLinks            int            `json:"total_links" yaml:"total_links"`
	SuggestedCount        int            `json:"suggested_count" yaml:"suggested_count"`
	ExternalDomainCount   int            `json:"external_domain_count" yaml:"external_domain_count"`
	TopExternalDomains    []DomainCount  `json:"top_external_domains" yaml:"top_external_domains"`
	URLPatterns           []PatternCount `json:"url_patterns" yaml:"url_patterns"`
	AvgLinksPerPage       float64        `json:"avg_links_per_page" yaml:"avg_links_per_page"`
	InternalExternalRatio float64        `json:"internal_external_ratio" yaml:"internal_external_ratio"`
	LinksPerSecond        float64        `json:"links_per_second" yaml:"links_per_second"`
	SuccessRate           float64        `json:"success_rate" yaml:"success_rate"`
}

// DomainCount is the number of external links pointing at Domain.
type DomainCount struct {
	Domain string `json:"domain" yaml:"domain"`
	Count  int    `json:"count" yaml:"count"`
}

// PatternCount is the number of internal links sharing a URL pattern.
type PatternCount struct {
	Pattern string `json:"pattern" yaml:"pattern"`
	Count   int    `json:"count" yaml:"count"`
}

// Summarize computes link distribution and efficiency figures for result.
// topN limits TopExternalDomains; non-positive keeps every domain.
// Ratios divide by at least one so empty crawls yield zeros instead of NaN.
func Summarize(result *Result, topN int) Summary {
	if result == nil {
		return Summary{TopExternalDomains: []DomainCount{}, URLPatterns: []PatternCount{}}
	}

	visited := float64(max(len(result.Visited), 1))
	internal := float64(len(result.Internal))

	domains := countExternalDomains(result.External)
	top := domains
	if topN > 0 && len(top) > topN {
		top = top[:topN]
	}

	return Summary{
		TotalLinks:            len(result.Internal) + len(result.External),
		SuggestedCount:        len(result.Suggested),
		ExternalDomainCount:   len(domains),
		TopExternalDomains:    top,
		URLPatterns:           countURLPatterns(result.Internal),
		AvgLinksPerPage:       internal / visited,
		InternalExternalRatio: internal / float64(max(len(result.External), 1)),
		LinksPerSecond:        internal / max(result.Stats.TotalElapsedSeconds, 1),
		SuccessRate:           internal / visited * 100,
	}
}

// FilterLinks returns the links containing term, ignoring case.
// An empty term keeps every link.
func FilterLinks(links []string, term string) []string {
	filtered := make([]string, 0, len(links))

	for _, link := range links {
		if term == "" || urlutil.ContainsFold(link, term) {
			filtered = append(filtered, link)
		}
	}

	return filtered
}

func countExternalDomains(links []string) []DomainCount {
	counts := map[string]int{}
	for _, link := range links {
		domain, ok := urlutil.Domain(link)
		if !ok {
			continue
		}

		counts[domain]++
	}

	out := make([]DomainCount, 0, len(counts))
	for domain, count := range counts {
		out = append(out, DomainCount{Domain: domain, Count: count})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}

		return out[i].Domain < out[j].Domain
	})

	return out
}

// countURLPatterns buckets paths by file extension when the last segment has
// one, and by the number of path segments otherwise.
func countURLPatterns(links []string) []PatternCount {
	counts := map[string]int{}
	for _, link := range links {
		parsed, err := url.Parse(link)
		if err != nil || parsed.Path == "" {
			continue
		}

		counts[urlPattern(parsed.Path)]++
	}

	out := make([]PatternCount, 0, len(counts))
	for pattern, count := range counts {
		out = append(out, PatternCount{Pattern: pattern, Count: count})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}

		return out[i].Pattern < out[j].Pattern
	})

	return out
}

func urlPattern(path string) string {
	segments := strings.Split(path, "/")
	last := segments[len(segments)-1]

	if idx := strings.LastIndex(last, "."); idx >= 0 {
		return "." + strings.ToLower(last[idx+1:])
	}

	depth := 0
	for _, segment := range segments {
		if segment != "" {
			depth++
		}
	}

	return fmt.Sprintf("depth_%d", depth)
}
