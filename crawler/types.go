package crawler

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"sitecrawler/internal/metrics"
	"sitecrawler/internal/pacing"
)

// Options configures one crawl.
// MaxDepth counts link hops from the seed (the seed is depth 0) and MaxURLs caps
// both the number of processed pages and the frontier capacity.
// Pacer overrides Delay; when both are unset requests are not paced.
// Workers > 1 fetches up to Workers pages of the same frontier window concurrently.
type Options struct {
	SeedURL    string
	Keyword    string
	MaxDepth   int
	MaxURLs    int
	Delay      time.Duration
	Workers    int
	Timeout    time.Duration
	UserAgent  string
	HTTPClient *http.Client
	Pacer      pacing.Pacer
	Clock      pacing.Timer
	Logger     *zap.Logger
	Metrics    *metrics.Crawl
	OnProgress func(Progress)
}

// Result is everything a crawl accumulated.
// Internal, External and Suggested are duplicate-free and keep discovery order.
type Result struct {
	SessionID  string   `json:"session_id" yaml:"session_id"`
	SeedURL    string   `json:"seed_url" yaml:"seed_url"`
	BaseDomain string   `json:"base_domain" yaml:"base_domain"`
	Keyword    string   `json:"keyword" yaml:"keyword"`
	Internal   []string `json:"internal_links" yaml:"internal_links"`
	External   []string `json:"external_links" yaml:"external_links"`
	Suggested  []string `json:"suggested_links" yaml:"suggested_links"`
	Visited    []string `json:"visited" yaml:"visited"`
	Stats      Stats    `json:"stats" yaml:"stats"`
}

// Stats describes the timing and counters of a finished crawl.
// PagesPerSecond is 0 when no time elapsed.
type Stats struct {
	StartTime           time.Time `json:"start_time" yaml:"start_time"`
	EndTime             time.Time `json:"end_time" yaml:"end_time"`
	TotalElapsedSeconds float64   `json:"total_elapsed_seconds" yaml:"total_elapsed_seconds"`
	PagesPerSecond      float64   `json:"pages_per_second" yaml:"pages_per_second"`
	CrawledCount        int       `json:"crawled_count" yaml:"crawled_count"`
	FetchFailures       int       `json:"fetch_failures" yaml:"fetch_failures"`
	ParseFailures       int       `json:"parse_failures" yaml:"parse_failures"`
	FrontierDropped     int       `json:"frontier_dropped" yaml:"frontier_dropped"`
	FrontierRemaining   int       `json:"frontier_remaining" yaml:"frontier_remaining"`
}

// Progress is reported after every processed URL.
type Progress struct {
	CrawledCount   int
	MaxURLs        int
	ElapsedSeconds float64
	URL            string
	Depth          int
	Failed         bool
}

// Headings groups heading texts by level.
type Headings struct {
	H1 []string `json:"h1" yaml:"h1"`
	H2 []string `json:"h2" yaml:"h2"`
	H3 []string `json:"h3" yaml:"h3"`
}

// ScrapedContent is the structured text of a single page.
// Paragraphs holds at most the first five paragraphs; TotalParagraphCount is the real count.
type ScrapedContent struct {
	URL                 string   `json:"url" yaml:"url"`
	Title               string   `json:"title" yaml:"title"`
	MetaDescription     string   `json:"meta_description" yaml:"meta_description"`
	Headings            Headings `json:"headings" yaml:"headings"`
	Paragraphs          []string `json:"paragraphs" yaml:"paragraphs"`
	TotalParagraphCount int      `json:"total_paragraph_count" yaml:"total_paragraph_count"`
}
