package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Crawl holds the collectors of one crawl run on a private registry.
type Crawl struct {
	Registry *prometheus.Registry

	PagesCrawled    prometheus.Counter
	FetchFailures   prometheus.Counter
	ParseFailures   prometheus.Counter
	FrontierDropped prometheus.Counter
	LinksDiscovered *prometheus.CounterVec
	FetchDuration   prometheus.Histogram
	CrawlDuration   prometheus.Gauge
}

// New registers the crawl collectors on a fresh registry.
func New() *Crawl {
	c := &Crawl{
		Registry: prometheus.NewRegistry(),
		PagesCrawled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sitecrawler_pages_crawled_total",
			Help: "Total number of pages dequeued and processed",
		}),
		FetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sitecrawler_fetch_failures_total",
			Help: "Total number of fetches that failed (network, timeout or non-2xx)",
		}),
		ParseFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sitecrawler_parse_failures_total",
			Help: "Total number of pages whose markup could not be parsed",
		}),
		FrontierDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sitecrawler_frontier_dropped_total",
			Help: "Total number of discovered links dropped because the frontier was full",
		}),
		LinksDiscovered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sitecrawler_links_discovered_total",
			Help: "Unique links discovered, by category",
		}, []string{"category"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sitecrawler_fetch_duration_seconds",
			Help:    "Time taken by a single page fetch",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 9), // 50ms to ~12.8s
		}),
		CrawlDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sitecrawler_crawl_duration_seconds",
			Help: "Wall time of the last completed crawl",
		}),
	}

	c.Registry.MustRegister(
		c.PagesCrawled,
		c.FetchFailures,
		c.ParseFailures,
		c.FrontierDropped,
		c.LinksDiscovered,
		c.FetchDuration,
		c.CrawlDuration,
	)

	return c
}

// WriteTextfile writes the current values in the text exposition format,
// suitable for the node_exporter textfile collector.
func (c *Crawl) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.Registry)
}
