package crawler

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"sitecrawler/internal/fetcher"
	"sitecrawler/internal/frontier"
	"sitecrawler/internal/linkset"
	"sitecrawler/internal/logging"
	"sitecrawler/internal/metrics"
	"sitecrawler/internal/pacing"
	"sitecrawler/internal/parser"
	"sitecrawler/internal/urlutil"
)

// session is the state of a single crawl invocation.
// Only the goroutine running run writes the frontier, the link sets and the stats.
type session struct {
	id         string
	options    Options
	seedURL    string
	baseDomain string
	workers    int
	clock      pacing.Timer
	logger     *zap.Logger
	metrics    *metrics.Crawl
	fetch      *fetcher.Fetcher
	fetchSem   *semaphore.Weighted
	frontier   *frontier.Frontier
	visited    *linkset.Set
	internal   *linkset.Set
	external   *linkset.Set
	suggested  *linkset.Set
	stats      Stats
}

type pageFetch struct {
	item     frontier.Item
	ordinal  int
	body     []byte
	err      error
	duration time.Duration
}

func newSession(opts Options, seed *url.URL) (*session, error) {
	queue, err := frontier.New(opts.MaxURLs)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	id := uuid.NewString()
	clock := resolveClock(opts.Clock)
	pacer := resolvePacer(opts.Pacer, opts.Delay, clock)

	return &session{
		id:         id,
		options:    opts,
		seedURL:    opts.SeedURL,
		baseDomain: seed.Host,
		workers:    workers,
		clock:      clock,
		logger:     logging.OrNop(opts.Logger).With(zap.String("session_id", id)),
		metrics:    opts.Metrics,
		fetch:      newFetcher(opts.HTTPClient, opts.Timeout, opts.UserAgent, pacer),
		fetchSem:   semaphore.NewWeighted(int64(workers)),
		frontier:   queue,
		visited:    linkset.New(),
		internal:   linkset.New(),
		external:   linkset.New(),
		suggested:  linkset.New(),
	}, nil
}

func (s *session) run(ctx context.Context) error {
	s.stats.StartTime = s.clock.Now()
	s.logger.Info("crawl started",
		zap.String("seed", s.seedURL),
		zap.String("base_domain", s.baseDomain),
		zap.Int("max_depth", s.options.MaxDepth),
		zap.Int("max_urls", s.options.MaxURLs),
		zap.Int("workers", s.workers))

	s.frontier.Enqueue(frontier.Item{URL: s.seedURL, Depth: 0})

	for !s.frontier.IsEmpty() && s.stats.CrawledCount < s.options.MaxURLs {
		if err := ctx.Err(); err != nil {
			s.logger.Info("crawl cancelled", zap.Int("crawled", s.stats.CrawledCount))
			return err
		}

		batch := s.nextBatch()
		if len(batch) == 0 {
			continue
		}

		for _, page := range s.fetchBatch(ctx, batch) {
			s.process(ctx, page)
		}
	}

	return ctx.Err()
}

// nextBatch dequeues up to workers eligible items, marking each one visited.
// Items deeper than MaxDepth or already visited are discarded without counting.
// Each page carries its position in the crawl order for progress reporting.
func (s *session) nextBatch() []pageFetch {
	limit := min(s.workers, s.options.MaxURLs-s.stats.CrawledCount)
	batch := make([]pageFetch, 0, limit)

	for len(batch) < limit {
		item, ok := s.frontier.Dequeue()
		if !ok {
			break
		}

		if item.Depth > s.options.MaxDepth || s.visited.Contains(item.URL) {
			continue
		}

		s.visited.Add(item.URL)
		s.stats.CrawledCount++
		batch = append(batch, pageFetch{item: item, ordinal: s.stats.CrawledCount})
	}

	return batch
}

// fetchBatch fetches every item, concurrently when the batch holds more than one,
// and returns the pages in batch order.
func (s *session) fetchBatch(ctx context.Context, batch []pageFetch) []pageFetch {
	pages := make([]pageFetch, len(batch))

	if len(batch) == 1 {
		pages[0] = s.fetchPage(ctx, batch[0])
		return pages
	}

	var wg sync.WaitGroup
	for idx, page := range batch {
		if err := s.fetchSem.Acquire(ctx, 1); err != nil {
			page.err = err
			pages[idx] = page
			continue
		}

		wg.Go(func() {
			defer s.fetchSem.Release(1)
			pages[idx] = s.fetchPage(ctx, page)
		})
	}

	wg.Wait()

	return pages
}

func (s *session) fetchPage(ctx context.Context, page pageFetch) pageFetch {
	s.logger.Debug("crawling", zap.String("url", page.item.URL), zap.Int("depth", page.item.Depth))

	started := s.clock.Now()
	result, err := s.fetch.Fetch(ctx, page.item.URL)

	page.body = result.Body
	page.err = err
	page.duration = s.clock.Now().Sub(started)

	return page
}

func (s *session) process(ctx context.Context, page pageFetch) {
	if s.metrics != nil {
		s.metrics.PagesCrawled.Inc()
		s.metrics.FetchDuration.Observe(page.duration.Seconds())
	}

	if page.err != nil {
		s.recordFetchFailure(ctx, page)
		s.reportProgress(page, true)

		return
	}

	links, err := parser.ExtractLinks(page.body, page.item.URL)
	if err != nil {
		s.stats.ParseFailures++
		if s.metrics != nil {
			s.metrics.ParseFailures.Inc()
		}

		s.logger.Error("extract links failed",
			zap.String("url", page.item.URL),
			zap.Error(errors.Join(ErrParse, err)))
	}

	for _, link := range links {
		s.classify(link, page.item.Depth)
	}

	s.reportProgress(page, false)
}

func (s *session) recordFetchFailure(ctx context.Context, page pageFetch) {
	s.stats.FetchFailures++
	if s.metrics != nil {
		s.metrics.FetchFailures.Inc()
	}

	if ctx.Err() != nil {
		return
	}

	fields := []zap.Field{
		zap.String("url", page.item.URL),
		zap.Int("depth", page.item.Depth),
		zap.Error(page.err),
	}

	var fetchErr *fetcher.Error
	if errors.As(page.err, &fetchErr) && fetchErr.StatusCode != 0 {
		fields = append(fields, zap.Int("status", fetchErr.StatusCode))
	}

	s.logger.Warn("fetch failed", fields...)
}

// classify files link as internal or external. A newly discovered internal link is
// checked against the keyword and, unless already visited, queued one level deeper.
func (s *session) classify(link string, depth int) {
	if urlutil.Classify(s.baseDomain, link) != urlutil.Internal {
		if s.external.Add(link) && s.metrics != nil {
			s.metrics.LinksDiscovered.WithLabelValues(urlutil.External.String()).Inc()
		}

		return
	}

	if !s.internal.Add(link) {
		return
	}

	if s.metrics != nil {
		s.metrics.LinksDiscovered.WithLabelValues(urlutil.Internal.String()).Inc()
	}

	if s.options.Keyword != "" && urlutil.ContainsFold(link, s.options.Keyword) {
		s.suggested.Add(link)
	}

	if s.visited.Contains(link) {
		return
	}

	if !s.frontier.Enqueue(frontier.Item{URL: link, Depth: depth + 1}) {
		s.stats.FrontierDropped++
		if s.metrics != nil {
			s.metrics.FrontierDropped.Inc()
		}
	}
}

func (s *session) reportProgress(page pageFetch, failed bool) {
	if s.options.OnProgress == nil {
		return
	}

	s.options.OnProgress(Progress{
		CrawledCount:   page.ordinal,
		MaxURLs:        s.options.MaxURLs,
		ElapsedSeconds: elapsedSeconds(s.stats.StartTime, s.clock.Now()),
		URL:            page.item.URL,
		Depth:          page.item.Depth,
		Failed:         failed,
	})
}

func (s *session) finish() *Result {
	s.stats.EndTime = s.clock.Now()
	s.stats.TotalElapsedSeconds = elapsedSeconds(s.stats.StartTime, s.stats.EndTime)
	s.stats.FrontierRemaining = s.frontier.Size()

	if s.stats.TotalElapsedSeconds > 0 {
		s.stats.PagesPerSecond = float64(s.stats.CrawledCount) / s.stats.TotalElapsedSeconds
	}

	if s.metrics != nil {
		s.metrics.CrawlDuration.Set(s.stats.TotalElapsedSeconds)
	}

	s.logger.Info("crawl finished",
		zap.Int("crawled", s.stats.CrawledCount),
		zap.Int("internal", s.internal.Len()),
		zap.Int("external", s.external.Len()),
		zap.Int("suggested", s.suggested.Len()),
		zap.Int("fetch_failures", s.stats.FetchFailures),
		zap.Int("frontier_dropped", s.stats.FrontierDropped),
		zap.Float64("elapsed_seconds", s.stats.TotalElapsedSeconds))

	return &Result{
		SessionID:  s.id,
		SeedURL:    s.seedURL,
		BaseDomain: s.baseDomain,
		Keyword:    s.options.Keyword,
		Internal:   s.internal.Values(),
		External:   s.external.Values(),
		Suggested:  s.suggested.Values(),
		Visited:    s.visited.Values(),
		Stats:      s.stats,
	}
}
