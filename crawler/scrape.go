package crawler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"sitecrawler/internal/fetcher"
	"sitecrawler/internal/logging"
	"sitecrawler/internal/pacing"
	"sitecrawler/internal/parser"
)

// ScrapeOptions configures content extraction.
// Workers bounds ScrapeAll concurrency and defaults to 1.
type ScrapeOptions struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	UserAgent  string
	Delay      time.Duration
	Pacer      pacing.Pacer
	Clock      pacing.Timer
	Workers    int
	Logger     *zap.Logger
}

// ScrapeOutcome pairs a URL with its content or the reason it has none.
type ScrapeOutcome struct {
	URL     string
	Content *ScrapedContent
	Err     error
}

type scraper struct {
	fetch  *fetcher.Fetcher
	logger *zap.Logger
}

func newScraper(opts ScrapeOptions) (*scraper, error) {
	if opts.HTTPClient == nil {
		return nil, fmt.Errorf("%w: http client is required", ErrInvalidOptions)
	}

	if opts.Delay < 0 {
		return nil, fmt.Errorf("%w: delay must not be negative, got %s", ErrInvalidOptions, opts.Delay)
	}

	clock := resolveClock(opts.Clock)

	return &scraper{
		fetch:  newFetcher(opts.HTTPClient, opts.Timeout, opts.UserAgent, resolvePacer(opts.Pacer, opts.Delay, clock)),
		logger: logging.OrNop(opts.Logger),
	}, nil
}

// Scrape fetches rawURL and extracts its title, meta description, h1-h3 headings
// and paragraphs. Fetch failures wrap ErrFetch, unparsable markup wraps ErrParse.
func Scrape(ctx context.Context, rawURL string, opts ScrapeOptions) (*ScrapedContent, error) {
	s, err := newScraper(opts)
	if err != nil {
		return nil, err
	}

	return s.scrape(ctx, rawURL)
}

// ScrapeAll scrapes every URL with at most opts.Workers requests in flight.
// Outcomes are returned in the order of urls; one failure does not stop the others.
func ScrapeAll(ctx context.Context, urls []string, opts ScrapeOptions) ([]ScrapeOutcome, error) {
	s, err := newScraper(opts)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	outcomes := make([]ScrapeOutcome, len(urls))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for idx, rawURL := range urls {
		group.Go(func() error {
			content, err := s.scrape(groupCtx, rawURL)
			outcomes[idx] = ScrapeOutcome{URL: rawURL, Content: content, Err: err}

			return nil
		})
	}

	_ = group.Wait()

	return outcomes, ctx.Err()
}

func (s *scraper) scrape(ctx context.Context, rawURL string) (*ScrapedContent, error) {
	if _, err := parseAbsoluteURL(rawURL); err != nil {
		return nil, err
	}

	result, err := s.fetch.Fetch(ctx, rawURL)
	if err != nil {
		s.logger.Warn("fetch failed", zap.String("url", rawURL), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	content, err := parser.ParseContent(result.Body)
	if err != nil {
		s.logger.Error("scrape failed", zap.String("url", rawURL), zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, rawURL, err)
	}

	return &ScrapedContent{
		URL:             rawURL,
		Title:           content.Title,
		MetaDescription: content.MetaDescription,
		Headings: Headings{
			H1: content.H1,
			H2: content.H2,
			H3: content.H3,
		},
		Paragraphs:          content.Paragraphs,
		TotalParagraphCount: content.TotalParagraphCount,
	}, nil
}
