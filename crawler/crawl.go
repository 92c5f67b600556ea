package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"sitecrawler/internal/fetcher"
	"sitecrawler/internal/pacing"
)

// Crawl explores the site of opts.SeedURL breadth-first and returns the links it found.
// Invalid options are reported before any request is made. Once running, per-page
// failures are logged and counted but never abort the crawl; the only error is
// ctx.Err() after cancellation, returned together with the partial result.
func Crawl(ctx context.Context, opts Options) (*Result, error) {
	seed, err := validateOptions(opts)
	if err != nil {
		return nil, err
	}

	s, err := newSession(opts, seed)
	if err != nil {
		return nil, err
	}

	runErr := s.run(ctx)

	return s.finish(), runErr
}

func validateOptions(opts Options) (*url.URL, error) {
	if opts.SeedURL == "" {
		return nil, fmt.Errorf("%w: seed url is required", ErrInvalidOptions)
	}

	seed, err := parseAbsoluteURL(opts.SeedURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	if opts.MaxDepth < 1 {
		return nil, fmt.Errorf("%w: max depth must be >= 1, got %d", ErrInvalidOptions, opts.MaxDepth)
	}

	if opts.MaxURLs < 1 {
		return nil, fmt.Errorf("%w: max urls must be >= 1, got %d", ErrInvalidOptions, opts.MaxURLs)
	}

	if opts.Delay < 0 {
		return nil, fmt.Errorf("%w: delay must not be negative, got %s", ErrInvalidOptions, opts.Delay)
	}

	if opts.Workers < 0 {
		return nil, fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidOptions, opts.Workers)
	}

	if opts.HTTPClient == nil {
		return nil, fmt.Errorf("%w: http client is required", ErrInvalidOptions)
	}

	return seed, nil
}

func parseAbsoluteURL(rawURL string) (*url.URL, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidURL, rawURL, err)
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%w: %q: missing scheme or host", ErrInvalidURL, rawURL)
	}

	return parsed, nil
}

func newFetcher(client *http.Client, timeout time.Duration, userAgent string, pacer pacing.Pacer) *fetcher.Fetcher {
	return fetcher.New(
		client,
		fetcher.WithTimeout(timeout),
		fetcher.WithUserAgent(userAgent),
		fetcher.WithPacer(pacer),
	)
}

func resolveClock(clock pacing.Timer) pacing.Timer {
	if clock == nil {
		return pacing.NewClock()
	}

	return clock
}

func resolvePacer(pacer pacing.Pacer, delay time.Duration, clock pacing.Timer) pacing.Pacer {
	if pacer != nil {
		return pacer
	}

	if delay > 0 {
		return pacing.NewInterval(delay, clock)
	}

	return pacing.None{}
}

func elapsedSeconds(start, end time.Time) float64 {
	elapsed := end.Sub(start).Seconds()
	if elapsed < 0 {
		return 0
	}

	return elapsed
}
