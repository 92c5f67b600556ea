package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"sitecrawler/internal/pacing"
)

const (
	// DefaultTimeout bounds every request.
	DefaultTimeout = 10 * time.Second
	// DefaultUserAgent is the client identity sent with every request.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	// DefaultMaxBodySize caps how much of a response body is read.
	DefaultMaxBodySize int64 = 10 << 20
)

var (
	// ErrInvalidRequest is returned when no request can be built for the URL.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnexpectedStatus is returned for any response outside 2xx.
	ErrUnexpectedStatus = errors.New("unexpected http status")
)

// Error describes a failed fetch. StatusCode is 0 when no response was received.
type Error struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: %v %d (%s)", e.URL, e.Err, e.StatusCode, statusText(e.StatusCode))
	}

	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Timeout reports whether the fetch failed because its deadline expired.
func (e *Error) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}

	var timeoutErr interface{ Timeout() bool }

	return errors.As(e.Err, &timeoutErr) && timeoutErr.Timeout()
}

// Result contains the HTTP response data of a successful fetch.
type Result struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Fetcher performs single-attempt GET requests.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	maxBodySize int64
	pacer       pacing.Pacer
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout overrides the per-request timeout. Non-positive values are ignored.
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) {
		if timeout > 0 {
			f.timeout = timeout
		}
	}
}

// WithUserAgent overrides the client identity. An empty value is ignored.
func WithUserAgent(userAgent string) Option {
	return func(f *Fetcher) {
		if userAgent != "" {
			f.userAgent = userAgent
		}
	}
}

// WithMaxBodySize overrides the body size cap. Non-positive values are ignored.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithPacer makes every request wait for pacer first.
func WithPacer(pacer pacing.Pacer) Option {
	return func(f *Fetcher) {
		f.pacer = pacer
	}
}

// New creates a Fetcher around client.
func New(client *http.Client, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:      client,
		timeout:     DefaultTimeout,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch performs one GET request for rawURL.
// Network errors, timeouts and non-2xx responses are returned as *Error; there are no retries.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Result, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return Result{}, &Error{URL: rawURL, Err: fmt.Errorf("%w: %v", ErrInvalidRequest, err)}
	}

	if f.pacer != nil {
		if err := f.pacer.WaitBeforeNext(ctx, parsedURL.Host); err != nil {
			return Result{}, &Error{URL: rawURL, Err: err}
		}
	}

	result, err := f.doRequest(ctx, parsedURL)
	if err != nil {
		return result, &Error{URL: rawURL, StatusCode: result.StatusCode, Err: err}
	}

	if result.StatusCode < http.StatusOK || result.StatusCode >= http.StatusMultipleChoices {
		return result, &Error{URL: rawURL, StatusCode: result.StatusCode, Err: ErrUnexpectedStatus}
	}

	return result, nil
}

func (f *Fetcher) doRequest(ctx context.Context, parsedURL *url.URL) (Result, error) {
	requestCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	request, err := http.NewRequestWithContext(requestCtx, http.MethodGet, parsedURL.String(), nil)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	request.Header.Set("User-Agent", f.userAgent)

	response, err := f.client.Do(request)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		_ = response.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(response.Body, f.maxBodySize))
	if err != nil {
		return Result{StatusCode: response.StatusCode, Header: response.Header}, fmt.Errorf("read body: %w", err)
	}

	return Result{StatusCode: response.StatusCode, Header: response.Header, Body: body}, nil
}

func statusText(statusCode int) string {
	text := http.StatusText(statusCode)
	if text == "" {
		return fmt.Sprintf("http status %d", statusCode)
	}

	return text
}
