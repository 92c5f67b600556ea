package crawler_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const seedURL = "http://a.test/"

var fixtureTime = time.Date(2024, time.June, 1, 12, 34, 56, 0, time.UTC)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (fn roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return fn(req) }

func readFixture(t *testing.T, parts ...string) []byte {
	t.Helper()

	path := filepath.Join(append([]string{"..", "testdata"}, parts...)...)
	b, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read fixture: %s", path)

	return b
}

// newSiteClient serves pages keyed by host+path, e.g. "a.test/p1".
// Unknown pages answer 404.
func newSiteClient(pages map[string]string) *http.Client {
	return &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			path := req.URL.Path
			if path == "" {
				path = "/"
			}

			body, ok := pages[req.URL.Host+path]
			if !ok {
				return responseForRequest(req, http.StatusNotFound, "not found", nil), nil
			}

			return responseForRequest(req, http.StatusOK, body, http.Header{"Content-Type": []string{"text/html"}}), nil
		}),
	}
}

func responseWithBody(status int, body []byte, header http.Header) *http.Response {
	if header == nil {
		header = http.Header{}
	}

	return &http.Response{
		StatusCode: status,
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader(body)),
	}
}

func responseForRequest(req *http.Request, status int, body string, header http.Header) *http.Response {
	resp := responseWithBody(status, []byte(body), header)
	resp.Request = req

	return resp
}

// testClock returns now and then moves it forward by step.
// Sleep returns at once and moves now forward by the requested duration.
type testClock struct {
	mu    sync.Mutex
	now   time.Time
	step  time.Duration
	slept []time.Duration
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now
	c.now = c.now.Add(c.step)

	return now
}

func (c *testClock) Sleep(ctx context.Context, duration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.slept = append(c.slept, duration)
	c.now = c.now.Add(duration)

	return ctx.Err()
}

func (c *testClock) sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]time.Duration(nil), c.slept...)
}

type recordingPacer struct {
	mu    sync.Mutex
	hosts []string
}

func (p *recordingPacer) WaitBeforeNext(ctx context.Context, host string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.hosts = append(p.hosts, host)

	return ctx.Err()
}

func (p *recordingPacer) calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]string(nil), p.hosts...)
}

func page(links ...string) string {
	var b bytes.Buffer
	b.WriteString("<html><body>")

	for _, link := range links {
		b.WriteString(`<a href="` + link + `">link</a>`)
	}

	b.WriteString("</body></html>")

	return b.String()
}
