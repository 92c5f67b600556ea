package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersCollectors(t *testing.T) {
	t.Parallel()

	m := New()
	m.PagesCrawled.Add(3)
	m.FetchFailures.Inc()
	m.LinksDiscovered.WithLabelValues("internal").Add(2)
	m.LinksDiscovered.WithLabelValues("external").Inc()

	require.InDelta(t, 3, testutil.ToFloat64(m.PagesCrawled), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.FetchFailures), 0)
	require.InDelta(t, 2, testutil.ToFloat64(m.LinksDiscovered.WithLabelValues("internal")), 0)

	families, err := m.Registry.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
}

func TestRunsAreIsolated(t *testing.T) {
	t.Parallel()

	first := New()
	second := New()

	first.PagesCrawled.Inc()

	require.InDelta(t, 0, testutil.ToFloat64(second.PagesCrawled), 0)
}

func TestWriteTextfile(t *testing.T) {
	t.Parallel()

	m := New()
	m.PagesCrawled.Add(5)

	path := filepath.Join(t.TempDir(), "crawl.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "sitecrawler_pages_crawled_total 5")
}
