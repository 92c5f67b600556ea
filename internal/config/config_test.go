package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, 2, cfg.MaxDepth)
	require.Equal(t, 100, cfg.MaxURLs)
	require.Equal(t, time.Second, cfg.Delay)
	require.Equal(t, 1, cfg.Workers)
	require.Equal(t, 10*time.Second, cfg.Timeout)
	require.Equal(t, "fixed", cfg.Pacing)
	require.Equal(t, "json", cfg.Format)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	t.Setenv("SITECRAWLER_MAX_URLS", "7")
	t.Setenv("SITECRAWLER_DELAY", "250ms")
	t.Setenv("SITECRAWLER_KEYWORD", "blog")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, 7, cfg.MaxURLs)
	require.Equal(t, 250*time.Millisecond, cfg.Delay)
	require.Equal(t, "blog", cfg.Keyword)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sitecrawler.yaml")
	content := []byte("max_depth: 3\nmax_urls: 40\npacing: host\nworkers: 2\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("SITECRAWLER_MAX_URLS", "12")

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 3, cfg.MaxDepth)
	require.Equal(t, 12, cfg.MaxURLs, "env must win over the file")
	require.Equal(t, "host", cfg.Pacing)
	require.Equal(t, 2, cfg.Workers)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := Config{MaxDepth: 1, MaxURLs: 1, Workers: 1}
	require.NoError(t, valid.Validate())

	invalid := Config{MaxDepth: 0, MaxURLs: 0, Delay: -time.Second, Workers: 0}
	err := invalid.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "max_depth")
	require.Contains(t, err.Error(), "max_urls")
	require.Contains(t, err.Error(), "delay")
	require.Contains(t, err.Error(), "workers")
}
