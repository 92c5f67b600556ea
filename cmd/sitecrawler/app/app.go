package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/urfave/cli"
	"go.uber.org/zap"

	"sitecrawler/crawler"
	"sitecrawler/internal/config"
	"sitecrawler/internal/export"
	"sitecrawler/internal/logging"
	"sitecrawler/internal/metrics"
	"sitecrawler/internal/pacing"
)

// topExternalDomains bounds the domain table of --summary.
const topExternalDomains = 10

// Run executes the CLI. Reports are written to stdout; logs and progress go to stderr.
// A command without URLs prints its help and returns nil.
func Run(
	ctx context.Context,
	args []string,
	stdout, stderr io.Writer,
	client *http.Client,
	clock pacing.Timer,
) error {
	r := &runner{stdout: stdout, stderr: stderr, client: client, clock: clock}

	app := cli.NewApp()
	app.Name = "sitecrawler"
	app.Usage = "crawl a website breadth-first and extract page content"
	app.UsageText = "sitecrawler command [command options] <url>..."
	app.Writer = stdout
	app.ErrWriter = stderr
	app.Commands = []cli.Command{
		{
			Name:      "crawl",
			Usage:     "collect internal, external and keyword-matching links of a site",
			ArgsUsage: "<url>",
			Flags:     append(crawlFlags(), commonFlags()...),
			Action: func(c *cli.Context) error {
				return r.crawl(ctx, c)
			},
		},
		{
			Name:      "scrape",
			Usage:     "extract title, headings and paragraphs of pages",
			ArgsUsage: "<url>...",
			Flags:     commonFlags(),
			Action: func(c *cli.Context) error {
				return r.scrape(ctx, c)
			},
		},
	}

	return app.Run(args)
}

func crawlFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "keyword",
			Usage: "suggest internal links containing this text",
		},
		cli.IntFlag{
			Name:  "depth",
			Usage: "maximum link depth from the seed (default 2)",
		},
		cli.IntFlag{
			Name:  "max-urls",
			Usage: "maximum number of pages to crawl (default 100)",
		},
		cli.BoolFlag{
			Name:  "summary",
			Usage: "add link distribution and efficiency figures to the report",
		},
		cli.BoolFlag{
			Name:  "progress",
			Usage: "show a progress spinner on stderr",
		},
		cli.StringFlag{
			Name:  "metrics-file",
			Usage: "write prometheus metrics to this file after the crawl",
		},
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		cli.DurationFlag{
			Name:  "delay",
			Usage: "delay between requests (example: 200ms, 1s) (default 1s)",
		},
		cli.IntFlag{
			Name:  "workers",
			Usage: "number of concurrent fetches (default 1)",
		},
		cli.StringFlag{
			Name:  "pacing",
			Usage: "request pacing policy: fixed, host or rate (default fixed)",
		},
		cli.Float64Flag{
			Name:  "rps",
			Usage: "requests per second for --pacing=rate",
		},
		cli.DurationFlag{
			Name:  "timeout",
			Usage: "per-request timeout (default 10s)",
		},
		cli.StringFlag{
			Name:  "user-agent",
			Usage: "custom user agent",
		},
		cli.StringFlag{
			Name:  "format",
			Usage: "report format: json, csv or yaml (default json)",
		},
		cli.StringFlag{
			Name:  "config",
			Usage: "path to a YAML, JSON or TOML config file",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "debug, info, warn or error (default info)",
		},
	}
}

type runner struct {
	stdout io.Writer
	stderr io.Writer
	client *http.Client
	clock  pacing.Timer
}

func (r *runner) crawl(ctx context.Context, c *cli.Context) error {
	seed := c.Args().First()
	if seed == "" {
		return cli.ShowCommandHelp(c, c.Command.Name)
	}

	cfg, format, err := loadConfig(c)
	if err != nil {
		return err
	}

	logger := logging.New(r.stderr, cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	pacer, err := pacing.New(cfg.Pacing, cfg.Delay, cfg.RPS, r.clock)
	if err != nil {
		return err
	}

	var collectors *metrics.Crawl
	if cfg.MetricsFile != "" {
		collectors = metrics.New()
	}

	progress := newProgressReporter(r.stderr, c.Bool("progress"))
	progress.Start()

	result, crawlErr := crawler.Crawl(ctx, crawler.Options{
		SeedURL:    seed,
		Keyword:    cfg.Keyword,
		MaxDepth:   cfg.MaxDepth,
		MaxURLs:    cfg.MaxURLs,
		Delay:      cfg.Delay,
		Workers:    cfg.Workers,
		Timeout:    cfg.Timeout,
		UserAgent:  cfg.UserAgent,
		HTTPClient: r.client,
		Pacer:      pacer,
		Clock:      r.clock,
		Logger:     logger,
		Metrics:    collectors,
		OnProgress: progress.Update,
	})
	progress.Stop()

	if result == nil {
		return crawlErr
	}

	if collectors != nil {
		if err := collectors.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Error("write metrics failed", zap.String("path", cfg.MetricsFile), zap.Error(err))
		}
	}

	report := export.CrawlReport{Result: result}
	if c.Bool("summary") {
		summary := crawler.Summarize(result, topExternalDomains)
		report.Summary = &summary
	}

	if err := export.WriteCrawl(r.stdout, format, report); err != nil {
		return err
	}

	return crawlErr
}

func (r *runner) scrape(ctx context.Context, c *cli.Context) error {
	urls := []string(c.Args())
	if len(urls) == 0 {
		return cli.ShowCommandHelp(c, c.Command.Name)
	}

	cfg, format, err := loadConfig(c)
	if err != nil {
		return err
	}

	logger := logging.New(r.stderr, cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	pacer, err := pacing.New(cfg.Pacing, cfg.Delay, cfg.RPS, r.clock)
	if err != nil {
		return err
	}

	outcomes, scrapeErr := crawler.ScrapeAll(ctx, urls, crawler.ScrapeOptions{
		HTTPClient: r.client,
		Timeout:    cfg.Timeout,
		UserAgent:  cfg.UserAgent,
		Pacer:      pacer,
		Clock:      r.clock,
		Workers:    cfg.Workers,
		Logger:     logger,
	})
	if outcomes == nil {
		return scrapeErr
	}

	contents := make([]crawler.ScrapedContent, 0, len(outcomes))
	var failed []error

	for _, outcome := range outcomes {
		if outcome.Err != nil {
			failed = append(failed, outcome.Err)
			continue
		}

		contents = append(contents, *outcome.Content)
	}

	if err := export.WriteContent(r.stdout, format, contents); err != nil {
		return err
	}

	if scrapeErr != nil {
		return scrapeErr
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d pages could not be scraped: %w", len(failed), len(urls), errors.Join(failed...))
	}

	return nil
}

// loadConfig layers command-line flags over defaults, the config file and the environment.
func loadConfig(c *cli.Context) (*config.Config, string, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, "", err
	}

	applyFlags(c, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	format, err := export.ParseFormat(cfg.Format)
	if err != nil {
		return nil, "", err
	}

	return cfg, format, nil
}

func applyFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet("keyword") {
		cfg.Keyword = c.String("keyword")
	}

	if c.IsSet("depth") {
		cfg.MaxDepth = c.Int("depth")
	}

	if c.IsSet("max-urls") {
		cfg.MaxURLs = c.Int("max-urls")
	}

	if c.IsSet("metrics-file") {
		cfg.MetricsFile = c.String("metrics-file")
	}

	if c.IsSet("delay") {
		cfg.Delay = c.Duration("delay")
	}

	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}

	if c.IsSet("pacing") {
		cfg.Pacing = c.String("pacing")
	}

	if c.IsSet("rps") {
		cfg.RPS = c.Float64("rps")
	}

	if c.IsSet("timeout") {
		cfg.Timeout = c.Duration("timeout")
	}

	if c.IsSet("user-agent") {
		cfg.UserAgent = c.String("user-agent")
	}

	if c.IsSet("format") {
		cfg.Format = c.String("format")
	}

	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
}
