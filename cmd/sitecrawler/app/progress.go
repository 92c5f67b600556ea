package app

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"

	"sitecrawler/crawler"
)

// progressReporter shows crawl progress on a spinner. A disabled reporter does nothing.
// The spinner only draws when w is a terminal.
type progressReporter struct {
	spinner *spinner.Spinner
}

func newProgressReporter(w io.Writer, enabled bool) *progressReporter {
	if !enabled {
		return &progressReporter{}
	}

	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " starting"

	return &progressReporter{spinner: s}
}

func (p *progressReporter) Start() {
	if p.spinner != nil {
		p.spinner.Start()
	}
}

func (p *progressReporter) Update(progress crawler.Progress) {
	if p.spinner == nil {
		return
	}

	p.spinner.Lock()
	p.spinner.Suffix = formatProgress(progress)
	p.spinner.Unlock()
}

func (p *progressReporter) Stop() {
	if p.spinner != nil {
		p.spinner.Stop()
	}
}

func formatProgress(progress crawler.Progress) string {
	status := ""
	if progress.Failed {
		status = " (failed)"
	}

	return fmt.Sprintf(" %d/%d URLs | %.1fs | %s%s",
		progress.CrawledCount, progress.MaxURLs, progress.ElapsedSeconds, progress.URL, status)
}
