package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"sitecrawler/crawler"
	"sitecrawler/internal/urlutil"
)

const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatYAML = "yaml"
)

// ErrUnknownFormat is returned for formats other than json, csv and yaml.
var ErrUnknownFormat = errors.New("unknown export format")

// CrawlReport is the document written for a crawl.
type CrawlReport struct {
	Result  *crawler.Result  `json:"result" yaml:"result"`
	Summary *crawler.Summary `json:"summary,omitempty" yaml:"summary,omitempty"`
}

var (
	linkHeader    = []string{"category", "url", "domain", "path_length"}
	contentHeader = []string{
		"url", "title", "meta_description", "h1", "h2", "h3", "paragraphs", "total_paragraph_count",
	}
)

// ParseFormat normalizes name and rejects unsupported formats.
func ParseFormat(name string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(name))
	switch format {
	case FormatJSON, FormatCSV, FormatYAML:
		return format, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// WriteCrawl writes report in format. The CSV form lists one link per row
// (internal, external, then suggested) and leaves out stats and summary.
func WriteCrawl(w io.Writer, format string, report CrawlReport) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, report)
	case FormatYAML:
		return writeYAML(w, report)
	case FormatCSV:
		if report.Result == nil {
			return writeCSV(w, linkHeader, nil)
		}

		return writeCSV(w, linkHeader, linkRows(report.Result))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteContent writes scraped pages in format. The CSV form joins list fields with " | ".
func WriteContent(w io.Writer, format string, contents []crawler.ScrapedContent) error {
	if contents == nil {
		contents = []crawler.ScrapedContent{}
	}

	switch format {
	case FormatJSON:
		return writeJSON(w, contents)
	case FormatYAML:
		return writeYAML(w, contents)
	case FormatCSV:
		return writeCSV(w, contentHeader, contentRows(contents))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func writeJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	return nil
}

func writeYAML(w io.Writer, value any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	return encoder.Close()
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}

	return nil
}

func linkRows(result *crawler.Result) [][]string {
	rows := make([][]string, 0, len(result.Internal)+len(result.External)+len(result.Suggested))
	rows = appendLinkRows(rows, "internal", result.Internal)
	rows = appendLinkRows(rows, "external", result.External)
	rows = appendLinkRows(rows, "suggested", result.Suggested)

	return rows
}

func appendLinkRows(rows [][]string, category string, links []string) [][]string {
	for _, link := range links {
		domain, _ := urlutil.Domain(link)

		pathLength := 0
		if parsed, err := url.Parse(link); err == nil {
			pathLength = len(parsed.Path)
		}

		rows = append(rows, []string{category, link, domain, strconv.Itoa(pathLength)})
	}

	return rows
}

func contentRows(contents []crawler.ScrapedContent) [][]string {
	rows := make([][]string, 0, len(contents))

	for _, content := range contents {
		rows = append(rows, []string{
			content.URL,
			content.Title,
			content.MetaDescription,
			strings.Join(content.Headings.H1, " | "),
			strings.Join(content.Headings.H2, " | "),
			strings.Join(content.Headings.H3, " | "),
			strings.Join(content.Paragraphs, " | "),
			strconv.Itoa(content.TotalParagraphCount),
		})
	}

	return rows
}
