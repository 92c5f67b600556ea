package parser

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"sitecrawler/internal/urlutil"
)

// Document is a parsed HTML page.
type Document struct {
	doc *goquery.Document
}

// Element is a single node of a Document.
type Element struct {
	selection *goquery.Selection
}

// Parse parses markup into a Document.
func Parse(markup []byte) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	return &Document{doc: doc}, nil
}

// FindAll returns every element named tag, in document order, whose attributes
// match filter. Values must be equal after trimming surrounding whitespace.
func (d *Document) FindAll(tag string, filter map[string]string) []Element {
	elements := []Element{}

	d.doc.Find(tag).Each(func(_ int, selection *goquery.Selection) {
		if !matchesAttributes(selection, filter) {
			return
		}

		elements = append(elements, Element{selection: selection})
	})

	return elements
}

// First returns the first element named tag matching filter.
func (d *Document) First(tag string, filter map[string]string) (Element, bool) {
	var (
		found Element
		ok    bool
	)

	d.doc.Find(tag).EachWithBreak(func(_ int, selection *goquery.Selection) bool {
		if !matchesAttributes(selection, filter) {
			return true
		}

		found = Element{selection: selection}
		ok = true

		return false
	})

	return found, ok
}

// Text returns the text content of the element and its descendants with
// leading and trailing whitespace removed. Inner whitespace is kept.
func (e Element) Text() string {
	return strings.TrimSpace(e.selection.Text())
}

// Attr returns the value of the named attribute.
func (e Element) Attr(name string) (string, bool) {
	return e.selection.Attr(name)
}

func matchesAttributes(selection *goquery.Selection, filter map[string]string) bool {
	for name, want := range filter {
		got, ok := selection.Attr(name)
		if !ok || strings.TrimSpace(got) != want {
			return false
		}
	}

	return true
}

// ExtractLinks returns the absolute URLs of every anchor in markup, in document
// order, resolved against baseURL. Duplicates are kept.
func ExtractLinks(markup []byte, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return []string{}, fmt.Errorf("parse base url: %w", err)
	}

	doc, err := Parse(markup)
	if err != nil {
		return []string{}, err
	}

	return doc.Links(base), nil
}

// Links resolves the href of every anchor against base.
func (d *Document) Links(base *url.URL) []string {
	links := []string{}

	for _, anchor := range d.FindAll("a[href]", nil) {
		href, _ := anchor.Attr("href")

		absolute, ok := urlutil.Resolve(base, href)
		if !ok {
			continue
		}

		links = append(links, absolute)
	}

	return links
}
