package crawler

import "errors"

var (
	// ErrInvalidOptions reports options that do not describe a runnable crawl or scrape.
	ErrInvalidOptions = errors.New("invalid options")
	// ErrInvalidURL reports a URL without a scheme or an authority.
	ErrInvalidURL = errors.New("invalid url")
	// ErrFetch wraps network errors, timeouts and non-2xx responses.
	ErrFetch = errors.New("fetch failed")
	// ErrParse wraps markup that could not be turned into links or content.
	ErrParse = errors.New("parse failed")
)
