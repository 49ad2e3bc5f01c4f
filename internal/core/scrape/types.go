package scrape

import (
	"context"

	"portfolio/internal/config"
)

// RawImageRef is an image found on a page. Src is the dedup key.
type RawImageRef struct {
	Src    string `json:"src"`
	Alt    string `json:"alt"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type RawVideoRef struct {
	Src  string `json:"src"`
	Type string `json:"type"`
}

type RawIframeRef struct {
	Src string `json:"src"`
}

type Heading struct {
	Tag  string `json:"tag"`
	Text string `json:"text"`
}

type TextContent struct {
	Headings   []Heading `json:"headings"`
	Paragraphs []string  `json:"paragraphs"`
}

type Link struct {
	Href string `json:"href"`
	Text string `json:"text"`
}

// ScrapedPage is everything extracted from one PageSpec during a run.
type ScrapedPage struct {
	Slug        string         `json:"slug"`
	Title       string         `json:"title"`
	URL         string         `json:"url"`
	Images      []RawImageRef  `json:"images"`
	Videos      []RawVideoRef  `json:"videos"`
	Iframes     []RawIframeRef `json:"iframes"`
	TextContent TextContent    `json:"textContent"`
	Links       []Link         `json:"links"`
}

// Fetcher loads a page and extracts its media and text. Implementations are
// used by one goroutine at a time.
type Fetcher interface {
	Fetch(ctx context.Context, page config.PageSpec) (*ScrapedPage, error)
	Close() error
}
