package scrape

import (
	"context"
	"fmt"
	"time"

	"portfolio/internal/config"
	"portfolio/internal/logger"

	"github.com/gocolly/colly"
)

// StaticFetcher fetches server-rendered HTML without a browser. It cannot
// trigger lazy loading, so pages that only attach media on scroll come back
// incomplete.
type StaticFetcher struct {
	log       *logger.Logger
	profile   HeaderProfile
	timeout   time.Duration
	extractor *Extractor
}

func NewStaticFetcher(profile HeaderProfile, timeout time.Duration, extractor *Extractor) *StaticFetcher {
	return &StaticFetcher{log: logger.New("StaticFetcher"), profile: profile, timeout: timeout, extractor: extractor}
}

func (f *StaticFetcher) Fetch(ctx context.Context, page config.PageSpec) (*ScrapedPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.log.LogInfof("📄 Fetching: %s (%s)", page.Title, page.URL)

	c := colly.NewCollector(colly.UserAgent(f.profile.UserAgent), colly.AllowURLRevisit())
	c.SetRequestTimeout(f.timeout)
	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		if f.profile.Accept != "" {
			r.Headers.Set("Accept", f.profile.Accept)
		}
		if f.profile.AcceptLanguage != "" {
			r.Headers.Set("Accept-Language", f.profile.AcceptLanguage)
		}
	})

	var (
		body     []byte
		finalURL string
	)
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
		finalURL = r.Request.URL.String()
	})

	if err := c.Visit(page.URL); err != nil {
		return nil, fmt.Errorf("navigation failed: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if body == nil {
		return nil, fmt.Errorf("navigation failed: empty response from %s", page.URL)
	}

	scraped, err := f.extractor.Extract(string(body), page, finalURL)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}
	return scraped, nil
}

func (f *StaticFetcher) Close() error { return nil }
