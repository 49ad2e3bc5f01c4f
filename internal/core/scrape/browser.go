package scrape

import (
	"context"
	"fmt"
	"strings"
	"time"

	"portfolio/internal/config"
	"portfolio/internal/logger"

	"github.com/playwright-community/playwright-go"
)

const autoScrollScript = `async ({ distance, interval }) => {
	await new Promise((resolve) => {
		let total = 0;
		const timer = setInterval(() => {
			const height = document.body.scrollHeight;
			window.scrollBy(0, distance);
			total += distance;
			if (total >= height) {
				clearInterval(timer);
				resolve();
			}
		}, interval);
	});
}`

// stampScript copies live DOM state the serialized HTML would lose onto each
// <img> so the extractor sees what the browser resolved.
const stampScript = `() => {
	for (const img of document.querySelectorAll('img')) {
		img.setAttribute('data-resolved-src', img.src || img.dataset.src || '');
		img.setAttribute('data-natural-width', String(img.naturalWidth || img.width || 0));
		img.setAttribute('data-natural-height', String(img.naturalHeight || img.height || 0));
	}
}`

// BrowserFetcher drives one headless chromium tab that is reused for every
// page of a run.
type BrowserFetcher struct {
	log       *logger.Logger
	cfg       config.BrowserConfig
	extractor *Extractor

	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
}

// NewBrowserFetcher starts playwright, launches chromium and opens the tab.
func NewBrowserFetcher(cfg config.BrowserConfig, profile HeaderProfile, extractor *Extractor) (*BrowserFetcher, error) {
	f := &BrowserFetcher{log: logger.New("BrowserFetcher"), cfg: cfg, extractor: extractor}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("playwright initialization failed: %w", err)
	}
	f.pw = pw

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
		Args: []string{
			"--no-sandbox",
			"--disable-dev-shm-usage",
			"--disable-gpu",
		},
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("browser launch failed: %w", err)
	}
	f.browser = browser

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport:         &playwright.Size{Width: cfg.ViewportWidth, Height: cfg.ViewportHeight},
		UserAgent:        playwright.String(profile.UserAgent),
		ExtraHttpHeaders: profile.ExtraHeaders(),
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("browser context creation failed: %w", err)
	}
	f.context = bctx

	page, err := bctx.NewPage()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("page creation failed: %w", err)
	}
	f.page = page
	return f, nil
}

// Fetch navigates the shared tab to page, triggers lazy loading and extracts
// the rendered DOM.
func (f *BrowserFetcher) Fetch(ctx context.Context, page config.PageSpec) (*ScrapedPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.log.LogInfof("📄 Scraping: %s (%s)", page.Title, page.URL)
	if _, err := f.page.Goto(page.URL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(millis(f.cfg.NavigationTimeout)),
	}); err != nil {
		if strings.Contains(err.Error(), "Timeout") || strings.Contains(err.Error(), "timeout") {
			return nil, fmt.Errorf("page load timeout: %w", err)
		}
		return nil, fmt.Errorf("navigation failed: %w", err)
	}
	f.page.WaitForTimeout(millis(f.cfg.PostNavigationDelay))

	if err := f.autoScroll(); err != nil {
		return nil, err
	}
	f.page.WaitForTimeout(millis(f.cfg.PostScrollDelay))

	if _, err := f.page.Evaluate(stampScript); err != nil {
		return nil, fmt.Errorf("stamp images: %w", err)
	}
	html, err := f.page.Content()
	if err != nil {
		return nil, fmt.Errorf("read page content: %w", err)
	}

	scraped, err := f.extractor.Extract(html, page, f.page.URL())
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}
	f.log.LogInfof("  📸 Images: %d  🎬 Videos: %d  🖼️ Iframes: %d  📝 Headings: %d",
		len(scraped.Images), len(scraped.Videos), len(scraped.Iframes), len(scraped.TextContent.Headings))
	return scraped, nil
}

// autoScroll walks to the bottom of the page in fixed steps so lazy media
// starts loading, waits for it to settle, then returns to the top.
func (f *BrowserFetcher) autoScroll() error {
	arg := map[string]interface{}{
		"distance": f.cfg.ScrollDistance,
		"interval": f.cfg.ScrollInterval.Milliseconds(),
	}
	if _, err := f.page.Evaluate(autoScrollScript, arg); err != nil {
		return fmt.Errorf("auto-scroll: %w", err)
	}
	f.page.WaitForTimeout(millis(f.cfg.ScrollSettle))
	if _, err := f.page.Evaluate(`() => window.scrollTo(0, 0)`); err != nil {
		return fmt.Errorf("scroll to top: %w", err)
	}
	return nil
}

// Close tears down the tab, context, browser and driver in that order.
func (f *BrowserFetcher) Close() error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if f.context != nil {
		keep(f.context.Close())
	}
	if f.browser != nil {
		keep(f.browser.Close())
	}
	if f.pw != nil {
		keep(f.pw.Stop())
	}
	return firstErr
}

func millis(d time.Duration) float64 {
	return float64(d.Milliseconds())
}
