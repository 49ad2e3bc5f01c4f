package scrape

import (
	"fmt"

	"portfolio/internal/config"
)

// NewFetcher builds the fetcher selected by cfg.FetchMode.
func NewFetcher(cfg config.Config) (Fetcher, error) {
	extractor := NewExtractor(cfg.Site.Extract)
	profile := DesktopProfile(cfg.UserAgent)
	switch cfg.FetchMode {
	case config.FetchModeBrowser:
		return NewBrowserFetcher(cfg.Browser, profile, extractor)
	case config.FetchModeStatic:
		return NewStaticFetcher(profile, cfg.Browser.NavigationTimeout, extractor), nil
	default:
		return nil, fmt.Errorf("unknown fetch mode %q", cfg.FetchMode)
	}
}
