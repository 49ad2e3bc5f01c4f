package discover

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"portfolio/internal/config"
	"portfolio/internal/core/scrape"
	"portfolio/internal/logger"

	"github.com/gocolly/colly"
)

// Service walks the portfolio host's internal links so pages missing from
// the site configuration can be spotted.
type Service struct {
	log     *logger.Logger
	profile scrape.HeaderProfile
	pages   []config.PageSpec
	limit   colly.LimitRule
}

func NewService(profile scrape.HeaderProfile, pages []config.PageSpec) *Service {
	return &Service{
		log:     logger.New("DiscoverService"),
		profile: profile,
		pages:   pages,
		limit:   colly.LimitRule{DomainGlob: "*", Parallelism: 1, Delay: 500 * time.Millisecond},
	}
}

type Request struct {
	URL       string
	Depth     int
	LinkLimit int
}

type Page struct {
	URL        string `json:"url"`
	Configured bool   `json:"configured"`
}

type Result struct {
	Pages        []Page `json:"pages"`
	Unconfigured int    `json:"unconfigured"`
}

// Discover visits start pages one at a time and collects same-host links up
// to Depth hops, stopping at LinkLimit links.
func (s *Service) Discover(ctx context.Context, req Request) (*Result, error) {
	start := cleanURL(req.URL)
	host := extractDomain(start)
	depth := max(1, req.Depth)
	s.log.LogDebugf("Discover start url=%s depth=%d limit=%d", start, depth, req.LinkLimit)

	links := make(map[string]struct{})
	reached := func() bool { return req.LinkLimit > 0 && len(links) >= req.LinkLimit }

	c := colly.NewCollector(colly.MaxDepth(depth), colly.UserAgent(s.profile.UserAgent))
	rule := s.limit
	if err := c.Limit(&rule); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil || reached() {
			r.Abort()
		}
	})
	c.OnError(func(r *colly.Response, err error) {
		s.log.LogWarnf("Discover error %s %d: %v", r.Request.URL, r.StatusCode, err)
	})
	c.OnHTML("a[href]", func(e *colly.HTMLElement) {
		link := normalize(e.Request.AbsoluteURL(e.Attr("href")))
		if link == "" || !domainsMatch(extractDomain(link), host) || reached() {
			return
		}
		if _, seen := links[link]; seen {
			return
		}
		links[link] = struct{}{}
		if e.Request.Depth < depth {
			_ = e.Request.Visit(link)
		}
	})

	if err := c.Visit(start); err != nil {
		return nil, fmt.Errorf("visit: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	configured := make(map[string]struct{}, len(s.pages))
	for _, p := range s.pages {
		configured[normalize(p.URL)] = struct{}{}
	}
	out := &Result{Pages: make([]Page, 0, len(links))}
	for l := range links {
		_, ok := configured[l]
		if !ok {
			out.Unconfigured++
		}
		out.Pages = append(out.Pages, Page{URL: l, Configured: ok})
	}
	sort.Slice(out.Pages, func(i, j int) bool { return out.Pages[i].URL < out.Pages[j].URL })
	s.log.LogSuccessf("Discover ok url=%s found=%d unconfigured=%d", start, len(out.Pages), out.Unconfigured)
	return out, nil
}

func cleanURL(u string) string {
	if !strings.HasPrefix(u, "http") {
		u = "https://" + u
	}
	return u
}

func extractDomain(u string) string {
	p, _ := url.Parse(u)
	if p != nil {
		return p.Hostname()
	}
	return ""
}

// normalize drops fragments, query strings and a bare trailing slash so
// the same page is counted once.
func normalize(u string) string {
	p, err := url.Parse(u)
	if err != nil || p.Scheme == "" || p.Host == "" {
		return ""
	}
	if p.Scheme != "http" && p.Scheme != "https" {
		return ""
	}
	p.Fragment = ""
	p.RawQuery = ""
	p.Path = strings.TrimSuffix(p.Path, "/")
	return p.String()
}

func domainsMatch(a, b string) bool {
	return strings.TrimPrefix(a, "www.") == strings.TrimPrefix(b, "www.")
}
