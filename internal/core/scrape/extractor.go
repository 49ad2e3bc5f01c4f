package scrape

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"portfolio/internal/config"

	"github.com/PuerkitoBio/goquery"
)

// Attributes stamped onto <img> elements by the browser session before the
// DOM is serialized. They carry values only the live DOM knows.
const (
	attrResolvedSrc   = "data-resolved-src"
	attrNaturalWidth  = "data-natural-width"
	attrNaturalHeight = "data-natural-height"
)

// Extractor turns rendered page HTML into a ScrapedPage.
type Extractor struct {
	rules config.ExtractRules
}

func NewExtractor(rules config.ExtractRules) *Extractor {
	return &Extractor{rules: rules}
}

// Extract parses html and collects images, videos, embeds, text and outbound
// links. pageURL is the address the HTML was served from and is used to
// resolve relative references.
func (e *Extractor) Extract(html string, page config.PageSpec, pageURL string) (*ScrapedPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	if pageURL == "" {
		pageURL = page.URL
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url %q: %w", pageURL, err)
	}

	return &ScrapedPage{
		Slug:        page.Slug,
		Title:       page.Title,
		URL:         page.URL,
		Images:      e.images(doc, base),
		Videos:      videos(doc, base),
		Iframes:     e.iframes(doc, base),
		TextContent: e.text(doc),
		Links:       e.links(doc, base),
	}, nil
}

func (e *Extractor) images(doc *goquery.Document, base *url.URL) []RawImageRef {
	out := []RawImageRef{}
	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		var src string
		if stamped, ok := img.Attr(attrResolvedSrc); ok {
			src = stamped
		} else {
			src = attrOr(img, "src", "")
			if src == "" {
				src = attrOr(img, "data-src", "")
			}
			src = resolve(base, src)
		}
		if src == "" || strings.HasPrefix(src, "data:") || !strings.Contains(src, e.rules.MediaDomain) {
			return
		}
		out = append(out, RawImageRef{
			Src:    src,
			Alt:    attrOr(img, "alt", ""),
			Width:  dimension(img, attrNaturalWidth, "width"),
			Height: dimension(img, attrNaturalHeight, "height"),
		})
	})
	return out
}

// videos prefers nested <source> elements and only falls back to the
// element's own src when it has none.
func videos(doc *goquery.Document, base *url.URL) []RawVideoRef {
	out := []RawVideoRef{}
	add := func(src, typ string) {
		if src == "" || strings.HasPrefix(src, "data:") {
			return
		}
		out = append(out, RawVideoRef{Src: src, Type: typ})
	}
	doc.Find("video").Each(func(_ int, vid *goquery.Selection) {
		sources := vid.Find("source")
		if sources.Length() > 0 {
			sources.Each(func(_ int, s *goquery.Selection) {
				add(resolve(base, attrOr(s, "src", "")), attrOr(s, "type", ""))
			})
			return
		}
		add(resolve(base, attrOr(vid, "src", "")), "")
	})
	return out
}

func (e *Extractor) iframes(doc *goquery.Document, base *url.URL) []RawIframeRef {
	out := []RawIframeRef{}
	doc.Find("iframe").Each(func(_ int, f *goquery.Selection) {
		src := resolve(base, attrOr(f, "src", ""))
		if src != "" && strings.Contains(src, e.rules.EmbedDomain) {
			out = append(out, RawIframeRef{Src: src})
		}
	})
	return out
}

func (e *Extractor) text(doc *goquery.Document) TextContent {
	tc := TextContent{Headings: []Heading{}, Paragraphs: []string{}}
	doc.Find("h1, h2, h3, h4").Each(func(_ int, h *goquery.Selection) {
		if t := strings.TrimSpace(h.Text()); t != "" {
			tc.Headings = append(tc.Headings, Heading{Tag: goquery.NodeName(h), Text: t})
		}
	})
	if e.rules.ParagraphSelector != "" {
		doc.Find(e.rules.ParagraphSelector).Each(func(_ int, p *goquery.Selection) {
			if t := strings.TrimSpace(p.Text()); t != "" {
				tc.Paragraphs = append(tc.Paragraphs, t)
			}
		})
	}
	return tc
}

// links keeps outbound links with visible text.
func (e *Extractor) links(doc *goquery.Document, base *url.URL) []Link {
	out := []Link{}
	if e.rules.LinkSelector == "" {
		return out
	}
	doc.Find(e.rules.LinkSelector).Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		href = resolve(base, href)
		text := strings.TrimSpace(a.Text())
		if href == "" || text == "" {
			return
		}
		if e.rules.SiteDomain != "" && strings.Contains(href, e.rules.SiteDomain) {
			return
		}
		out = append(out, Link{Href: href, Text: text})
	})
	return out
}

func attrOr(s *goquery.Selection, name, def string) string {
	if v, ok := s.Attr(name); ok {
		return strings.TrimSpace(v)
	}
	return def
}

func dimension(img *goquery.Selection, attrs ...string) int {
	for _, a := range attrs {
		if n, err := strconv.Atoi(attrOr(img, a, "")); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

// resolve turns ref into an absolute URL against base. Unparsable
// references are returned as-is.
func resolve(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "data:") {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if base == nil {
		return u.String()
	}
	return base.ResolveReference(u).String()
}
