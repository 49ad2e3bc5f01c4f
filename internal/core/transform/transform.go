package transform

import (
	"fmt"
	"strings"

	"portfolio/internal/config"
	"portfolio/internal/core/manifest"
	"portfolio/internal/core/scrape"
)

// Transform builds the display document from a manifest. Failed entries and
// entries without a media object are left out; a page whose media lists are
// empty still gets a section. Within a section, items are all
// images, then all embeds, then all direct videos, each in source order.
func Transform(owner config.Owner, m manifest.Manifest) *Document {
	doc := &Document{Owner: owner, Sections: []Section{}}
	for _, e := range m {
		if e.Failed() || e.Media == nil {
			continue
		}
		doc.Sections = append(doc.Sections, section(e))
	}
	return doc
}

func section(e manifest.Entry) Section {
	items := make([]Item, 0, len(e.Media.Images)+len(e.Iframes)+len(e.Media.Videos))
	for _, img := range e.Media.Images {
		alt := img.Alt
		if alt == "" {
			alt = e.Title
		}
		items = append(items, Item{Type: ItemImage, URL: siteURL(img.LocalPath), Alt: alt, Filename: img.Filename})
	}
	for i, f := range e.Iframes {
		items = append(items, Item{Type: ItemVideoEmbed, URL: f.Src, Alt: fmt.Sprintf("%s Video %d", e.Title, i+1)})
	}
	for _, v := range e.Media.Videos {
		items = append(items, Item{Type: ItemVideo, URL: siteURL(v.LocalPath), Alt: e.Title})
	}

	links := e.Links
	if links == nil {
		links = []scrape.Link{}
	}
	text := scrape.TextContent{Headings: []scrape.Heading{}, Paragraphs: []string{}}
	if e.TextContent != nil {
		if e.TextContent.Headings != nil {
			text.Headings = e.TextContent.Headings
		}
		if e.TextContent.Paragraphs != nil {
			text.Paragraphs = e.TextContent.Paragraphs
		}
	}
	return Section{Slug: e.Slug, Title: e.Title, Items: items, Links: links, Text: text}
}

// siteURL turns a project-relative path into a site-root URL.
func siteURL(localPath string) string {
	return "/" + strings.ReplaceAll(localPath, `\`, "/")
}
