package transform

import (
	"portfolio/internal/config"
	"portfolio/internal/core/scrape"
	"portfolio/internal/utils/jsonfile"
)

const (
	ItemImage      = "image"
	ItemVideoEmbed = "video-embed"
	ItemVideo      = "video"
)

// Document is the display-ready file read by the site at build time.
type Document struct {
	Owner    config.Owner `json:"owner"`
	Sections []Section    `json:"sections"`
}

type Section struct {
	Slug  string             `json:"slug"`
	Title string             `json:"title"`
	Items []Item             `json:"items"`
	Links []scrape.Link      `json:"links"`
	Text  scrape.TextContent `json:"text"`
}

// Item is one gallery entry. Filename is only set for images.
type Item struct {
	Type     string `json:"type"`
	URL      string `json:"url"`
	Alt      string `json:"alt"`
	Filename string `json:"filename,omitempty"`
}

// Items calls fn for every item of every section, in order.
func (d *Document) Items(fn func(section *Section, item *Item)) {
	for i := range d.Sections {
		s := &d.Sections[i]
		for j := range s.Items {
			fn(s, &s.Items[j])
		}
	}
}

func Write(path string, doc *Document) error {
	return jsonfile.WriteAtomic(path, doc)
}

func Read(path string) (*Document, error) {
	var doc Document
	if err := jsonfile.Read(path, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
