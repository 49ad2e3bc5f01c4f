package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PageSpec is one crawl target.
type PageSpec struct {
	Slug  string `yaml:"slug" json:"slug"`
	URL   string `yaml:"url" json:"url"`
	Title string `yaml:"title" json:"title"`
}

type Owner struct {
	Name    string `yaml:"name" json:"name"`
	Tagline string `yaml:"tagline" json:"tagline"`
}

// ExtractRules scope what the extractor keeps from a page.
type ExtractRules struct {
	// MediaDomain must appear in an image source for it to be kept.
	MediaDomain string `yaml:"media_domain"`
	// EmbedDomain must appear in an iframe source for it to be kept.
	EmbedDomain string `yaml:"embed_domain"`
	// SiteDomain marks links back to the scraped site itself.
	SiteDomain        string `yaml:"site_domain"`
	ParagraphSelector string `yaml:"paragraph_selector"`
	LinkSelector      string `yaml:"link_selector"`
}

// Site is the static description of what gets scraped and how it is labelled.
type Site struct {
	Owner   Owner        `yaml:"owner"`
	Pages   []PageSpec   `yaml:"pages"`
	Extract ExtractRules `yaml:"extract"`
}

const defaultBaseURL = "https://thejake.design"

func DefaultSite() Site {
	return Site{
		Owner: Owner{
			Name:    "Jake Vallante",
			Tagline: "A millennial that baby boomers like",
		},
		Pages: []PageSpec{
			{Slug: "home", URL: defaultBaseURL, Title: "Home"},
			{Slug: "about", URL: defaultBaseURL + "/about", Title: "About"},
			{Slug: "graphic-design", URL: defaultBaseURL + "/graphic-design-1", Title: "Graphic Design"},
			{Slug: "animation", URL: defaultBaseURL + "/animation", Title: "Animation & Video"},
			{Slug: "photography", URL: defaultBaseURL + "/portfolio-photography", Title: "Photography"},
			{Slug: "coding", URL: defaultBaseURL + "/coding", Title: "Coding"},
			{Slug: "contact", URL: defaultBaseURL + "/contact", Title: "Contact"},
		},
		Extract: ExtractRules{
			MediaDomain:       "cdn.myportfolio.com",
			EmbedDomain:       "adobe.io",
			SiteDomain:        "thejake.design",
			ParagraphSelector: ".page-content p, .page-content .text-block, [data-testid] p",
			LinkSelector:      ".page-content a, [data-testid] a",
		},
	}
}

// Merge overlays the non-empty values of other onto s.
func (s Site) Merge(other Site) Site {
	out := s
	if other.Owner.Name != "" {
		out.Owner.Name = other.Owner.Name
	}
	if other.Owner.Tagline != "" {
		out.Owner.Tagline = other.Owner.Tagline
	}
	if len(other.Pages) > 0 {
		out.Pages = append([]PageSpec(nil), other.Pages...)
	}
	e := other.Extract
	if e.MediaDomain != "" {
		out.Extract.MediaDomain = e.MediaDomain
	}
	if e.EmbedDomain != "" {
		out.Extract.EmbedDomain = e.EmbedDomain
	}
	if e.SiteDomain != "" {
		out.Extract.SiteDomain = e.SiteDomain
	}
	if e.ParagraphSelector != "" {
		out.Extract.ParagraphSelector = e.ParagraphSelector
	}
	if e.LinkSelector != "" {
		out.Extract.LinkSelector = e.LinkSelector
	}
	return out
}

// LoadSiteFile loads a site description from YAML. Returns nil if the file
// doesn't exist. Returns an error if the file exists but cannot be parsed or
// lists a page without slug or url.
func LoadSiteFile(path string) (*Site, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read site file: %w", err)
	}

	var site Site
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("failed to parse site file: %w", err)
	}

	seen := make(map[string]struct{}, len(site.Pages))
	for i, p := range site.Pages {
		if p.Slug == "" || p.URL == "" {
			return nil, fmt.Errorf("page %d in site file needs slug and url", i+1)
		}
		if _, dup := seen[p.Slug]; dup {
			return nil, fmt.Errorf("duplicate page slug %q in site file", p.Slug)
		}
		seen[p.Slug] = struct{}{}
		if p.Title == "" {
			site.Pages[i].Title = p.Slug
		}
	}
	return &site, nil
}
