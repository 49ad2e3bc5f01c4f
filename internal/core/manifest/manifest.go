package manifest

import (
	"portfolio/internal/config"
	"portfolio/internal/core/download"
	"portfolio/internal/core/scrape"
	"portfolio/internal/utils/jsonfile"
)

// Manifest is the ordered record of one scrape run, one entry per page.
type Manifest []Entry

type Media struct {
	Images []download.DownloadResult `json:"images"`
	Videos []download.DownloadResult `json:"videos"`
}

type Stats struct {
	TotalImagesFound  int `json:"totalImagesFound"`
	TotalVideosFound  int `json:"totalVideosFound"`
	TotalIframesFound int `json:"totalIframesFound"`
	ImagesDownloaded  int `json:"imagesDownloaded"`
	VideosDownloaded  int `json:"videosDownloaded"`
}

// Entry is either a scraped section or, when Error is set, a page that
// failed. Failed entries serialize as slug, title, url, error and empty
// media only.
type Entry struct {
	Slug        string                `json:"slug"`
	Title       string                `json:"title"`
	URL         string                `json:"url"`
	TextContent *scrape.TextContent   `json:"textContent,omitempty"`
	Links       []scrape.Link         `json:"links"`
	Iframes     []scrape.RawIframeRef `json:"iframes"`
	Media       *Media                `json:"media,omitempty"`
	Stats       *Stats                `json:"stats,omitempty"`
	Error       string                `json:"error,omitempty"`
}

type failedEntry struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Error string `json:"error"`
	Media *Media `json:"media"`
}

// Failed reports whether the entry records a page error.
func (e Entry) Failed() bool { return e.Error != "" }

func (e Entry) MarshalJSON() ([]byte, error) {
	if e.Failed() {
		media := e.Media
		if media == nil {
			media = emptyMedia()
		}
		return jsonfile.Marshal(failedEntry{Slug: e.Slug, Title: e.Title, URL: e.URL, Error: e.Error, Media: media})
	}
	type plain Entry
	return jsonfile.Marshal(plain(e))
}

func emptyMedia() *Media {
	return &Media{Images: []download.DownloadResult{}, Videos: []download.DownloadResult{}}
}

// NewEntry folds a scraped page and its download outcomes into an entry.
// Found counts are taken before deduplication.
func NewEntry(page *scrape.ScrapedPage, media download.PageMedia) Entry {
	images, _ := download.Partition(media.Images)
	videos, _ := download.Partition(media.Videos)
	text := page.TextContent
	links := page.Links
	if links == nil {
		links = []scrape.Link{}
	}
	iframes := page.Iframes
	if iframes == nil {
		iframes = []scrape.RawIframeRef{}
	}
	return Entry{
		Slug:        page.Slug,
		Title:       page.Title,
		URL:         page.URL,
		TextContent: &text,
		Links:       links,
		Iframes:     iframes,
		Media:       &Media{Images: images, Videos: videos},
		Stats: &Stats{
			TotalImagesFound:  len(page.Images),
			TotalVideosFound:  len(page.Videos),
			TotalIframesFound: len(page.Iframes),
			ImagesDownloaded:  len(images),
			VideosDownloaded:  len(videos),
		},
	}
}

// ErrorEntry records a page that could not be scraped.
func ErrorEntry(page config.PageSpec, err error) Entry {
	return Entry{
		Slug:  page.Slug,
		Title: page.Title,
		URL:   page.URL,
		Error: err.Error(),
		Media: emptyMedia(),
	}
}

// Write replaces the manifest at path in a single rename.
func Write(path string, m Manifest) error {
	if m == nil {
		m = Manifest{}
	}
	return jsonfile.WriteAtomic(path, m)
}

// Read loads a manifest and restores the kind of every media result.
func Read(path string) (Manifest, error) {
	var m Manifest
	if err := jsonfile.Read(path, &m); err != nil {
		return nil, err
	}
	for _, e := range m {
		if e.Media == nil {
			continue
		}
		for i := range e.Media.Images {
			e.Media.Images[i].Kind = download.KindImage
		}
		for i := range e.Media.Videos {
			e.Media.Videos[i].Kind = download.KindVideo
		}
	}
	return m, nil
}
