package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"portfolio/internal/config"
	"portfolio/internal/core/download"
	"portfolio/internal/core/manifest"
	"portfolio/internal/core/publish"
	"portfolio/internal/core/scrape"
	"portfolio/internal/core/transform"
	"portfolio/internal/logger"
	"portfolio/internal/platform/storage"

	"github.com/google/uuid"
)

// Downloader saves one page's media into dir.
type Downloader interface {
	DownloadPage(ctx context.Context, page *scrape.ScrapedPage, dir string) download.PageMedia
}

// Deps builds the collaborators a run needs. Constructors are only called
// for the stages that use them.
type Deps struct {
	NewFetcher func() (scrape.Fetcher, error)
	Downloader Downloader
	NewStore   func() (publish.ObjectStore, error)
}

// DefaultDeps wires the browser or static fetcher, the HTTP downloader and
// Supabase storage from cfg.
func DefaultDeps(cfg config.Config) Deps {
	return Deps{
		NewFetcher: func() (scrape.Fetcher, error) { return scrape.NewFetcher(cfg) },
		Downloader: download.NewService(scrape.DesktopProfile(cfg.UserAgent), cfg.DownloadTimeout, cfg.ProjectRoot),
		NewStore: func() (publish.ObjectStore, error) {
			return storage.NewSupabaseStore(cfg.StorageURL, cfg.BlobToken, cfg.StorageBucket)
		},
	}
}

type ScrapeSummary struct {
	Pages            int `json:"pages"`
	Succeeded        int `json:"succeeded"`
	Failed           int `json:"failed"`
	ImagesDownloaded int `json:"imagesDownloaded"`
	VideosDownloaded int `json:"videosDownloaded"`
	DownloadFailures int `json:"downloadFailures"`
}

type GenerateSummary struct {
	Sections int `json:"sections"`
	Items    int `json:"items"`
}

// Result collects the summaries of the stages a run executed.
type Result struct {
	RunID    string           `json:"run_id"`
	Scrape   *ScrapeSummary   `json:"scrape,omitempty"`
	Generate *GenerateSummary `json:"generate,omitempty"`
	Upload   *publish.Summary `json:"upload,omitempty"`
}

// Runner executes pipeline stages against one configuration. Each Runner has
// its own run id that tags its log lines.
type Runner struct {
	cfg   config.Config
	log   *logger.Logger
	runID string
}

func NewRunner(cfg config.Config) *Runner {
	id := uuid.New().String()
	return &Runner{cfg: cfg, log: logger.New("Pipeline").WithRun(id), runID: id}
}

func (r *Runner) RunID() string { return r.runID }

// Run executes stage and, for StageAll, scrape, generate and upload in
// order. Upload settings are checked before any work starts.
func (r *Runner) Run(ctx context.Context, stage Stage, deps Deps) (*Result, error) {
	if stage.needsUpload() {
		if err := r.cfg.RequireUpload(); err != nil {
			return nil, err
		}
	}
	res := &Result{RunID: r.runID}

	if stage == StageScrape || stage == StageAll {
		fetcher, err := deps.NewFetcher()
		if err != nil {
			return res, fmt.Errorf("start fetcher: %w", err)
		}
		sum, err := r.Scrape(ctx, fetcher, deps.Downloader)
		if cerr := fetcher.Close(); cerr != nil {
			r.log.LogWarnf("close fetcher: %v", cerr)
		}
		if err != nil {
			return res, err
		}
		res.Scrape = sum
	}

	if stage == StageGenerate || stage == StageAll {
		sum, err := r.Generate()
		if err != nil {
			return res, err
		}
		res.Generate = sum
	}

	if stage.needsUpload() {
		store, err := deps.NewStore()
		if err != nil {
			return res, fmt.Errorf("open object store: %w", err)
		}
		sum, err := r.Upload(ctx, store)
		if err != nil {
			return res, err
		}
		res.Upload = sum
	}
	return res, nil
}

// Scrape fetches every configured page in order, downloads its media and
// writes the manifest once at the end. A page failure becomes an error
// entry and the run continues.
func (r *Runner) Scrape(ctx context.Context, fetcher scrape.Fetcher, dl Downloader) (*ScrapeSummary, error) {
	r.log.LogInfo("🚀 Starting portfolio scrape...")
	if r.cfg.CleanAssets {
		if err := os.RemoveAll(r.cfg.AssetsDir); err != nil {
			return nil, fmt.Errorf("clean assets: %w", err)
		}
	}
	if err := os.MkdirAll(r.cfg.AssetsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create assets dir: %w", err)
	}

	pages := r.cfg.Site.Pages
	m := make(manifest.Manifest, 0, len(pages))
	sum := &ScrapeSummary{Pages: len(pages)}
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entry := r.scrapePage(ctx, fetcher, dl, page, sum)
		m = append(m, entry)
	}

	if err := manifest.Write(r.cfg.ManifestPath, m); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}

	r.log.LogInfo("📊 SCRAPE SUMMARY")
	for _, e := range m {
		if e.Failed() {
			r.log.LogWarnf("  ❌ %s: ERROR: %s", e.Title, e.Error)
			continue
		}
		r.log.LogInfof("  ✅ %s: %d images, %d videos", e.Title, e.Stats.ImagesDownloaded, e.Stats.VideosDownloaded)
	}
	r.log.LogInfof("📁 Assets saved to: %s", r.cfg.AssetsDir)
	r.log.LogSuccessf("📄 Manifest saved to: %s", r.cfg.ManifestPath)
	return sum, nil
}

func (r *Runner) scrapePage(ctx context.Context, fetcher scrape.Fetcher, dl Downloader, page config.PageSpec, sum *ScrapeSummary) manifest.Entry {
	scraped, err := fetcher.Fetch(ctx, page)
	if err != nil {
		r.log.LogError(fmt.Sprintf("❌ Error scraping %s", page.Title), err)
		sum.Failed++
		return manifest.ErrorEntry(page, err)
	}

	media := dl.DownloadPage(ctx, scraped, filepath.Join(r.cfg.AssetsDir, page.Slug))
	entry := manifest.NewEntry(scraped, media)

	_, failedImages := download.Partition(media.Images)
	_, failedVideos := download.Partition(media.Videos)
	sum.Succeeded++
	sum.ImagesDownloaded += entry.Stats.ImagesDownloaded
	sum.VideosDownloaded += entry.Stats.VideosDownloaded
	sum.DownloadFailures += len(failedImages) + len(failedVideos)
	return entry
}

// Generate turns the manifest into the display document.
func (r *Runner) Generate() (*GenerateSummary, error) {
	m, err := manifest.Read(r.cfg.ManifestPath)
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}
	doc := transform.Transform(r.cfg.Site.Owner, m)
	if err := transform.Write(r.cfg.DisplayPath, doc); err != nil {
		return nil, fmt.Errorf("write display document: %w", err)
	}

	sum := &GenerateSummary{Sections: len(doc.Sections)}
	r.log.LogSuccessf("✅ Generated %s", r.cfg.DisplayPath)
	r.log.LogInfof("   Sections: %d", len(doc.Sections))
	for _, s := range doc.Sections {
		sum.Items += len(s.Items)
		r.log.LogInfof("   - %s: %d items", s.Title, len(s.Items))
	}
	return sum, nil
}

// Upload publishes the asset tree and rewrites the display document.
func (r *Runner) Upload(ctx context.Context, store publish.ObjectStore) (*publish.Summary, error) {
	r.log.LogInfo("🚀 Starting blob upload...")
	p := publish.NewPublisher(store, publish.Options{
		AssetsDir:   r.cfg.AssetsDir,
		ProjectRoot: r.cfg.ProjectRoot,
		Prefix:      r.cfg.BlobPrefix,
		DisplayPath: r.cfg.DisplayPath,
		URLMapPath:  r.cfg.URLMapPath,
	}).WithLogger(logger.New("Publisher").WithRun(r.runID))

	sum, err := p.Run(ctx)
	if err != nil {
		return nil, err
	}
	if sum.Dangling > 0 {
		r.log.LogWarnf("⚠️  %d display items still point at local assets", sum.Dangling)
	}
	r.log.LogSuccessf("✨ Done! %d/%d assets hosted remotely", sum.Uploaded, sum.Total)
	return &sum, nil
}
