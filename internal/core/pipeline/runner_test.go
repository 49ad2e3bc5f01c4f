package pipeline

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"portfolio/internal/config"
	"portfolio/internal/core/download"
	"portfolio/internal/core/manifest"
	"portfolio/internal/core/publish"
	"portfolio/internal/core/scrape"
	"portfolio/internal/core/transform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	fail   map[string]error
	seen   []string
	closed bool
}

func (f *fakeFetcher) Fetch(_ context.Context, p config.PageSpec) (*scrape.ScrapedPage, error) {
	f.seen = append(f.seen, p.Slug)
	if err := f.fail[p.Slug]; err != nil {
		return nil, err
	}
	return &scrape.ScrapedPage{
		Slug:    p.Slug,
		Title:   p.Title,
		URL:     p.URL,
		Images:  []scrape.RawImageRef{{Src: "https://cdn.myportfolio.com/" + p.Slug + "/a.jpg"}},
		Videos:  []scrape.RawVideoRef{{Src: "https://cdn.myportfolio.com/" + p.Slug + "/v.mp4", Type: "video/mp4"}},
		Iframes: []scrape.RawIframeRef{{Src: "https://www-ccv.adobe.io/embed/" + p.Slug}},
	}, nil
}

func (f *fakeFetcher) Close() error {
	f.closed = true
	return nil
}

// diskDownloader writes each deduplicated asset to dir without any network.
type diskDownloader struct{ root string }

func (d diskDownloader) DownloadPage(_ context.Context, page *scrape.ScrapedPage, dir string) download.PageMedia {
	var media download.PageMedia
	save := func(kind download.Kind, i int, src string) download.Outcome {
		name := download.Filename(kind, i, src)
		dest := filepath.Join(dir, name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return download.Outcome{URL: src, Err: err}
		}
		if err := os.WriteFile(dest, []byte(src), 0o644); err != nil {
			return download.Outcome{URL: src, Err: err}
		}
		rel, _ := filepath.Rel(d.root, dest)
		return download.Outcome{URL: src, Result: &download.DownloadResult{
			Kind: kind, LocalPath: filepath.ToSlash(rel), OriginalURL: src, Filename: name,
		}}
	}
	for i, img := range page.Images {
		media.Images = append(media.Images, save(download.KindImage, i+1, img.Src))
	}
	for i, v := range page.Videos {
		o := save(download.KindVideo, i+1, v.Src)
		if o.Result != nil {
			o.Result.Type = v.Type
		}
		media.Videos = append(media.Videos, o)
	}
	return media
}

type memStore struct{ keys []string }

func (m *memStore) Put(_ context.Context, key string, body io.Reader, _ string) (string, error) {
	_, _ = io.Copy(io.Discard, body)
	m.keys = append(m.keys, key)
	return "https://blob.test/" + key, nil
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	root := t.TempDir()
	return config.Config{
		ProjectRoot:  root,
		AssetsDir:    filepath.Join(root, "tmp-assets"),
		ManifestPath: filepath.Join(root, "raw-scrape-data.json"),
		DisplayPath:  filepath.Join(root, "src", "data", "portfolio-data.json"),
		URLMapPath:   filepath.Join(root, "url-map.json"),
		CleanAssets:  true,
		BlobToken:    "token",
		StorageURL:   "https://x.supabase.co",
		BlobPrefix:   "portfolio",
		Site: config.Site{
			Owner: config.Owner{Name: "Jake Vallante", Tagline: "A millennial that baby boomers like"},
			Pages: []config.PageSpec{
				{Slug: "home", URL: "https://thejake.design/", Title: "Home"},
				{Slug: "about", URL: "https://thejake.design/about", Title: "About"},
				{Slug: "coding", URL: "https://thejake.design/coding", Title: "Coding"},
			},
		},
	}
}

func TestScrape_PageFailureIsIsolated(t *testing.T) {
	cfg := testConfig(t)
	f := &fakeFetcher{fail: map[string]error{"about": errors.New("page load timeout")}}

	sum, err := NewRunner(cfg).Scrape(context.Background(), f, diskDownloader{root: cfg.ProjectRoot})
	require.NoError(t, err)

	assert.Equal(t, []string{"home", "about", "coding"}, f.seen)
	assert.Equal(t, &ScrapeSummary{Pages: 3, Succeeded: 2, Failed: 1, ImagesDownloaded: 2, VideosDownloaded: 2}, sum)

	m, err := manifest.Read(cfg.ManifestPath)
	require.NoError(t, err)
	require.Len(t, m, 3)

	assert.False(t, m[0].Failed())
	assert.Len(t, m[0].Media.Images, 1)
	assert.Len(t, m[0].Media.Videos, 1)

	assert.Equal(t, "page load timeout", m[1].Error)
	assert.Empty(t, m[1].Media.Images)
	assert.Empty(t, m[1].Media.Videos)

	assert.False(t, m[2].Failed())
	assert.Equal(t, "tmp-assets/coding/img-001.jpg", m[2].Media.Images[0].LocalPath)
}

func TestScrape_CleansAssetDir(t *testing.T) {
	cfg := testConfig(t)
	stale := filepath.Join(cfg.AssetsDir, "old", "img-001.jpg")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o755))
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0o644))

	_, err := NewRunner(cfg).Scrape(context.Background(), &fakeFetcher{}, diskDownloader{root: cfg.ProjectRoot})
	require.NoError(t, err)
	assert.NoFileExists(t, stale)
}

func TestScrape_KeepsAssetDirWhenCleanDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.CleanAssets = false
	stale := filepath.Join(cfg.AssetsDir, "old", "img-001.jpg")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o755))
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0o644))

	_, err := NewRunner(cfg).Scrape(context.Background(), &fakeFetcher{}, diskDownloader{root: cfg.ProjectRoot})
	require.NoError(t, err)
	assert.FileExists(t, stale)
}

func TestScrape_CancelledRunWritesNoManifest(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(cfg).Scrape(ctx, &fakeFetcher{}, diskDownloader{root: cfg.ProjectRoot})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, cfg.ManifestPath)
}

func TestGenerate_MissingManifestFails(t *testing.T) {
	_, err := NewRunner(testConfig(t)).Generate()
	assert.Error(t, err)
}

func TestRunAll_EndToEnd(t *testing.T) {
	cfg := testConfig(t)
	f := &fakeFetcher{fail: map[string]error{"about": errors.New("navigation failed")}}
	store := &memStore{}
	deps := Deps{
		NewFetcher: func() (scrape.Fetcher, error) { return f, nil },
		Downloader: diskDownloader{root: cfg.ProjectRoot},
		NewStore:   func() (publish.ObjectStore, error) { return store, nil },
	}

	r := NewRunner(cfg)
	res, err := r.Run(context.Background(), StageAll, deps)
	require.NoError(t, err)

	assert.True(t, f.closed)
	assert.Equal(t, r.RunID(), res.RunID)
	assert.Equal(t, 2, res.Scrape.Succeeded)
	assert.Equal(t, &GenerateSummary{Sections: 2, Items: 6}, res.Generate)
	assert.Equal(t, publish.Summary{Uploaded: 4, Total: 4, Replaced: 4}, *res.Upload)
	assert.Len(t, store.keys, 4)

	doc, err := transform.Read(cfg.DisplayPath)
	require.NoError(t, err)
	require.Len(t, doc.Sections, 2)
	items := doc.Sections[1].Items
	assert.Equal(t, transform.ItemImage, items[0].Type)
	assert.Equal(t, "https://blob.test/portfolio/coding/img-001.jpg", items[0].URL)
	assert.Equal(t, transform.ItemVideoEmbed, items[1].Type)
	assert.Equal(t, "Coding Video 1", items[1].Alt)
	assert.Equal(t, "https://blob.test/portfolio/coding/vid-001.mp4", items[2].URL)
}

func TestRun_UploadRequiresTokenBeforeAnyWork(t *testing.T) {
	cfg := testConfig(t)
	cfg.BlobToken = ""
	called := false
	deps := Deps{NewFetcher: func() (scrape.Fetcher, error) {
		called = true
		return &fakeFetcher{}, nil
	}}

	_, err := NewRunner(cfg).Run(context.Background(), StageAll, deps)
	assert.ErrorIs(t, err, config.ErrMissingToken)
	assert.False(t, called)
	assert.NoFileExists(t, cfg.ManifestPath)
}

func TestParseStage(t *testing.T) {
	for _, s := range []string{"scrape", "generate", "upload", "all"} {
		st, err := ParseStage(s)
		require.NoError(t, err)
		assert.Equal(t, Stage(s), st)
	}
	_, err := ParseStage("deploy")
	assert.Error(t, err)
}
