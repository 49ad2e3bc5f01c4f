package publish

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"portfolio/internal/core/transform"
	"portfolio/internal/logger"
	"portfolio/internal/utils/jsonfile"
)

// ObjectStore is remote blob storage addressed by key.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

// URLMap maps site-root local asset URLs to remote URLs.
type URLMap map[string]string

type Summary struct {
	Uploaded int `json:"uploaded"`
	Failed   int `json:"failed"`
	Total    int `json:"total"`
	Replaced int `json:"replaced"`
	// Dangling counts display items still pointing at a local asset URL
	// after the rewrite.
	Dangling int `json:"dangling"`
}

type Options struct {
	AssetsDir   string
	ProjectRoot string
	Prefix      string
	DisplayPath string
	URLMapPath  string
}

type Publisher struct {
	log   *logger.Logger
	store ObjectStore
	opts  Options
	// localBase is the site-root URL of the asset directory, e.g. /tmp-assets.
	localBase string
}

func NewPublisher(store ObjectStore, opts Options) *Publisher {
	return &Publisher{
		log:       logger.New("Publisher"),
		store:     store,
		opts:      opts,
		localBase: localBase(opts.ProjectRoot, opts.AssetsDir),
	}
}

// WithLogger replaces the publisher's logger.
func (p *Publisher) WithLogger(l *logger.Logger) *Publisher {
	p.log = l
	return p
}

func localBase(projectRoot, assetsDir string) string {
	rel, err := filepath.Rel(projectRoot, assetsDir)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(assetsDir)
	}
	return "/" + strings.TrimPrefix(filepath.ToSlash(rel), "/")
}

// LocalURL is the URL the display document uses for a not yet uploaded asset.
func (p *Publisher) LocalURL(a Asset) string {
	return path.Join(p.localBase, a.Rel)
}

// Run uploads every asset, rewrites the display document and persists the
// URL map. Per-file upload failures are counted, not returned.
func (p *Publisher) Run(ctx context.Context) (Summary, error) {
	urls, summary, err := p.Upload(ctx)
	if err != nil {
		return summary, err
	}

	p.log.LogInfo("📝 Updating display document with remote URLs...")
	doc, err := transform.Read(p.opts.DisplayPath)
	if err != nil {
		return summary, fmt.Errorf("load display document: %w", err)
	}
	summary.Replaced = Rewrite(doc, urls)
	for _, u := range p.Dangling(doc) {
		p.log.LogWarnf("  ⚠️  Still local after upload: %s", u)
		summary.Dangling++
	}
	if err := transform.Write(p.opts.DisplayPath, doc); err != nil {
		return summary, fmt.Errorf("write display document: %w", err)
	}
	p.log.LogSuccessf("  ✅ Updated %d URLs in %s", summary.Replaced, filepath.Base(p.opts.DisplayPath))

	if err := jsonfile.WriteAtomic(p.opts.URLMapPath, urls); err != nil {
		return summary, fmt.Errorf("write url map: %w", err)
	}
	p.log.LogInfof("  📄 URL map saved to: %s", p.opts.URLMapPath)
	return summary, nil
}

// Upload sends every file under the asset directory to the store, one at a
// time, and returns the map of successful uploads.
func (p *Publisher) Upload(ctx context.Context) (URLMap, Summary, error) {
	assets, err := ListAssets(p.opts.AssetsDir)
	if err != nil {
		return nil, Summary{}, fmt.Errorf("list assets: %w", err)
	}
	summary := Summary{Total: len(assets)}
	p.log.LogInfof("📁 Found %d files to upload", len(assets))

	urls := URLMap{}
	for i, a := range assets {
		if err := ctx.Err(); err != nil {
			return urls, summary, err
		}
		remote, err := p.put(ctx, a)
		if err != nil {
			summary.Failed++
			p.log.LogWarnf("  ⬆️  [%d/%d] %s ❌ %v", i+1, len(assets), a.Rel, err)
			continue
		}
		summary.Uploaded++
		urls[p.LocalURL(a)] = remote
		p.log.LogInfof("  ⬆️  [%d/%d] %s ✅", i+1, len(assets), a.Rel)
	}

	p.log.LogInfof("📊 UPLOAD SUMMARY  ✅ Uploaded: %d  ❌ Failed: %d  📁 Total: %d",
		summary.Uploaded, summary.Failed, summary.Total)
	return urls, summary, nil
}

func (p *Publisher) put(ctx context.Context, a Asset) (string, error) {
	f, err := os.Open(a.Path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return p.store.Put(ctx, RemoteKey(p.opts.Prefix, a), f, ContentType(a.Path))
}

// Rewrite replaces every item URL that exactly matches a key of urls and
// returns how many were replaced.
func Rewrite(doc *transform.Document, urls URLMap) int {
	replaced := 0
	doc.Items(func(_ *transform.Section, it *transform.Item) {
		if remote, ok := urls[it.URL]; ok && it.URL != "" {
			it.URL = remote
			replaced++
		}
	})
	return replaced
}

// Dangling lists item URLs that still point into the local asset directory.
func (p *Publisher) Dangling(doc *transform.Document) []string {
	var out []string
	prefix := p.localBase + "/"
	doc.Items(func(_ *transform.Section, it *transform.Item) {
		if strings.HasPrefix(it.URL, prefix) {
			out = append(out, it.URL)
		}
	})
	return out
}
