package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"portfolio/internal/core/scrape"
	"portfolio/internal/logger"
)

// Service saves page media to disk one asset at a time.
type Service struct {
	log         *logger.Logger
	client      *http.Client
	profile     scrape.HeaderProfile
	timeout     time.Duration
	projectRoot string
}

// NewService returns a downloader. timeout is an inactivity limit: it
// restarts on every redirect hop and every read of the body, so a slow but
// steady stream is not cut off. projectRoot is the base of the localPath
// values it reports.
func NewService(profile scrape.HeaderProfile, timeout time.Duration, projectRoot string) *Service {
	return &Service{
		log: logger.New("DownloadService"),
		client: &http.Client{
			// Redirects are followed by follow so there is no hop limit.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		profile:     profile,
		timeout:     timeout,
		projectRoot: projectRoot,
	}
}

// DownloadPage deduplicates the page's images and videos and downloads them
// into dir. Failures are logged and returned as outcomes.
func (s *Service) DownloadPage(ctx context.Context, page *scrape.ScrapedPage, dir string) PageMedia {
	images := Dedupe(page.Images, func(r scrape.RawImageRef) string { return r.Src })
	videos := Dedupe(page.Videos, func(r scrape.RawVideoRef) string { return r.Src })

	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.log.LogWarnf("  ⚠️  Failed to create %s: %v", dir, err)
	}

	media := PageMedia{
		Images: make([]Outcome, 0, len(images)),
		Videos: make([]Outcome, 0, len(videos)),
	}
	for i, img := range images {
		name := Filename(KindImage, i+1, img.Src)
		s.log.LogInfof("  ⬇️  Downloading image %d/%d: %s", i+1, len(images), name)
		o := s.Download(ctx, img.Src, filepath.Join(dir, name))
		if o.Result != nil {
			o.Result.Kind = KindImage
			o.Result.Alt = img.Alt
		} else {
			s.log.LogWarnf("  ⚠️  Failed to download image: %s: %v", img.Src, o.Err)
		}
		media.Images = append(media.Images, o)
	}
	for i, vid := range videos {
		name := Filename(KindVideo, i+1, vid.Src)
		s.log.LogInfof("  ⬇️  Downloading video %d/%d: %s", i+1, len(videos), name)
		o := s.Download(ctx, vid.Src, filepath.Join(dir, name))
		if o.Result != nil {
			o.Result.Kind = KindVideo
			o.Result.Type = vid.Type
		} else {
			s.log.LogWarnf("  ⚠️  Failed to download video: %s: %v", vid.Src, o.Err)
		}
		media.Videos = append(media.Videos, o)
	}
	return media
}

// Download fetches src into dest. The destination directory is created if
// needed and a partially written file is removed on failure.
func (s *Service) Download(ctx context.Context, src, dest string) Outcome {
	if err := s.fetch(ctx, src, dest); err != nil {
		return Outcome{URL: src, Err: err}
	}
	rel, err := filepath.Rel(s.projectRoot, dest)
	if err != nil {
		rel = dest
	}
	return Outcome{URL: src, Result: &DownloadResult{
		LocalPath:   filepath.ToSlash(rel),
		OriginalURL: src,
		Filename:    filepath.Base(dest),
	}}
}

func (s *Service) fetch(ctx context.Context, src, dest string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	idle := newIdleTimer(s.timeout, cancel)
	defer idle.stop()

	resp, err := s.follow(ctx, src, idle)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(f, &progressReader{r: resp.Body, idle: idle}); err != nil {
		f.Close()
		os.Remove(dest)
		if idle.expired() {
			return fmt.Errorf("timeout downloading %s", src)
		}
		return fmt.Errorf("write %s: %w", dest, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(dest)
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return nil
}

// follow issues GET requests until a non-redirect response arrives and
// returns it with its body open. Only 2xx responses are returned. Each hop
// is a fresh request with a fresh inactivity window.
func (s *Service) follow(ctx context.Context, src string, idle *idleTimer) (*http.Response, error) {
	current := src
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, current, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		s.profile.Apply(req)

		idle.reset()
		resp, err := s.client.Do(req)
		if err != nil {
			if idle.expired() {
				return nil, fmt.Errorf("timeout downloading %s", src)
			}
			return nil, fmt.Errorf("request %s: %w", current, err)
		}

		switch {
		case resp.StatusCode >= 300 && resp.StatusCode < 400:
			loc := resp.Header.Get("Location")
			drain(resp)
			if loc == "" {
				return nil, fmt.Errorf("failed to download %s: status %d without location", src, resp.StatusCode)
			}
			next, err := resolveLocation(current, loc)
			if err != nil {
				return nil, err
			}
			current = next
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return resp, nil
		default:
			drain(resp)
			return nil, fmt.Errorf("failed to download %s: status %d", src, resp.StatusCode)
		}
	}
}

// idleTimer cancels a download once no progress has been made for d.
// A zero d disables it.
type idleTimer struct {
	d     time.Duration
	t     *time.Timer
	fired atomic.Bool
}

func newIdleTimer(d time.Duration, cancel context.CancelFunc) *idleTimer {
	it := &idleTimer{d: d}
	if d > 0 {
		it.t = time.AfterFunc(d, func() {
			it.fired.Store(true)
			cancel()
		})
	}
	return it
}

func (it *idleTimer) reset() {
	if it.t != nil && !it.fired.Load() {
		it.t.Reset(it.d)
	}
}

func (it *idleTimer) stop() {
	if it.t != nil {
		it.t.Stop()
	}
}

func (it *idleTimer) expired() bool { return it.fired.Load() }

// progressReader restarts the idle timer whenever bytes arrive.
type progressReader struct {
	r    io.Reader
	idle *idleTimer
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.idle.reset()
	}
	return n, err
}

func resolveLocation(current, loc string) (string, error) {
	base, err := url.Parse(current)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", current, err)
	}
	ref, err := url.Parse(loc)
	if err != nil {
		return "", fmt.Errorf("parse redirect location %q: %w", loc, err)
	}
	return base.ResolveReference(ref).String(), nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()
}
