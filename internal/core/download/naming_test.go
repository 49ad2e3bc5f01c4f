package download

import (
	"testing"

	"portfolio/internal/core/scrape"

	"github.com/stretchr/testify/assert"
)

func TestDedupe_KeepsFirstOccurrence(t *testing.T) {
	refs := []scrape.RawImageRef{
		{Src: "https://cdn.myportfolio.com/a.jpg", Alt: "first"},
		{Src: "https://cdn.myportfolio.com/b.jpg"},
		{Src: "https://cdn.myportfolio.com/a.jpg", Alt: "second"},
		{Src: "https://cdn.myportfolio.com/c.jpg"},
		{Src: "https://cdn.myportfolio.com/b.jpg"},
	}

	got := Dedupe(refs, func(r scrape.RawImageRef) string { return r.Src })

	assert.Equal(t, []scrape.RawImageRef{
		{Src: "https://cdn.myportfolio.com/a.jpg", Alt: "first"},
		{Src: "https://cdn.myportfolio.com/b.jpg"},
		{Src: "https://cdn.myportfolio.com/c.jpg"},
	}, got)
	assert.Equal(t, got, Dedupe(got, func(r scrape.RawImageRef) string { return r.Src }))
}

func TestExtFromURL(t *testing.T) {
	cases := map[string]string{
		"https://cdn.myportfolio.com/x/photo.png":             ".png",
		"https://cdn.myportfolio.com/x/photo.PNG?h=1":         ".PNG",
		"https://cdn.myportfolio.com/x/clip.webm":             ".webm",
		"https://cdn.myportfolio.com/x/image.jpeg_rw_1920":    ".jpg",
		"https://cdn.myportfolio.com/x/stream?type=mp4":       ".mp4",
		"https://cdn.myportfolio.com/x/stream?type=webm&q=hd": ".webm",
		"https://cdn.myportfolio.com/x/asset":                 ".jpg",
		"://not a url":                                        ".jpg",
	}
	for in, want := range cases {
		assert.Equal(t, want, ExtFromURL(in), in)
	}
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "img-001.png", Filename(KindImage, 1, "https://cdn.myportfolio.com/a.png"))
	assert.Equal(t, "img-042.jpg", Filename(KindImage, 42, "https://cdn.myportfolio.com/a"))
	assert.Equal(t, "vid-003.mp4", Filename(KindVideo, 3, "https://cdn.myportfolio.com/v?type=mp4"))
	assert.Equal(t, "img-1000.gif", Filename(KindImage, 1000, "https://cdn.myportfolio.com/a.gif"))
}

func TestPartition(t *testing.T) {
	outcomes := []Outcome{
		{URL: "a", Result: &DownloadResult{Filename: "img-001.jpg"}},
		{URL: "b", Err: assert.AnError},
		{URL: "c", Result: &DownloadResult{Filename: "img-003.jpg"}},
	}

	ok, failed := Partition(outcomes)

	assert.Equal(t, []DownloadResult{{Filename: "img-001.jpg"}, {Filename: "img-003.jpg"}}, ok)
	assert.Len(t, failed, 1)
	assert.Equal(t, "b", failed[0].URL)

	ok, failed = Partition(nil)
	assert.NotNil(t, ok)
	assert.Empty(t, failed)
}
