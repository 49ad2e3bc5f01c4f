package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"portfolio/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticFetcher_FetchesAndExtracts(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(portfolioPage))
	}))
	defer srv.Close()

	f := NewStaticFetcher(DesktopProfile("TestAgent/1.0"), 5*time.Second, NewExtractor(config.DefaultSite().Extract))
	defer f.Close()

	page, err := f.Fetch(context.Background(), config.PageSpec{Slug: "coding", URL: srv.URL + "/coding", Title: "Coding"})
	require.NoError(t, err)

	assert.Equal(t, "TestAgent/1.0", gotUA)
	assert.Equal(t, "coding", page.Slug)
	assert.Len(t, page.Images, 3)
	assert.Len(t, page.Iframes, 1)
}

func TestStaticFetcher_ErrorStatusFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewStaticFetcher(DesktopProfile("TestAgent/1.0"), 5*time.Second, NewExtractor(config.DefaultSite().Extract))
	_, err := f.Fetch(context.Background(), config.PageSpec{Slug: "x", URL: srv.URL, Title: "X"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "navigation failed")
}

func TestStaticFetcher_CancelledContext(t *testing.T) {
	f := NewStaticFetcher(DesktopProfile("TestAgent/1.0"), 5*time.Second, NewExtractor(config.DefaultSite().Extract))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Fetch(ctx, config.PageSpec{Slug: "x", URL: "http://127.0.0.1:1", Title: "X"})
	assert.ErrorIs(t, err, context.Canceled)
}
