package scrape

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"portfolio/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	page   *ScrapedPage
	err    error
	closed bool
}

func (s *stubFetcher) Fetch(_ context.Context, p config.PageSpec) (*ScrapedPage, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := *s.page
	out.Slug = p.Slug
	return &out, nil
}

func (s *stubFetcher) Close() error {
	s.closed = true
	return nil
}

func previewApp(f *stubFetcher, factoryErr error) *fiber.App {
	h := NewHandler(config.DefaultSite().Pages, func() (Fetcher, error) {
		if factoryErr != nil {
			return nil, factoryErr
		}
		return f, nil
	})
	app := fiber.New()
	app.Get("/v1/scrape", h.HandleGetScrape)
	return app
}

func TestHandleGetScrape(t *testing.T) {
	f := &stubFetcher{page: &ScrapedPage{Images: []RawImageRef{{Src: "https://cdn.myportfolio.com/a.jpg"}}}}
	app := previewApp(f, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/scrape?slug=coding", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got ScrapedPage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "coding", got.Slug)
	assert.Len(t, got.Images, 1)
	assert.True(t, f.closed)
}

func TestHandleGetScrape_Errors(t *testing.T) {
	cases := []struct {
		name       string
		target     string
		fetchErr   error
		factoryErr error
		status     int
	}{
		{name: "missing slug", target: "/v1/scrape", status: fiber.StatusBadRequest},
		{name: "unknown slug", target: "/v1/scrape?slug=nope", status: fiber.StatusNotFound},
		{name: "fetcher unavailable", target: "/v1/scrape?slug=home", factoryErr: errors.New("no browser"), status: fiber.StatusInternalServerError},
		{name: "fetch failed", target: "/v1/scrape?slug=home", fetchErr: errors.New("page load timeout"), status: fiber.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := previewApp(&stubFetcher{err: tc.fetchErr, page: &ScrapedPage{}}, tc.factoryErr)
			resp, err := app.Test(httptest.NewRequest("GET", tc.target, nil))
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, false, body["success"])
			assert.NotEmpty(t, body["error"])
		})
	}
}
