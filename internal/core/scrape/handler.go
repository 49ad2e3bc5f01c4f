package scrape

import (
	"portfolio/internal/config"

	"github.com/gofiber/fiber/v2"
)

// Handler serves one-off extractions of configured pages so selector or
// domain rule changes can be checked without a full run. Nothing is
// downloaded.
type Handler struct {
	pages      []config.PageSpec
	newFetcher func() (Fetcher, error)
}

func NewHandler(pages []config.PageSpec, newFetcher func() (Fetcher, error)) *Handler {
	return &Handler{pages: pages, newFetcher: newFetcher}
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (h *Handler) HandleGetScrape(c *fiber.Ctx) error {
	slug := c.Query("slug")
	if slug == "" {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "slug is required"})
	}

	var page *config.PageSpec
	for i := range h.pages {
		if h.pages[i].Slug == slug {
			page = &h.pages[i]
			break
		}
	}
	if page == nil {
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: "unknown slug"})
	}

	fetcher, err := h.newFetcher()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: err.Error()})
	}
	defer fetcher.Close()

	scraped, err := fetcher.Fetch(c.UserContext(), *page)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(errorResponse{Error: err.Error()})
	}
	return c.JSON(scraped)
}
