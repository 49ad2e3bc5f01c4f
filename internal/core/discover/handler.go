package discover

import (
	"portfolio/internal/utils/parser"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
	siteURL string
}

// NewHandler serves discovery rooted at siteURL.
func NewHandler(service *Service, siteURL string) *Handler {
	return &Handler{service: service, siteURL: siteURL}
}

type Query struct {
	Depth int `form:"depth"`
	Limit int `form:"limit"`
}

func (h *Handler) HandleGetDiscover(c *fiber.Ctx) error {
	q := Query{Depth: 2, Limit: 100}
	if err := parser.ParseQuery(c, &q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	res, err := h.service.Discover(c.UserContext(), Request{URL: h.siteURL, Depth: q.Depth, LinkLimit: q.Limit})
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	return c.JSON(res)
}
