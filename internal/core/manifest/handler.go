package manifest

import (
	"errors"
	"io/fs"

	"github.com/gofiber/fiber/v2"
)

// Handler serves the manifest of the last scrape run.
type Handler struct{ path string }

func NewHandler(path string) *Handler { return &Handler{path: path} }

func (h *Handler) HandleGetManifest(c *fiber.Ctx) error {
	m, err := Read(h.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": "no scrape run recorded"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	return c.JSON(m)
}
