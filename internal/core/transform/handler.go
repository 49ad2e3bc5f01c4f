package transform

import (
	"errors"
	"io/fs"

	"github.com/gofiber/fiber/v2"
)

// Handler serves the current display document.
type Handler struct{ path string }

func NewHandler(path string) *Handler { return &Handler{path: path} }

func (h *Handler) HandleGetPortfolio(c *fiber.Ctx) error {
	doc, err := Read(h.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": "display document not generated"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	return c.JSON(doc)
}
