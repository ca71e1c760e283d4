package recommend

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/naija-connect/naija_connect/internal/catalog"
)

// Handler exposes the plan recommendation endpoint.
type Handler struct {
	assistant Assistant
	catalog   *catalog.Catalog
}

// NewHandler constructs a recommendation handler.
func NewHandler(assistant Assistant, cat *catalog.Catalog) *Handler {
	return &Handler{assistant: assistant, catalog: cat}
}

type recommendRequest struct {
	Prompt string `json:"prompt"`
}

// Recommend asks the assistant for advice and attaches the catalog plans its
// answer mentions.
func (h *Handler) Recommend(c *fiber.Ctx) error {
	var req recommendRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Prompt == "" {
		return fiber.NewError(http.StatusBadRequest, "missing prompt")
	}

	text, err := h.assistant.Recommend(c.UserContext(), req.Prompt)
	if err != nil {
		return fiber.NewError(http.StatusBadGateway, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"text":  text,
		"plans": Match(text, h.catalog.Plans()),
	})
}
