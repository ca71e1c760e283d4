package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/naija-connect/naija_connect/internal/recommend"
)

// RegisterRecommendRoutes wires the plan recommendation endpoint.
func RegisterRecommendRoutes(r fiber.Router, h *recommend.Handler) {
	r.Post("/recommend", h.Recommend)
}
