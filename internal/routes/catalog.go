package routes

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/naija-connect/naija_connect/internal/catalog"
)

// RegisterCatalogRoutes wires the read-only plan catalog endpoints.
func RegisterCatalogRoutes(r fiber.Router, cat *catalog.Catalog) {
	group := r.Group("/catalog")
	group.Get("/plans", func(c *fiber.Ctx) error {
		if carrier := c.Query("carrier"); carrier != "" {
			return c.Status(http.StatusOK).JSON(fiber.Map{"plans": cat.PlansFor(carrier)})
		}
		return c.Status(http.StatusOK).JSON(fiber.Map{"plans": cat.Plans()})
	})
	group.Get("/carrier", func(c *fiber.Ctx) error {
		phone := catalog.NormalizePhone(c.Query("phone"))
		carrier := catalog.DetectCarrier(phone)
		if carrier == "" {
			return fiber.NewError(http.StatusNotFound, "carrier not recognized")
		}
		return c.Status(http.StatusOK).JSON(fiber.Map{"phone": phone, "carrier": carrier})
	})
}
