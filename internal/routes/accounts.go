package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/naija-connect/naija_connect/internal/account"
)

// RegisterAccountRoutes wires registration and password-reset endpoints.
func RegisterAccountRoutes(r fiber.Router, h *account.Handler) {
	group := r.Group("/accounts")
	group.Post("/register", h.Register)
	group.Post("/password/otp", h.RequestOTP)
	group.Post("/password/verify", h.VerifyOTP)
	group.Post("/password/reset", h.ResetPassword)
}
