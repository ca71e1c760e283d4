package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/naija-connect/naija_connect/internal/account"
	"github.com/naija-connect/naija_connect/internal/auth"
	"github.com/naija-connect/naija_connect/internal/config"
)

// JWTAuth validates access tokens and checks the account's token version so a
// logout invalidates everything issued before it. The caller's email lands in
// c.Locals("email").
func JWTAuth(cfg config.Config, accounts *account.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])
		claims, err := auth.ParseAndVerifyHS256(tokenStr, []byte(cfg.JWTSecret))
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}
		email, _ := claims["sub"].(string)
		verFloat, _ := claims["ver"].(float64)
		ver := int(verFloat)

		profile, err := accounts.Get(c.UserContext(), email)
		if err != nil || profile.TokenVersion != ver {
			return fiber.NewError(http.StatusUnauthorized, "token invalidated")
		}

		c.Locals("email", strings.ToLower(email))
		return c.Next()
	}
}
