package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/naija-connect/naija_connect/internal/wallet"
)

// RegisterWalletRoutes wires wallet endpoints. Money-moving POSTs go through
// the moneyGroup, which carries the idempotency middleware when enabled.
func RegisterWalletRoutes(r, moneyGroup fiber.Router, h *wallet.Handler) {
	group := r.Group("/wallet")
	group.Get("/balance", h.Balance)
	group.Get("/transactions", h.History)

	money := moneyGroup.Group("/wallet")
	money.Post("/purchase/data", h.PurchaseData)
	money.Post("/purchase/airtime", h.PurchaseAirtime)
	money.Post("/deposit", h.Deposit)
	money.Post("/deposit/verify", h.VerifyDeposit)
	money.Post("/withdraw", h.Withdraw)
	money.Post("/resolve", h.Resolve)
}
