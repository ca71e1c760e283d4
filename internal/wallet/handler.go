package wallet

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/naija-connect/naija_connect/internal/gateway"
	"github.com/naija-connect/naija_connect/internal/store"
	"github.com/naija-connect/naija_connect/internal/vendor"
)

// Handler exposes the wallet endpoints. The JWT middleware puts the caller's
// email in c.Locals("email") before any of these run.
type Handler struct {
	svc *Service
}

// NewHandler constructs a wallet handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func callerEmail(c *fiber.Ctx) string {
	email, _ := c.Locals("email").(string)
	return email
}

// PurchaseData buys a data bundle for the given phone.
func (h *Handler) PurchaseData(c *fiber.Ctx) error {
	var req purchaseDataRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	result, err := h.svc.Purchase(c.UserContext(), PurchaseInput{
		Email:   callerEmail(c),
		Kind:    store.KindData,
		Phone:   req.Phone,
		Carrier: req.Carrier,
		PlanID:  req.PlanID,
		Method:  req.Method,
	})
	return purchaseResponse(c, result, err)
}

// PurchaseAirtime tops up airtime for the given phone.
func (h *Handler) PurchaseAirtime(c *fiber.Ctx) error {
	var req purchaseAirtimeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	result, err := h.svc.Purchase(c.UserContext(), PurchaseInput{
		Email:       callerEmail(c),
		Kind:        store.KindAirtime,
		Phone:       req.Phone,
		Carrier:     req.Carrier,
		AmountMinor: req.AmountMinor,
		Method:      req.Method,
	})
	return purchaseResponse(c, result, err)
}

func purchaseResponse(c *fiber.Ctx, result PurchaseResult, err error) error {
	if err != nil {
		var vErr *vendor.Error
		switch {
		case errors.Is(err, ErrValidation):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrInsufficientBalance):
			return fiber.NewError(http.StatusPaymentRequired, err.Error())
		case errors.Is(err, ErrAccountNotFound):
			return fiber.NewError(http.StatusNotFound, err.Error())
		case errors.Is(err, ErrOutcomeUnknown):
			return c.Status(http.StatusAccepted).JSON(fiber.Map{
				"transaction_id": result.TransactionID,
				"status":         result.Status,
				"detail":         "outcome unknown, the purchase will be reconciled",
			})
		case errors.As(err, &vErr):
			return c.Status(http.StatusBadGateway).JSON(fiber.Map{
				"transaction_id": result.TransactionID,
				"status":         result.Status,
				"error":          vErr.Message,
			})
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}
	resp := fiber.Map{
		"transaction_id": result.TransactionID,
		"status":         result.Status,
		"reference":      result.Reference,
		"balance_minor":  result.BalanceMinor,
	}
	if result.Plan != nil {
		resp["plan"] = result.Plan
	}
	return c.Status(http.StatusOK).JSON(resp)
}

// Deposit starts a hosted checkout and returns its URL and reference.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	var req depositRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	result, err := h.svc.Deposit(c.UserContext(), callerEmail(c), req.AmountMinor)
	if err != nil {
		return walletError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"reference":    result.Reference,
		"checkout_url": result.CheckoutURL,
	})
}

// VerifyDeposit reconciles a checkout reference, crediting at most once.
func (h *Handler) VerifyDeposit(c *fiber.Ctx) error {
	var req verifyDepositRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	result, err := h.svc.VerifyDeposit(c.UserContext(), callerEmail(c), req.Reference)
	if err != nil {
		return walletError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"settled":       result.Settled,
		"amount_minor":  result.AmountMinor,
		"balance_minor": result.BalanceMinor,
	})
}

// Withdraw pays out to a bank account, debiting the wallet up front.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	var req withdrawRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	result, err := h.svc.Withdraw(c.UserContext(), WithdrawInput{
		Email:         callerEmail(c),
		AmountMinor:   req.AmountMinor,
		BankCode:      req.BankCode,
		AccountNumber: req.AccountNumber,
		Narration:     req.Narration,
	})
	if err != nil {
		var gErr *gateway.Error
		switch {
		case errors.Is(err, ErrOutcomeUnknown):
			return c.Status(http.StatusAccepted).JSON(fiber.Map{
				"transaction_id": result.TransactionID,
				"status":         result.Status,
				"balance_minor":  result.BalanceMinor,
				"detail":         "outcome unknown, the withdrawal will be reconciled",
			})
		case errors.As(err, &gErr):
			return c.Status(http.StatusBadGateway).JSON(fiber.Map{
				"transaction_id": result.TransactionID,
				"status":         result.Status,
				"balance_minor":  result.BalanceMinor,
				"error":          gErr.Message,
			})
		default:
			return walletError(err)
		}
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"transaction_id": result.TransactionID,
		"status":         result.Status,
		"transfer_code":  result.TransferCode,
		"balance_minor":  result.BalanceMinor,
	})
}

// Resolve settles a Pending transaction after out-of-band confirmation.
func (h *Handler) Resolve(c *fiber.Ctx) error {
	var req resolveRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	tx, err := h.svc.ResolvePending(c.UserContext(), callerEmail(c), req.TransactionID, req.Settled)
	if err != nil {
		return walletError(err)
	}
	return c.Status(http.StatusOK).JSON(tx)
}

// Balance reports the stored, reserved and available amounts.
func (h *Handler) Balance(c *fiber.Ctx) error {
	result, err := h.svc.Balance(c.UserContext(), callerEmail(c))
	if err != nil {
		return walletError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"balance_minor":   result.BalanceMinor,
		"reserved_minor":  result.ReservedMinor,
		"available_minor": result.AvailableMinor,
	})
}

// History lists the caller's transactions, newest first. ?kind= narrows to
// one transaction type.
func (h *Handler) History(c *fiber.Ctx) error {
	kind := store.TxKind(c.Query("kind"))
	txs, err := h.svc.History(c.UserContext(), callerEmail(c), kind)
	if err != nil {
		return walletError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"transactions": txs})
}

// walletError maps service errors onto HTTP statuses.
func walletError(err error) error {
	var gErr *gateway.Error
	switch {
	case errors.Is(err, ErrValidation):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInsufficientBalance):
		return fiber.NewError(http.StatusPaymentRequired, err.Error())
	case errors.Is(err, ErrAccountNotFound), errors.Is(err, ErrTransactionNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNotPending):
		return fiber.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrOutcomeUnknown):
		return fiber.NewError(http.StatusAccepted, err.Error())
	case errors.As(err, &gErr):
		return fiber.NewError(http.StatusBadGateway, gErr.Message)
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
