package account

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes registration and password-reset endpoints.
type Handler struct {
	svc *Service
	// devMode echoes issued OTP codes in responses; real deployments deliver
	// them out of band.
	devMode bool
}

// NewHandler constructs an account handler.
func NewHandler(svc *Service, devMode bool) *Handler {
	return &Handler{svc: svc, devMode: devMode}
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"full_name"`
	Password string `json:"password"`
}

// Register creates an account with a zero wallet balance.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	profile, err := h.svc.Register(c.UserContext(), req.Email, req.Name, req.Password)
	if err != nil {
		if errors.Is(err, ErrDuplicateAccount) {
			return fiber.NewError(http.StatusConflict, err.Error())
		}
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"email":                profile.Email,
		"full_name":            profile.Name,
		"wallet_balance_minor": profile.BalanceMinor,
		"created_at":           profile.CreatedAt,
	})
}

type otpRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// RequestOTP issues a password-reset code for the account.
func (h *Handler) RequestOTP(c *fiber.Ctx) error {
	var req otpRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	code, err := h.svc.RequestPasswordReset(c.UserContext(), req.Email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return fiber.NewError(http.StatusNotFound, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	resp := fiber.Map{"status": "otp_issued"}
	if h.devMode {
		resp["otp"] = code
	}
	return c.Status(http.StatusOK).JSON(resp)
}

// VerifyOTP checks a reset code without consuming it.
func (h *Handler) VerifyOTP(c *fiber.Ctx) error {
	var req otpRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.VerifyOTP(c.UserContext(), req.Email, req.Code); err != nil {
		switch {
		case errors.Is(err, ErrAccountNotFound), errors.Is(err, ErrNoPendingReset):
			return fiber.NewError(http.StatusBadRequest, "invalid request")
		case errors.Is(err, ErrOTPExpired):
			return fiber.NewError(http.StatusBadRequest, "otp has expired, request a new one")
		case errors.Is(err, ErrOTPMismatch):
			return fiber.NewError(http.StatusBadRequest, "invalid otp code")
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "verified"})
}

type resetRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

// ResetPassword overwrites the password. The issued OTP must accompany the
// request; it is consumed on success.
func (h *Handler) ResetPassword(c *fiber.Ctx) error {
	var req resetRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.ResetPassword(c.UserContext(), req.Email, req.Code, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, ErrAccountNotFound), errors.Is(err, ErrNoPendingReset):
			return fiber.NewError(http.StatusBadRequest, "invalid request")
		case errors.Is(err, ErrOTPExpired):
			return fiber.NewError(http.StatusBadRequest, "otp has expired, request a new one")
		case errors.Is(err, ErrOTPMismatch):
			return fiber.NewError(http.StatusBadRequest, "invalid otp code")
		default:
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "password_reset"})
}
