package account

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/naija-connect/naija_connect/internal/store"
)

var (
	// ErrDuplicateAccount occurs when registering an email that already exists.
	ErrDuplicateAccount = errors.New("account already exists")

	// ErrAccountNotFound indicates no profile matches the email.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidCredentials indicates a password mismatch. Handlers collapse
	// this and ErrAccountNotFound into one generic message so login failures
	// cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNoPendingReset indicates OTP verification without an issued code.
	ErrNoPendingReset = errors.New("no pending password reset")

	// ErrOTPExpired indicates the one-time code outlived its expiry.
	ErrOTPExpired = errors.New("otp expired")

	// ErrOTPMismatch indicates the supplied code differs from the issued one.
	ErrOTPMismatch = errors.New("otp mismatch")

	// ErrNegativeBalance rejects any attempt to store a balance below zero.
	ErrNegativeBalance = errors.New("balance cannot be negative")
)

// Service manages account lifecycle and direct balance access on the store.
type Service struct {
	store     store.Store
	otpLength int
	otpTTL    time.Duration
	logger    *slog.Logger

	now func() time.Time
}

// NewService builds an account service. otpLength and otpTTL fall back to 6
// digits and 600s when zero.
func NewService(st store.Store, otpLength int, otpTTL time.Duration, logger *slog.Logger) *Service {
	if otpLength <= 0 {
		otpLength = 6
	}
	if otpTTL <= 0 {
		otpTTL = 600 * time.Second
	}
	return &Service{store: st, otpLength: otpLength, otpTTL: otpTTL, logger: logger, now: time.Now}
}

// Register creates a new profile with a zero balance and a hashed password.
func (s *Service) Register(ctx context.Context, email, name, password string) (store.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return store.Profile{}, fmt.Errorf("a valid email is required")
	}
	if len(password) < 4 {
		return store.Profile{}, fmt.Errorf("password must be at least 4 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return store.Profile{}, err
	}

	snap, err := s.store.Load(ctx)
	if err != nil {
		return store.Profile{}, err
	}
	if snap.FindProfile(email) >= 0 {
		return store.Profile{}, ErrDuplicateAccount
	}

	profile := store.Profile{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		BalanceMinor: 0,
		CreatedAt:    s.now().UTC(),
	}
	snap.Profiles = append(snap.Profiles, profile)
	if err := s.store.Save(ctx, snap); err != nil {
		return store.Profile{}, err
	}
	return profile, nil
}

// Login verifies credentials. The caller decides how much of the failure to
// reveal; this service keeps the not-found/bad-password distinction for logs.
func (s *Service) Login(ctx context.Context, email, password string) (store.Profile, error) {
	profile, err := s.Get(ctx, email)
	if err != nil {
		return store.Profile{}, err
	}
	if err := bcrypt.CompareHashAndPassword(profile.PasswordHash, []byte(password)); err != nil {
		s.logger.Info("login rejected", "email", profile.Email, "reason", "password mismatch")
		return store.Profile{}, ErrInvalidCredentials
	}
	return profile, nil
}

// Get fetches a profile by email.
func (s *Service) Get(ctx context.Context, email string) (store.Profile, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return store.Profile{}, err
	}
	idx := snap.FindProfile(email)
	if idx < 0 {
		return store.Profile{}, ErrAccountNotFound
	}
	return snap.Profiles[idx], nil
}

// RequestPasswordReset issues a fresh numeric one-time code, overwriting any
// outstanding one, and returns it for out-of-band delivery.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return "", err
	}
	idx := snap.FindProfile(email)
	if idx < 0 {
		return "", ErrAccountNotFound
	}

	code, err := numericCode(s.otpLength)
	if err != nil {
		return "", err
	}
	expiry := s.now().Add(s.otpTTL).UTC()
	snap.Profiles[idx].OTP = code
	snap.Profiles[idx].OTPExpiry = &expiry

	if err := s.store.Save(ctx, snap); err != nil {
		return "", err
	}
	return code, nil
}

// VerifyOTP checks the supplied code against the outstanding one. The code is
// not consumed here; it stays valid until ResetPassword clears it or it
// expires.
func (s *Service) VerifyOTP(ctx context.Context, email, code string) error {
	profile, err := s.Get(ctx, email)
	if err != nil {
		return err
	}
	if profile.OTP == "" || profile.OTPExpiry == nil {
		return ErrNoPendingReset
	}
	if s.now().After(*profile.OTPExpiry) {
		return ErrOTPExpired
	}
	if profile.OTP != code {
		return ErrOTPMismatch
	}
	return nil
}

// ResetPassword overwrites the password after checking the one-time code, and
// consumes the code so it cannot authorize a second reset.
func (s *Service) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if len(newPassword) < 4 {
		return fmt.Errorf("password must be at least 4 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	snap, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	idx := snap.FindProfile(email)
	if idx < 0 {
		return ErrAccountNotFound
	}
	profile := snap.Profiles[idx]
	if profile.OTP == "" || profile.OTPExpiry == nil {
		return ErrNoPendingReset
	}
	if s.now().After(*profile.OTPExpiry) {
		return ErrOTPExpired
	}
	if profile.OTP != code {
		return ErrOTPMismatch
	}

	snap.Profiles[idx].PasswordHash = hash
	snap.Profiles[idx].OTP = ""
	snap.Profiles[idx].OTPExpiry = nil
	return s.store.Save(ctx, snap)
}

// Balance returns the stored balance in minor units.
func (s *Service) Balance(ctx context.Context, email string) (int64, error) {
	profile, err := s.Get(ctx, email)
	if err != nil {
		return 0, err
	}
	return profile.BalanceMinor, nil
}

// SetBalance overwrites the stored balance. Negative values are rejected
// before anything is written.
func (s *Service) SetBalance(ctx context.Context, email string, minor int64) error {
	if minor < 0 {
		return ErrNegativeBalance
	}
	snap, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	idx := snap.FindProfile(email)
	if idx < 0 {
		return ErrAccountNotFound
	}
	snap.Profiles[idx].BalanceMinor = minor
	return s.store.Save(ctx, snap)
}

// BumpTokenVersion invalidates previously issued tokens for the account.
func (s *Service) BumpTokenVersion(ctx context.Context, email string) error {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	idx := snap.FindProfile(email)
	if idx < 0 {
		return ErrAccountNotFound
	}
	snap.Profiles[idx].TokenVersion++
	return s.store.Save(ctx, snap)
}

func numericCode(length int) (string, error) {
	const digits = "0123456789"
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i := range buf {
		buf[i] = digits[int(buf[i])%len(digits)]
	}
	return string(buf), nil
}
