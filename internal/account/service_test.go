package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/naija-connect/naija_connect/internal/logging"
	"github.com/naija-connect/naija_connect/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(store.NewMemory(), 6, 600*time.Second, logging.Discard())
}

func TestRegisterRejectsDuplicateEmailCaseInsensitive(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	profile, err := svc.Register(ctx, "User@Test.com", "User", "pass")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if profile.Email != "user@test.com" {
		t.Fatalf("email not normalized: %s", profile.Email)
	}
	if profile.BalanceMinor != 0 {
		t.Fatalf("new account balance must be 0, got %d", profile.BalanceMinor)
	}

	if _, err := svc.Register(ctx, "user@TEST.com", "Other", "pass2"); !errors.Is(err, ErrDuplicateAccount) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestLoginDistinguishesFailuresInternally(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "user@test.com", "User", "pass"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login(ctx, "ghost@test.com", "pass"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.Login(ctx, "user@test.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "user@test.com", "pass"); err != nil {
		t.Fatalf("login: %v", err)
	}
}

func TestOTPExpiry(t *testing.T) {
	svc := NewService(store.NewMemory(), 6, time.Second, logging.Discard())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "user@test.com", "User", "pass"); err != nil {
		t.Fatalf("register: %v", err)
	}

	code, err := svc.RequestPasswordReset(ctx, "user@test.com")
	if err != nil {
		t.Fatalf("request reset: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("expected 6-digit code, got %q", code)
	}

	if err := svc.VerifyOTP(ctx, "user@test.com", code); err != nil {
		t.Fatalf("verify fresh otp: %v", err)
	}

	// Advance the clock past the 1s TTL instead of sleeping.
	svc.now = func() time.Time { return time.Now().Add(2 * time.Second) }
	if err := svc.VerifyOTP(ctx, "user@test.com", code); !errors.Is(err, ErrOTPExpired) {
		t.Fatalf("expected expired otp, got %v", err)
	}
}

func TestOTPMismatchAndNoPendingReset(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "user@test.com", "User", "pass"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.VerifyOTP(ctx, "user@test.com", "000000"); !errors.Is(err, ErrNoPendingReset) {
		t.Fatalf("expected no pending reset, got %v", err)
	}

	code, err := svc.RequestPasswordReset(ctx, "user@test.com")
	if err != nil {
		t.Fatalf("request reset: %v", err)
	}
	wrong := "000000"
	if wrong == code {
		wrong = "999999"
	}
	if err := svc.VerifyOTP(ctx, "user@test.com", wrong); !errors.Is(err, ErrOTPMismatch) {
		t.Fatalf("expected mismatch, got %v", err)
	}
}

func TestResetPasswordClearsOTP(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "user@test.com", "User", "pass"); err != nil {
		t.Fatalf("register: %v", err)
	}
	code, err := svc.RequestPasswordReset(ctx, "user@test.com")
	if err != nil {
		t.Fatalf("request reset: %v", err)
	}

	// Verifying does not consume the code.
	if err := svc.VerifyOTP(ctx, "user@test.com", code); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := svc.VerifyOTP(ctx, "user@test.com", code); err != nil {
		t.Fatalf("second verify: %v", err)
	}

	if err := svc.ResetPassword(ctx, "user@test.com", code, "newpass"); err != nil {
		t.Fatalf("reset password: %v", err)
	}
	if err := svc.VerifyOTP(ctx, "user@test.com", code); !errors.Is(err, ErrNoPendingReset) {
		t.Fatalf("expected cleared otp, got %v", err)
	}
	if _, err := svc.Login(ctx, "user@test.com", "newpass"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, err := svc.Login(ctx, "user@test.com", "pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password must be rejected, got %v", err)
	}

	// The consumed code cannot authorize a second reset.
	if err := svc.ResetPassword(ctx, "user@test.com", code, "thirdpass"); !errors.Is(err, ErrNoPendingReset) {
		t.Fatalf("expected consumed code to be refused, got %v", err)
	}
}

func TestResetPasswordRequiresValidCode(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "user@test.com", "User", "pass"); err != nil {
		t.Fatalf("register: %v", err)
	}

	// No code was ever issued.
	if err := svc.ResetPassword(ctx, "user@test.com", "000000", "hijacked"); !errors.Is(err, ErrNoPendingReset) {
		t.Fatalf("expected ErrNoPendingReset, got %v", err)
	}

	code, err := svc.RequestPasswordReset(ctx, "user@test.com")
	if err != nil {
		t.Fatalf("request reset: %v", err)
	}
	wrong := "000000"
	if wrong == code {
		wrong = "999999"
	}
	if err := svc.ResetPassword(ctx, "user@test.com", wrong, "hijacked"); !errors.Is(err, ErrOTPMismatch) {
		t.Fatalf("expected ErrOTPMismatch, got %v", err)
	}

	svc.now = func() time.Time { return time.Now().Add(time.Hour) }
	if err := svc.ResetPassword(ctx, "user@test.com", code, "hijacked"); !errors.Is(err, ErrOTPExpired) {
		t.Fatalf("expected ErrOTPExpired, got %v", err)
	}

	// The failed attempts must not have touched the password.
	svc.now = time.Now
	if _, err := svc.Login(ctx, "user@test.com", "pass"); err != nil {
		t.Fatalf("original password no longer works: %v", err)
	}
}

func TestSetBalanceRejectsNegative(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "user@test.com", "User", "pass"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.SetBalance(ctx, "user@test.com", 5_000); err != nil {
		t.Fatalf("set balance: %v", err)
	}

	if err := svc.SetBalance(ctx, "user@test.com", -50); !errors.Is(err, ErrNegativeBalance) {
		t.Fatalf("expected negative balance error, got %v", err)
	}

	bal, err := svc.Balance(ctx, "user@test.com")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if bal != 5_000 {
		t.Fatalf("balance changed after rejected write: %d", bal)
	}
}
