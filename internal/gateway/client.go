package gateway

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ErrAmbiguous marks a gateway call whose outcome is unknown (timeout or
// dropped connection after the request may have been accepted). For
// withdrawals this means manual reconciliation, never an automatic retry.
var ErrAmbiguous = errors.New("gateway outcome ambiguous")

// Error is a definitive failure response from the payment gateway.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("gateway: %s (%s)", e.Message, e.Code)
	}
	return "gateway: " + e.Message
}

// DepositIntent is the gateway's handle for a started deposit.
type DepositIntent struct {
	Reference   string
	CheckoutURL string
}

// DepositStatus reports whether a deposit reference has settled and for how
// much. The amount comes from the gateway, never from the client.
type DepositStatus struct {
	Settled     bool
	AmountMinor int64
}

// WithdrawInput carries the destination and amount of a payout.
type WithdrawInput struct {
	AmountMinor   int64
	BankCode      string
	AccountNumber string
	Narration     string
}

// WithdrawReceipt confirms a gateway transfer.
type WithdrawReceipt struct {
	TransferCode string
	RawStatus    string
}

// Client is the payment gateway connector for deposits and withdrawals.
// VerifyDeposit is idempotent on the gateway side.
type Client interface {
	InitiateDeposit(ctx context.Context, email string, amountMinor int64) (DepositIntent, error)
	VerifyDeposit(ctx context.Context, reference string) (DepositStatus, error)
	Withdraw(ctx context.Context, input WithdrawInput) (WithdrawReceipt, error)
}

// Static simulates a gateway where every initiated deposit settles instantly
// and every withdrawal succeeds. Used in dev mode and tests.
type Static struct {
	mu       sync.Mutex
	deposits map[string]int64
}

// NewStatic builds the simulated gateway.
func NewStatic() *Static {
	return &Static{deposits: make(map[string]int64)}
}

// InitiateDeposit records the expected amount and hands back a reference.
func (s *Static) InitiateDeposit(_ context.Context, _ string, amountMinor int64) (DepositIntent, error) {
	ref := "dep_" + uuid.NewString()
	s.mu.Lock()
	s.deposits[ref] = amountMinor
	s.mu.Unlock()
	return DepositIntent{Reference: ref, CheckoutURL: "https://checkout.example/" + ref}, nil
}

// VerifyDeposit settles any reference it issued, repeatedly and without side
// effects.
func (s *Static) VerifyDeposit(_ context.Context, reference string) (DepositStatus, error) {
	s.mu.Lock()
	amount, ok := s.deposits[reference]
	s.mu.Unlock()
	if !ok {
		return DepositStatus{}, &Error{Message: "unknown reference"}
	}
	return DepositStatus{Settled: true, AmountMinor: amount}, nil
}

// Withdraw approves the payout with a synthetic transfer code.
func (s *Static) Withdraw(_ context.Context, _ WithdrawInput) (WithdrawReceipt, error) {
	return WithdrawReceipt{TransferCode: "TRF_" + uuid.NewString(), RawStatus: "success"}, nil
}
