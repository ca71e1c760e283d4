package store

import (
	"context"
	"strings"
	"time"
)

// TxKind enumerates the transaction types recorded in the ledger log.
type TxKind string

const (
	KindAirtime  TxKind = "Airtime"
	KindData     TxKind = "Data"
	KindDeposit  TxKind = "Deposit"
	KindWithdraw TxKind = "Withdraw"
)

// TxStatus is the settlement state of a transaction.
type TxStatus string

const (
	StatusSuccess TxStatus = "Success"
	StatusFailed  TxStatus = "Failed"
	StatusPending TxStatus = "Pending"
)

// Profile is a registered account with its stored wallet balance.
type Profile struct {
	Email        string     `json:"email"`
	Name         string     `json:"full_name"`
	PasswordHash []byte     `json:"password_hash"`
	BalanceMinor int64      `json:"wallet_balance_minor"`
	OTP          string     `json:"otp,omitempty"`
	OTPExpiry    *time.Time `json:"otp_expiry,omitempty"`
	TokenVersion int        `json:"token_version"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Transaction is one row of the audit log. Settled rows (Success/Failed) are
// immutable; a Pending row may have its Status settled exactly once.
type Transaction struct {
	ID           string    `json:"id"`
	OwnerEmail   string    `json:"owner_email"`
	Kind         TxKind    `json:"kind"`
	AmountMinor  int64     `json:"amount_minor"`
	Carrier      string    `json:"carrier"`
	Counterparty string    `json:"counterparty"`
	// Method records how a purchase was funded ("wallet" or an external
	// method); settlement of a Pending purchase needs it to know whether the
	// wallet owes the debit.
	Method    string    `json:"payment_method,omitempty"`
	Status    TxStatus  `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Snapshot is the entire persisted document.
type Snapshot struct {
	Profiles     []Profile     `json:"profiles"`
	Transactions []Transaction `json:"transactions"`
}

// Store persists the snapshot document. Save calls must be applied in true
// call order; implementations serialize writers internally.
type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}

// FindProfile returns the index of the profile with the given email
// (case-insensitive), or -1.
func (s *Snapshot) FindProfile(email string) int {
	email = strings.ToLower(email)
	for i := range s.Profiles {
		if strings.ToLower(s.Profiles[i].Email) == email {
			return i
		}
	}
	return -1
}

// Clone deep-copies the snapshot so callers can mutate it freely.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Profiles:     make([]Profile, len(s.Profiles)),
		Transactions: make([]Transaction, len(s.Transactions)),
	}
	copy(out.Profiles, s.Profiles)
	copy(out.Transactions, s.Transactions)
	for i := range out.Profiles {
		if exp := out.Profiles[i].OTPExpiry; exp != nil {
			e := *exp
			out.Profiles[i].OTPExpiry = &e
		}
		if hash := out.Profiles[i].PasswordHash; hash != nil {
			out.Profiles[i].PasswordHash = append([]byte(nil), hash...)
		}
	}
	return out
}
