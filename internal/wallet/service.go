package wallet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/naija-connect/naija_connect/internal/catalog"
	"github.com/naija-connect/naija_connect/internal/gateway"
	"github.com/naija-connect/naija_connect/internal/notification"
	"github.com/naija-connect/naija_connect/internal/store"
	"github.com/naija-connect/naija_connect/internal/vendor"
)

var (
	ErrValidation          = errors.New("invalid request")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrAccountNotFound     = errors.New("account not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrNotPending          = errors.New("transaction is already settled")

	// ErrOutcomeUnknown is returned when an external call neither confirmed
	// nor rejected. The operation stays Pending until resolved by hand.
	ErrOutcomeUnknown = errors.New("outcome unknown, awaiting reconciliation")
)

// Payment methods accepted for purchases. Only the wallet method touches the
// stored balance; external methods settle outside the ledger.
const (
	MethodWallet = "wallet"
	MethodCard   = "card"
)

// reservation is an in-memory hold against a wallet balance for an in-flight
// purchase. The durable store is only written once the vendor confirms.
type reservation struct {
	Email       string
	AmountMinor int64
}

// Service is the wallet ledger and purchase orchestrator. All balance commits
// are serialized through mu; available balance is the stored balance minus the
// sum of live reservations for that email.
type Service struct {
	store    store.Store
	catalog  *catalog.Catalog
	vendor   vendor.Client
	gateway  gateway.Client
	notifier notification.Notifier
	logger   *slog.Logger

	minAirtimeMinor int64

	mu           sync.Mutex
	reserved     map[string]int64       // email -> total held
	reservations map[string]reservation // pending purchase tx id -> hold

	now func() time.Time
}

// NewService wires the orchestrator.
func NewService(st store.Store, cat *catalog.Catalog, vc vendor.Client, gw gateway.Client, notifier notification.Notifier, minAirtimeMinor int64, logger *slog.Logger) *Service {
	return &Service{
		store:           st,
		catalog:         cat,
		vendor:          vc,
		gateway:         gw,
		notifier:        notifier,
		logger:          logger,
		minAirtimeMinor: minAirtimeMinor,
		reserved:        make(map[string]int64),
		reservations:    make(map[string]reservation),
		now:             time.Now,
	}
}

// PurchaseInput describes a data or airtime purchase.
type PurchaseInput struct {
	Email       string
	Kind        store.TxKind // KindAirtime or KindData
	Phone       string
	Carrier     string // detected from the phone prefix when empty
	PlanID      string // data only
	AmountMinor int64  // airtime only
	Method      string // MethodWallet or MethodCard
}

// PurchaseResult reports the settled (or pending) purchase.
type PurchaseResult struct {
	TransactionID string
	Status        store.TxStatus
	Reference     string
	BalanceMinor  int64
	Plan          *catalog.Plan
}

type purchaseOrder struct {
	email       string
	kind        store.TxKind
	phone       string
	carrier     string
	networkCode string
	costMinor   int64
	method      string
	plan        *catalog.Plan
}

func (s *Service) buildOrder(in PurchaseInput) (purchaseOrder, error) {
	phone := catalog.NormalizePhone(in.Phone)
	if len(phone) != 11 {
		return purchaseOrder{}, fmt.Errorf("%w: phone number must have 11 digits", ErrValidation)
	}
	carrier := in.Carrier
	if carrier == "" {
		carrier = catalog.DetectCarrier(phone)
	}
	code, err := catalog.NetworkCode(carrier)
	if err != nil {
		return purchaseOrder{}, fmt.Errorf("%w: unrecognized carrier for %s", ErrValidation, phone)
	}

	method := in.Method
	if method == "" {
		method = MethodWallet
	}
	if method != MethodWallet && method != MethodCard {
		return purchaseOrder{}, fmt.Errorf("%w: unsupported payment method %q", ErrValidation, in.Method)
	}

	order := purchaseOrder{
		email:       in.Email,
		kind:        in.Kind,
		phone:       phone,
		carrier:     carrier,
		networkCode: code,
		method:      method,
	}
	switch in.Kind {
	case store.KindData:
		plan, ok := s.catalog.Find(carrier, in.PlanID)
		if !ok {
			return purchaseOrder{}, fmt.Errorf("%w: no plan %q for %s", ErrValidation, in.PlanID, carrier)
		}
		order.costMinor = plan.PriceMinor
		order.plan = &plan
	case store.KindAirtime:
		if in.AmountMinor < s.minAirtimeMinor {
			return purchaseOrder{}, fmt.Errorf("%w: minimum airtime amount is %d", ErrValidation, s.minAirtimeMinor)
		}
		order.costMinor = in.AmountMinor
	default:
		return purchaseOrder{}, fmt.Errorf("%w: unsupported purchase kind %q", ErrValidation, in.Kind)
	}
	return order, nil
}

// Purchase validates, reserves funds when wallet-funded, fulfills through the
// vendor, then reconciles the durable ledger with the outcome. The stored
// balance is only debited on confirmed success; a definitive vendor rejection
// releases the hold with the store untouched; an ambiguous outcome keeps the
// hold and a Pending transaction until resolved.
func (s *Service) Purchase(ctx context.Context, in PurchaseInput) (PurchaseResult, error) {
	order, err := s.buildOrder(in)
	if err != nil {
		return PurchaseResult{}, err
	}

	txID := uuid.NewString()
	if order.method == MethodWallet {
		if err := s.reserve(ctx, txID, order.email, order.costMinor); err != nil {
			return PurchaseResult{}, err
		}
	}

	var receipt vendor.Receipt
	if order.kind == store.KindData {
		receipt, err = s.vendor.PurchaseData(ctx, order.networkCode, order.phone, order.plan.ID)
	} else {
		receipt, err = s.vendor.PurchaseAirtime(ctx, order.networkCode, order.phone, order.costMinor)
	}

	switch {
	case err == nil:
		return s.settlePurchase(ctx, txID, order, receipt.Reference)
	case errors.Is(err, vendor.ErrAmbiguous):
		return s.suspendPurchase(ctx, txID, order, err)
	default:
		return s.failPurchase(ctx, txID, order, err)
	}
}

// reserve places an in-memory hold after checking the available balance
// (stored minus existing holds). Nothing durable changes.
func (s *Service) reserve(ctx context.Context, txID, email string, amountMinor int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	idx := snap.FindProfile(email)
	if idx < 0 {
		return ErrAccountNotFound
	}
	key := strings.ToLower(email)
	available := snap.Profiles[idx].BalanceMinor - s.reserved[key]
	if amountMinor > available {
		return ErrInsufficientBalance
	}
	s.reserved[key] += amountMinor
	s.reservations[txID] = reservation{Email: key, AmountMinor: amountMinor}
	return nil
}

// release drops the hold for txID, if one exists.
func (s *Service) releaseLocked(txID string) {
	res, ok := s.reservations[txID]
	if !ok {
		return
	}
	delete(s.reservations, txID)
	s.reserved[res.Email] -= res.AmountMinor
	if s.reserved[res.Email] <= 0 {
		delete(s.reserved, res.Email)
	}
}

func (s *Service) settlePurchase(ctx context.Context, txID string, order purchaseOrder, reference string) (PurchaseResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.store.Load(ctx)
	if err != nil {
		return PurchaseResult{}, fmt.Errorf("load snapshot: %w", err)
	}
	idx := snap.FindProfile(order.email)
	if idx < 0 {
		return PurchaseResult{}, ErrAccountNotFound
	}

	if order.method == MethodWallet {
		s.releaseLocked(txID)
		balance := snap.Profiles[idx].BalanceMinor - order.costMinor
		if balance < 0 {
			// A hold was placed, so this only happens when the stored balance
			// was lowered out of band. Floor at zero and flag it.
			s.logger.Error("stored balance below reserved cost", "email", order.email, "tx", txID)
			balance = 0
		}
		snap.Profiles[idx].BalanceMinor = balance
	}

	tx := s.newTransaction(txID, order, store.StatusSuccess, reference)
	snap.Transactions = append(snap.Transactions, tx)
	if err := s.store.Save(ctx, snap); err != nil {
		return PurchaseResult{}, fmt.Errorf("save snapshot: %w", err)
	}

	s.notify(ctx, notification.KindPurchase, order.phone,
		fmt.Sprintf("%s purchase of %d kobo on %s succeeded", order.kind, order.costMinor, order.carrier))
	s.logger.Info("purchase settled", "tx", txID, "kind", order.kind, "carrier", order.carrier, "amount_minor", order.costMinor)

	return PurchaseResult{
		TransactionID: txID,
		Status:        store.StatusSuccess,
		Reference:     reference,
		BalanceMinor:  snap.Profiles[idx].BalanceMinor,
		Plan:          order.plan,
	}, nil
}

func (s *Service) failPurchase(ctx context.Context, txID string, order purchaseOrder, cause error) (PurchaseResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.releaseLocked(txID)

	snap, err := s.store.Load(ctx)
	if err != nil {
		return PurchaseResult{}, fmt.Errorf("load snapshot: %w", err)
	}
	idx := snap.FindProfile(order.email)
	if idx < 0 {
		return PurchaseResult{}, ErrAccountNotFound
	}

	tx := s.newTransaction(txID, order, store.StatusFailed, "")
	snap.Transactions = append(snap.Transactions, tx)
	if err := s.store.Save(ctx, snap); err != nil {
		return PurchaseResult{}, fmt.Errorf("save snapshot: %w", err)
	}

	s.logger.Warn("purchase rejected by vendor", "tx", txID, "error", cause)
	return PurchaseResult{
		TransactionID: txID,
		Status:        store.StatusFailed,
		BalanceMinor:  snap.Profiles[idx].BalanceMinor,
		Plan:          order.plan,
	}, cause
}

func (s *Service) suspendPurchase(ctx context.Context, txID string, order purchaseOrder, cause error) (PurchaseResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// The hold stays in place: the vendor may yet have fulfilled.
	snap, err := s.store.Load(ctx)
	if err != nil {
		return PurchaseResult{}, fmt.Errorf("load snapshot: %w", err)
	}
	idx := snap.FindProfile(order.email)
	if idx < 0 {
		return PurchaseResult{}, ErrAccountNotFound
	}

	tx := s.newTransaction(txID, order, store.StatusPending, "")
	snap.Transactions = append(snap.Transactions, tx)
	if err := s.store.Save(ctx, snap); err != nil {
		return PurchaseResult{}, fmt.Errorf("save snapshot: %w", err)
	}

	s.logger.Warn("purchase outcome unknown", "tx", txID, "error", cause)
	return PurchaseResult{
		TransactionID: txID,
		Status:        store.StatusPending,
		BalanceMinor:  snap.Profiles[idx].BalanceMinor,
		Plan:          order.plan,
	}, fmt.Errorf("%w: %v", ErrOutcomeUnknown, cause)
}

func (s *Service) newTransaction(txID string, order purchaseOrder, status store.TxStatus, reference string) store.Transaction {
	counterparty := order.phone
	if reference != "" {
		counterparty = order.phone + " (" + reference + ")"
	}
	return store.Transaction{
		ID:           txID,
		OwnerEmail:   order.email,
		Kind:         order.kind,
		AmountMinor:  order.costMinor,
		Carrier:      order.carrier,
		Counterparty: counterparty,
		Method:       order.method,
		Status:       status,
		CreatedAt:    s.now().UTC(),
	}
}

// DepositResult is the handle for a started checkout.
type DepositResult struct {
	Reference   string
	CheckoutURL string
}

// Deposit starts a hosted-checkout funding flow. A Pending transaction binds
// the gateway reference to this account up front; no balance changes until the
// gateway confirms through VerifyDeposit.
func (s *Service) Deposit(ctx context.Context, email string, amountMinor int64) (DepositResult, error) {
	if amountMinor <= 0 {
		return DepositResult{}, fmt.Errorf("%w: deposit amount must be positive", ErrValidation)
	}
	snap, err := s.store.Load(ctx)
	if err != nil {
		return DepositResult{}, fmt.Errorf("load snapshot: %w", err)
	}
	if snap.FindProfile(email) < 0 {
		return DepositResult{}, ErrAccountNotFound
	}

	intent, err := s.gateway.InitiateDeposit(ctx, email, amountMinor)
	if err != nil {
		if errors.Is(err, gateway.ErrAmbiguous) {
			return DepositResult{}, fmt.Errorf("%w: %v", ErrOutcomeUnknown, err)
		}
		return DepositResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	snap, err = s.store.Load(ctx)
	if err != nil {
		return DepositResult{}, fmt.Errorf("load snapshot: %w", err)
	}
	idx := snap.FindProfile(email)
	if idx < 0 {
		return DepositResult{}, ErrAccountNotFound
	}
	snap.Transactions = append(snap.Transactions, store.Transaction{
		ID:           uuid.NewString(),
		OwnerEmail:   snap.Profiles[idx].Email,
		Kind:         store.KindDeposit,
		AmountMinor:  amountMinor,
		Carrier:      "Wallet",
		Counterparty: intent.Reference,
		Status:       store.StatusPending,
		CreatedAt:    s.now().UTC(),
	})
	if err := s.store.Save(ctx, snap); err != nil {
		return DepositResult{}, fmt.Errorf("save snapshot: %w", err)
	}

	s.logger.Info("deposit initiated", "email", email, "reference", intent.Reference, "amount_minor", amountMinor)
	return DepositResult{Reference: intent.Reference, CheckoutURL: intent.CheckoutURL}, nil
}

// VerifyResult reports the state of a deposit reference.
type VerifyResult struct {
	Settled      bool
	AmountMinor  int64
	BalanceMinor int64
}

// VerifyDeposit reconciles one checkout reference. The Deposit transaction
// written when the checkout started is both the ownership record and the
// exactly-once guard: a reference is credited to its initiating account and at
// most once, across retries and restarts alike. Each reference has a single
// reconciliation record, so a caller who is not the initiator is refused even
// after the gateway reports the reference settled. An unsettled reference is a
// no-op.
func (s *Service) VerifyDeposit(ctx context.Context, email, reference string) (VerifyResult, error) {
	if reference == "" {
		return VerifyResult{}, fmt.Errorf("%w: missing reference", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.store.Load(ctx)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("load snapshot: %w", err)
	}
	idx := snap.FindProfile(email)
	if idx < 0 {
		return VerifyResult{}, ErrAccountNotFound
	}
	txIdx := findDepositByReference(snap.Transactions, reference)
	if txIdx < 0 {
		return VerifyResult{}, ErrTransactionNotFound
	}
	tx := &snap.Transactions[txIdx]
	if !strings.EqualFold(tx.OwnerEmail, email) {
		// The reference belongs to another account; reveal nothing about it.
		return VerifyResult{}, ErrTransactionNotFound
	}
	if tx.Status == store.StatusSuccess {
		// Already credited on an earlier verify.
		return VerifyResult{Settled: true, AmountMinor: tx.AmountMinor, BalanceMinor: snap.Profiles[idx].BalanceMinor}, nil
	}

	status, err := s.gateway.VerifyDeposit(ctx, reference)
	if err != nil {
		if errors.Is(err, gateway.ErrAmbiguous) {
			return VerifyResult{}, fmt.Errorf("%w: %v", ErrOutcomeUnknown, err)
		}
		return VerifyResult{}, err
	}
	if !status.Settled {
		return VerifyResult{Settled: false, BalanceMinor: snap.Profiles[idx].BalanceMinor}, nil
	}

	// Credit exactly what the gateway confirmed, not what was requested.
	tx.Status = store.StatusSuccess
	tx.AmountMinor = status.AmountMinor
	snap.Profiles[idx].BalanceMinor += status.AmountMinor
	if err := s.store.Save(ctx, snap); err != nil {
		return VerifyResult{}, fmt.Errorf("save snapshot: %w", err)
	}

	s.notify(ctx, notification.KindDeposit, email,
		fmt.Sprintf("deposit of %d kobo settled (%s)", status.AmountMinor, reference))
	s.logger.Info("deposit settled", "email", email, "reference", reference, "amount_minor", status.AmountMinor)

	return VerifyResult{Settled: true, AmountMinor: status.AmountMinor, BalanceMinor: snap.Profiles[idx].BalanceMinor}, nil
}

func findDepositByReference(txs []store.Transaction, reference string) int {
	for i := range txs {
		if txs[i].Kind == store.KindDeposit && txs[i].Counterparty == reference {
			return i
		}
	}
	return -1
}

// WithdrawInput describes a bank payout request.
type WithdrawInput struct {
	Email         string
	AmountMinor   int64
	BankCode      string
	AccountNumber string
	Narration     string
}

// WithdrawResult reports the payout and the wallet balance after it.
type WithdrawResult struct {
	TransactionID string
	Status        store.TxStatus
	TransferCode  string
	BalanceMinor  int64
}

// Withdraw debits the stored balance first, records a Pending transaction,
// then asks the gateway to pay out. A definitive gateway rejection credits the
// amount back and fails the transaction; an ambiguous outcome leaves the
// balance debited and the transaction Pending. Money is never auto-retried
// and never auto-credited back on ambiguity.
func (s *Service) Withdraw(ctx context.Context, in WithdrawInput) (WithdrawResult, error) {
	if in.AmountMinor <= 0 {
		return WithdrawResult{}, fmt.Errorf("%w: withdrawal amount must be positive", ErrValidation)
	}
	if len(in.AccountNumber) != 10 || !allDigits(in.AccountNumber) {
		return WithdrawResult{}, fmt.Errorf("%w: account number must have 10 digits", ErrValidation)
	}
	if in.BankCode == "" {
		return WithdrawResult{}, fmt.Errorf("%w: missing bank code", ErrValidation)
	}

	txID := uuid.NewString()
	balance, err := s.debitForWithdrawal(ctx, txID, in)
	if err != nil {
		return WithdrawResult{}, err
	}

	receipt, err := s.gateway.Withdraw(ctx, gateway.WithdrawInput{
		AmountMinor:   in.AmountMinor,
		BankCode:      in.BankCode,
		AccountNumber: in.AccountNumber,
		Narration:     in.Narration,
	})
	switch {
	case err == nil:
		balance, serr := s.settleWithdrawal(ctx, in.Email, txID, store.StatusSuccess)
		if serr != nil {
			return WithdrawResult{}, serr
		}
		s.notify(ctx, notification.KindWithdraw, in.Email,
			fmt.Sprintf("withdrawal of %d kobo settled (%s)", in.AmountMinor, receipt.TransferCode))
		s.logger.Info("withdrawal settled", "tx", txID, "amount_minor", in.AmountMinor)
		return WithdrawResult{TransactionID: txID, Status: store.StatusSuccess, TransferCode: receipt.TransferCode, BalanceMinor: balance}, nil
	case errors.Is(err, gateway.ErrAmbiguous):
		// Funds stay debited until someone confirms with the gateway.
		s.logger.Warn("withdrawal outcome unknown", "tx", txID, "error", err)
		return WithdrawResult{TransactionID: txID, Status: store.StatusPending, BalanceMinor: balance},
			fmt.Errorf("%w: %v", ErrOutcomeUnknown, err)
	default:
		balance, serr := s.settleWithdrawal(ctx, in.Email, txID, store.StatusFailed)
		if serr != nil {
			return WithdrawResult{}, serr
		}
		s.logger.Warn("withdrawal rejected by gateway", "tx", txID, "error", err)
		return WithdrawResult{TransactionID: txID, Status: store.StatusFailed, BalanceMinor: balance}, err
	}
}

func (s *Service) debitForWithdrawal(ctx context.Context, txID string, in WithdrawInput) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.store.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load snapshot: %w", err)
	}
	idx := snap.FindProfile(in.Email)
	if idx < 0 {
		return 0, ErrAccountNotFound
	}
	available := snap.Profiles[idx].BalanceMinor - s.reserved[strings.ToLower(in.Email)]
	if in.AmountMinor > available {
		return 0, ErrInsufficientBalance
	}

	snap.Profiles[idx].BalanceMinor -= in.AmountMinor
	snap.Transactions = append(snap.Transactions, store.Transaction{
		ID:           txID,
		OwnerEmail:   snap.Profiles[idx].Email,
		Kind:         store.KindWithdraw,
		AmountMinor:  in.AmountMinor,
		Carrier:      "Wallet",
		Counterparty: in.BankCode + ":" + in.AccountNumber,
		Status:       store.StatusPending,
		CreatedAt:    s.now().UTC(),
	})
	if err := s.store.Save(ctx, snap); err != nil {
		return 0, fmt.Errorf("save snapshot: %w", err)
	}
	return snap.Profiles[idx].BalanceMinor, nil
}

// settleWithdrawal moves a Pending withdrawal to its final status, crediting
// the amount back on failure.
func (s *Service) settleWithdrawal(ctx context.Context, email, txID string, status store.TxStatus) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.store.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load snapshot: %w", err)
	}
	idx := snap.FindProfile(email)
	if idx < 0 {
		return 0, ErrAccountNotFound
	}
	txIdx := findTransaction(snap.Transactions, txID)
	if txIdx < 0 {
		return 0, ErrTransactionNotFound
	}
	tx := &snap.Transactions[txIdx]
	if tx.Status != store.StatusPending {
		return 0, ErrNotPending
	}

	tx.Status = status
	if status == store.StatusFailed {
		snap.Profiles[idx].BalanceMinor += tx.AmountMinor
	}
	if err := s.store.Save(ctx, snap); err != nil {
		return 0, fmt.Errorf("save snapshot: %w", err)
	}
	return snap.Profiles[idx].BalanceMinor, nil
}

// ResolvePending settles a Pending transaction by hand once the true outcome
// has been confirmed out of band. For purchases, settled=true debits the
// wallet (when wallet-funded) and settled=false releases the hold with the
// balance untouched. For withdrawals, settled=false credits the amount back.
// A transaction can only be resolved once.
func (s *Service) ResolvePending(ctx context.Context, email, txID string, settled bool) (store.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.store.Load(ctx)
	if err != nil {
		return store.Transaction{}, fmt.Errorf("load snapshot: %w", err)
	}
	idx := snap.FindProfile(email)
	if idx < 0 {
		return store.Transaction{}, ErrAccountNotFound
	}
	txIdx := findTransaction(snap.Transactions, txID)
	if txIdx < 0 || !strings.EqualFold(snap.Transactions[txIdx].OwnerEmail, email) {
		return store.Transaction{}, ErrTransactionNotFound
	}
	tx := &snap.Transactions[txIdx]
	if tx.Status != store.StatusPending {
		return store.Transaction{}, ErrNotPending
	}

	switch tx.Kind {
	case store.KindAirtime, store.KindData:
		s.releaseLocked(txID)
		if settled {
			tx.Status = store.StatusSuccess
			if tx.Method == MethodWallet {
				balance := snap.Profiles[idx].BalanceMinor - tx.AmountMinor
				if balance < 0 {
					s.logger.Error("stored balance below pending purchase cost", "email", email, "tx", txID)
					balance = 0
				}
				snap.Profiles[idx].BalanceMinor = balance
			}
		} else {
			tx.Status = store.StatusFailed
		}
	case store.KindWithdraw:
		if settled {
			tx.Status = store.StatusSuccess
		} else {
			tx.Status = store.StatusFailed
			snap.Profiles[idx].BalanceMinor += tx.AmountMinor
		}
	default:
		return store.Transaction{}, fmt.Errorf("%w: %s transactions are not resolvable", ErrValidation, tx.Kind)
	}

	if err := s.store.Save(ctx, snap); err != nil {
		return store.Transaction{}, fmt.Errorf("save snapshot: %w", err)
	}
	s.logger.Info("pending transaction resolved", "tx", txID, "kind", tx.Kind, "status", tx.Status)
	return *tx, nil
}

// BalanceResult splits the stored balance from what purchases may still claim.
type BalanceResult struct {
	BalanceMinor   int64
	ReservedMinor  int64
	AvailableMinor int64
}

// Balance reports the stored, reserved and available amounts for one account.
func (s *Service) Balance(ctx context.Context, email string) (BalanceResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.store.Load(ctx)
	if err != nil {
		return BalanceResult{}, fmt.Errorf("load snapshot: %w", err)
	}
	idx := snap.FindProfile(email)
	if idx < 0 {
		return BalanceResult{}, ErrAccountNotFound
	}
	balance := snap.Profiles[idx].BalanceMinor
	reserved := s.reserved[strings.ToLower(email)]
	return BalanceResult{
		BalanceMinor:   balance,
		ReservedMinor:  reserved,
		AvailableMinor: balance - reserved,
	}, nil
}

// History returns one account's transactions, newest first. kind narrows to a
// single transaction type when non-empty.
func (s *Service) History(ctx context.Context, email string, kind store.TxKind) ([]store.Transaction, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if snap.FindProfile(email) < 0 {
		return nil, ErrAccountNotFound
	}

	out := make([]store.Transaction, 0)
	for i := len(snap.Transactions) - 1; i >= 0; i-- {
		tx := snap.Transactions[i]
		if !strings.EqualFold(tx.OwnerEmail, email) {
			continue
		}
		if kind != "" && tx.Kind != kind {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

func (s *Service) notify(ctx context.Context, kind, destination, body string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Send(ctx, notification.Message{Kind: kind, Destination: destination, Body: body}); err != nil {
		s.logger.Warn("notification failed", "kind", kind, "error", err)
	}
}

func findTransaction(txs []store.Transaction, id string) int {
	for i := range txs {
		if txs[i].ID == id {
			return i
		}
	}
	return -1
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
