package wallet

import "github.com/go-playground/validator/v10"

var validate = validator.New()

type purchaseDataRequest struct {
	Phone   string `json:"phone" validate:"required"`
	Carrier string `json:"carrier"`
	PlanID  string `json:"plan_id" validate:"required"`
	Method  string `json:"payment_method" validate:"omitempty,oneof=wallet card"`
}

type purchaseAirtimeRequest struct {
	Phone       string `json:"phone" validate:"required"`
	Carrier     string `json:"carrier"`
	AmountMinor int64  `json:"amount_minor" validate:"required,gt=0"`
	Method      string `json:"payment_method" validate:"omitempty,oneof=wallet card"`
}

type depositRequest struct {
	AmountMinor int64 `json:"amount_minor" validate:"required,gt=0"`
}

type verifyDepositRequest struct {
	Reference string `json:"reference" validate:"required"`
}

type withdrawRequest struct {
	AmountMinor   int64  `json:"amount_minor" validate:"required,gt=0"`
	BankCode      string `json:"bank_code" validate:"required"`
	AccountNumber string `json:"account_number" validate:"required,len=10,numeric"`
	Narration     string `json:"narration"`
}

type resolveRequest struct {
	TransactionID string `json:"transaction_id" validate:"required"`
	Settled       bool   `json:"settled"`
}
