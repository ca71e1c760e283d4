package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPClient talks to the payment gateway's REST API with bearer-token auth.
type HTTPClient struct {
	baseURL     string
	secretKey   string
	callbackURL string
	httpClient  *http.Client
}

// NewHTTPClient builds the gateway connector.
func NewHTTPClient(baseURL, secretKey, callbackURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		secretKey:   secretKey,
		callbackURL: callbackURL,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

type initializeResponse struct {
	Data struct {
		AuthorizationURL string `json:"authorization_url"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

// InitiateDeposit starts a hosted checkout for the given amount.
func (c *HTTPClient) InitiateDeposit(ctx context.Context, email string, amountMinor int64) (DepositIntent, error) {
	body := map[string]any{
		"email":        email,
		"amount":       amountMinor,
		"callback_url": c.callbackURL,
	}
	var resp initializeResponse
	if err := c.do(ctx, http.MethodPost, "/transaction/initialize", body, &resp); err != nil {
		return DepositIntent{}, err
	}
	return DepositIntent{Reference: resp.Data.Reference, CheckoutURL: resp.Data.AuthorizationURL}, nil
}

type verifyResponse struct {
	Data struct {
		Status string `json:"status"`
		Amount int64  `json:"amount"`
	} `json:"data"`
}

// VerifyDeposit reads the settlement state for a reference. Safe to call any
// number of times; the gateway reports, it does not mutate.
func (c *HTTPClient) VerifyDeposit(ctx context.Context, reference string) (DepositStatus, error) {
	var resp verifyResponse
	if err := c.do(ctx, http.MethodGet, "/transaction/verify/"+reference, nil, &resp); err != nil {
		return DepositStatus{}, err
	}
	if resp.Data.Status != "success" {
		return DepositStatus{Settled: false}, nil
	}
	return DepositStatus{Settled: true, AmountMinor: resp.Data.Amount}, nil
}

type recipientResponse struct {
	Data struct {
		RecipientCode string `json:"recipient_code"`
	} `json:"data"`
}

type transferResponse struct {
	Data struct {
		TransferCode string `json:"transfer_code"`
		Status       string `json:"status"`
	} `json:"data"`
}

// Withdraw creates a transfer recipient and initiates the payout. Any
// definitive gateway rejection, including a gateway-side balance error, is a
// *Error; the caller rolls the wallet back.
func (c *HTTPClient) Withdraw(ctx context.Context, input WithdrawInput) (WithdrawReceipt, error) {
	recipientBody := map[string]any{
		"type":           "nuban",
		"name":           "User Withdrawal",
		"account_number": input.AccountNumber,
		"bank_code":      input.BankCode,
		"currency":       "NGN",
	}
	var recipient recipientResponse
	if err := c.do(ctx, http.MethodPost, "/transferrecipient", recipientBody, &recipient); err != nil {
		return WithdrawReceipt{}, err
	}

	transferBody := map[string]any{
		"source":    "balance",
		"amount":    input.AmountMinor,
		"recipient": recipient.Data.RecipientCode,
		"reason":    input.Narration,
	}
	var transfer transferResponse
	if err := c.do(ctx, http.MethodPost, "/transfer", transferBody, &transfer); err != nil {
		return WithdrawReceipt{}, err
	}
	return WithdrawReceipt{TransferCode: transfer.Data.TransferCode, RawStatus: transfer.Data.Status}, nil
}

// do performs one authenticated request, mapping transport failures to
// ErrAmbiguous and definitive rejections to *Error.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, target any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal gateway request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAmbiguous, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrAmbiguous, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var payload struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		_ = json.Unmarshal(raw, &payload)
		if payload.Message == "" {
			payload.Message = strings.TrimSpace(string(raw))
		}
		if payload.Message == "" {
			payload.Message = resp.Status
		}
		return &Error{Code: payload.Code, Message: payload.Message}
	}

	if target != nil {
		if err := json.Unmarshal(raw, target); err != nil {
			return &Error{Message: fmt.Sprintf("unparseable gateway response: %s", string(raw))}
		}
	}
	return nil
}
