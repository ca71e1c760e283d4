package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestVerifyDepositReportsSettlement(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/verify/ref_1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test" {
			t.Errorf("missing bearer auth, got %q", got)
		}
		w.Write([]byte(`{"data": {"status": "success", "amount": 250000}}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "sk_test", "http://localhost:3000", time.Second)
	status, err := client.VerifyDeposit(context.Background(), "ref_1")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !status.Settled || status.AmountMinor != 250_000 {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestVerifyDepositUnsettled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"status": "pending", "amount": 0}}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "sk_test", "http://localhost:3000", time.Second)
	status, err := client.VerifyDeposit(context.Background(), "ref_1")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if status.Settled {
		t.Fatal("pending deposit must not report settled")
	}
}

func TestWithdrawInsufficientGatewayBalanceIsDefinitive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/transferrecipient":
			w.Write([]byte(`{"data": {"recipient_code": "RCP_1"}}`))
		case "/transfer":
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"code": "insufficient_balance", "message": "Your balance is not enough"}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "sk_test", "http://localhost:3000", time.Second)
	_, err := client.Withdraw(context.Background(), WithdrawInput{
		AmountMinor:   100_000,
		BankCode:      "058",
		AccountNumber: "0123456789",
		Narration:     "cash out",
	})

	// A gateway-side balance error is a real failure, not a simulated success.
	var gErr *Error
	if !errors.As(err, &gErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if gErr.Code != "insufficient_balance" {
		t.Fatalf("expected insufficient_balance code, got %q", gErr.Code)
	}
}

func TestWithdrawTimeoutIsAmbiguous(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "sk_test", "http://localhost:3000", 20*time.Millisecond)
	_, err := client.Withdraw(context.Background(), WithdrawInput{
		AmountMinor:   100_000,
		BankCode:      "058",
		AccountNumber: "0123456789",
	})
	if !errors.Is(err, ErrAmbiguous) {
		t.Fatalf("expected ambiguous outcome, got %v", err)
	}
}

func TestInitiateDeposit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/initialize" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"data": {"authorization_url": "https://checkout.test/abc", "reference": "ref_abc"}}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "sk_test", "http://localhost:3000", time.Second)
	intent, err := client.InitiateDeposit(context.Background(), "user@test.com", 500_000)
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	if intent.Reference != "ref_abc" || intent.CheckoutURL != "https://checkout.test/abc" {
		t.Fatalf("unexpected intent: %+v", intent)
	}
}
