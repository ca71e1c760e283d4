package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/naija-connect/naija_connect/internal/logging"
)

type failingFetcher struct{}

func (failingFetcher) FetchCatalog(context.Context) ([]Plan, error) {
	return nil, errors.New("connection refused")
}

type emptyFetcher struct{}

func (emptyFetcher) FetchCatalog(context.Context) ([]Plan, error) {
	return nil, nil
}

func TestLoadFallsBackToBuiltinPlans(t *testing.T) {
	ctx := context.Background()

	c := Load(ctx, failingFetcher{}, logging.Discard())
	if len(c.Plans()) == 0 {
		t.Fatal("catalog must never be empty")
	}

	c = Load(ctx, emptyFetcher{}, logging.Discard())
	if len(c.Plans()) == 0 {
		t.Fatal("empty vendor result must fall back to builtin plans")
	}

	if len(c.PlansFor(CarrierMTN)) == 0 {
		t.Fatal("builtin catalog must cover MTN")
	}
	if _, ok := c.Find(CarrierMTN, "m4"); !ok {
		t.Fatal("expected builtin plan m4")
	}
	if _, ok := c.Find(CarrierGlo, "m4"); ok {
		t.Fatal("plan lookup must be scoped to the carrier")
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct{ in, want string }{
		{"0803 123 4567", "08031234567"},
		{"+2348031234567", "08031234567"},
		{"2348031234567", "08031234567"},
		{"08031234567890", "08031234567"},
		{"abc0803", "0803"},
	}
	for _, tc := range cases {
		if got := NormalizePhone(tc.in); got != tc.want {
			t.Fatalf("NormalizePhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDetectCarrier(t *testing.T) {
	cases := []struct{ phone, want string }{
		{"08031234567", CarrierMTN},
		{"09011234567", CarrierAirtel},
		{"08051234567", CarrierGlo},
		{"09091234567", CarrierNineMobile},
		{"01234567890", ""},
		{"080", ""},
	}
	for _, tc := range cases {
		if got := DetectCarrier(tc.phone); got != tc.want {
			t.Fatalf("DetectCarrier(%q) = %q, want %q", tc.phone, got, tc.want)
		}
	}
}
