package catalog

import (
	"context"
	"log/slog"
)

// Plan is a read-only data bundle from the vendor catalog. Prices are in kobo.
type Plan struct {
	ID         string `json:"id"`
	Carrier    string `json:"carrier"`
	Name       string `json:"name"`
	PriceMinor int64  `json:"price_minor"`
	Validity   string `json:"validity"`
	Allowance  string `json:"allowance"`
	Category   string `json:"category"`
}

// builtinPlans is the static fallback catalog; it guarantees the catalog is
// never empty when the vendor fetch fails.
var builtinPlans = []Plan{
	{ID: "m1", Carrier: CarrierMTN, Name: "Daily 100MB", PriceMinor: 10_000, Validity: "1 Day", Allowance: "100MB", Category: "Daily"},
	{ID: "m2", Carrier: CarrierMTN, Name: "Weekly 1.5GB", PriceMinor: 50_000, Validity: "7 Days", Allowance: "1.5GB", Category: "Weekly"},
	{ID: "m3", Carrier: CarrierMTN, Name: "Monthly 3.5GB", PriceMinor: 120_000, Validity: "30 Days", Allowance: "3.5GB", Category: "Monthly"},
	{ID: "m4", Carrier: CarrierMTN, Name: "Monthly 10GB", PriceMinor: 300_000, Validity: "30 Days", Allowance: "10GB", Category: "Monthly"},
	{ID: "a1", Carrier: CarrierAirtel, Name: "Daily 200MB", PriceMinor: 10_000, Validity: "1 Day", Allowance: "200MB", Category: "Daily"},
	{ID: "a2", Carrier: CarrierAirtel, Name: "Weekly 2GB", PriceMinor: 50_000, Validity: "7 Days", Allowance: "2GB", Category: "Weekly"},
	{ID: "a3", Carrier: CarrierAirtel, Name: "Monthly 5GB", PriceMinor: 150_000, Validity: "30 Days", Allowance: "5GB", Category: "Monthly"},
	{ID: "a4", Carrier: CarrierAirtel, Name: "Monthly 15GB", PriceMinor: 400_000, Validity: "30 Days", Allowance: "15GB", Category: "Monthly"},
	{ID: "g1", Carrier: CarrierGlo, Name: "Mega 1GB", PriceMinor: 30_000, Validity: "1 Day", Allowance: "1GB", Category: "Daily"},
	{ID: "g2", Carrier: CarrierGlo, Name: "Weekly 2.5GB", PriceMinor: 50_000, Validity: "7 Days", Allowance: "2.5GB", Category: "Weekly"},
	{ID: "g3", Carrier: CarrierGlo, Name: "Monthly 7GB", PriceMinor: 150_000, Validity: "30 Days", Allowance: "7GB", Category: "Monthly"},
	{ID: "n1", Carrier: CarrierNineMobile, Name: "Small 1GB", PriceMinor: 50_000, Validity: "7 Days", Allowance: "1GB", Category: "Weekly"},
	{ID: "n2", Carrier: CarrierNineMobile, Name: "Monthly 2GB", PriceMinor: 100_000, Validity: "30 Days", Allowance: "2GB", Category: "Monthly"},
}

// Fetcher retrieves the live catalog from the vendor.
type Fetcher interface {
	FetchCatalog(ctx context.Context) ([]Plan, error)
}

// Catalog is the loaded plan list. It is populated once at startup and read
// concurrently afterwards.
type Catalog struct {
	plans []Plan
}

// Builtin returns a catalog backed only by the static plan list.
func Builtin() *Catalog {
	return &Catalog{plans: builtinPlans}
}

// Load fetches the live catalog, falling back to the built-in plans on any
// fetch failure or an empty result. It never returns an error to the caller.
func Load(ctx context.Context, fetcher Fetcher, logger *slog.Logger) *Catalog {
	if fetcher == nil {
		return Builtin()
	}
	plans, err := fetcher.FetchCatalog(ctx)
	if err != nil || len(plans) == 0 {
		logger.Warn("vendor catalog unavailable, using built-in plans", "error", err)
		return Builtin()
	}
	logger.Info("vendor catalog loaded", "plans", len(plans))
	return &Catalog{plans: plans}
}

// Plans returns every plan in catalog order.
func (c *Catalog) Plans() []Plan {
	return c.plans
}

// PlansFor returns the plans offered by one carrier, in catalog order.
func (c *Catalog) PlansFor(carrier string) []Plan {
	var out []Plan
	for _, p := range c.plans {
		if p.Carrier == carrier {
			out = append(out, p)
		}
	}
	return out
}

// Find returns the plan with the given id for the carrier, if any.
func (c *Catalog) Find(carrier, planID string) (Plan, bool) {
	for _, p := range c.plans {
		if p.Carrier == carrier && p.ID == planID {
			return p, true
		}
	}
	return Plan{}, false
}
