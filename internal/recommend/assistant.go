package recommend

import (
	"context"
	"fmt"
	"strings"

	"github.com/naija-connect/naija_connect/internal/catalog"
)

// Assistant produces free-form recommendation text for a user prompt. The
// text is opaque; plan matching happens afterwards in Match.
type Assistant interface {
	Recommend(ctx context.Context, prompt string) (string, error)
}

// StaticAssistant answers from the loaded catalog without any external calls.
// It names the cheapest monthly plan of the carrier mentioned in the prompt,
// or a general pick when no carrier is recognized.
type StaticAssistant struct {
	catalog *catalog.Catalog
}

// NewStaticAssistant builds the offline assistant.
func NewStaticAssistant(cat *catalog.Catalog) *StaticAssistant {
	return &StaticAssistant{catalog: cat}
}

// Recommend picks a plan by simple heuristics over the prompt text.
func (a *StaticAssistant) Recommend(_ context.Context, prompt string) (string, error) {
	lower := strings.ToLower(prompt)
	carrier := ""
	for _, c := range []string{catalog.CarrierMTN, catalog.CarrierAirtel, catalog.CarrierGlo, catalog.CarrierNineMobile} {
		if strings.Contains(lower, strings.ToLower(c)) {
			carrier = c
			break
		}
	}

	plans := a.catalog.Plans()
	if carrier != "" {
		plans = a.catalog.PlansFor(carrier)
	}
	if len(plans) == 0 {
		return "I could not find any plans to recommend right now.", nil
	}

	pick := plans[0]
	for _, p := range plans[1:] {
		if p.Category == "Monthly" && (pick.Category != "Monthly" || p.PriceMinor < pick.PriceMinor) {
			pick = p
		}
	}
	return fmt.Sprintf("Based on your usage, %s %s looks like a good fit: %s for %s.",
		pick.Carrier, pick.Name, pick.Allowance, pick.Validity), nil
}
