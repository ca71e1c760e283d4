package recommend

import (
	"context"
	"strings"
	"testing"

	"github.com/naija-connect/naija_connect/internal/catalog"
)

func TestMatchSubstringIncludesContainedNames(t *testing.T) {
	plans := []catalog.Plan{
		{ID: "p1", Carrier: catalog.CarrierMTN, Name: "Monthly 10GB"},
		{ID: "p2", Carrier: catalog.CarrierMTN, Name: "Monthly 10GB Plus"},
		{ID: "p3", Carrier: catalog.CarrierMTN, Name: "Daily 100MB"},
	}

	got := Match("I recommend Monthly 10GB Plus for you", plans)

	// "Monthly 10GB" sits inside "Monthly 10GB Plus", so both names match.
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d: %+v", len(got), got)
	}
	if got[0].ID != "p1" || got[1].ID != "p2" {
		t.Fatalf("expected catalog order p1, p2, got %+v", got)
	}
}

func TestMatchCaseInsensitiveAndDeduplicated(t *testing.T) {
	plans := []catalog.Plan{
		{ID: "w1", Carrier: catalog.CarrierAirtel, Name: "Weekly 2GB"},
	}

	got := Match("try WEEKLY 2GB, yes, weekly 2gb", plans)
	if len(got) != 1 || got[0].ID != "w1" {
		t.Fatalf("expected one match for repeated mention, got %+v", got)
	}
}

func TestMatchNothing(t *testing.T) {
	got := Match("no plans are named here", catalog.Builtin().Plans())
	if len(got) != 0 {
		t.Fatalf("expected no matches, got %+v", got)
	}
	if got == nil {
		t.Fatal("expected empty slice, got nil")
	}
}

func TestStaticAssistantNamesACatalogPlan(t *testing.T) {
	cat := catalog.Builtin()
	assistant := NewStaticAssistant(cat)

	text, err := assistant.Recommend(context.Background(), "I use Glo and stream a lot")
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if !strings.Contains(text, catalog.CarrierGlo) {
		t.Fatalf("expected a Glo recommendation, got %q", text)
	}
	if matches := Match(text, cat.Plans()); len(matches) == 0 {
		t.Fatalf("assistant text names no catalog plan: %q", text)
	}
}
