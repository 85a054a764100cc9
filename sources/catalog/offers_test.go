package catalog

import (
	"testing"

	"blackcenter/sources/configuration"
	"blackcenter/sources/tracing"

	"github.com/shopspring/decimal"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	return NewCatalog(tracing.NewConsoleLogger(), &configuration.Config{})
}

func TestLookupKnownOffers(t *testing.T) {
	tests := []struct {
		id        string
		name      string
		price     int
		increment string
	}{
		{
			id:        "basic",
			name:      "+0.2× Mining Power — 1 ⭐️",
			price:     1,
			increment: "0.2",
		},
		{
			id:        "advanced",
			name:      "+0.4× Mining Power — 100 ⭐️",
			price:     100,
			increment: "0.4",
		},
		{
			id:        "recommended",
			name:      "+0.6× Mining Power — 150 ⭐️",
			price:     150,
			increment: "0.6",
		},
		{
			id:        "ultra",
			name:      "+0.8× Mining Power — 200 ⭐️",
			price:     200,
			increment: "0.8",
		},
		{
			id:        "ultimate",
			name:      "+1.0× Mining Power — 250 ⭐️",
			price:     250,
			increment: "1.0",
		},
	}

	cat := newTestCatalog(t)

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			offer, ok := cat.Lookup(tt.id)
			if !ok {
				t.Fatalf("Lookup(%q) not found", tt.id)
			}
			if offer.Name != tt.name {
				t.Errorf("name = %q, want %q", offer.Name, tt.name)
			}
			if offer.PriceStars != tt.price {
				t.Errorf("price = %d, want %d", offer.PriceStars, tt.price)
			}
			want := decimal.RequireFromString(tt.increment)
			if !offer.PowerIncrement.Equal(want) {
				t.Errorf("increment = %s, want %s", offer.PowerIncrement, want)
			}
			if offer.Description == "" {
				t.Errorf("description is empty")
			}
		})
	}
}

func TestLookupUnknownOffers(t *testing.T) {
	cat := newTestCatalog(t)

	for _, id := range []string{"", "nonexistent", "BASIC", "basic ", "premium"} {
		if _, ok := cat.Lookup(id); ok {
			t.Errorf("Lookup(%q) found, want not found", id)
		}
	}
}

func TestOrderedMatchesConfiguration(t *testing.T) {
	cat := newTestCatalog(t)

	want := []string{"basic", "advanced", "recommended", "ultra", "ultimate"}
	ordered := cat.Ordered()

	if len(ordered) != len(want) {
		t.Fatalf("Ordered() length = %d, want %d", len(ordered), len(want))
	}
	for i, offer := range ordered {
		if offer.ID != want[i] {
			t.Errorf("Ordered()[%d] = %q, want %q", i, offer.ID, want[i])
		}
	}
}

func TestConfiguredOffersOverrideDefaults(t *testing.T) {
	config := &configuration.Config{
		Catalog: configuration.CatalogConfig{
			Offers: []configuration.OfferConfig{
				{ID: "mini", Name: "Mini", PriceStars: 5, Description: "Tiny boost", PowerIncrement: "0.1"},
			},
		},
	}

	cat := NewCatalog(tracing.NewConsoleLogger(), config)

	if _, ok := cat.Lookup("basic"); ok {
		t.Errorf("default offer still present with explicit configuration")
	}
	offer, ok := cat.Lookup("mini")
	if !ok {
		t.Fatalf("configured offer not found")
	}
	if !offer.PowerIncrement.Equal(decimal.RequireFromString("0.1")) {
		t.Errorf("increment = %s, want 0.1", offer.PowerIncrement)
	}
}
