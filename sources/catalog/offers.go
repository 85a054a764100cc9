package catalog

import (
	"blackcenter/sources/configuration"
	"blackcenter/sources/tracing"

	"github.com/shopspring/decimal"
)

// Offer is a purchasable mining power upgrade tier. Offers are immutable after
// startup; the per-offer PowerIncrement is authoritative and never derived from
// the star price.
type Offer struct {
	ID             string
	Name           string
	PriceStars     int
	Description    string
	PowerIncrement decimal.Decimal
}

type Catalog struct {
	offers  map[string]Offer
	ordered []Offer
}

func defaultOffers() []configuration.OfferConfig {
	return []configuration.OfferConfig{
		{ID: "basic", Name: "+0.2× Mining Power — 1 ⭐️", PriceStars: 1, Description: "Upgrade your mining power by +0.2×", PowerIncrement: "0.2"},
		{ID: "advanced", Name: "+0.4× Mining Power — 100 ⭐️", PriceStars: 100, Description: "Upgrade your mining power by +0.4×", PowerIncrement: "0.4"},
		{ID: "recommended", Name: "+0.6× Mining Power — 150 ⭐️", PriceStars: 150, Description: "Upgrade your mining power by +0.6×", PowerIncrement: "0.6"},
		{ID: "ultra", Name: "+0.8× Mining Power — 200 ⭐️", PriceStars: 200, Description: "Upgrade your mining power by +0.8×", PowerIncrement: "0.8"},
		{ID: "ultimate", Name: "+1.0× Mining Power — 250 ⭐️", PriceStars: 250, Description: "Upgrade your mining power by +1.0×", PowerIncrement: "1.0"},
	}
}

func NewCatalog(log *tracing.Logger, config *configuration.Config) *Catalog {
	entries := config.Catalog.Offers
	if len(entries) == 0 {
		entries = defaultOffers()
	}

	x := &Catalog{offers: make(map[string]Offer, len(entries))}

	for _, entry := range entries {
		increment, err := decimal.NewFromString(entry.PowerIncrement)
		if err != nil || !increment.IsPositive() {
			log.F("Invalid power increment in catalog", tracing.OfferId, entry.ID, "power_increment", entry.PowerIncrement)
		}
		if entry.PriceStars <= 0 {
			log.F("Invalid star price in catalog", tracing.OfferId, entry.ID, tracing.PriceStars, entry.PriceStars)
		}
		if _, exists := x.offers[entry.ID]; exists {
			log.F("Duplicate offer id in catalog", tracing.OfferId, entry.ID)
		}

		offer := Offer{
			ID:             entry.ID,
			Name:           entry.Name,
			PriceStars:     entry.PriceStars,
			Description:    entry.Description,
			PowerIncrement: increment,
		}
		x.offers[entry.ID] = offer
		x.ordered = append(x.ordered, offer)
	}

	log.I("Catalog initialized", "offers_count", len(x.ordered))
	return x
}

// Lookup is the single source of truth for what is purchasable. Every call
// site (menu, invoice, pre-checkout, confirmation) must go through it.
func (x *Catalog) Lookup(offerID string) (Offer, bool) {
	offer, ok := x.offers[offerID]
	return offer, ok
}

// Ordered returns offers in configuration order for menu rendering.
func (x *Catalog) Ordered() []Offer {
	return x.ordered
}
