package pricing

import "sort"

// Preset is a regional pricing profile.
type Preset struct {
	ID                 string  `json:"id"`
	Label              string  `json:"label"`
	Currency           string  `json:"currency"`
	CurrencySymbol     string  `json:"currencySymbol"`
	ExchangeRate       float64 `json:"exchangeRate"`
	MaterialMultiplier float64 `json:"materialMultiplier"`
	LaborMultiplier    float64 `json:"laborMultiplier"`
	RegionMarkup       float64 `json:"regionMarkup"`
}

// DefaultPresetID is the base domestic preset.
const DefaultPresetID = "US_STD"

// Catalog is a read-only set of presets keyed by id.
type Catalog map[string]Preset

// DefaultCatalog returns the built-in regional presets.
func DefaultCatalog() Catalog {
	return Catalog{
		"US_STD": {
			ID:                 "US_STD",
			Label:              "US · USD standard",
			Currency:           "USD",
			CurrencySymbol:     "$",
			ExchangeRate:       1,
			MaterialMultiplier: 1,
			LaborMultiplier:    1,
			RegionMarkup:       0.05,
		},
		"EU_STD": {
			ID:                 "EU_STD",
			Label:              "EU · EUR",
			Currency:           "EUR",
			CurrencySymbol:     "€",
			ExchangeRate:       0.92,
			MaterialMultiplier: 1.05,
			LaborMultiplier:    1.1,
			RegionMarkup:       0.08,
		},
		"PREMIUM": {
			ID:                 "PREMIUM",
			Label:              "Premium showroom",
			Currency:           "USD",
			CurrencySymbol:     "$",
			ExchangeRate:       1,
			MaterialMultiplier: 1.25,
			LaborMultiplier:    1.2,
			RegionMarkup:       0.15,
		},
	}
}

// Has reports whether id is in the catalog.
func (c Catalog) Has(id string) bool {
	_, ok := c[id]
	return ok
}

// Get resolves id, falling back to the default preset.
func (c Catalog) Get(id string) Preset {
	if p, ok := c[id]; ok {
		return p
	}
	if p, ok := c[DefaultPresetID]; ok {
		return p
	}
	return DefaultCatalog()[DefaultPresetID]
}

// List returns presets sorted by id.
func (c Catalog) List() []Preset {
	out := make([]Preset, 0, len(c))
	for _, p := range c {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
