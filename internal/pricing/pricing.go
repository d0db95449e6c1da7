package pricing

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/cabkit/internal/cabinet"
)

// Base rates in the reference currency (USD).
var materialRatePerM2 = map[cabinet.Material]float64{
	cabinet.MaterialMelamine:  18,
	cabinet.MaterialPainted:   26,
	cabinet.MaterialWood:      32,
	cabinet.MaterialMatBlack:  22,
	cabinet.MaterialStainless: 40,
	cabinet.MaterialPlywood:   28,
}

var handleCost = map[cabinet.Handle]float64{
	cabinet.HandleBar:      8,
	cabinet.HandleKnob:     4,
	cabinet.HandleDPull:    10,
	cabinet.HandleRecessed: 6,
	cabinet.HandleNone:     0,
}

const (
	backRatePerM2      = 10
	shelfRatePerM2     = 14
	doorRateMultiplier = 1.15
	hingeCostPerDoor   = 7 // two hinges
	shelfHardwareEach  = 1.5
	assemblyCost       = 12
	rightHingePremium  = 2
)

// MaterialRate returns the per-m² rate for m, defaulting to melamine.
func MaterialRate(m cabinet.Material) float64 {
	if r, ok := materialRatePerM2[m]; ok {
		return r
	}
	return materialRatePerM2[cabinet.MaterialMelamine]
}

// HandleCost returns the per-door cost of handle style h.
func HandleCost(h cabinet.Handle) float64 {
	return handleCost[h]
}

// Breakdown contains every priced line, converted to the preset currency.
type Breakdown struct {
	Carcass          float64 `json:"carcassCost"`
	Back             float64 `json:"backCost"`
	Doors            float64 `json:"doorCost"`
	Shelves          float64 `json:"shelfCost"`
	ShelfHardware    float64 `json:"shelfHardware"`
	Handles          float64 `json:"handleCost"`
	Hinges           float64 `json:"hingeCost"`
	HingeSidePremium float64 `json:"hingeSideAdjustment"`
	Assembly         float64 `json:"assembly"`
	RegionMarkup     float64 `json:"regionMarkup"`
}

// Line is one named breakdown entry.
type Line struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// Lines returns the breakdown in display order.
func (b Breakdown) Lines() []Line {
	return []Line{
		{"carcass", b.Carcass},
		{"back", b.Back},
		{"doors", b.Doors},
		{"shelves", b.Shelves},
		{"shelfHardware", b.ShelfHardware},
		{"handles", b.Handles},
		{"hinges", b.Hinges},
		{"hingeSidePremium", b.HingeSidePremium},
		{"assembly", b.Assembly},
		{"regionMarkup", b.RegionMarkup},
	}
}

// Totals contains roll-up values from the pricing calculation.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Total    float64 `json:"total"`
}

// Result groups the full pricing output.
type Result struct {
	Breakdown      Breakdown `json:"breakdown"`
	Totals         Totals    `json:"totals"`
	Currency       string    `json:"currency"`
	CurrencySymbol string    `json:"currencySymbol"`
	PresetID       string    `json:"preset"`
}

// Calculate prices a cabinet. All lines are summed in the reference
// currency, then each is converted with the preset exchange rate and
// rounded to cents once; the total is the sum of the rounded lines.
func Calculate(p cabinet.Params, preset Preset) Result {
	m2 := func(mm2 float64) float64 { return mm2 / 1_000_000 }

	rate := MaterialRate(p.Material)
	matMul := preset.MaterialMultiplier
	labMul := preset.LaborMultiplier

	// panels are finished on both faces
	topBottomArea := 4 * (p.Width * p.Depth)
	sideArea := 4 * (p.Height * p.Depth)
	backArea := math.Max(p.Width-2*p.Thickness, 0) * math.Max(p.Height-2*p.Thickness, 0)

	doorFaceArea := p.Width * p.Height
	if p.DoorCount != 1 {
		doorFaceArea = (p.Width / 2) * p.Height * 2
	}

	shelfQty := float64(max(p.ShelfCount, 0))
	shelfArea := math.Max(p.Width-2*p.Thickness, 0) * math.Max(p.Depth-p.Thickness, 0)

	doors := float64(p.DoorCount)
	premium := 0.0
	if p.DoorCount == 1 && p.HingeSide == cabinet.HingeRight {
		premium = rightHingePremium
	}

	base := Breakdown{
		Carcass:          m2(topBottomArea+sideArea) * rate * matMul,
		Back:             m2(backArea) * backRatePerM2 * matMul,
		Doors:            m2(doorFaceArea) * rate * doorRateMultiplier * matMul,
		Shelves:          shelfQty * m2(shelfArea) * shelfRatePerM2 * matMul,
		ShelfHardware:    shelfQty * shelfHardwareEach,
		Handles:          doors * handleCost[p.Handle],
		Hinges:           doors * hingeCostPerDoor,
		HingeSidePremium: premium,
		Assembly:         assemblyCost * labMul,
	}
	subtotal := sumLines(base.Lines())
	base.RegionMarkup = subtotal * preset.RegionMarkup

	exchange := decimal.NewFromFloat(preset.ExchangeRate)
	convert := func(v float64) decimal.Decimal {
		return decimal.NewFromFloat(v).Mul(exchange).Round(2)
	}

	out := Breakdown{
		Carcass:          convert(base.Carcass).InexactFloat64(),
		Back:             convert(base.Back).InexactFloat64(),
		Doors:            convert(base.Doors).InexactFloat64(),
		Shelves:          convert(base.Shelves).InexactFloat64(),
		ShelfHardware:    convert(base.ShelfHardware).InexactFloat64(),
		Handles:          convert(base.Handles).InexactFloat64(),
		Hinges:           convert(base.Hinges).InexactFloat64(),
		HingeSidePremium: convert(base.HingeSidePremium).InexactFloat64(),
		Assembly:         convert(base.Assembly).InexactFloat64(),
		RegionMarkup:     convert(base.RegionMarkup).InexactFloat64(),
	}

	preMarkup := decimal.Zero
	for _, l := range out.Lines() {
		if l.Name == "regionMarkup" {
			continue
		}
		preMarkup = preMarkup.Add(decimal.NewFromFloat(l.Amount))
	}
	total := preMarkup.Add(decimal.NewFromFloat(out.RegionMarkup))

	return Result{
		Breakdown: out,
		Totals: Totals{
			Subtotal: preMarkup.InexactFloat64(),
			Total:    total.InexactFloat64(),
		},
		Currency:       preset.Currency,
		CurrencySymbol: preset.CurrencySymbol,
		PresetID:       preset.ID,
	}
}

func sumLines(lines []Line) float64 {
	var s float64
	for _, l := range lines {
		s += l.Amount
	}
	return s
}
