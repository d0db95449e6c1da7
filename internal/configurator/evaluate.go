// Package configurator runs the full derivation pipeline for a cabinet and
// holds the editable design state.
package configurator

import (
	"time"

	"github.com/Simplici0/cabkit/internal/bom"
	"github.com/Simplici0/cabkit/internal/cabinet"
	"github.com/Simplici0/cabkit/internal/pricing"
	"github.com/Simplici0/cabkit/internal/sku"
	"github.com/Simplici0/cabkit/internal/validation"
)

// Snapshot is every derived view of one parameter set.
type Snapshot struct {
	Params    cabinet.Params       `json:"params"`
	Explode   float64              `json:"explode"`
	Parts     []cabinet.Part       `json:"parts"`
	BaseParts []cabinet.Part       `json:"baseParts"`
	Findings  []validation.Finding `json:"findings"`
	Fixes     []validation.Fix     `json:"fixes"`
	Blocked   bool                 `json:"hasBlockingErrors"`
	Price     pricing.Result       `json:"price"`
	BOM       []bom.Row            `json:"bom"`
	SKU       string               `json:"sku"`
}

// Evaluate normalizes p and derives geometry, findings, price, BOM and SKU.
// The BOM is always built from the non-exploded geometry.
func Evaluate(p cabinet.Params, explode float64, catalog pricing.Catalog) Snapshot {
	safe := cabinet.Normalize(p, catalog.Has)
	explode = cabinet.ClampExplode(explode)

	base := cabinet.Generate(safe, 0)
	parts := base
	if explode > 0 {
		parts = cabinet.Generate(safe, explode)
	}

	findings := validation.Validate(safe)

	return Snapshot{
		Params:    safe,
		Explode:   explode,
		Parts:     parts,
		BaseParts: base,
		Findings:  findings,
		Fixes:     validation.FixesFor(findings),
		Blocked:   validation.HasBlocking(findings),
		Price:     pricing.Calculate(safe, catalog.Get(safe.PricingPreset)),
		BOM:       bom.Build(base, safe),
		SKU:       sku.Generate(safe),
	}
}

// Export bundles the snapshot into an export document stamped with now.
func (s Snapshot) Export(now time.Time) sku.Export {
	return sku.NewExport(s.Params, s.Price, s.BOM, now)
}

// CSV renders the snapshot's BOM.
func (s Snapshot) CSV() string {
	return bom.CSV(s.BOM)
}
