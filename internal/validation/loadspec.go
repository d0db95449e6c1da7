package validation

import (
	"math"

	"github.com/Simplici0/cabkit/internal/cabinet"
)

// LoadSpec rates how far a material can span between shelves.
type LoadSpec struct {
	Label      string  `json:"label"`
	MaxSpacing float64 `json:"maxSpacing"`
}

var loadSpecs = map[cabinet.Material]LoadSpec{
	cabinet.MaterialMelamine:  {Label: "Melamine light-duty", MaxSpacing: 650},
	cabinet.MaterialPainted:   {Label: "Painted MDF", MaxSpacing: 600},
	cabinet.MaterialWood:      {Label: "Solid wood veneer", MaxSpacing: 580},
	cabinet.MaterialMatBlack:  {Label: "Matte black laminate", MaxSpacing: 700},
	cabinet.MaterialStainless: {Label: "Stainless blend", MaxSpacing: 720},
	cabinet.MaterialPlywood:   {Label: "Premium plywood", MaxSpacing: 630},
}

// DefaultLoadSpec applies to materials missing from the catalog.
var DefaultLoadSpec = LoadSpec{Label: "Standard panel", MaxSpacing: 620}

// LoadSpecFor returns the load rating of m.
func LoadSpecFor(m cabinet.Material) LoadSpec {
	if spec, ok := loadSpecs[m]; ok {
		return spec
	}
	return DefaultLoadSpec
}

// SpacingInfo is the derived shelf-spacing measurement.
type SpacingInfo struct {
	Spacing float64
	Limit   float64
	Label   string
	Ratio   float64
}

// ShelfSpacing computes the average gap between shelves over the interior
// height. ok is false when there are no shelves or no interior.
func ShelfSpacing(p cabinet.Params) (SpacingInfo, bool) {
	if p.ShelfCount <= 0 {
		return SpacingInfo{}, false
	}
	interior := math.Max(p.Height-2*p.Thickness, 0)
	if interior <= 0 {
		return SpacingInfo{}, false
	}
	spacing := interior / float64(p.ShelfCount+1)
	spec := LoadSpecFor(p.Material)
	return SpacingInfo{
		Spacing: spacing,
		Limit:   spec.MaxSpacing,
		Label:   spec.Label,
		Ratio:   spacing / spec.MaxSpacing,
	}, true
}
