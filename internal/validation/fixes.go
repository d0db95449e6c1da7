package validation

import (
	"math"

	"github.com/Simplici0/cabkit/internal/cabinet"
)

// Fix is a one-click correction for a rule.
type Fix struct {
	RuleID string `json:"ruleId"`
	Label  string `json:"label"`
	Apply  func(p cabinet.Params) cabinet.Params `json:"-"`
}

var fixes = map[string]Fix{
	"double-door-width": {
		Label: "Set width to 500 mm",
		Apply: func(p cabinet.Params) cabinet.Params {
			p.Width = math.Max(p.Width, minDoubleDoorWidth)
			return p
		},
	},
	"single-door-width": {
		Label: "Set width to 350 mm",
		Apply: func(p cabinet.Params) cabinet.Params {
			p.Width = math.Max(p.Width, minSingleDoorWidth)
			return p
		},
	},
	"shelf-height": {
		Label: "Remove shelves",
		Apply: func(p cabinet.Params) cabinet.Params {
			p.ShelfCount = 0
			return p
		},
	},
	"shelf-density": {
		Label: "Clamp shelf count",
		Apply: func(p cabinet.Params) cabinet.Params {
			p.ShelfCount = min(p.ShelfCount, max(0, MaxShelvesForHeight(p.Height)-1))
			return p
		},
	},
	"door-gap": {
		Label: "Use 1.5 mm gap",
		Apply: func(p cabinet.Params) cabinet.Params {
			p.Gap = math.Max(p.Gap, minHandleGap)
			return p
		},
	},
}

// FixFor returns the auto-fix registered for ruleID.
func FixFor(ruleID string) (Fix, bool) {
	f, ok := fixes[ruleID]
	if !ok {
		return Fix{}, false
	}
	f.RuleID = ruleID
	return f, true
}

// FixesFor lists the fixes available for the given findings, in finding order.
func FixesFor(findings []Finding) []Fix {
	out := make([]Fix, 0, len(findings))
	for _, f := range findings {
		if fix, ok := FixFor(f.ID); ok {
			out = append(out, fix)
		}
	}
	return out
}
