// Package validation evaluates cabinet parameters against construction rules.
package validation

import (
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/Simplici0/cabkit/internal/cabinet"
)

type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Finding is one rule violation.
type Finding struct {
	ID       string   `json:"id"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	// Value carries the measured quantity behind the finding, if any.
	Value *float64 `json:"value,omitempty"`
}

// Rule is either a FixedRule or a ComputedRule.
type Rule interface {
	RuleID() string
	evaluate(p cabinet.Params) (Finding, bool)
}

// FixedRule has a constant severity and message.
type FixedRule struct {
	ID       string
	Severity Severity
	Message  string
	Test     func(p cabinet.Params) bool
}

func (r FixedRule) RuleID() string { return r.ID }

func (r FixedRule) evaluate(p cabinet.Params) (Finding, bool) {
	if !r.Test(p) {
		return Finding{}, false
	}
	return Finding{ID: r.ID, Severity: r.Severity, Message: r.Message}, true
}

// ComputedRule derives severity and message from the parameters. Check
// returns ok=false when the rule does not apply.
type ComputedRule struct {
	ID    string
	Check func(p cabinet.Params) (sev Severity, msg string, value float64, ok bool)
}

func (r ComputedRule) RuleID() string { return r.ID }

func (r ComputedRule) evaluate(p cabinet.Params) (Finding, bool) {
	sev, msg, value, ok := r.Check(p)
	if !ok || sev == "" {
		return Finding{}, false
	}
	return Finding{ID: r.ID, Severity: sev, Message: msg, Value: &value}, true
}

const (
	minDoubleDoorWidth = 500
	minSingleDoorWidth = 350
	minShelfHeight     = 400
	minShelfSpacing    = 150
	minHandleGap       = 1.5
	spanErrorRatio     = 1.3
)

// Rules is the rule table in evaluation order.
var Rules = []Rule{
	FixedRule{
		ID:       "double-door-width",
		Severity: SeverityError,
		Message:  fmt.Sprintf("Double doors need width >= %d mm.", minDoubleDoorWidth),
		Test: func(p cabinet.Params) bool {
			return p.DoorCount == 2 && p.Width < minDoubleDoorWidth
		},
	},
	FixedRule{
		ID:       "single-door-width",
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("Single doors narrower than %d mm may clip hinges.", minSingleDoorWidth),
		Test: func(p cabinet.Params) bool {
			return p.DoorCount == 1 && p.Width < minSingleDoorWidth
		},
	},
	FixedRule{
		ID:       "shelf-height",
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("Add at least %d mm of height when using shelves.", minShelfHeight),
		Test: func(p cabinet.Params) bool {
			return p.ShelfCount > 0 && p.Height < minShelfHeight
		},
	},
	FixedRule{
		ID:       "shelf-density",
		Severity: SeverityError,
		Message:  fmt.Sprintf("Reduce shelf count to keep >=%d mm vertical spacing.", minShelfSpacing),
		Test: func(p cabinet.Params) bool {
			return p.ShelfCount > 0 && p.ShelfCount >= MaxShelvesForHeight(p.Height)
		},
	},
	FixedRule{
		ID:       "door-gap",
		Severity: SeverityWarning,
		Message:  "Increase the door gap (>=1.5 mm) for handle clearance.",
		Test: func(p cabinet.Params) bool {
			return p.Gap < minHandleGap && p.Handle != cabinet.HandleNone
		},
	},
	ComputedRule{
		ID: "load-shelf-spacing",
		Check: func(p cabinet.Params) (Severity, string, float64, bool) {
			info, ok := ShelfSpacing(p)
			if !ok || info.Spacing <= info.Limit {
				return "", "", 0, false
			}
			sev := SeverityWarning
			if info.Ratio >= spanErrorRatio {
				sev = SeverityError
			}
			msg := fmt.Sprintf(
				"Average shelf spacing %d mm exceeds %s limit (%d mm). Add a shelf or upgrade material stiffness.",
				int(math.Round(info.Spacing)), info.Label, int(info.Limit),
			)
			return sev, msg, info.Spacing, true
		},
	},
}

// MaxShelvesForHeight is the shelf count at which shelf-density trips.
func MaxShelvesForHeight(height float64) int {
	return max(1, int(math.Floor(height/minShelfSpacing)))
}

// Validate runs the default rule table.
func Validate(p cabinet.Params) []Finding {
	return Run(Rules, p)
}

// Run evaluates rules in order. A rule that panics is skipped.
func Run(rules []Rule, p cabinet.Params) []Finding {
	findings := make([]Finding, 0, len(rules))
	for _, r := range rules {
		if f, ok := safeEvaluate(r, p); ok {
			findings = append(findings, f)
		}
	}
	return findings
}

func safeEvaluate(r Rule, p cabinet.Params) (f Finding, ok bool) {
	defer func() {
		if recover() != nil {
			f, ok = Finding{}, false
		}
	}()
	return r.evaluate(p)
}

// HasBlocking reports whether any finding blocks export.
func HasBlocking(findings []Finding) bool {
	return lo.SomeBy(findings, func(f Finding) bool { return f.Severity == SeverityError })
}

// Count returns the number of findings per severity.
func Count(findings []Finding) map[Severity]int {
	return lo.CountValuesBy(findings, func(f Finding) Severity { return f.Severity })
}
