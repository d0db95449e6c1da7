// Package bom turns cabinet parts into a bill of materials.
package bom

import (
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"

	"github.com/Simplici0/cabkit/internal/cabinet"
)

const mmPerM = 1000

// Doors taller than this get a third hinge.
const tallDoorMM = 900

// Row is one BOM line.
type Row struct {
	Key         string  `json:"key"`
	Kind        string  `json:"kind"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Depth       float64 `json:"depth"`
	MaterialID  string  `json:"materialId"`
	EdgeBanding string  `json:"edgeBanding"`
	HingeSide   string  `json:"hingeSide,omitempty"`
	HingeCount  int     `json:"hingeCount,omitempty"`
	Fasteners   string  `json:"fasteners"`
	Notes       string  `json:"notes"`
}

// Build derives BOM rows from non-exploded parts. Hinge rows are appended
// after the part rows, one per carcass side that carries doors.
func Build(parts []cabinet.Part, p cabinet.Params) []Row {
	rows := lo.Map(parts, func(part cabinet.Part, _ int) Row {
		return partRow(part, p)
	})

	perSide := map[cabinet.HingeSide]int{}
	for _, r := range rows {
		if r.HingeCount > 0 {
			perSide[cabinet.HingeSide(r.HingeSide)] += r.HingeCount
		}
	}
	for _, side := range []cabinet.HingeSide{cabinet.HingeLeft, cabinet.HingeRight} {
		count := perSide[side]
		if count == 0 {
			continue
		}
		rows = append(rows, Row{
			Key:        "hinge-" + strings.ToLower(string(side)),
			Kind:       "hinge",
			MaterialID: "HARDWARE-HINGE",
			HingeSide:  string(side),
			HingeCount: count,
			Fasteners:  fmt.Sprintf("euro screw 6.3x16 x%d", count*4),
			Notes:      "35 mm cup hinge, 110° opening",
		})
	}
	return rows
}

// HingesPerLeaf returns how many hinges a door of the given height needs.
func HingesPerLeaf(doorHeightMM float64) int {
	if doorHeightMM > tallDoorMM {
		return 3
	}
	return 2
}

func partRow(part cabinet.Part, p cabinet.Params) Row {
	r := Row{
		Key:        part.Key,
		Kind:       part.Kind.String(),
		Width:      roundMM(part.Size.X * mmPerM),
		Height:     roundMM(part.Size.Y * mmPerM),
		Depth:      roundMM(part.Size.Z * mmPerM),
		MaterialID: materialFor(part, p.Material),
	}
	r.EdgeBanding = edgeBandingFor(part)
	r.Fasteners = fastenersFor(part, r)

	if part.Kind == cabinet.KindDoor {
		r.HingeSide = string(doorHingeSide(part, p))
		r.HingeCount = HingesPerLeaf(r.Height)
	}
	if part.Kind.IsHandle() {
		r.Notes = handleNote(p.Handle)
	}
	return r
}

func roundMM(v float64) float64 {
	return math.Round(v*100) / 100
}

func materialFor(part cabinet.Part, m cabinet.Material) string {
	code := string(m)
	if code == "" {
		code = "MAT"
	}
	switch part.Kind {
	case cabinet.KindDoor:
		return code + "-DOOR"
	case cabinet.KindShelf:
		return code + "-SHELF"
	case cabinet.KindPanel:
		if part.Key == "back" {
			return code + "-BACK"
		}
		return code + "-CARCASS"
	case cabinet.KindHandleBar, cabinet.KindHandleKnob, cabinet.KindHandleRecessed:
		return "HARDWARE-HANDLE"
	}
	return code
}

func edgeBandingFor(part cabinet.Part) string {
	switch {
	case part.Kind == cabinet.KindDoor:
		return "T,B,L,R"
	case part.Kind == cabinet.KindShelf:
		return "F"
	case part.Key == "back", part.Kind.IsHandle():
		return ""
	case strings.HasPrefix(part.Key, "side-"), part.Key == "top", part.Key == "bottom":
		return "F"
	}
	return ""
}

func fastenersFor(part cabinet.Part, r Row) string {
	switch {
	case strings.HasPrefix(part.Key, "side-"), part.Key == "top", part.Key == "bottom":
		return "confirmat 7x50 x4"
	case part.Key == "back":
		perimeter := 2 * (math.Max(r.Width, 0) + math.Max(r.Height, 0))
		nails := max(4, int(math.Ceil(perimeter/150)))
		return fmt.Sprintf("brad nail 1.2x25 x%d", nails)
	case part.Kind == cabinet.KindShelf:
		return "shelf pin 5 mm x4"
	case part.Kind == cabinet.KindHandleBar:
		return "M4x25 screw x2"
	case part.Kind == cabinet.KindHandleKnob:
		return "M4x25 screw x1"
	}
	return ""
}

func doorHingeSide(part cabinet.Part, p cabinet.Params) cabinet.HingeSide {
	switch part.Key {
	case "door-left":
		return cabinet.HingeLeft
	case "door-right":
		return cabinet.HingeRight
	}
	return p.HingeSide
}

func handleNote(h cabinet.Handle) string {
	switch h {
	case cabinet.HandleBar:
		return "bar handle"
	case cabinet.HandleKnob:
		return "round knob"
	case cabinet.HandleDPull:
		return "D-pull handle"
	case cabinet.HandleRecessed:
		return "routed finger pull"
	}
	return ""
}
