package cabinet

import (
	"math"
	"strconv"
	"strings"
)

// Material is a carcass/door material code.
type Material string

const (
	MaterialMelamine  Material = "ML"
	MaterialPainted   Material = "PN"
	MaterialWood      Material = "WD"
	MaterialMatBlack  Material = "MB"
	MaterialStainless Material = "SS"
	MaterialPlywood   Material = "PW"
)

// Materials lists every known material code in display order.
var Materials = []Material{
	MaterialMelamine,
	MaterialPainted,
	MaterialWood,
	MaterialMatBlack,
	MaterialStainless,
	MaterialPlywood,
}

// Handle is a handle style code.
type Handle string

const (
	HandleBar      Handle = "HB"
	HandleKnob     Handle = "KN"
	HandleDPull    Handle = "DP"
	HandleRecessed Handle = "RC"
	HandleNone     Handle = "NL"
)

// Handles lists every known handle code in display order.
var Handles = []Handle{HandleBar, HandleKnob, HandleDPull, HandleRecessed, HandleNone}

type HingeSide string

const (
	HingeLeft  HingeSide = "LEFT"
	HingeRight HingeSide = "RIGHT"
)

type HandlePosition string

const (
	HandleTop    HandlePosition = "top"
	HandleMiddle HandlePosition = "middle"
	HandleBottom HandlePosition = "bottom"
)

type HandleOrientation string

const (
	OrientHorizontal HandleOrientation = "horizontal"
	OrientVertical   HandleOrientation = "vertical"
	OrientDepth      HandleOrientation = "depth"
)

// DefaultPricingPreset is the base domestic pricing region.
const DefaultPricingPreset = "US_STD"

// Params describes one cabinet. Lengths are millimeters.
type Params struct {
	Width             float64           `json:"width"`
	Height            float64           `json:"height"`
	Depth             float64           `json:"depth"`
	Thickness         float64           `json:"thickness"`
	BackThickness     float64           `json:"backThickness"`
	DoorCount         int               `json:"doorCount"`
	Gap               float64           `json:"gap"`
	DoorThickness     float64           `json:"doorThickness"`
	Material          Material          `json:"material"`
	Handle            Handle            `json:"handle"`
	HandlePosition    HandlePosition    `json:"handlePosition"`
	HandleOrientation HandleOrientation `json:"handleOrientation"`
	ShelfCount        int               `json:"shelfCount"`
	HingeSide         HingeSide         `json:"hingeSide"`
	PricingPreset     string            `json:"pricingPreset"`
}

// Defaults returns the starting parameter set of a new design.
func Defaults() Params {
	return Params{
		Width:             600,
		Height:            720,
		Depth:             560,
		Thickness:         18,
		BackThickness:     6,
		DoorCount:         2,
		Gap:               2,
		DoorThickness:     20,
		Material:          MaterialMelamine,
		Handle:            HandleBar,
		HandlePosition:    HandleMiddle,
		HandleOrientation: OrientHorizontal,
		ShelfCount:        0,
		HingeSide:         HingeLeft,
		PricingPreset:     DefaultPricingPreset,
	}
}

// Bound is an inclusive numeric range.
type Bound struct {
	Min float64
	Max float64
}

// Limits are the bounds every numeric field is clamped to.
var Limits = map[string]Bound{
	"width":         {250, 2000},
	"height":        {250, 2600},
	"depth":         {200, 1000},
	"thickness":     {12, 30},
	"backThickness": {3, 10},
	"doorCount":     {1, 2},
	"gap":           {1, 4},
	"doorThickness": {16, 25},
	"shelfCount":    {0, 8},
}

// PresetResolver reports whether a pricing preset id exists.
type PresetResolver func(id string) bool

// Normalize clamps every numeric field into its bounds and maps unknown enum
// values to their defaults. knownPreset may be nil, in which case only
// DefaultPricingPreset is accepted. Normalize is idempotent.
func Normalize(p Params, knownPreset PresetResolver) Params {
	p.Width = clampField("width", p.Width)
	p.Height = clampField("height", p.Height)
	p.Depth = clampField("depth", p.Depth)
	p.Thickness = clampField("thickness", p.Thickness)
	p.BackThickness = clampField("backThickness", p.BackThickness)
	p.Gap = clampField("gap", p.Gap)
	p.DoorThickness = clampField("doorThickness", p.DoorThickness)
	p.DoorCount = int(math.Round(clampField("doorCount", float64(p.DoorCount))))
	p.ShelfCount = int(math.Round(clampField("shelfCount", float64(p.ShelfCount))))

	p.Material = normalizeMaterial(p.Material)
	p.Handle = normalizeHandle(p.Handle)
	if p.HingeSide != HingeRight {
		p.HingeSide = HingeLeft
	}
	p.HandlePosition = normalizeHandlePosition(string(p.HandlePosition))
	p.HandleOrientation = NormalizeOrientation(string(p.HandleOrientation))

	if knownPreset == nil || !knownPreset(p.PricingPreset) {
		if p.PricingPreset != DefaultPricingPreset {
			p.PricingPreset = DefaultPricingPreset
		}
	}
	return p
}

// ClampExplode bounds an explode factor to [0,1]; NaN becomes 0.
func ClampExplode(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return clamp(v, 0, 1)
}

func clampField(name string, v float64) float64 {
	b := Limits[name]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return clamp(v, b.Min, b.Max)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func normalizeMaterial(m Material) Material {
	code := Material(strings.ToUpper(strings.TrimSpace(string(m))))
	for _, known := range Materials {
		if code == known {
			return code
		}
	}
	return MaterialMelamine
}

func normalizeHandle(h Handle) Handle {
	code := Handle(strings.ToUpper(strings.TrimSpace(string(h))))
	for _, known := range Handles {
		if code == known {
			return code
		}
	}
	return HandleBar
}

func normalizeHandlePosition(v string) HandlePosition {
	switch pos := HandlePosition(strings.ToLower(v)); pos {
	case HandleTop, HandleMiddle, HandleBottom:
		return pos
	}
	return HandleMiddle
}

// NormalizeOrientation maps any value onto a known orientation, defaulting
// to horizontal.
func NormalizeOrientation(v string) HandleOrientation {
	switch o := HandleOrientation(strings.ToLower(v)); o {
	case OrientHorizontal, OrientVertical, OrientDepth:
		return o
	}
	return OrientHorizontal
}

// ParseRaw overlays loosely typed values (decoded JSON, form or share-token
// payloads) onto the default parameter set. Numeric fields accept numbers
// and numeric strings; anything else becomes 0 and is left to Normalize.
func ParseRaw(raw map[string]any) Params {
	p := Defaults()
	if raw == nil {
		return p
	}

	num := func(key string, dst *float64) {
		if v, ok := raw[key]; ok {
			*dst = coerceNumber(v)
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := raw[key]; ok {
			f := coerceNumber(v)
			if f > math.MaxInt32 {
				f = math.MaxInt32
			} else if f < math.MinInt32 {
				f = math.MinInt32
			}
			*dst = int(math.Round(f))
		}
	}
	text := func(key string) (string, bool) {
		v, ok := raw[key]
		if !ok {
			return "", false
		}
		s, _ := v.(string)
		return s, true
	}

	num("width", &p.Width)
	num("height", &p.Height)
	num("depth", &p.Depth)
	num("thickness", &p.Thickness)
	num("backThickness", &p.BackThickness)
	num("gap", &p.Gap)
	num("doorThickness", &p.DoorThickness)
	integer("doorCount", &p.DoorCount)
	integer("shelfCount", &p.ShelfCount)

	if s, ok := text("material"); ok {
		p.Material = Material(s)
	}
	if s, ok := text("handle"); ok {
		p.Handle = Handle(s)
	}
	if s, ok := text("handlePosition"); ok {
		p.HandlePosition = HandlePosition(s)
	}
	if s, ok := text("handleOrientation"); ok {
		p.HandleOrientation = HandleOrientation(s)
	}
	if s, ok := text("hingeSide"); ok {
		p.HingeSide = HingeSide(s)
	}
	if s, ok := text("pricingPreset"); ok {
		p.PricingPreset = s
	}
	return p
}

func coerceNumber(v any) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case int32:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint64:
		f = float64(n)
	case interface{ Float64() (float64, error) }:
		parsed, err := n.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
