package cabinet

import (
	"fmt"
	"math"
)

const mmToM = 0.001

const (
	explodeScale      = 0.25
	shelfExplodeScale = 0.2
	minInterior       = 0.05
	maxShelfThickness = 0.03

	handleMargin        = 0.03
	handleEdgeClearance = 0.01

	barMinLength = 0.096
	barMaxLength = 0.32
	barDiameter  = 0.012
	barOffsetZ   = 0.02

	knobSize    = 0.02
	knobOffsetZ = 0.025

	dpullMinLength = 0.096
	dpullMaxLength = 0.192
	dpullThickness = 0.01
	dpullReach     = 0.03

	recessHeight = 0.025
	recessDepth  = 0.008
)

// Generate returns the cabinet parts for p pulled apart by explode (0..1).
// Sizes and positions are in meters with the cabinet standing on y=0,
// centered on x=0 and the doors facing +z. Degenerate inputs produce
// degenerate extents rather than errors.
func Generate(p Params, explode float64) []Part {
	explode = ClampExplode(explode)

	w := p.Width * mmToM
	h := p.Height * mmToM
	d := p.Depth * mmToM
	t := p.Thickness * mmToM
	b := p.BackThickness * mmToM
	gap := p.Gap * mmToM
	doorT := p.DoorThickness * mmToM

	centerY := h / 2
	mag := explode * math.Max(w, math.Max(h, d)) * explodeScale

	shelfQty := max(p.ShelfCount, 0)
	parts := make([]Part, 0, 5+shelfQty+4)

	parts = append(parts,
		box("side-left", KindPanel, Vec3{t, h, d}, Vec3{-(w-t)/2 - mag, centerY, 0}),
		box("side-right", KindPanel, Vec3{t, h, d}, Vec3{(w-t)/2 + mag, centerY, 0}),
		box("bottom", KindPanel, Vec3{w, t, d}, Vec3{0, t/2 - mag, 0}),
		box("top", KindPanel, Vec3{w, t, d}, Vec3{0, h - t/2 + mag, 0}),
		box("back", KindPanel, Vec3{w - 2*t, h - 2*t, b}, Vec3{0, centerY, -(d / 2) - mag + b/2}),
	)

	if shelfQty > 0 {
		interiorW := math.Max(w-2*t, minInterior)
		interiorD := math.Max(d-t, minInterior)
		shelfT := math.Min(t, maxShelfThickness)
		clearH := math.Max(h-2*t, shelfT)

		for i := 0; i < shelfQty; i++ {
			fraction := float64(i+1) / float64(shelfQty+1)
			y := t + fraction*clearH
			nudge := (float64(i) - float64(shelfQty-1)/2) * mag * shelfExplodeScale
			parts = append(parts, box(
				fmt.Sprintf("shelf-%d", i),
				KindShelf,
				Vec3{interiorW, shelfT, interiorD},
				Vec3{0, y + nudge, 0},
			))
		}
	}

	doorH := h - 2*gap
	doorZ := d/2 + doorT/2 + mag

	if p.DoorCount == 1 {
		leaf := doorLeaf{
			key:    "door",
			suffix: "S",
			x:      0,
			y:      centerY,
			z:      doorZ,
			width:  w - 2*gap,
			height: doorH,
			thick:  doorT,
			dir:    hingeOppositeDirection(p.HingeSide),
		}
		parts = append(parts, leaf.part())
		parts = appendHandle(parts, p, leaf)
		return parts
	}

	leafW := (w - 3*gap) / 2
	offsetX := leafW/2 + gap/2
	left := doorLeaf{key: "door-left", suffix: "L", x: -offsetX, y: centerY, z: doorZ, width: leafW, height: doorH, thick: doorT}
	right := doorLeaf{key: "door-right", suffix: "R", x: offsetX, y: centerY, z: doorZ, width: leafW, height: doorH, thick: doorT}
	// paired leaves hinge on the carcass sides
	left.dir = hingeOppositeDirection(HingeLeft)
	right.dir = hingeOppositeDirection(HingeRight)

	parts = append(parts, left.part(), right.part())
	parts = appendHandle(parts, p, left)
	parts = appendHandle(parts, p, right)
	return parts
}

type doorLeaf struct {
	key    string
	suffix string
	x, y   float64
	z      float64
	width  float64
	height float64
	thick  float64
	// dir is +1 when the handle sits toward +x of the leaf center, -1 otherwise.
	dir float64
}

func (l doorLeaf) part() Part {
	return box(l.key, KindDoor, Vec3{l.width, l.height, l.thick}, Vec3{l.x, l.y, l.z})
}

// hingeOppositeDirection places a handle on the edge opposite its leaf's
// hinges. Single doors pass their hinge side; paired leaves are hinged
// LEFT and RIGHT, so their handles sit beside the center gap.
func hingeOppositeDirection(side HingeSide) float64 {
	if side == HingeRight {
		return -1
	}
	return 1
}

func appendHandle(parts []Part, p Params, leaf doorLeaf) []Part {
	if p.Handle == HandleNone {
		return parts
	}

	halfW := math.Max(leaf.width/2, handleEdgeClearance)
	inset := math.Min(handleMargin, math.Max(halfW-handleEdgeClearance, 0))
	offset := math.Max(halfW-inset, handleEdgeClearance)
	x := leaf.x + offset*leaf.dir
	y := leaf.y + handleYOffset(p.HandlePosition, leaf.height)
	orientation := NormalizeOrientation(string(p.HandleOrientation))

	switch p.Handle {
	case HandleKnob:
		return append(parts, Part{
			Key:      "handle-knob-" + leaf.suffix,
			Kind:     KindHandleKnob,
			Size:     Vec3{knobSize, knobSize, knobSize},
			Position: Vec3{x, y, leaf.z + knobOffsetZ},
		})
	case HandleDPull:
		length := clamp(leaf.height*0.25, dpullMinLength, dpullMaxLength)
		return append(parts, Part{
			Key:         "handle-dpull-" + leaf.suffix,
			Kind:        KindHandleBar,
			Size:        Vec3{length, dpullThickness, dpullReach},
			Position:    Vec3{x, y, leaf.z + leaf.thick/2 + dpullReach/2},
			Rotation:    barRotation(orientation),
			Orientation: orientation,
		})
	case HandleRecessed:
		length := clamp(leaf.height*0.35, barMinLength, barMaxLength)
		return append(parts, Part{
			Key:      "handle-recessed-" + leaf.suffix,
			Kind:     KindHandleRecessed,
			Size:     Vec3{length, recessHeight, recessDepth},
			Position: Vec3{x, y, leaf.z + leaf.thick/2 - recessDepth/2},
		})
	default:
		length := clamp(leaf.height*0.35, barMinLength, barMaxLength)
		return append(parts, Part{
			Key:         "handle-bar-" + leaf.suffix,
			Kind:        KindHandleBar,
			Size:        Vec3{length, barDiameter, barDiameter},
			Position:    Vec3{x, y, leaf.z + barOffsetZ},
			Rotation:    barRotation(orientation),
			Orientation: orientation,
		})
	}
}

func barRotation(o HandleOrientation) Vec3 {
	switch o {
	case OrientVertical:
		return Vec3{0, 0, math.Pi / 2}
	case OrientDepth:
		return Vec3{0, math.Pi / 2, 0}
	}
	return Vec3{}
}

func handleYOffset(pos HandlePosition, doorHeight float64) float64 {
	switch pos {
	case HandleTop:
		return doorHeight / 3
	case HandleBottom:
		return -doorHeight / 3
	}
	return 0
}

func box(key string, kind PartKind, size, pos Vec3) Part {
	return Part{Key: key, Kind: kind, Size: size, Position: pos}
}
