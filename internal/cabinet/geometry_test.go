package cabinet

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioParams() Params {
	p := Defaults()
	p.Width = 900
	p.Height = 780
	p.Depth = 560
	p.Thickness = 18
	p.DoorCount = 2
	p.ShelfCount = 2
	p.Handle = HandleBar
	return p
}

func partsOfKind(parts []Part, kind PartKind) []Part {
	var out []Part
	for _, p := range parts {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}

func TestGenerate_DoubleDoorScenario(t *testing.T) {
	t.Parallel()

	parts := Generate(scenarioParams(), 0)

	doors := partsOfKind(parts, KindDoor)
	require.Len(t, doors, 2)
	handles := partsOfKind(parts, KindHandleBar)
	require.Len(t, handles, 2)
	shelves := partsOfKind(parts, KindShelf)
	require.Len(t, shelves, 2)
	assert.Less(t, shelves[0].Position.Y, shelves[1].Position.Y)

	left, ok := FindPart(parts, "door-left")
	require.True(t, ok)
	right, ok := FindPart(parts, "door-right")
	require.True(t, ok)

	assert.Less(t, left.Position.X, 0.0)
	assert.Greater(t, right.Position.X, 0.0)
	assert.InDelta(t, math.Abs(left.Position.X), right.Position.X, 1e-12)
	assert.InDelta(t, left.Position.Y, right.Position.Y, 1e-12)
	assert.InDelta(t, left.Position.Z, right.Position.Z, 1e-12)

	leftHandle, ok := FindPart(parts, "handle-bar-L")
	require.True(t, ok)
	rightHandle, ok := FindPart(parts, "handle-bar-R")
	require.True(t, ok)
	assert.Less(t, leftHandle.Position.X, 0.0)
	assert.Greater(t, rightHandle.Position.X, 0.0)
	assert.InDelta(t, -leftHandle.Position.X, rightHandle.Position.X, 1e-12)
	assert.InDelta(t, leftHandle.Position.Y, rightHandle.Position.Y, 1e-12)
	assert.InDelta(t, leftHandle.Position.Z, rightHandle.Position.Z, 1e-12)
	assert.Greater(t, leftHandle.Position.Z, left.Position.Z)

	// leaves hinge outward, so handles sit near the center gap
	assert.Greater(t, leftHandle.Position.X, left.Position.X)
	assert.Less(t, rightHandle.Position.X, right.Position.X)
}

func TestGenerate_Ordering(t *testing.T) {
	t.Parallel()

	parts := Generate(scenarioParams(), 0)
	keys := make([]string, len(parts))
	for i, p := range parts {
		keys[i] = p.Key
	}

	assert.Equal(t, []string{
		"side-left", "side-right", "bottom", "top", "back",
		"shelf-0", "shelf-1",
		"door-left", "door-right", "handle-bar-L", "handle-bar-R",
	}, keys)
}

func TestGenerate_KeysStableAcrossExplode(t *testing.T) {
	t.Parallel()

	p := scenarioParams()
	base := Generate(p, 0)
	exploded := Generate(p, 0.7)
	require.Len(t, exploded, len(base))

	seen := map[string]bool{}
	for i := range base {
		assert.Equal(t, base[i].Key, exploded[i].Key)
		assert.False(t, seen[base[i].Key], "duplicate key %s", base[i].Key)
		seen[base[i].Key] = true
	}
}

func TestGenerate_PartCount(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		doors   int
		shelves int
		handle  Handle
		want    int
	}{
		{"single no handle", 1, 0, HandleNone, 6},
		{"single knob", 1, 3, HandleKnob, 10},
		{"double bar", 2, 0, HandleBar, 9},
		{"double none", 2, 8, HandleNone, 15},
		{"double recessed", 2, 1, HandleRecessed, 10},
		{"double dpull", 2, 2, HandleDPull, 11},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Defaults()
			p.DoorCount = tc.doors
			p.ShelfCount = tc.shelves
			p.Handle = tc.handle
			assert.Len(t, Generate(p, 0), tc.want)
		})
	}
}

func TestGenerate_ExplodeMonotonic(t *testing.T) {
	t.Parallel()

	p := scenarioParams()
	prevSide, prevTop, prevBottom := -1.0, -1.0, math.Inf(1)
	for _, f := range []float64{0, 0.25, 0.5, 0.75, 1} {
		parts := Generate(p, f)
		side, _ := FindPart(parts, "side-left")
		top, _ := FindPart(parts, "top")
		bottom, _ := FindPart(parts, "bottom")

		assert.Greater(t, math.Abs(side.Position.X), prevSide)
		assert.Greater(t, top.Position.Y, prevTop)
		assert.Less(t, bottom.Position.Y, prevBottom)

		prevSide = math.Abs(side.Position.X)
		prevTop = top.Position.Y
		prevBottom = bottom.Position.Y
	}
}

func TestGenerate_ExplodeSeparatesShelves(t *testing.T) {
	t.Parallel()

	p := scenarioParams()
	p.ShelfCount = 3
	base := partsOfKind(Generate(p, 0), KindShelf)
	exploded := partsOfKind(Generate(p, 1), KindShelf)

	assert.Less(t, exploded[0].Position.Y, base[0].Position.Y)
	assert.InDelta(t, base[1].Position.Y, exploded[1].Position.Y, 1e-12)
	assert.Greater(t, exploded[2].Position.Y, base[2].Position.Y)
}

func TestGenerate_SingleDoorHandleOppositeHinge(t *testing.T) {
	t.Parallel()

	p := Defaults()
	p.DoorCount = 1
	p.Handle = HandleKnob

	p.HingeSide = HingeLeft
	knob, ok := FindPart(Generate(p, 0), "handle-knob-S")
	require.True(t, ok)
	assert.Greater(t, knob.Position.X, 0.0)

	p.HingeSide = HingeRight
	knob, ok = FindPart(Generate(p, 0), "handle-knob-S")
	require.True(t, ok)
	assert.Less(t, knob.Position.X, 0.0)
}

func TestGenerate_SingleDoorSpansWidthMinusGaps(t *testing.T) {
	t.Parallel()

	p := Defaults()
	p.DoorCount = 1
	door, ok := FindPart(Generate(p, 0), "door")
	require.True(t, ok)

	assert.InDelta(t, (p.Width-2*p.Gap)/1000, door.Size.X, 1e-12)
	assert.InDelta(t, (p.Height-2*p.Gap)/1000, door.Size.Y, 1e-12)
	assert.InDelta(t, p.Depth/2000+p.DoorThickness/2000, door.Position.Z, 1e-12)
}

func TestGenerate_HandleVerticalPlacement(t *testing.T) {
	t.Parallel()

	p := Defaults()
	p.DoorCount = 1
	doorH := (p.Height - 2*p.Gap) / 1000

	for pos, want := range map[HandlePosition]float64{
		HandleTop:    doorH / 3,
		HandleMiddle: 0,
		HandleBottom: -doorH / 3,
	} {
		p.HandlePosition = pos
		parts := Generate(p, 0)
		door, _ := FindPart(parts, "door")
		bar, ok := FindPart(parts, "handle-bar-S")
		require.True(t, ok)
		assert.InDelta(t, want, bar.Position.Y-door.Position.Y, 1e-12, string(pos))
	}
}

func TestGenerate_BarOrientation(t *testing.T) {
	t.Parallel()

	p := Defaults()
	p.HandleOrientation = OrientVertical
	bar, _ := FindPart(Generate(p, 0), "handle-bar-L")
	assert.Equal(t, OrientVertical, bar.Orientation)
	assert.InDelta(t, math.Pi/2, bar.Rotation.Z, 1e-12)

	p.HandleOrientation = OrientDepth
	bar, _ = FindPart(Generate(p, 0), "handle-bar-L")
	assert.InDelta(t, math.Pi/2, bar.Rotation.Y, 1e-12)

	p.Handle = HandleKnob
	knob, _ := FindPart(Generate(p, 0), "handle-knob-L")
	assert.Equal(t, Vec3{}, knob.Rotation)
	assert.Empty(t, knob.Orientation)
}

func TestGenerate_BarLengthClamped(t *testing.T) {
	t.Parallel()

	p := Defaults()
	p.Height = 250
	bar, _ := FindPart(Generate(p, 0), "handle-bar-L")
	assert.InDelta(t, 0.096, bar.Size.X, 1e-12)

	p.Height = 2600
	bar, _ = FindPart(Generate(p, 0), "handle-bar-L")
	assert.InDelta(t, 0.32, bar.Size.X, 1e-12)
}

func TestGenerate_DegenerateDoesNotPanic(t *testing.T) {
	t.Parallel()

	p := Params{Width: 10, Height: 10, Depth: 10, Thickness: 30, BackThickness: 10, DoorCount: 2, Gap: 4, DoorThickness: 16, ShelfCount: 8, Handle: HandleBar}
	var parts []Part
	require.NotPanics(t, func() { parts = Generate(p, 1) })

	back, ok := FindPart(parts, "back")
	require.True(t, ok)
	assert.Less(t, back.Size.X, 0.0)
}

func TestGroupByKind_CoversEveryKind(t *testing.T) {
	t.Parallel()

	for _, k := range PartKinds {
		assert.NotPanics(t, func() { _ = k.Group() }, k.String())
		assert.False(t, strings.HasPrefix(k.String(), "PartKind("))
	}

	p := scenarioParams()
	groups := GroupByKind(Generate(p, 0))
	assert.Len(t, groups[GroupCarcass], 5)
	assert.Len(t, groups[GroupInterior], 2)
	assert.Len(t, groups[GroupFront], 2)
	assert.Len(t, groups[GroupHardware], 2)
}

func TestPartKind_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	b, err := KindHandleRecessed.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"handle-recessed"`, string(b))

	var k PartKind
	require.NoError(t, k.UnmarshalJSON(b))
	assert.Equal(t, KindHandleRecessed, k)
	assert.Error(t, k.UnmarshalJSON([]byte(`"drawer"`)))
}
