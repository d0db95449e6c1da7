package cabinet

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Vec3 is a 3D vector in meters (or radians for rotations).
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// PartKind is the closed set of part classes the generator emits.
type PartKind int

const (
	KindPanel PartKind = iota
	KindDoor
	KindShelf
	KindHandleBar
	KindHandleKnob
	KindHandleRecessed
)

// PartKinds lists every kind in declaration order.
var PartKinds = []PartKind{KindPanel, KindDoor, KindShelf, KindHandleBar, KindHandleKnob, KindHandleRecessed}

func (k PartKind) String() string {
	switch k {
	case KindPanel:
		return "panel"
	case KindDoor:
		return "door"
	case KindShelf:
		return "shelf"
	case KindHandleBar:
		return "handle-bar"
	case KindHandleKnob:
		return "handle-knob"
	case KindHandleRecessed:
		return "handle-recessed"
	}
	return fmt.Sprintf("PartKind(%d)", int(k))
}

// IsHandle reports whether the kind is any handle style.
func (k PartKind) IsHandle() bool {
	switch k {
	case KindHandleBar, KindHandleKnob, KindHandleRecessed:
		return true
	case KindPanel, KindDoor, KindShelf:
		return false
	}
	return false
}

func (k PartKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *PartKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for _, kind := range PartKinds {
		if kind.String() == strings.ToLower(s) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown part kind %q", s)
}

// RenderGroup is the material/rendering bucket a part belongs to.
type RenderGroup string

const (
	GroupCarcass  RenderGroup = "carcass"
	GroupFront    RenderGroup = "front"
	GroupInterior RenderGroup = "interior"
	GroupHardware RenderGroup = "hardware"
)

// Group maps each kind onto its render group. Every PartKind must have a case.
func (k PartKind) Group() RenderGroup {
	switch k {
	case KindPanel:
		return GroupCarcass
	case KindDoor:
		return GroupFront
	case KindShelf:
		return GroupInterior
	case KindHandleBar, KindHandleKnob, KindHandleRecessed:
		return GroupHardware
	}
	panic(fmt.Sprintf("cabinet: no render group for %s", k))
}

// Part is one box-shaped piece of the cabinet.
type Part struct {
	Key         string            `json:"key"`
	Kind        PartKind          `json:"kind"`
	Size        Vec3              `json:"size"`
	Position    Vec3              `json:"position"`
	Rotation    Vec3              `json:"rotation"`
	Orientation HandleOrientation `json:"orientation,omitempty"`
}

// GroupByKind buckets parts by render group, preserving input order.
func GroupByKind(parts []Part) map[RenderGroup][]Part {
	out := make(map[RenderGroup][]Part, 4)
	for _, p := range parts {
		g := p.Kind.Group()
		out[g] = append(out[g], p)
	}
	return out
}

// FindPart returns the part with the given key.
func FindPart(parts []Part, key string) (Part, bool) {
	for _, p := range parts {
		if p.Key == key {
			return p, true
		}
	}
	return Part{}, false
}
