package draw

import "github.com/paulmach/orb"

type dragKind int

const (
	dragNone dragKind = iota
	dragFeature
	dragHandle
)

// dragState is the per-mode record of one gesture. Every move is applied to
// the snapshot taken on press using the total offset from the press point,
// so intermediate moves never accumulate error.
type dragState struct {
	kind      dragKind
	featureID ID
	index     int
	origin    orb.Point
	snapshot  []orb.Point
}

func (d *dragState) active() bool { return d.kind != dragNone }

func (d *dragState) start(kind dragKind, f Feature, index int, origin orb.Point) {
	d.kind = kind
	d.featureID = f.ID
	d.index = index
	d.origin = origin
	d.snapshot = append([]orb.Point(nil), f.Properties.Handles...)
}

func (d *dragState) delta(at orb.Point) orb.Point {
	return orb.Point{at[0] - d.origin[0], at[1] - d.origin[1]}
}

func (d *dragState) reset() { *d = dragState{} }

// lockCamera turns the camera gestures off for the length of a drag.
func lockCamera(c *Controller, locked bool) {
	c.SetPanGestures(!locked)
	c.SetDoubleClickZoom(!locked)
}
