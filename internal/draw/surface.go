package draw

import "github.com/paulmach/orb"

// Cursor is a cursor token understood by the rendering surface.
type Cursor string

const (
	CursorDefault   Cursor = "default"
	CursorGrab      Cursor = "grab"
	CursorGrabbing  Cursor = "grabbing"
	CursorCrosshair Cursor = "crosshair"
	CursorPointer   Cursor = "pointer"
	CursorWait      Cursor = "wait"
	CursorMove      Cursor = "move"
)

// CursorPolicy maps the surface state to a cursor. Empty entries fall back
// to Default, and an empty Default to CursorDefault.
type CursorPolicy struct {
	Default Cursor
	Hover   Cursor
	Pan     Cursor
}

// Resolve picks the cursor for the given surface state.
func (p CursorPolicy) Resolve(hovering, panning bool) Cursor {
	def := p.Default
	if def == "" {
		def = CursorDefault
	}
	switch {
	case panning && p.Pan != "":
		return p.Pan
	case panning:
		return def
	case hovering && p.Hover != "":
		return p.Hover
	}
	return def
}

// Fixed returns a policy that shows c in every state.
func Fixed(c Cursor) CursorPolicy { return CursorPolicy{Default: c, Hover: c, Pan: c} }

// Surface is the rendering and camera collaborator the controller drives.
type Surface interface {
	// Pick returns the topmost feature within radius pixels of (x, y) among
	// the given layers, all layers when layerIDs is empty.
	Pick(x, y, radius float64, layerIDs []string) (ID, bool)
	Project(p orb.Point) (x, y float64)
	Unproject(x, y float64) orb.Point
	SetPanGestures(enabled bool)
	SetDoubleClickZoom(enabled bool)
	SetCursor(policy CursorPolicy)
}

// EventType is the kind of a pointer or camera event.
type EventType int

const (
	EventDown EventType = iota
	EventMove
	EventUp
	EventClick
	EventDoubleClick
	EventPanStart
	EventPanning
	EventPanEnd
	// EventLoad is sent once when the surface is ready to render.
	EventLoad
)

var eventNames = [...]string{"down", "move", "up", "click", "dblclick", "panstart", "panning", "panend", "load"}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// PointerEvent is a raw event from the surface.
type PointerEvent struct {
	Type   EventType
	X, Y   float64
	LngLat orb.Point
}

// EventSource delivers surface events to one listener, serialized.
type EventSource interface {
	Listen(fn func(PointerEvent)) (stop func())
}

// Info is the normalized event handed to modes.
type Info struct {
	X, Y   float64
	LngLat orb.Point
	// Feature is the picked feature, nil when nothing was hit.
	Feature *Feature
}
