package draw

// Built-in mode names.
const (
	ModeStatic    = "static"
	ModeSelect    = "select"
	ModeEdit      = "edit"
	ModePoint     = "draw-point"
	ModeLine      = "draw-line"
	ModePolygon   = "draw-polygon"
	ModeCircle    = "draw-circle"
	ModeRectangle = "draw-rectangle"
)

// Mode is an interaction state. Enter installs the mode's cursor and
// selection; Exit must leave no drag in progress and no handles it owns.
// Event handling is opt-in through the handler interfaces below.
type Mode interface {
	Enter(c *Controller)
	Exit(c *Controller)
}

// ClickHandler receives clicks that were not part of a pan.
type ClickHandler interface {
	OnClick(c *Controller, info Info)
}

// DoubleClickHandler receives double clicks.
type DoubleClickHandler interface {
	OnDoubleClick(c *Controller, info Info)
}

// MouseDownHandler receives button presses.
type MouseDownHandler interface {
	OnMouseDown(c *Controller, info Info)
}

// MouseMoveHandler receives pointer motion, with or without a button held,
// while the camera is not panning.
type MouseMoveHandler interface {
	OnMouseMove(c *Controller, info Info)
}

// MouseUpHandler receives button releases.
type MouseUpHandler interface {
	OnMouseUp(c *Controller, info Info)
}

// Configurable modes accept option overrides on ChangeMode and
// SetModeOptions.
type Configurable interface {
	Configure(opts ModeOptions)
}

// ModeOptions are per-transition overrides. Zero fields are left as they are.
type ModeOptions struct {
	// SelectedID is selected when the mode is entered.
	SelectedID ID
	// DragWithoutSelect lets a press on any feature start a drag.
	DragWithoutSelect *bool
}

func (o ModeOptions) empty() bool {
	return o.SelectedID == "" && o.DragWithoutSelect == nil
}
