package draw

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"
)

var (
	// ErrModeNotFound is returned for an unregistered mode name.
	ErrModeNotFound = errors.New("draw: mode not found")
	// ErrModeName is returned when registering a mode without a name.
	ErrModeName = errors.New("draw: mode name required")
	// ErrActiveMode is returned when unregistering the active mode.
	ErrActiveMode = errors.New("draw: mode is active")
)

// DefaultPickRadius is the hit-test radius in pixels.
const DefaultPickRadius = 5

// Config configures a Controller.
type Config struct {
	// InitialMode is entered on construction; "" means ModeStatic.
	InitialMode string
	Features    []Feature
	// Generators and Editors override or extend the built-ins by name.
	Generators map[string]Generator
	Editors    map[string]Editor
	// Modes are registered after the built-ins and may replace them.
	Modes map[string]Mode
	// LayerIDs restricts picking; empty means every layer.
	LayerIDs   []string
	PickRadius float64
	// CircleSteps sets the resolution of circles drawn by ModeCircle.
	CircleSteps int
	// WarmUp adds one feature of each geometry type when the surface reports
	// EventLoad and removes them on EndWarmUp or the next event.
	WarmUp bool
	Logger logrus.FieldLogger
	NewID  func() ID
}

// Controller owns the store and the active mode and turns surface events
// into mode calls.
type Controller struct {
	surface Surface
	store   *Store
	editors map[string]Editor
	log     logrus.FieldLogger

	modes    map[string]Mode
	mode     Mode
	modeName string

	layerIDs   []string
	pickRadius float64
	warmUp     bool
	warmIDs    []ID
	panning    bool
	cursor     CursorPolicy
	stop       func()

	modeChange  Topic[ModeEvent]
	modeOptions Topic[ModeEvent]
}

// New builds a controller on surface, binds it to source when non-nil, and
// enters the initial mode.
func New(surface Surface, source EventSource, cfg Config) (*Controller, error) {
	log := cfg.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	c := &Controller{
		surface:    surface,
		editors:    mergeEditors(cfg.Editors),
		log:        log,
		modes:      map[string]Mode{},
		layerIDs:   slices.Clone(cfg.LayerIDs),
		pickRadius: cfg.PickRadius,
		warmUp:     cfg.WarmUp,
	}
	if c.pickRadius <= 0 {
		c.pickRadius = DefaultPickRadius
	}
	c.store = NewStore(StoreOptions{
		Features:   cfg.Features,
		Generators: cfg.Generators,
		Logger:     log,
		NewID:      cfg.NewID,
	})

	for name, m := range builtinModes(cfg) {
		c.modes[name] = m
	}
	for name, m := range cfg.Modes {
		if err := c.RegisterMode(name, m); err != nil {
			return nil, err
		}
	}

	initial := cfg.InitialMode
	if initial == "" {
		initial = ModeStatic
	}
	if _, err := c.ChangeMode(initial, ModeOptions{}); err != nil {
		return nil, err
	}
	if source != nil {
		c.stop = source.Listen(c.Dispatch)
	}
	return c, nil
}

func builtinModes(cfg Config) map[string]Mode {
	circle := NewDrawCircleMode()
	circle.options.Steps = cfg.CircleSteps
	return map[string]Mode{
		ModeStatic:    &StaticMode{},
		ModeSelect:    &SelectMode{},
		ModeEdit:      &EditMode{},
		ModePoint:     &DrawPointMode{},
		ModeLine:      NewDrawLineMode(),
		ModePolygon:   NewDrawPolygonMode(),
		ModeCircle:    circle,
		ModeRectangle: NewDrawRectangleMode(),
	}
}

// Close unbinds the controller from its event source.
func (c *Controller) Close() {
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
}

// Store returns the feature store.
func (c *Controller) Store() *Store { return c.store }

// Features returns a snapshot of every feature.
func (c *Controller) Features() []Feature { return c.store.Features() }

// Subscribe registers fn for every store change.
func (c *Controller) Subscribe(fn func(ChangeEvent)) (unsubscribe func()) {
	return c.store.Events().Change.Subscribe(fn)
}

// OnModeChange registers fn for mode transitions.
func (c *Controller) OnModeChange(fn func(ModeEvent)) (unsubscribe func()) {
	return c.modeChange.Subscribe(fn)
}

// OnModeOptions registers fn for SetModeOptions calls.
func (c *Controller) OnModeOptions(fn func(ModeEvent)) (unsubscribe func()) {
	return c.modeOptions.Subscribe(fn)
}

// RegisterMode adds or replaces a mode.
func (c *Controller) RegisterMode(name string, m Mode) error {
	if name == "" {
		return ErrModeName
	}
	if m == nil {
		return fmt.Errorf("draw: nil mode %q", name)
	}
	c.modes[name] = m
	return nil
}

// UnregisterMode removes a mode. The active mode can't be removed.
func (c *Controller) UnregisterMode(name string) error {
	if _, ok := c.modes[name]; !ok {
		return fmt.Errorf("%w: %q", ErrModeNotFound, name)
	}
	if name == c.modeName {
		return fmt.Errorf("%w: %q", ErrActiveMode, name)
	}
	delete(c.modes, name)
	return nil
}

// RegisteredModes returns the registered mode names, sorted.
func (c *Controller) RegisteredModes() []string {
	names := make([]string, 0, len(c.modes))
	for name := range c.modes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Mode returns the active mode and its name.
func (c *Controller) Mode() (string, Mode) { return c.modeName, c.mode }

// ChangeMode exits the active mode, resets gestures and cursor, applies opts
// to the named mode and enters it. An unknown name leaves the active mode
// untouched.
func (c *Controller) ChangeMode(name string, opts ModeOptions) (Mode, error) {
	next, ok := c.modes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrModeNotFound, name)
	}
	prev := c.modeName
	if c.mode != nil {
		c.mode.Exit(c)
	}
	c.reset()
	c.mode, c.modeName = next, name
	if cm, ok := next.(Configurable); ok && !opts.empty() {
		cm.Configure(opts)
	}
	next.Enter(c)

	c.log.WithFields(logrus.Fields{"from": prev, "mode": name}).Debug("mode changed")
	c.modeChange.publish(func() ModeEvent { return ModeEvent{Name: name, Mode: next, Options: opts} })
	return next, nil
}

// SetModeOptions applies opts to a registered mode without entering it.
func (c *Controller) SetModeOptions(name string, opts ModeOptions) error {
	m, ok := c.modes[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrModeNotFound, name)
	}
	if cm, ok := m.(Configurable); ok {
		cm.Configure(opts)
	}
	c.modeOptions.publish(func() ModeEvent { return ModeEvent{Name: name, Mode: m, Options: opts} })
	return nil
}

func (c *Controller) reset() {
	c.SetPanGestures(true)
	c.SetDoubleClickZoom(true)
	c.SetCursor(Fixed(CursorDefault))
}

// SetCursor installs a cursor policy on the surface.
func (c *Controller) SetCursor(p CursorPolicy) {
	c.cursor = p
	c.surface.SetCursor(p)
}

// Cursor returns the cursor for the current panning state.
func (c *Controller) Cursor(hovering bool) Cursor { return c.cursor.Resolve(hovering, c.panning) }

// Panning reports whether the camera is being panned.
func (c *Controller) Panning() bool { return c.panning }

// SetPanGestures toggles the camera's native pan and rotate gestures.
func (c *Controller) SetPanGestures(enabled bool) { c.surface.SetPanGestures(enabled) }

// SetDoubleClickZoom toggles the camera's double-click zoom.
func (c *Controller) SetDoubleClickZoom(enabled bool) { c.surface.SetDoubleClickZoom(enabled) }

// Project converts a geographic coordinate to screen pixels.
func (c *Controller) Project(p orb.Point) (x, y float64) { return c.surface.Project(p) }

// Unproject converts screen pixels to a geographic coordinate.
func (c *Controller) Unproject(x, y float64) orb.Point { return c.surface.Unproject(x, y) }

// Generate runs a generator from the store's registry.
func (c *Controller) Generate(name string, vertices []orb.Point, opts GenerateOptions) *Feature {
	return c.store.GenerateFeature(name, vertices, opts)
}

// Editor resolves the handle editor for f.
func (c *Controller) Editor(f Feature) Editor { return editorFor(c.editors, f) }

// Dispatch routes one surface event to the active mode.
func (c *Controller) Dispatch(ev PointerEvent) {
	if ev.Type != EventLoad {
		c.EndWarmUp()
	}
	switch ev.Type {
	case EventLoad:
		if c.warmUp {
			c.WarmUp()
		}
		return
	case EventPanStart:
		c.panning = true
		return
	case EventPanEnd:
		c.panning = false
		return
	case EventPanning:
		return
	}

	info := c.buildInfo(ev)
	switch ev.Type {
	case EventDown:
		if h, ok := c.mode.(MouseDownHandler); ok {
			h.OnMouseDown(c, info)
		}
	case EventMove:
		if h, ok := c.mode.(MouseMoveHandler); ok {
			h.OnMouseMove(c, info)
		}
	case EventUp:
		if h, ok := c.mode.(MouseUpHandler); ok {
			h.OnMouseUp(c, info)
		}
	case EventClick:
		if h, ok := c.mode.(ClickHandler); ok {
			h.OnClick(c, info)
		}
	case EventDoubleClick:
		if h, ok := c.mode.(DoubleClickHandler); ok {
			h.OnDoubleClick(c, info)
		}
	}
}

func (c *Controller) buildInfo(ev PointerEvent) Info {
	info := Info{X: ev.X, Y: ev.Y, LngLat: ev.LngLat}
	if id, ok := c.surface.Pick(ev.X, ev.Y, c.pickRadius, c.layerIDs); ok {
		if f, ok := c.store.Feature(id); ok {
			info.Feature = &f
		}
	}
	return info
}

// WarmUp adds one feature of each geometry type so the surface allocates
// its buffers before the first real interaction. The features stay until
// EndWarmUp, giving the surface a frame to draw them.
func (c *Controller) WarmUp() {
	c.EndWarmUp()
	tmp := []Feature{
		{Geometry: orb.Point{0, 0}},
		{Geometry: orb.LineString{{0, 0}, {1, 1}}},
		{Geometry: orb.Polygon{{{0, 0}, {0, 1}, {1, 1}, {0, 0}}}},
	}
	ids, err := c.store.AddFeatures(tmp...)
	if err != nil {
		c.log.WithError(err).Warn("warm-up")
	}
	c.warmIDs = ids
}

// WarmingUp reports whether warm-up features are still in the store.
func (c *Controller) WarmingUp() bool { return len(c.warmIDs) > 0 }

// EndWarmUp removes the features added by WarmUp.
func (c *Controller) EndWarmUp() {
	if len(c.warmIDs) == 0 {
		return
	}
	c.store.RemoveFeatures(c.warmIDs...)
	c.warmIDs = nil
	c.log.Debug("warm-up done")
}
