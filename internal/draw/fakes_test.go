package draw

import (
	"fmt"
	"testing"

	"github.com/paulmach/orb"
)

// fakeSurface treats screen pixels as lon/lat and returns whatever hit was
// scripted for the next pick.
type fakeSurface struct {
	hit          ID
	pan          bool
	dblZoom      bool
	cursor       CursorPolicy
	picks        int
	lastLayerIDs []string
}

func (s *fakeSurface) Pick(x, y, radius float64, layerIDs []string) (ID, bool) {
	s.picks++
	s.lastLayerIDs = layerIDs
	return s.hit, s.hit != ""
}

func (s *fakeSurface) Project(p orb.Point) (float64, float64) { return p[0], p[1] }
func (s *fakeSurface) Unproject(x, y float64) orb.Point       { return orb.Point{x, y} }
func (s *fakeSurface) SetPanGestures(enabled bool)            { s.pan = enabled }
func (s *fakeSurface) SetDoubleClickZoom(enabled bool)        { s.dblZoom = enabled }
func (s *fakeSurface) SetCursor(p CursorPolicy)               { s.cursor = p }

type fakeSource struct {
	fn func(PointerEvent)
}

func (s *fakeSource) Listen(fn func(PointerEvent)) func() {
	s.fn = fn
	return func() { s.fn = nil }
}

func (s *fakeSource) emit(ev PointerEvent) {
	if s.fn != nil {
		s.fn(ev)
	}
}

func sequentialIDs() func() ID {
	n := 0
	return func() ID {
		n++
		return ID(fmt.Sprintf("f%d", n))
	}
}

type harness struct {
	t       *testing.T
	c       *Controller
	surface *fakeSurface
	source  *fakeSource
}

func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()
	if cfg.NewID == nil {
		cfg.NewID = sequentialIDs()
	}
	h := &harness{t: t, surface: &fakeSurface{}, source: &fakeSource{}}
	c, err := New(h.surface, h.source, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	h.c = c
	return h
}

func (h *harness) mode(name string, opts ModeOptions) {
	h.t.Helper()
	if _, err := h.c.ChangeMode(name, opts); err != nil {
		h.t.Fatalf("ChangeMode(%q): %v", name, err)
	}
}

// send dispatches an event at lon/lat p with hit as the pick result.
func (h *harness) send(typ EventType, p orb.Point, hit ID) {
	h.surface.hit = hit
	h.source.emit(PointerEvent{Type: typ, X: p[0], Y: p[1], LngLat: p})
}

func (h *harness) click(p orb.Point, hit ID) { h.send(EventClick, p, hit) }

func (h *harness) drag(hit ID, path ...orb.Point) {
	h.send(EventDown, path[0], hit)
	for _, p := range path[1:] {
		h.send(EventMove, p, hit)
	}
	h.send(EventUp, path[len(path)-1], hit)
}

func (h *harness) feature(id ID) Feature {
	h.t.Helper()
	f, ok := h.c.Store().Feature(id)
	if !ok {
		h.t.Fatalf("feature %q not found", id)
	}
	return f
}

// handle returns the id of featureID's vertex handle (or midpoint) at index.
func (h *harness) handle(featureID ID, index int, midpoint bool) ID {
	h.t.Helper()
	for _, hf := range h.c.Store().Handles(featureID) {
		if hf.Properties.Index == index && hf.Properties.Midpoint == midpoint {
			return hf.ID
		}
	}
	h.t.Fatalf("no handle %d (midpoint %v) for %q", index, midpoint, featureID)
	return ""
}

// shapes returns every non-handle feature.
func (h *harness) shapes() []Feature {
	var out []Feature
	for _, f := range h.c.Features() {
		if !f.IsHandle() {
			out = append(out, f)
		}
	}
	return out
}
