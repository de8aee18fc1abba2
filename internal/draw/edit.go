package draw

import (
	"slices"

	"github.com/paulmach/orb"
)

// EditMode shows vertex and midpoint handles for the selected feature and
// edits its vertices through the feature's handle editor.
type EditMode struct {
	pending  ID
	selected ID
	drag     dragState
}

func (m *EditMode) Configure(opts ModeOptions) {
	if opts.SelectedID != "" {
		m.pending = opts.SelectedID
	}
}

// Enter starts editing the SelectedID feature, or the first selected one.
func (m *EditMode) Enter(c *Controller) {
	c.SetCursor(CursorPolicy{Default: CursorDefault, Hover: CursorMove, Pan: CursorGrabbing})
	id := m.pending
	m.pending = ""
	if id == "" {
		if sel := c.store.SelectedIDs(); len(sel) > 0 {
			id = sel[0]
		}
	}
	if id != "" {
		m.selectFeature(c, id)
	}
}

// Exit drops any drag in progress and the edit handles.
func (m *EditMode) Exit(c *Controller) {
	if m.drag.active() {
		lockCamera(c, false)
	}
	m.drag.reset()
	if m.selected != "" {
		c.store.ClearHandles(m.selected)
	}
	c.store.ClearSelection()
	m.selected = ""
}

// Selected returns the feature being edited, or "".
func (m *EditMode) Selected() ID { return m.selected }

func (m *EditMode) selectFeature(c *Controller, id ID) {
	if _, ok := c.store.Feature(id); !ok {
		return
	}
	c.store.SetSelected(id)
	m.selected = id
	c.store.RefreshHandles(id)
}

func (m *EditMode) deselect(c *Controller) {
	m.drag.reset()
	c.store.ClearSelection()
	m.selected = ""
}

func (m *EditMode) ownsHandle(f *Feature) bool {
	return f != nil && f.IsHandle() && m.selected != "" && f.Properties.Parent == m.selected
}

func (m *EditMode) OnClick(c *Controller, info Info) {
	f := info.Feature
	switch {
	case f == nil:
		m.deselect(c)
	case m.ownsHandle(f):
		if f.Properties.Midpoint {
			m.insertVertex(c, *f)
		}
	case f.IsHandle():
		// handle of a feature that is no longer edited
	case f.ID == m.selected:
	default:
		m.selectFeature(c, f.ID)
	}
}

func (m *EditMode) OnMouseDown(c *Controller, info Info) {
	f := info.Feature
	switch {
	case f == nil:
		return
	case m.ownsHandle(f) && f.Properties.Midpoint:
		index, ok := m.insertVertex(c, *f)
		if !ok {
			return
		}
		m.startHandleDrag(c, index, info.LngLat)
	case m.ownsHandle(f):
		m.startHandleDrag(c, f.Properties.Index, info.LngLat)
	case f.ID == m.selected:
		m.drag.start(dragFeature, *f, -1, info.LngLat)
		lockCamera(c, true)
	}
}

func (m *EditMode) startHandleDrag(c *Controller, index int, at orb.Point) {
	f, ok := c.store.Feature(m.selected)
	if !ok || index < 0 || index >= len(f.Properties.Handles) {
		return
	}
	m.drag.start(dragHandle, f, index, at)
	lockCamera(c, true)
}

func (m *EditMode) OnMouseMove(c *Controller, info Info) {
	if !m.drag.active() {
		return
	}
	f, ok := c.store.Feature(m.drag.featureID)
	if !ok {
		m.drag.reset()
		lockCamera(c, false)
		return
	}
	delta := m.drag.delta(info.LngLat)
	var handles []orb.Point
	if m.drag.kind == dragFeature {
		handles = translate(m.drag.snapshot, delta)
	} else {
		handles = c.Editor(f)(EditContext{
			Feature:     f,
			Handles:     m.drag.snapshot,
			HandleIndex: m.drag.index,
			Delta:       delta,
		})
	}
	c.store.Regenerate(f.ID, handles, Patch{})
}

func (m *EditMode) OnMouseUp(c *Controller, info Info) {
	if !m.drag.active() {
		return
	}
	m.drag.reset()
	lockCamera(c, false)
}

// insertVertex adds a vertex at the midpoint handle's position and returns
// its index in the new vertex list.
func (m *EditMode) insertVertex(c *Controller, mid Feature) (int, bool) {
	f, ok := c.store.Feature(mid.Properties.Parent)
	if !ok {
		return 0, false
	}
	pos, ok := mid.Geometry.(orb.Point)
	if !ok {
		return 0, false
	}
	index := mid.Properties.InsertIndex + 1
	if index > len(f.Properties.Handles) {
		return 0, false
	}
	handles := slices.Insert(slices.Clone(f.Properties.Handles), index, pos)
	if !c.store.Regenerate(f.ID, handles, Patch{}) {
		return 0, false
	}
	return index, true
}
