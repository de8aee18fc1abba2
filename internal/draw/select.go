package draw

// SelectMode selects features by clicking and moves the selected one by
// dragging. Clicking the selected feature again switches to edit mode.
type SelectMode struct {
	// DragWithoutSelect lets a press on any feature start a drag.
	DragWithoutSelect bool

	pending ID
	drag    dragState
}

func (m *SelectMode) Configure(opts ModeOptions) {
	if opts.SelectedID != "" {
		m.pending = opts.SelectedID
	}
	if opts.DragWithoutSelect != nil {
		m.DragWithoutSelect = *opts.DragWithoutSelect
	}
}

// Enter selects the feature passed as SelectedID, if any.
func (m *SelectMode) Enter(c *Controller) {
	c.SetCursor(CursorPolicy{Default: CursorDefault, Hover: CursorPointer, Pan: CursorGrabbing})
	if m.pending != "" {
		c.store.SetSelected(m.pending)
		m.pending = ""
	}
}

// Exit drops any drag in progress and clears the selection.
func (m *SelectMode) Exit(c *Controller) {
	if m.drag.active() {
		lockCamera(c, false)
	}
	m.drag.reset()
	c.store.ClearSelection()
}

func (m *SelectMode) OnClick(c *Controller, info Info) {
	f := info.Feature
	switch {
	case f == nil || f.IsHandle():
		c.store.ClearSelection()
	case c.store.IsSelected(f.ID):
		if _, err := c.ChangeMode(ModeEdit, ModeOptions{SelectedID: f.ID}); err != nil {
			c.log.WithError(err).Debug("edit mode unavailable")
		}
	default:
		c.store.SetSelected(f.ID)
	}
}

func (m *SelectMode) OnMouseDown(c *Controller, info Info) {
	f := info.Feature
	if f == nil || f.IsHandle() {
		return
	}
	if !c.store.IsSelected(f.ID) && !m.DragWithoutSelect {
		return
	}
	m.drag.start(dragFeature, *f, -1, info.LngLat)
	lockCamera(c, true)
}

func (m *SelectMode) OnMouseMove(c *Controller, info Info) {
	if !m.drag.active() {
		return
	}
	moved := translate(m.drag.snapshot, m.drag.delta(info.LngLat))
	if !c.store.Regenerate(m.drag.featureID, moved, Patch{}) {
		m.drag.reset()
		lockCamera(c, false)
	}
}

func (m *SelectMode) OnMouseUp(c *Controller, info Info) {
	if !m.drag.active() {
		return
	}
	m.drag.reset()
	lockCamera(c, false)
}
