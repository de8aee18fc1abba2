package draw

// StaticMode ignores pointer input and leaves the camera free.
type StaticMode struct{}

// Enter shows the grab cursor.
func (m *StaticMode) Enter(c *Controller) {
	c.SetCursor(CursorPolicy{Default: CursorGrab, Pan: CursorGrabbing})
}

// Exit is a no-op.
func (m *StaticMode) Exit(c *Controller) {}
