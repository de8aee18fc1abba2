package draw

import "github.com/paulmach/orb"

// DrawPointMode adds a point feature on every click.
type DrawPointMode struct {
	Props Patch
}

// Enter shows the crosshair cursor.
func (m *DrawPointMode) Enter(c *Controller) {
	c.SetCursor(CursorPolicy{Default: CursorCrosshair, Pan: CursorGrabbing})
}

// Exit is a no-op.
func (m *DrawPointMode) Exit(c *Controller) {}

func (m *DrawPointMode) OnClick(c *Controller, info Info) {
	f := c.Generate(GeneratorPoint, []orb.Point{info.LngLat}, GenerateOptions{Props: m.Props})
	if f == nil {
		return
	}
	if _, err := c.store.AddFeature(*f); err != nil {
		c.log.WithError(err).Warn("draw point")
	}
}
