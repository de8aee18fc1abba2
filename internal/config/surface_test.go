package config

import (
	"github.com/paulmach/orb"

	"geodraw/internal/draw"
)

type nopSurface struct{}

func (nopSurface) Pick(x, y, radius float64, layerIDs []string) (draw.ID, bool) { return "", false }
func (nopSurface) Project(p orb.Point) (float64, float64)                       { return p[0], p[1] }
func (nopSurface) Unproject(x, y float64) orb.Point                             { return orb.Point{x, y} }
func (nopSurface) SetPanGestures(bool)                                          {}
func (nopSurface) SetDoubleClickZoom(bool)                                      {}
func (nopSurface) SetCursor(draw.CursorPolicy)                                  {}
