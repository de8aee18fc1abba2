package geom

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
)

// ParseWKT parses one WKT geometry. Every type orb knows is accepted,
// including MULTI* and GEOMETRYCOLLECTION.
func ParseWKT(s string) (orb.Geometry, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("wkt: %w", ErrEmpty)
	}
	return wkt.Unmarshal(s)
}

// ParseWKTData parses WKT text into Data. Several geometries may be given,
// one per non-empty line.
func ParseWKTData(s string) (Data, error) {
	var parts orb.Collection
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		g, err := ParseWKT(line)
		if err != nil {
			// a single geometry may span several lines
			g, err = ParseWKT(s)
			if err != nil {
				return Data{}, err
			}
			return FromGeometry(g)
		}
		parts = append(parts, g)
	}
	switch len(parts) {
	case 0:
		return Data{}, fmt.Errorf("wkt: %w", ErrEmpty)
	case 1:
		return FromGeometry(parts[0])
	}
	return FromGeometry(parts)
}

// FormatWKT renders g as WKT.
func FormatWKT(g orb.Geometry) string {
	if g == nil {
		return ""
	}
	return wkt.MarshalString(g)
}
