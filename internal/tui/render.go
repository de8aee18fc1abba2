package tui

import (
	"math"
	"sort"
	"strings"

	"github.com/paulmach/orb"

	"geodraw/internal/draw"
)

const (
	glyphHandle   = '●'
	glyphMidpoint = '◦'
	glyphPoint    = '•'
	glyphHover    = '◯'
)

func featureClass(f draw.Feature) cellClass {
	switch {
	case f.Properties.Active:
		return classActive
	case f.Properties.Selected:
		return classSelected
	}
	return classFeature
}

// render draws the feature snapshot: polygons (fill then edges), lines,
// then point features and handles as glyphs on top. The hovered feature,
// when it is a point or handle, is ringed.
func (c *canvas) render(hover draw.ID) string {
	br := newBrailleBuf(c.w, c.h)
	overlay := map[[2]int]cell{}
	put := func(p orb.Point, r rune, cls cellClass) {
		x, y := c.Project(p)
		cx, cy := int(math.Floor(x/2)), int(math.Floor(y/4))
		if cx < 0 || cy < 0 || cx >= c.w || cy >= c.h {
			return
		}
		if prev, ok := overlay[[2]int{cx, cy}]; ok && prev.cls > cls {
			return
		}
		overlay[[2]int{cx, cy}] = cell{r: r, cls: cls}
	}

	for _, f := range c.features {
		if f.IsHandle() {
			continue
		}
		cls := featureClass(f)
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			if len(g) == 0 {
				continue
			}
			c.fillRing(br, g[0])
			for _, ring := range g {
				c.stroke(br, orb.LineString(ring), cls)
			}
		case orb.LineString:
			c.stroke(br, g, cls)
		case orb.Point:
			put(g, glyphPoint, cls)
		}
	}
	for _, f := range c.features {
		p, ok := f.Geometry.(orb.Point)
		switch {
		case !ok:
		case f.Properties.Handle:
			put(p, glyphHandle, classHandle)
		case f.Properties.Midpoint:
			put(p, glyphMidpoint, classMidpoint)
		}
		if ok && hover != "" && f.ID == hover {
			put(p, glyphHover, classHover)
		}
	}

	rows := br.cells()
	for k, v := range overlay {
		rows[k[1]][k[0]] = v
	}
	lines := make([]string, len(rows))
	for y, row := range rows {
		lines[y] = renderRow(row)
	}
	return strings.Join(lines, "\n")
}

// renderRow styles runs of cells sharing a class.
func renderRow(row []cell) string {
	var (
		sb  strings.Builder
		run []rune
		cur cellClass
	)
	flush := func() {
		if len(run) == 0 {
			return
		}
		if st, ok := classStyles[cur]; ok {
			sb.WriteString(st.Render(string(run)))
		} else {
			sb.WriteString(string(run))
		}
		run = run[:0]
	}
	for _, cl := range row {
		if cl.cls != cur {
			flush()
			cur = cl.cls
		}
		run = append(run, cl.r)
	}
	flush()
	return sb.String()
}

func (c *canvas) stroke(br *brailleBuf, ls orb.LineString, cls cellClass) {
	for i := 1; i < len(ls); i++ {
		x0, y0 := c.Project(ls[i-1])
		x1, y1 := c.Project(ls[i])
		br.drawLineMicro(x0, y0, x1, y1, cls)
	}
}

// fillRing fills the outer ring with an even-odd scanline on the microgrid.
// Holes are not cut out.
func (c *canvas) fillRing(br *brailleBuf, ring orb.Ring) {
	if len(ring) < 3 {
		return
	}
	pts := make([][2]float64, len(ring))
	for i, p := range ring {
		x, y := c.Project(p)
		pts[i] = [2]float64{x, y}
	}
	wMic, hMic := c.w*2, c.h*4
	var xs []float64
	for yMic := 0; yMic < hMic; yMic++ {
		fy := float64(yMic) + 0.5
		xs = xs[:0]
		for i := range pts {
			a, b := pts[i], pts[(i+1)%len(pts)]
			if a[1] == b[1] {
				continue
			}
			if (fy >= a[1] && fy < b[1]) || (fy >= b[1] && fy < a[1]) {
				t := (fy - a[1]) / (b[1] - a[1])
				xs = append(xs, a[0]+t*(b[0]-a[0]))
			}
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			start := max(0, int(math.Ceil(xs[i])))
			end := min(wMic-1, int(math.Floor(xs[i+1])))
			for xMic := start; xMic <= end; xMic++ {
				br.setPixel(xMic, yMic, classFill)
			}
		}
	}
}
