package tui

// cellClass orders what a cell shows; a higher class wins the cell's color.
type cellClass uint8

const (
	classNone cellClass = iota
	classFill
	classFeature
	classSelected
	classActive
	// overlay glyphs
	classMidpoint
	classHandle
	classHover
)

type brailleBuf struct {
	w, h int           // in cells
	m    [][]uint8     // per-cell 8-bit mask
	cls  [][]cellClass // per-cell color class
}

func newBrailleBuf(w, h int) *brailleBuf {
	m := make([][]uint8, h)
	cls := make([][]cellClass, h)
	for i := range m {
		m[i] = make([]uint8, w)
		cls[i] = make([]cellClass, w)
	}
	return &brailleBuf{w: w, h: h, m: m, cls: cls}
}

var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// setPixel sets a micro-pixel at micro coords (2x4 per cell)
func (b *brailleBuf) setPixel(mx, my int, c cellClass) {
	if mx < 0 || my < 0 {
		return
	}
	cx, cy := mx/2, my/4
	if cy >= b.h || cx >= b.w {
		return
	}
	b.m[cy][cx] |= brailleBits[mx%2][my%4]
	b.cls[cy][cx] = max(b.cls[cy][cx], c)
}

// drawLineMicro draws a line on the microgrid using Bresenham. The segment
// is clipped to the buffer first so far off-screen vertices stay cheap.
func (b *brailleBuf) drawLineMicro(fx0, fy0, fx1, fy1 float64, c cellClass) {
	fx0, fy0, fx1, fy1, ok := clipSegment(fx0, fy0, fx1, fy1, float64(b.w*2-1), float64(b.h*4-1))
	if !ok {
		return
	}
	x0, y0, x1, y1 := int(fx0), int(fy0), int(fx1), int(fy1)
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// clipSegment clips a segment to [0,maxX]x[0,maxY] (Liang-Barsky).
func clipSegment(x0, y0, x1, y1, maxX, maxY float64) (float64, float64, float64, float64, bool) {
	t0, t1 := 0.0, 1.0
	dx, dy := x1-x0, y1-y0
	for _, e := range [4][2]float64{{-dx, x0}, {dx, maxX - x0}, {-dy, y0}, {dy, maxY - y0}} {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = min(t1, r)
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

// cell is one rendered terminal cell.
type cell struct {
	r   rune
	cls cellClass
}

func (b *brailleBuf) cells() [][]cell {
	out := make([][]cell, b.h)
	for y := range out {
		row := make([]cell, b.w)
		for x := range row {
			row[x] = cell{r: ' '}
			if mask := b.m[y][x]; mask != 0 {
				row[x] = cell{r: rune(0x2800 + int(mask)), cls: b.cls[y][x]}
			}
		}
		out[y] = row
	}
	return out
}
