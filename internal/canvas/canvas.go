// Package canvas is a braille raster: every terminal cell holds a 2x4 grid
// of micro-pixels, and every cell carries the colour of its last write.
package canvas

import (
	"image"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// brailleBits maps a micro-pixel (column, row) inside a cell to its bit in
// the U+2800 block.
var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

type cell struct {
	mask  uint8
	color colorful.Color
	set   bool
	// glyph overrides the braille pattern when non-zero.
	glyph rune
	depth float64
}

// Canvas is a w x h cell surface.
type Canvas struct {
	w, h  int
	cells []cell
}

// New returns a blank canvas; negative sizes are treated as zero.
func New(w, h int) *Canvas {
	w, h = max(w, 0), max(h, 0)
	return &Canvas{w: w, h: h, cells: make([]cell, w*h)}
}

// Size returns the canvas size in cells.
func (c *Canvas) Size() (w, h int) { return c.w, c.h }

// MicroSize returns the canvas size in micro-pixels.
func (c *Canvas) MicroSize() (w, h int) { return c.w * 2, c.h * 4 }

// Clear blanks every cell.
func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = cell{}
	}
}

func (c *Canvas) at(mx, my int) (*cell, uint8) {
	if mx < 0 || my < 0 {
		return nil, 0
	}
	cx, cy := mx/2, my/4
	if cx >= c.w || cy >= c.h {
		return nil, 0
	}
	return &c.cells[cy*c.w+cx], brailleBits[mx%2][my%4]
}

// Set lights the micro-pixel at (mx, my).
func (c *Canvas) Set(mx, my int, col colorful.Color) {
	p, bit := c.at(mx, my)
	if p == nil {
		return
	}
	p.mask |= bit
	p.color, p.set = col, true
}

// SetDepth lights (mx, my) unless a nearer sample already coloured the cell.
// Smaller depth is nearer; the first write to a cell always wins its colour.
func (c *Canvas) SetDepth(mx, my int, depth float64, col colorful.Color) {
	p, bit := c.at(mx, my)
	if p == nil {
		return
	}
	p.mask |= bit
	if !p.set || depth <= p.depth {
		p.color, p.set, p.depth = col, true, depth
	}
}

// Dot stamps a size x size square of micro-pixels centred on (mx, my).
func (c *Canvas) Dot(mx, my, size int, depth float64, col colorful.Color) {
	if size <= 1 {
		c.SetDepth(mx, my, depth, col)
		return
	}
	off := (size - 1) / 2
	for dy := 0; dy < size; dy++ {
		for dx := 0; dx < size; dx++ {
			c.SetDepth(mx-off+dx, my-off+dy, depth, col)
		}
	}
}

// Line draws a Bresenham segment in micro-pixels, clipped to the surface.
func (c *Canvas) Line(x0, y0, x1, y1 int, col colorful.Color) {
	mw, mh := c.MicroSize()
	if mw == 0 || mh == 0 {
		return
	}
	if x0 < 0 || y0 < 0 || x1 < 0 || y1 < 0 || x0 >= mw || x1 >= mw || y0 >= mh || y1 >= mh {
		a, b, ok := clipSegment(
			[2]float64{float64(x0), float64(y0)}, [2]float64{float64(x1), float64(y1)},
			float64(mw-1), float64(mh-1))
		if !ok {
			return
		}
		x0, y0 = int(math.Round(a[0])), int(math.Round(a[1]))
		x1, y1 = int(math.Round(b[0])), int(math.Round(b[1]))
	}
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
		c.Set(x0, y0, col)
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

// clipSegment is Liang-Barsky against [0, xmax] x [0, ymax].
func clipSegment(a, b [2]float64, xmax, ymax float64) ([2]float64, [2]float64, bool) {
	t0, t1 := 0.0, 1.0
	dx, dy := b[0]-a[0], b[1]-a[1]
	edges := [4][2]float64{{-dx, a[0]}, {dx, xmax - a[0]}, {-dy, a[1]}, {dy, ymax - a[1]}}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return a, b, false
			}
			t0 = math.Max(t0, r)
		} else {
			if r < t0 {
				return a, b, false
			}
			t1 = math.Min(t1, r)
		}
	}
	return [2]float64{a[0] + t0*dx, a[1] + t0*dy}, [2]float64{a[0] + t1*dx, a[1] + t1*dy}, true
}

// Polyline strokes consecutive points; closed joins the last to the first.
func (c *Canvas) Polyline(pts []image.Point, closed bool, col colorful.Color) {
	if len(pts) == 1 {
		c.Set(pts[0].X, pts[0].Y, col)
		return
	}
	for i := 0; i+1 < len(pts); i++ {
		c.Line(pts[i].X, pts[i].Y, pts[i+1].X, pts[i+1].Y, col)
	}
	if closed && len(pts) > 2 {
		a, b := pts[len(pts)-1], pts[0]
		c.Line(a.X, a.Y, b.X, b.Y, col)
	}
}

// FillPolygon fills rings with the even-odd rule, so inner rings punch holes.
// Rows are sampled at micro-pixel centres.
func (c *Canvas) FillPolygon(rings [][]image.Point, col colorful.Color) {
	minY, maxY := 1<<31-1, -1<<31
	for _, r := range rings {
		for _, p := range r {
			minY, maxY = min(minY, p.Y), max(maxY, p.Y)
		}
	}
	mw, mh := c.MicroSize()
	minY, maxY = max(minY, 0), min(maxY, mh-1)
	var xs []int
	for y := minY; y <= maxY; y++ {
		xs = xs[:0]
		fy := float64(y) + 0.5
		for _, r := range rings {
			for i := range r {
				a, b := r[i], r[(i+1)%len(r)]
				if a.Y == b.Y {
					continue
				}
				y0, y1 := float64(a.Y), float64(b.Y)
				if (fy >= y0 && fy < y1) || (fy >= y1 && fy < y0) {
					t := (fy - y0) / (y1 - y0)
					xs = append(xs, a.X+int(t*float64(b.X-a.X)+0.5))
				}
			}
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := max(xs[i], 0); x <= xs[i+1] && x < mw; x++ {
				c.Set(x, y, col)
			}
		}
	}
}

// Glyph places r over the cell (cx, cy), replacing its braille pattern.
func (c *Canvas) Glyph(cx, cy int, r rune, col colorful.Color) {
	if cx < 0 || cy < 0 || cx >= c.w || cy >= c.h {
		return
	}
	p := &c.cells[cy*c.w+cx]
	p.glyph, p.color, p.set = r, col, true
}

// Text writes s left to right from cell (cx, cy), clipped to the row.
func (c *Canvas) Text(cx, cy int, s string, col colorful.Color) {
	for i, r := range []rune(s) {
		c.Glyph(cx+i, cy, r, col)
	}
}

func (p cell) rune() rune {
	switch {
	case p.glyph != 0:
		return p.glyph
	case p.mask == 0:
		return ' '
	default:
		return rune(0x2800 + int(p.mask))
	}
}

// Plain returns the rows without colour.
func (c *Canvas) Plain() []string {
	out := make([]string, c.h)
	row := make([]rune, c.w)
	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			row[x] = c.cells[y*c.w+x].rune()
		}
		out[y] = string(row)
	}
	return out
}

// Lines returns the rows with runs of equally coloured cells styled by
// lipgloss.
func (c *Canvas) Lines() []string {
	out := make([]string, c.h)
	var sb, run strings.Builder
	for y := 0; y < c.h; y++ {
		sb.Reset()
		run.Reset()
		var runCol string
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runCol == "" {
				sb.WriteString(run.String())
			} else {
				sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(runCol)).Render(run.String()))
			}
			run.Reset()
		}
		for x := 0; x < c.w; x++ {
			p := c.cells[y*c.w+x]
			r := p.rune()
			col := ""
			if r != ' ' && p.set {
				col = p.color.Clamped().Hex()
			}
			if col != runCol {
				flush()
				runCol = col
			}
			run.WriteRune(r)
		}
		flush()
		out[y] = sb.String()
	}
	return out
}

// String joins Lines with newlines.
func (c *Canvas) String() string {
	return strings.Join(c.Lines(), "\n")
}

// ColorAt returns the colour of the cell (cx, cy) and whether it is lit.
func (c *Canvas) ColorAt(cx, cy int) (colorful.Color, bool) {
	if cx < 0 || cy < 0 || cx >= c.w || cy >= c.h {
		return colorful.Color{}, false
	}
	p := c.cells[cy*c.w+cx]
	return p.color, p.set && p.rune() != ' '
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
