package canvas

import (
	"image"
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var red = colorful.Color{R: 1}
var blue = colorful.Color{B: 1}

func TestSetBits(t *testing.T) {
	c := New(1, 1)
	c.Set(0, 0, red)
	assert.Equal(t, "⠁", c.Plain()[0])
	c.Set(1, 3, red)
	assert.Equal(t, string(rune(0x2800+0x01+0x80)), c.Plain()[0])

	// out of range is ignored
	c.Set(-1, 0, red)
	c.Set(2, 0, red)
	c.Set(0, 4, red)
	assert.Equal(t, string(rune(0x2800+0x01+0x80)), c.Plain()[0])
}

func TestFullCell(t *testing.T) {
	c := New(2, 1)
	for y := 0; y < 4; y++ {
		for x := 0; x < 2; x++ {
			c.Set(x, y, red)
		}
	}
	assert.Equal(t, "⣿ ", c.Plain()[0])
}

func TestLineHorizontal(t *testing.T) {
	c := New(3, 1)
	c.Line(0, 0, 5, 0, red)
	assert.Equal(t, strings.Repeat("⠉", 3), c.Plain()[0])
}

func TestLineClipped(t *testing.T) {
	c := New(2, 1)
	c.Line(-1000, 0, 1000, 0, red)
	assert.Equal(t, "⠉⠉", c.Plain()[0])

	c.Clear()
	c.Line(-10, -10, -5, -5, red)
	assert.Equal(t, "  ", c.Plain()[0])
}

func TestClipSegment(t *testing.T) {
	a, b, ok := clipSegment([2]float64{-5, 1}, [2]float64{15, 1}, 9, 9)
	require.True(t, ok)
	assert.InDelta(t, 0, a[0], 1e-9)
	assert.InDelta(t, 9, b[0], 1e-9)

	_, _, ok = clipSegment([2]float64{-5, -1}, [2]float64{15, -1}, 9, 9)
	assert.False(t, ok)
}

func TestFillPolygonWithHole(t *testing.T) {
	c := New(4, 2)
	outer := []image.Point{{0, 0}, {8, 0}, {8, 8}, {0, 8}}
	hole := []image.Point{{2, 2}, {6, 2}, {6, 6}, {2, 6}}
	c.FillPolygon([][]image.Point{outer, hole}, blue)

	mw, mh := c.MicroSize()
	lit := func(x, y int) bool {
		p, bit := c.at(x, y)
		return p != nil && p.mask&bit != 0
	}
	assert.True(t, lit(1, 1))
	assert.False(t, lit(4, 4), "hole stays empty")
	assert.True(t, lit(mw-1, mh-1))
}

func TestDotSizes(t *testing.T) {
	c := New(2, 1)
	c.Dot(1, 1, 1, 0, red)
	p, _ := c.at(1, 1)
	assert.Equal(t, 1, popcount(p.mask))

	c.Clear()
	c.Dot(0, 0, 2, 0, red)
	p, _ = c.at(0, 0)
	assert.Equal(t, 4, popcount(p.mask))

	c.Clear()
	c.Dot(1, 1, 3, 0, red)
	total := 0
	for i := range c.cells {
		total += popcount(c.cells[i].mask)
	}
	assert.Equal(t, 9, total)
}

func TestSetDepthNearestWins(t *testing.T) {
	c := New(1, 1)
	c.SetDepth(0, 0, 5, red)
	c.SetDepth(1, 0, 2, blue)
	col, ok := c.ColorAt(0, 0)
	require.True(t, ok)
	assert.Equal(t, blue, col)

	c.SetDepth(0, 1, 9, red)
	col, _ = c.ColorAt(0, 0)
	assert.Equal(t, blue, col)
}

func TestGlyphAndText(t *testing.T) {
	c := New(4, 1)
	c.Text(1, 0, "xyz!", red)
	assert.Equal(t, " xyz", c.Plain()[0])
	c.Glyph(9, 0, 'o', red)
	assert.Equal(t, " xyz", c.Plain()[0])
}

func TestLinesCarryColour(t *testing.T) {
	c := New(3, 1)
	c.Set(0, 0, red)
	c.Set(4, 0, blue)
	out := c.Lines()
	require.Len(t, out, 1)
	assert.Contains(t, out[0], "⠁")
	assert.Equal(t, c.Plain()[0], stripANSI(out[0]))
}

func TestEmptyCanvas(t *testing.T) {
	c := New(-3, 0)
	w, h := c.Size()
	assert.Zero(t, w)
	assert.Zero(t, h)
	c.Line(0, 0, 10, 10, red)
	assert.Empty(t, c.String())
}

func popcount(b uint8) int {
	n := 0
	for ; b != 0; b &= b - 1 {
		n++
	}
	return n
}

func stripANSI(s string) string {
	var sb strings.Builder
	esc := false
	for _, r := range s {
		switch {
		case r == 0x1b:
			esc = true
		case esc && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			esc = false
		case !esc:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
