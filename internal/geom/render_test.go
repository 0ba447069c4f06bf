package geom

import (
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoview/internal/canvas"
)

func lit(cv *canvas.Canvas) int {
	n := 0
	for _, row := range cv.Plain() {
		n += len([]rune(strings.ReplaceAll(row, " ", "")))
	}
	return n
}

func TestDrawPolygonAtFit(t *testing.T) {
	c := mustDecode(t, `{"type":"Polygon","coordinates":[[[0,0],[0,2],[2,2],[2,0],[0,0]]]}`)
	vp, ok := Fit(c)
	require.True(t, ok)
	cv := canvas.New(80, 40)
	Draw(cv, c, vp, AllLayers())

	// the centre of the polygon is filled
	col, on := cv.ColorAt(40, 20)
	require.True(t, on)
	fill, _ := StyleFor(Polygon).Colors()
	assert.Equal(t, fill, col)
}

func TestDrawRespectsLayers(t *testing.T) {
	c := mustDecode(t, mixedDoc)
	vp := Viewport{Center: orb.Point{5, 10}, Zoom: 3}

	all := canvas.New(60, 30)
	Draw(all, c, vp, AllLayers())
	require.Positive(t, lit(all))

	none := canvas.New(60, 30)
	Draw(none, c, vp, Layers{})
	assert.Zero(t, lit(none))
}

func TestDrawEmpty(t *testing.T) {
	cv := canvas.New(10, 5)
	Draw(cv, nil, DefaultViewport(), AllLayers())
	assert.Zero(t, lit(cv))
}

func TestHighlight(t *testing.T) {
	cv := canvas.New(20, 10)
	vp := Viewport{Center: orb.Point{0, 0}, Zoom: 8}
	Highlight(cv, orb.Point{0, 0}, vp, colorful.Color{R: 1})
	assert.Positive(t, lit(cv))
}

func TestProjectLineSimplifies(t *testing.T) {
	pr := NewProjector(Viewport{Center: orb.Point{0, 0}, Zoom: 10}, 100, 100)
	ls := orb.LineString{{0, 0}, {0.0001, 0}, {0.0002, 0}, {0.01, 0}}
	pts := projectLine(pr, ls)
	assert.Len(t, pts, 2)
}
