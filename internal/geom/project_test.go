package geom

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestProjectCentre(t *testing.T) {
	vp := Viewport{Center: orb.Point{12.5, 41.9}, Zoom: 8}
	pr := NewProjector(vp, 100, 60)
	x, y := pr.Project(vp.Center)
	assert.InDelta(t, 50, x, 1e-6)
	assert.InDelta(t, 30, y, 1e-6)

	east, _ := pr.Project(orb.Point{13.5, 41.9})
	assert.Greater(t, east, x)
	_, north := pr.Project(orb.Point{12.5, 42.9})
	assert.Less(t, north, y)
}

func TestUnprojectRoundTrip(t *testing.T) {
	pr := NewProjector(DefaultViewport(), 160, 96)
	for _, p := range []orb.Point{{-100, 40}, {-120.5, 33.25}, {-80, 47}} {
		x, y := pr.Project(p)
		q := pr.Unproject(x, y)
		assert.InDelta(t, p.Lon(), q.Lon(), 1e-9)
		assert.InDelta(t, p.Lat(), q.Lat(), 1e-9)
	}
}

func TestPanAndZoom(t *testing.T) {
	vp := Viewport{Center: orb.Point{0, 0}, Zoom: 2}
	moved := vp.Pan(WorldSize(2)/4, 0)
	assert.InDelta(t, 90, moved.Center.Lon(), 1e-9)
	assert.InDelta(t, 0, moved.Center.Lat(), 1e-9)

	assert.Equal(t, MaxZoom, vp.ZoomBy(100).Zoom)
	assert.Equal(t, MinZoom, vp.ZoomBy(-100).Zoom)
	assert.Equal(t, 2.5, vp.ZoomBy(0.5).Zoom)
}
