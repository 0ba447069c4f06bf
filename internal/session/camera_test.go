package session

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoview/internal/pointcloud"
)

func TestProjectTargetIsCentre(t *testing.T) {
	cam := NewCamera(2)
	pr := cam.Projector(200, 100)
	x, y, depth, ok := pr.Project(r3.Vector{})
	require.True(t, ok)
	assert.InDelta(t, 100, x, 1e-9)
	assert.InDelta(t, 50, y, 1e-9)
	assert.InDelta(t, 5, depth, 1e-9)

	x, y, _, _ = pr.Project(r3.Vector{X: 1, Y: 1})
	assert.Greater(t, x, 100.0)
	assert.Less(t, y, 50.0)
}

func TestProjectClipsBehindCamera(t *testing.T) {
	pr := NewCamera(1).Projector(10, 10)
	_, _, _, ok := pr.Project(r3.Vector{Z: 10})
	assert.False(t, ok)
	_, _, _, ok = pr.Project(r3.Vector{Z: -2000})
	assert.False(t, ok)
}

func TestFrameAdaptsClipPlanes(t *testing.T) {
	cam := NewCamera(1)
	tiny := pointcloud.FrameBox(pointcloud.BBox{})
	cam.Frame(tiny)
	assert.Less(t, cam.Near, tiny.Distance())
	_, _, _, ok := cam.Projector(10, 10).Project(r3.Vector{})
	assert.True(t, ok)

	huge := pointcloud.FrameBox(pointcloud.BBox{Max: r3.Vector{X: 1e5, Y: 1e5, Z: 1e5}})
	cam.Frame(huge)
	assert.Greater(t, cam.Far, huge.Distance())
	assert.Equal(t, DefaultNear, cam.Near)
}

func TestControlsOrbit(t *testing.T) {
	cam := NewCamera(1)
	c := newControls(&cam)
	calls := 0
	off := c.OnChange(func() { calls++ })

	c.Rotate(math.Pi/2, 0)
	assert.InDelta(t, 5, cam.Position.X, 1e-9)
	assert.InDelta(t, 0, cam.Position.Z, 1e-9)
	assert.InDelta(t, 5, cam.Position.Sub(cam.Target).Norm(), 1e-9)

	c.Rotate(0, -10)
	r, _, phi := c.spherical()
	assert.InDelta(t, polarEpsilon, phi, 1e-9)
	assert.InDelta(t, 5, r, 1e-9)

	c.Dolly(0.5)
	assert.InDelta(t, 2.5, cam.Position.Sub(cam.Target).Norm(), 1e-9)

	before := cam.Target
	c.Pan(0.5, 0)
	assert.NotEqual(t, before, cam.Target)
	assert.InDelta(t, 2.5, cam.Position.Sub(cam.Target).Norm(), 1e-9)

	assert.Equal(t, 4, calls)
	off()
	off()
	c.Dolly(2)
	assert.Equal(t, 4, calls)
	assert.Zero(t, c.Listeners())
}

func TestLightsShade(t *testing.T) {
	l := DefaultLights()
	c := colorful.Color{R: 1, G: 1, B: 1}
	up := l.Shade(c, r3.Vector{Y: 1})
	assert.InDelta(t, 1, up.R, 1e-9)
	down := l.Shade(c, r3.Vector{Y: -1})
	assert.InDelta(t, 0.5, down.R, 1e-9)
	flat := l.Shade(c, r3.Vector{})
	assert.InDelta(t, 0.5, flat.G, 1e-9)
}
