package session

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/lucasb-eyer/go-colorful"

	"geoview/internal/canvas"
	"geoview/internal/pointcloud"
)

var (
	axisX = colorful.Color{R: 1, G: 0.2, B: 0.2}
	axisY = colorful.Color{R: 0.2, G: 1, B: 0.2}
	axisZ = colorful.Color{R: 0.2, G: 0.4, B: 1}
	white = colorful.Color{R: 1, G: 1, B: 1}
)

func draw(cv *canvas.Canvas, cam Camera, lights Lights, o Options, buf *pointcloud.Buffer) {
	mw, mh := cv.MicroSize()
	pr := cam.Projector(mw, mh)
	if o.Axes {
		drawAxes(cv, pr)
	}
	n := buf.Len()
	for i := 0; i < n; i++ {
		x, y, depth, ok := pr.Project(buf.At(i))
		if !ok || x < -1 || y < -1 || x > float64(mw) || y > float64(mh) {
			continue
		}
		c := white
		switch {
		case o.Color != nil:
			c = *o.Color
		case buf.HasColors():
			r, g, b, _ := buf.ColorAt(i)
			c = colorful.Color{R: float64(r), G: float64(g), B: float64(b)}
		}
		if o.Shading && buf.HasNormals() {
			c = lights.Shade(c, r3.Vector{
				X: float64(buf.Normals[i*3]),
				Y: float64(buf.Normals[i*3+1]),
				Z: float64(buf.Normals[i*3+2]),
			})
		}
		cv.Dot(int(math.Floor(x)), int(math.Floor(y)), o.PointSize, depth, c)
	}
}

func drawAxes(cv *canvas.Canvas, pr Projector) {
	ox, oy, _, ok := pr.Project(r3.Vector{})
	if !ok {
		return
	}
	for _, a := range []struct {
		dir r3.Vector
		col colorful.Color
	}{
		{r3.Vector{X: AxesSize}, axisX},
		{r3.Vector{Y: AxesSize}, axisY},
		{r3.Vector{Z: AxesSize}, axisZ},
	} {
		x, y, _, ok := pr.Project(a.dir)
		if !ok {
			continue
		}
		cv.Line(int(ox), int(oy), int(x), int(y), a.col)
	}
}
