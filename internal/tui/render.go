package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/paulmach/orb"

	"geoview/internal/canvas"
	"geoview/internal/geom"
)

// hoverTolerance is how close, in micro-pixels, the pointer must be to a
// feature for it to be highlighted.
const hoverTolerance = 4.0

// cellToLonLat converts a map cell to the geographic position of its centre.
func (m Model) cellToLonLat(cx, cy, w, h int) orb.Point {
	pr := geom.NewProjector(m.vp, w*2, h*4)
	return pr.Unproject(float64(cx*2)+1, float64(cy*4)+2)
}

// featureAt returns the index of the feature under cell cx, cy, or -1.
func (m Model) featureAt(cx, cy, w, h int) int {
	if m.index == nil {
		return -1
	}
	hit, ok := m.index.Nearest(m.cellToLonLat(cx, cy, w, h))
	if !ok {
		return -1
	}
	// degrees to micro-pixels along the equator
	if hit.Distance*geom.WorldSize(m.vp.Zoom)/360 > hoverTolerance {
		return -1
	}
	return hit.Pos
}

func (m Model) renderMap(w, h int) string {
	cv := canvas.New(w, h)
	geom.Draw(cv, m.coll, m.vp, m.layers)
	mark := m.selected
	if m.hover.on && m.hover.feature >= 0 {
		mark = m.hover.feature
	}
	if m.coll != nil && mark >= 0 && mark < m.coll.Len() {
		if g := m.coll.Features[mark].Geometry; g != nil {
			geom.Highlight(cv, g, m.vp, hoverColor)
		}
	}
	return strings.Join(cv.Lines(), "\n")
}

func (m Model) renderPoints(w, h int) string {
	s, _ := m.sessions.Current()
	if s == nil {
		return m.renderEmpty(w, h)
	}
	return s.Frame()
}

func (m Model) renderEmpty(w, h int) string {
	var msg string
	switch {
	case m.loading != "":
		msg = lipgloss.JoinVertical(lipgloss.Center,
			"Loading "+m.loading,
			"",
			m.bar.ViewAs(m.fraction))
	case m.ws.Len() == 0:
		msg = dimStyle.Render("Tab to browse files, p to paste GeoJSON or WKT")
	default:
		msg = dimStyle.Render("nothing to display")
	}
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, msg)
}

// cloudInfo is the inspect popup of a point cloud.
func (m Model) cloudInfo() string {
	c := m.cloud
	lines := []string{
		"Point Cloud Info",
		fmt.Sprintf("Points: %s", humanize.Comma(int64(c.Buffer.Len()))),
		fmt.Sprintf("Decoded: %s", humanize.Comma(int64(m.decoded))),
		fmt.Sprintf("Dropped: %d", c.Dropped),
		fmt.Sprintf("Center: [%.3f, %.3f, %.3f]", c.Center.X, c.Center.Y, c.Center.Z),
		fmt.Sprintf("Size: [%.3f, %.3f, %.3f]", c.Size.X, c.Size.Y, c.Size.Z),
		fmt.Sprintf("Colors: %v  Normals: %v", c.Buffer.HasColors(), c.Buffer.HasNormals()),
	}
	if s, _ := m.sessions.Current(); s != nil {
		cam := s.Camera()
		lines = append(lines,
			fmt.Sprintf("Camera: [%.3f, %.3f, %.3f]", cam.Position.X, cam.Position.Y, cam.Position.Z),
			fmt.Sprintf("Clip: %.3g .. %.3g", cam.Near, cam.Far))
	}
	return strings.Join(lines, "\n")
}

func zoomStatus(z float64) string {
	return fmt.Sprintf("zoom: %.1f", math.Round(z*10)/10)
}
