package geom

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Paint is how a kind is drawn.
type Paint int

const (
	Circle Paint = iota
	Stroke
	Fill
)

// Style is the fixed presentation of one geometry kind. Sizes are in screen
// pixels and scaled to micro-pixels when drawn.
type Style struct {
	Paint       Paint
	Color       string
	Radius      float64
	Width       float64
	Opacity     float64
	StrokeColor string
	StrokeWidth float64
}

const (
	featureBlue = "#007cbf"
	white       = "#ffffff"
)

// StyleFor maps a kind to its style. It never fails.
func StyleFor(k Kind) Style {
	switch k {
	case Point:
		return Style{Paint: Circle, Color: featureBlue, Radius: 6, Opacity: 1, StrokeColor: white, StrokeWidth: 1}
	case LineString:
		return Style{Paint: Stroke, Color: featureBlue, Width: 2, Opacity: 1}
	case Polygon:
		return Style{Paint: Fill, Color: featureBlue, Opacity: 0.4, StrokeColor: white}
	default:
		return Style{Paint: Circle, Color: featureBlue, Radius: 6, Opacity: 1}
	}
}

// Colors resolves the fill and stroke colours, blending the fill over a
// black background by Opacity. Unparseable hex falls back to the feature
// blue.
func (s Style) Colors() (fill, stroke colorful.Color) {
	fill = parseHex(s.Color)
	if s.Opacity < 1 {
		fill = colorful.Color{}.BlendRgb(fill, s.Opacity)
	}
	stroke = fill
	if s.StrokeColor != "" {
		stroke = parseHex(s.StrokeColor)
	}
	return fill, stroke
}

func parseHex(h string) colorful.Color {
	c, err := colorful.Hex(h)
	if err != nil {
		c, _ = colorful.Hex(featureBlue)
	}
	return c
}
