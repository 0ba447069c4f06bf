package geom

import (
	"github.com/paulmach/orb"
)

// Kind is the geometry kind used for fitting and styling.
type Kind int

const (
	Other Kind = iota
	Point
	LineString
	Polygon
)

func (k Kind) String() string {
	switch k {
	case Point:
		return "Point"
	case LineString:
		return "LineString"
	case Polygon:
		return "Polygon"
	default:
		return "Other"
	}
}

// KindOf classifies g. Multi geometries and collections are Other.
func KindOf(g orb.Geometry) Kind {
	switch g.(type) {
	case orb.Point:
		return Point
	case orb.LineString:
		return LineString
	case orb.Polygon:
		return Polygon
	default:
		return Other
	}
}

// FitZoom is the zoom applied by Fit regardless of the extent of the data.
const FitZoom = 8.0

// Zoom limits for interactive navigation.
const (
	MinZoom = 0.0
	MaxZoom = 22.0
)

// Viewport is a map centre plus a zoom level.
type Viewport struct {
	Center orb.Point
	Zoom   float64
}

// DefaultViewport frames the continental United States.
func DefaultViewport() Viewport {
	return Viewport{Center: orb.Point{-100, 40}, Zoom: 3.5}
}

// Layers toggles which kinds are drawn.
type Layers struct {
	Points   bool
	Lines    bool
	Polygons bool
	Other    bool
}

// AllLayers enables every kind.
func AllLayers() Layers {
	return Layers{Points: true, Lines: true, Polygons: true, Other: true}
}

func (l Layers) show(k Kind) bool {
	switch k {
	case Point:
		return l.Points
	case LineString:
		return l.Lines
	case Polygon:
		return l.Polygons
	default:
		return l.Other
	}
}
