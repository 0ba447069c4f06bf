package geom

import (
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// minExtent pads point features so every rectangle has a non-zero size.
const minExtent = 0.0001

// candidates is how many bounding-box neighbours are compared exactly.
const candidates = 8

type indexedFeature struct {
	pos     int
	feature *geojson.Feature
	bound   orb.Bound
}

// Bounds implements rtreego.Spatial.
func (f *indexedFeature) Bounds() rtreego.Rect {
	lengths := []float64{
		math.Max(f.bound.Max.X()-f.bound.Min.X(), minExtent),
		math.Max(f.bound.Max.Y()-f.bound.Min.Y(), minExtent),
	}
	r, _ := rtreego.NewRect(rtreego.Point{f.bound.Min.X(), f.bound.Min.Y()}, lengths)
	return r
}

// Index answers nearest-feature queries over a collection.
type Index struct {
	tree *rtreego.Rtree
	size int
}

// Hit is the result of a nearest query.
type Hit struct {
	Pos      int
	Feature  *geojson.Feature
	Distance float64
}

// NewIndex indexes every feature that has a geometry.
func NewIndex(c *Collection) *Index {
	idx := &Index{tree: rtreego.NewTree(2, 25, 50)}
	for i := 0; i < c.Len(); i++ {
		f := c.Features[i]
		if f.Geometry == nil {
			continue
		}
		b := f.Geometry.Bound()
		if b.IsEmpty() {
			continue
		}
		idx.tree.Insert(&indexedFeature{pos: i, feature: f, bound: b})
		idx.size++
	}
	return idx
}

// Len returns the number of indexed features.
func (idx *Index) Len() int { return idx.size }

// Nearest returns the feature closest to p in degrees. Polygons containing
// p are at distance zero.
func (idx *Index) Nearest(p orb.Point) (Hit, bool) {
	if idx == nil || idx.size == 0 {
		return Hit{}, false
	}
	near := idx.tree.NearestNeighbors(min(candidates, idx.size), rtreego.Point{p.X(), p.Y()})
	best := Hit{Distance: math.Inf(1)}
	for _, s := range near {
		f, ok := s.(*indexedFeature)
		if !ok {
			continue
		}
		d := distance(f.feature.Geometry, p)
		if d < best.Distance || (d == best.Distance && f.pos < best.Pos) {
			best = Hit{Pos: f.pos, Feature: f.feature, Distance: d}
		}
	}
	return best, best.Feature != nil
}

func distance(g orb.Geometry, p orb.Point) float64 {
	switch g := g.(type) {
	case orb.Polygon:
		if planar.PolygonContains(g, p) {
			return 0
		}
	case orb.MultiPolygon:
		if planar.MultiPolygonContains(g, p) {
			return 0
		}
	}
	return planar.DistanceFrom(g, p)
}
