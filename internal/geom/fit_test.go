package geom

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecode(t *testing.T, doc string) *Collection {
	t.Helper()
	c, err := Decode([]byte(doc))
	require.NoError(t, err)
	return c
}

func TestFitPolygon(t *testing.T) {
	c := mustDecode(t, `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Polygon","coordinates":[[[0,0],[0,2],[2,2],[2,0],[0,0]]]},"properties":{}}]}`)
	vp, ok := Fit(c)
	require.True(t, ok)
	assert.Equal(t, orb.Point{1, 1}, vp.Center)
	assert.Equal(t, 8.0, vp.Zoom)
}

func TestFitEmptyCollection(t *testing.T) {
	c := mustDecode(t, `{"type":"FeatureCollection","features":[]}`)
	_, ok := Fit(c)
	assert.False(t, ok)

	_, ok = Fit(nil)
	assert.False(t, ok)
}

func TestFitIgnoresHolesAndOtherKinds(t *testing.T) {
	c := mustDecode(t, `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Polygon","coordinates":[
			[[0,0],[0,4],[4,4],[4,0],[0,0]],
			[[100,100],[100,101],[101,101],[100,100]]]},"properties":{}},
		{"type":"Feature","geometry":{"type":"MultiPoint","coordinates":[[-50,-50]]},"properties":{}},
		{"type":"Feature","geometry":null,"properties":{}}]}`)
	b, ok := Bounds(c)
	require.True(t, ok)
	assert.Equal(t, orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{4, 4}}, b)
}

func TestFitOnlyUnfittable(t *testing.T) {
	c := mustDecode(t, `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"MultiLineString","coordinates":[[[1,1],[2,2]]]},"properties":{}},
		{"type":"Feature","geometry":null,"properties":{}}]}`)
	_, ok := Fit(c)
	assert.False(t, ok)
}

func TestFitSkipsUnknownGeometry(t *testing.T) {
	c := mustDecode(t, `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Blob","coordinates":[[9,9]]},"properties":{}},
		{"type":"Feature","geometry":{"type":"Point","coordinates":[3,4]},"properties":{}}]}`)
	vp, ok := Fit(c)
	require.True(t, ok)
	assert.Equal(t, orb.Point{3, 4}, vp.Center)
}

func TestFitWithoutCoordinates(t *testing.T) {
	c := mustDecode(t, `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Polygon"},"properties":{}},
		{"type":"Feature","geometry":{"type":"Point"},"properties":{}}]}`)
	assert.Equal(t, 2, c.Diagnostics.NoGeometry)
	_, ok := Fit(c)
	assert.False(t, ok)
}

func TestFitZoomIsFixed(t *testing.T) {
	small := mustDecode(t, `{"type":"LineString","coordinates":[[0,0],[0.0001,0.0001]]}`)
	large := mustDecode(t, `{"type":"LineString","coordinates":[[-170,-60],[170,60]]}`)
	a, _ := Fit(small)
	b, _ := Fit(large)
	assert.Equal(t, a.Zoom, b.Zoom)
	assert.Equal(t, orb.Point{0, 0}, b.Center)
}

func TestFitPoints(t *testing.T) {
	c := mustDecode(t, `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Point","coordinates":[-10,5]},"properties":{}},
		{"type":"Feature","geometry":{"type":"Point","coordinates":[10,15]},"properties":{}}]}`)
	vp, ok := Fit(c)
	require.True(t, ok)
	assert.Equal(t, orb.Point{0, 10}, vp.Center)
}
