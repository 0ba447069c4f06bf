package geom

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
)

func TestStyleFor(t *testing.T) {
	tests := []struct {
		kind Kind
		want Style
	}{
		{Point, Style{Paint: Circle, Color: "#007cbf", Radius: 6, Opacity: 1, StrokeColor: "#ffffff", StrokeWidth: 1}},
		{LineString, Style{Paint: Stroke, Color: "#007cbf", Width: 2, Opacity: 1}},
		{Polygon, Style{Paint: Fill, Color: "#007cbf", Opacity: 0.4, StrokeColor: "#ffffff"}},
		{Other, Style{Paint: Circle, Color: "#007cbf", Radius: 6, Opacity: 1}},
		{Kind(42), Style{Paint: Circle, Color: "#007cbf", Radius: 6, Opacity: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, StyleFor(tt.kind))
		})
	}
}

func TestStyleColors(t *testing.T) {
	blue, _ := colorful.Hex("#007cbf")

	fill, stroke := StyleFor(LineString).Colors()
	assert.Equal(t, blue, fill)
	assert.Equal(t, blue, stroke)

	fill, stroke = StyleFor(Polygon).Colors()
	assert.InDelta(t, blue.B*0.4, fill.B, 1e-9)
	assert.InDelta(t, 1, stroke.R, 1e-9)
	assert.InDelta(t, 1, stroke.G, 1e-9)
	assert.InDelta(t, 1, stroke.B, 1e-9)

	fill, _ = Style{Color: "nope", Opacity: 1}.Colors()
	assert.Equal(t, blue, fill)
}
