package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoview/internal/format"
	"geoview/internal/logsink"
)

const cloudPCD = `# .PCD v0.7 - Point Cloud Data file format
VERSION 0.7
FIELDS x y z
SIZE 4 4 4
TYPE F F F
COUNT 1 1 1
WIDTH 4
HEIGHT 1
VIEWPOINT 0 0 0 1 0 0 0
POINTS 4
DATA ascii
0 0 0
1 1 1
2 2 nan
3 3 3
`

const truncatedPCD = "# .PCD v0.7\nVERSION 0.7\nFIELDS x y z\n"

const squareGeoJSON = `{"type":"FeatureCollection","features":[
  {"type":"Feature","geometry":{"type":"Polygon","coordinates":[[[0,0],[0,2],[2,2],[2,0],[0,0]]]},"properties":{"name":"square"}}]}`

func TestNewSourceFile(t *testing.T) {
	var sink logsink.Buffer
	f := NewSourceFile("/data/Scan.PCD", []byte(cloudPCD), &sink)

	_, err := uuid.Parse(f.ID)
	require.NoError(t, err)
	assert.Equal(t, "Scan.PCD", f.Name)
	assert.Equal(t, format.Kind{Family: format.PointCloud, Subformat: format.PCD}, f.Kind)
	assert.Equal(t, Meta{Points: 4, Estimated: true}, f.Meta)
	assert.Equal(t, int64(len(cloudPCD)), f.Size())
	assert.Contains(t, f.Summary(), "~4 pts")
	assert.Zero(t, sink.Len())

	g := NewSourceFile("square.geojson", []byte(squareGeoJSON), &sink)
	assert.Equal(t, 1, g.Meta.Features)
	assert.Contains(t, g.Summary(), "1 features")

	other := NewSourceFile("square.geojson", []byte(squareGeoJSON), &sink)
	assert.NotEqual(t, g.ID, other.ID)
}

func TestSourceFileMetadataError(t *testing.T) {
	var sink logsink.Buffer
	f := NewSourceFile("broken.json", []byte("{not json"), &sink)
	assert.Zero(t, f.Meta.Features)
	events := sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, logsink.Error, events[0].Severity)
	assert.Contains(t, events[0].Message, "Error parsing GIS file metadata: ")
}

func TestOpenAll(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.xyz")
	b := filepath.Join(dir, "b.geojson")
	require.NoError(t, os.WriteFile(a, []byte("0 0 0\n1 1 1\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte(squareGeoJSON), 0o644))

	var sink logsink.Buffer
	files, err := OpenAll(context.Background(), []string{a, filepath.Join(dir, "missing.ply"), b}, &sink)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	require.Len(t, files, 2)
	assert.Equal(t, "a.xyz", files[0].Name)
	assert.Equal(t, "b.geojson", files[1].Name)
	assert.Equal(t, 1, sink.Count(logsink.Error))

	files, err = OpenAll(context.Background(), []string{a}, &sink)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestSizeMessage(t *testing.T) {
	assert.Equal(t, "File Size: 500 bytes (0 KB, <1 MB)", SizeMessage(500))
	assert.Equal(t, "File Size: 2048 bytes (2 KB, <1 MB)", SizeMessage(2048))
	assert.Equal(t, "File Size: 3145728 bytes (3072 KB, 3 MB)", SizeMessage(3*1024*1024))
}
