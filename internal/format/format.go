// Package format classifies input files by extension and defines the error
// taxonomy shared by every decoder.
package format

import (
	"path/filepath"
	"strings"
)

// Family is the broad content family of a file.
type Family int

const (
	Unknown Family = iota
	PointCloud
	Vector
)

func (f Family) String() string {
	switch f {
	case PointCloud:
		return "point-cloud"
	case Vector:
		return "gis"
	default:
		return "unknown"
	}
}

// Subformat is the concrete dialect of a point-cloud file.
type Subformat string

const (
	PCD Subformat = "pcd"
	TXT Subformat = "txt"
	XYZ Subformat = "xyz"
	PLY Subformat = "ply"
)

// Kind is the result of classification. Subformat is only set for point clouds.
type Kind struct {
	Family    Family
	Subformat Subformat
}

func (k Kind) String() string {
	if k.Family == PointCloud {
		return k.Family.String() + "/" + string(k.Subformat)
	}
	return k.Family.String()
}

var pointCloudExt = map[string]Subformat{
	".pcd": PCD,
	".txt": TXT,
	".xyz": XYZ,
	".ply": PLY,
}

var vectorExt = map[string]bool{
	".geojson": true,
	".json":    true,
}

// Classify maps a file name to its content family. It never fails: names
// outside the supported set are Unknown.
func Classify(name string) Kind {
	ext := strings.ToLower(filepath.Ext(name))
	if sub, ok := pointCloudExt[ext]; ok {
		return Kind{Family: PointCloud, Subformat: sub}
	}
	if vectorExt[ext] {
		return Kind{Family: Vector}
	}
	return Kind{Family: Unknown}
}

// Extensions lists every accepted extension, with the leading dot.
func Extensions() []string {
	return []string{".pcd", ".txt", ".xyz", ".ply", ".geojson", ".json"}
}

// Supported reports whether name classifies to a known family.
func Supported(name string) bool {
	return Classify(name).Family != Unknown
}
