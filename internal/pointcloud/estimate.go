package pointcloud

import (
	"bytes"

	"geoview/internal/format"
)

// Estimate returns the point count declared by a file's header (PCD, PLY)
// or its record count (XYZ), without decoding the records.
func Estimate(data []byte, sub format.Subformat) (int, bool) {
	if len(data) == 0 {
		return 0, false
	}
	switch sub {
	case format.PCD, format.TXT:
		h, err := parsePCDHeader(data)
		if err != nil {
			return 0, false
		}
		return h.points, true
	case format.PLY:
		h, err := parsePLYHeader(data)
		if err != nil {
			return 0, false
		}
		for _, e := range h.elements {
			if e.name == "vertex" {
				return e.count, true
			}
		}
		return 0, false
	case format.XYZ:
		n := 0
		r := &lineReader{data: data}
		for {
			ln, ok := r.next()
			if !ok {
				break
			}
			ln = bytes.TrimSpace(ln)
			if len(ln) > 0 && ln[0] != '#' {
				n++
			}
		}
		return n, true
	}
	return 0, false
}
