package pointcloud

import (
	"context"
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"geoview/internal/format"
)

// PLYDecoder reads Stanford PLY meshes in ascii or binary form. Faces are
// only used to compute vertex normals; the points themselves are the output.
type PLYDecoder struct{}

type plyType struct {
	size   int
	float  bool
	signed bool
}

var plyTypes = map[string]plyType{
	"char": {1, false, true}, "int8": {1, false, true},
	"uchar": {1, false, false}, "uint8": {1, false, false},
	"short": {2, false, true}, "int16": {2, false, true},
	"ushort": {2, false, false}, "uint16": {2, false, false},
	"int": {4, false, true}, "int32": {4, false, true},
	"uint": {4, false, false}, "uint32": {4, false, false},
	"float": {4, true, true}, "float32": {4, true, true},
	"double": {8, true, true}, "float64": {8, true, true},
}

type plyProperty struct {
	name    string
	typ     plyType
	list    bool
	countTy plyType
}

type plyElement struct {
	name  string
	count int
	props []plyProperty
}

func (e *plyElement) prop(name string) int {
	for i, p := range e.props {
		if p.name == name {
			return i
		}
	}
	return -1
}

// minRecord is the fewest bytes one record of e can occupy.
func (e *plyElement) minRecord(ascii bool) int {
	n := 0
	for _, p := range e.props {
		switch {
		case ascii:
			n += 2 // one digit and a separator
		case p.list:
			n += p.countTy.size
		default:
			n += p.typ.size
		}
	}
	return max(n, 1)
}

type plyHeader struct {
	format   string
	elements []*plyElement
	length   int
}

// checkBody rejects a header that declares more records than body bytes
// can hold.
func (h *plyHeader) checkBody(body int) error {
	ascii := h.format == "ascii"
	if ascii {
		body++ // the last record needs no trailing separator
	}
	need := 0
	for _, e := range h.elements {
		rec := e.minRecord(ascii)
		if e.count > (body-need)/rec {
			return format.Errorf("ply", "truncated data: element %s declares %d records, body has %d bytes", e.name, e.count, body)
		}
		need += e.count * rec
	}
	return nil
}

func parsePLYHeader(data []byte) (*plyHeader, error) {
	r := &lineReader{data: data}
	magic, ok := r.next()
	if !ok || strings.TrimSpace(string(magic)) != "ply" {
		return nil, format.Errorf("ply", "malformed header: missing ply magic")
	}
	h := &plyHeader{}
	var cur *plyElement
	for {
		ln, ok := r.next()
		if !ok {
			return nil, format.Errorf("ply", "malformed header: missing end_header")
		}
		f := strings.Fields(string(ln))
		if len(f) == 0 {
			continue
		}
		switch f[0] {
		case "comment", "obj_info":
		case "format":
			if len(f) < 2 {
				return nil, format.Errorf("ply", "malformed header: line %d: format has no value", r.line)
			}
			h.format = f[1]
		case "element":
			if len(f) < 3 {
				return nil, format.Errorf("ply", "malformed header: line %d: bad element", r.line)
			}
			n, err := strconv.Atoi(f[2])
			if err != nil || n < 0 {
				return nil, format.Errorf("ply", "malformed header: line %d: bad element count %q", r.line, f[2])
			}
			cur = &plyElement{name: f[1], count: n}
			h.elements = append(h.elements, cur)
		case "property":
			if cur == nil {
				return nil, format.Errorf("ply", "malformed header: line %d: property before element", r.line)
			}
			p, err := parsePLYProperty(f)
			if err != nil {
				return nil, format.Errorf("ply", "unsupported field layout: line %d: %s", r.line, err.Error())
			}
			cur.props = append(cur.props, p)
		case "end_header":
			h.length = r.pos
			switch h.format {
			case "ascii", "binary_little_endian", "binary_big_endian":
			case "":
				return nil, format.Errorf("ply", "malformed header: missing format")
			default:
				return nil, format.Errorf("ply", "unsupported field layout: format %s", h.format)
			}
			return h, nil
		default:
			return nil, format.Errorf("ply", "malformed header: line %d: unknown keyword %q", r.line, f[0])
		}
	}
}

type plyLayoutError string

func (e plyLayoutError) Error() string { return string(e) }

func parsePLYProperty(f []string) (plyProperty, error) {
	if len(f) >= 5 && f[1] == "list" {
		ct, ok1 := plyTypes[f[2]]
		it, ok2 := plyTypes[f[3]]
		if !ok1 || !ok2 || ct.float {
			return plyProperty{}, plyLayoutError("bad list types " + f[2] + " " + f[3])
		}
		return plyProperty{name: f[4], typ: it, list: true, countTy: ct}, nil
	}
	if len(f) < 3 {
		return plyProperty{}, plyLayoutError("property without name")
	}
	t, ok := plyTypes[f[1]]
	if !ok {
		return plyProperty{}, plyLayoutError("unknown type " + f[1])
	}
	return plyProperty{name: f[2], typ: t}, nil
}

// plyReader yields property values from either an ascii or binary body.
type plyReader interface {
	value(t plyType) (float64, error)
	offset() int
}

type plyASCIIReader struct {
	data []byte
	pos  int
}

func (r *plyASCIIReader) value(plyType) (float64, error) {
	for r.pos < len(r.data) && isSpace(r.data[r.pos]) {
		r.pos++
	}
	start := r.pos
	for r.pos < len(r.data) && !isSpace(r.data[r.pos]) {
		r.pos++
	}
	if start == r.pos {
		return 0, format.Errorf("ply", "truncated data: unexpected end of ascii body")
	}
	v, err := strconv.ParseFloat(string(r.data[start:r.pos]), 64)
	if err != nil {
		return 0, format.Wrap("ply", "invalid ascii value", err)
	}
	return v, nil
}

func (r *plyASCIIReader) offset() int { return r.pos }

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

type plyBinaryReader struct {
	data  []byte
	pos   int
	order binary.ByteOrder
}

func (r *plyBinaryReader) value(t plyType) (float64, error) {
	if r.pos+t.size > len(r.data) {
		return 0, format.Errorf("ply", "truncated data: need %d bytes at offset %d, have %d", t.size, r.pos, len(r.data)-r.pos)
	}
	b := r.data[r.pos : r.pos+t.size]
	r.pos += t.size
	switch {
	case t.float && t.size == 8:
		return math.Float64frombits(r.order.Uint64(b)), nil
	case t.float:
		return float64(math.Float32frombits(r.order.Uint32(b))), nil
	case t.size == 1 && t.signed:
		return float64(int8(b[0])), nil
	case t.size == 1:
		return float64(b[0]), nil
	case t.size == 2 && t.signed:
		return float64(int16(r.order.Uint16(b))), nil
	case t.size == 2:
		return float64(r.order.Uint16(b)), nil
	case t.signed:
		return float64(int32(r.order.Uint32(b))), nil
	default:
		return float64(r.order.Uint32(b)), nil
	}
}

func (r *plyBinaryReader) offset() int { return r.pos }

// vertexLayout maps vertex property indices to buffer channels.
type vertexLayout struct {
	pos    [3]int
	normal [3]int
	color  [3]int
	scale  float32 // 1/255 for integer colours
}

func newVertexLayout(e *plyElement) (vertexLayout, error) {
	l := vertexLayout{
		pos:    [3]int{e.prop("x"), e.prop("y"), e.prop("z")},
		normal: [3]int{e.prop("nx"), e.prop("ny"), e.prop("nz")},
		color:  [3]int{e.prop("red"), e.prop("green"), e.prop("blue")},
		scale:  1,
	}
	if l.pos[0] < 0 || l.pos[1] < 0 || l.pos[2] < 0 {
		return l, format.Errorf("ply", "unsupported field layout: vertex element lacks x, y or z")
	}
	if l.color[0] < 0 {
		l.color = [3]int{e.prop("diffuse_red"), e.prop("diffuse_green"), e.prop("diffuse_blue")}
	}
	for _, i := range [...]int{l.pos[0], l.pos[1], l.pos[2], l.normal[0], l.normal[1], l.normal[2], l.color[0], l.color[1], l.color[2]} {
		if i >= 0 && e.props[i].list {
			return l, format.Errorf("ply", "unsupported field layout: vertex property %s is a list", e.props[i].name)
		}
	}
	if l.color[0] >= 0 && !e.props[l.color[0]].typ.float {
		l.scale = 1.0 / 255
	}
	return l, nil
}

func (l vertexLayout) hasNormals() bool {
	return l.normal[0] >= 0 && l.normal[1] >= 0 && l.normal[2] >= 0
}

func (l vertexLayout) hasColors() bool {
	return l.color[0] >= 0 && l.color[1] >= 0 && l.color[2] >= 0
}

// Decode implements Decoder.
func (PLYDecoder) Decode(ctx context.Context, data []byte, fn ProgressFunc) (*Buffer, error) {
	if len(data) == 0 {
		return nil, format.ErrEmptyInput
	}
	h, err := parsePLYHeader(data)
	if err != nil {
		return nil, err
	}
	var vertex *plyElement
	for _, e := range h.elements {
		if e.name == "vertex" {
			vertex = e
			break
		}
	}
	if vertex == nil {
		return nil, format.Errorf("ply", "unsupported field layout: no vertex element")
	}
	layout, err := newVertexLayout(vertex)
	if err != nil {
		return nil, err
	}
	if err := h.checkBody(len(data) - h.length); err != nil {
		return nil, err
	}

	var r plyReader
	switch h.format {
	case "ascii":
		r = &plyASCIIReader{data: data, pos: h.length}
	case "binary_little_endian":
		r = &plyBinaryReader{data: data, pos: h.length, order: binary.LittleEndian}
	default:
		r = &plyBinaryReader{data: data, pos: h.length, order: binary.BigEndian}
	}

	p := newProgress(len(data), fn)
	b := &Buffer{Positions: make([]float32, 0, vertex.count*3)}
	if layout.hasColors() {
		b.Colors = make([]float32, 0, vertex.count*3)
	}
	if layout.hasNormals() {
		b.Normals = make([]float32, 0, vertex.count*3)
	}
	var indices []uint32
	record := 0
	row := make([]float64, 0, 16)

	for _, e := range h.elements {
		faces := e.name == "face"
		listProp := -1
		if faces {
			if listProp = e.prop("vertex_indices"); listProp < 0 {
				listProp = e.prop("vertex_index")
			}
		}
		for i := 0; i < e.count; i++ {
			row = row[:0]
			for k, prop := range e.props {
				if !prop.list {
					v, err := r.value(prop.typ)
					if err != nil {
						return nil, err
					}
					row = append(row, v)
					continue
				}
				n, err := r.value(prop.countTy)
				if err != nil {
					return nil, err
				}
				row = append(row, n)
				start := len(indices)
				for j := 0; j < int(n); j++ {
					v, err := r.value(prop.typ)
					if err != nil {
						return nil, err
					}
					if faces && k == listProp {
						if v < 0 || int(v) >= vertex.count {
							return nil, format.Errorf("ply", "face %d references vertex %d of %d", i, int(v), vertex.count)
						}
						indices = append(indices, uint32(v))
					}
				}
				if faces && k == listProp {
					indices = fan(indices, start)
				}
			}
			if e == vertex {
				b.Positions = append(b.Positions,
					float32(row[layout.pos[0]]), float32(row[layout.pos[1]]), float32(row[layout.pos[2]]))
				if b.Normals != nil {
					b.Normals = append(b.Normals,
						float32(row[layout.normal[0]]), float32(row[layout.normal[1]]), float32(row[layout.normal[2]]))
				}
				if b.Colors != nil {
					b.Colors = append(b.Colors,
						float32(row[layout.color[0]])*layout.scale,
						float32(row[layout.color[1]])*layout.scale,
						float32(row[layout.color[2]])*layout.scale)
				}
			}
			record++
			if err := p.tick(ctx, record, r.offset()); err != nil {
				return nil, err
			}
		}
	}
	if b.Normals == nil {
		b.Normals = computeVertexNormals(b.Positions, indices)
	}
	p.finish()
	return b, nil
}

// fan rewrites the polygon appended at indices[start:] as a triangle fan.
func fan(indices []uint32, start int) []uint32 {
	poly := indices[start:]
	n := len(poly)
	if n == 3 {
		return indices
	}
	if n < 3 {
		return indices[:start]
	}
	tris := make([]uint32, 0, (n-2)*3)
	for i := 1; i+1 < n; i++ {
		tris = append(tris, poly[0], poly[i], poly[i+1])
	}
	return append(indices[:start], tris...)
}
