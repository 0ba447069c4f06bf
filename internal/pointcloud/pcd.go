package pointcloud

import (
	"context"
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"geoview/internal/format"
)

// PCDDecoder reads the Point Cloud Library's PCD format (also used for .txt
// exports): a textual header followed by ascii, binary or
// binary_compressed records.
type PCDDecoder struct{}

type pcdHeader struct {
	version string
	fields  []string
	size    []int
	typ     []byte
	count   []int
	width   int
	height  int
	points  int
	data    string

	// per-field position: token index for ascii, byte offset for binary
	offset  map[string]int
	index   map[string]int
	rowSize int
	tokens  int
	length  int // header length in bytes, including the DATA line
}

func (h *pcdHeader) has(field string) bool {
	_, ok := h.index[field]
	return ok
}

func parsePCDHeader(data []byte) (*pcdHeader, error) {
	h := &pcdHeader{}
	r := &lineReader{data: data}
	var haveSize, haveType, haveCount bool
	for {
		ln, ok := r.next()
		if !ok {
			return nil, format.Errorf("pcd", "malformed header: missing DATA line")
		}
		s := strings.TrimSpace(string(ln))
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		parts := strings.Fields(s)
		key, vals := strings.ToUpper(parts[0]), parts[1:]
		var err error
		switch key {
		case "VERSION":
			if len(vals) > 0 {
				h.version = vals[0]
			}
		case "FIELDS", "COLUMNS":
			h.fields = vals
		case "SIZE":
			haveSize = true
			h.size, err = atoiAll(vals)
		case "TYPE":
			haveType = true
			h.typ = make([]byte, len(vals))
			for i, v := range vals {
				h.typ[i] = strings.ToUpper(v)[0]
			}
		case "COUNT":
			haveCount = true
			h.count, err = atoiAll(vals)
		case "WIDTH":
			h.width, err = atoiFirst(vals)
		case "HEIGHT":
			h.height, err = atoiFirst(vals)
		case "POINTS":
			h.points, err = atoiFirst(vals)
		case "VIEWPOINT":
		case "DATA":
			if len(vals) == 0 {
				return nil, format.Errorf("pcd", "malformed header: DATA has no value")
			}
			h.data = strings.ToLower(vals[0])
			h.length = r.pos
		default:
			return nil, format.Errorf("pcd", "malformed header: line %d: unknown key %q", r.line, parts[0])
		}
		if err != nil {
			return nil, format.Wrap("pcd", "malformed header: "+strings.ToLower(key), err)
		}
		if h.data != "" {
			break
		}
	}

	n := len(h.fields)
	if n == 0 {
		return nil, format.Errorf("pcd", "malformed header: missing FIELDS")
	}
	if !haveSize {
		h.size = repeat(4, n)
	}
	if !haveType {
		h.typ = make([]byte, n)
		for i := range h.typ {
			h.typ[i] = 'F'
		}
	}
	if !haveCount {
		h.count = repeat(1, n)
	}
	if len(h.size) != n || len(h.typ) != n || len(h.count) != n {
		return nil, format.Errorf("pcd", "unsupported field layout: %d fields, %d sizes, %d types, %d counts",
			n, len(h.size), len(h.typ), len(h.count))
	}
	if h.points <= 0 {
		h.points = h.width * h.height
	}
	if h.points <= 0 {
		if h.width == 0 && h.height == 0 {
			return nil, format.Errorf("pcd", "malformed header: missing POINTS")
		}
		return nil, format.Errorf("pcd", "malformed header: no points declared")
	}
	switch h.data {
	case "ascii", "binary", "binary_compressed":
	default:
		return nil, format.Errorf("pcd", "unsupported field layout: DATA %s", h.data)
	}

	h.offset = make(map[string]int, n)
	h.index = make(map[string]int, n)
	for i, f := range h.fields {
		if !validPCDType(h.typ[i], h.size[i]) {
			return nil, format.Errorf("pcd", "unsupported field layout: field %s has type %c%d", f, h.typ[i], h.size[i])
		}
		if h.count[i] < 1 {
			return nil, format.Errorf("pcd", "unsupported field layout: field %s has count %d", f, h.count[i])
		}
		h.index[f] = i
		if h.data == "ascii" {
			h.offset[f] = h.tokens
		} else {
			h.offset[f] = h.rowSize
		}
		h.tokens += h.count[i]
		h.rowSize += h.size[i] * h.count[i]
	}
	if !h.has("x") || !h.has("y") || !h.has("z") {
		return nil, format.Errorf("pcd", "unsupported field layout: missing x, y or z field")
	}
	return h, nil
}

func validPCDType(t byte, size int) bool {
	switch t {
	case 'F':
		return size == 4 || size == 8
	case 'I', 'U':
		return size == 1 || size == 2 || size == 4 || size == 8
	}
	return false
}

// Decode implements Decoder.
func (PCDDecoder) Decode(ctx context.Context, data []byte, fn ProgressFunc) (*Buffer, error) {
	if len(data) == 0 {
		return nil, format.ErrEmptyInput
	}
	h, err := parsePCDHeader(data)
	if err != nil {
		return nil, err
	}
	p := newProgress(len(data), fn)
	var buf *Buffer
	switch h.data {
	case "ascii":
		buf, err = decodePCDASCII(ctx, h, data, p)
	case "binary":
		buf, err = decodePCDBinary(ctx, h, data, p)
	default:
		buf, err = decodePCDCompressed(ctx, h, data, p)
	}
	if err != nil {
		return nil, err
	}
	p.finish()
	return buf, nil
}

// newPCDBuffer allocates room for n points. Callers bound n by the body
// size, never by the header alone.
func newPCDBuffer(h *pcdHeader, n int) *Buffer {
	b := &Buffer{Positions: make([]float32, 0, n*3)}
	if h.has("rgb") || h.has("rgba") {
		b.Colors = make([]float32, 0, n*3)
	}
	if h.has("normal_x") && h.has("normal_y") && h.has("normal_z") {
		b.Normals = make([]float32, 0, n*3)
	}
	return b
}

func colorField(h *pcdHeader) string {
	if h.has("rgb") {
		return "rgb"
	}
	return "rgba"
}

// appendPacked unpacks a 0x00RRGGBB value into three 0..1 channels.
func appendPacked(dst []float32, v uint32) []float32 {
	return append(dst,
		float32((v>>16)&0xff)/255,
		float32((v>>8)&0xff)/255,
		float32(v&0xff)/255)
}

func decodePCDASCII(ctx context.Context, h *pcdHeader, data []byte, p *progress) (*Buffer, error) {
	// a record is at least one character and one separator per value
	b := newPCDBuffer(h, min(h.points, (len(data)-h.length)/(2*h.tokens)+1))
	r := &lineReader{data: data, pos: h.length}
	cf := colorField(h)
	n := 0
	for n < h.points {
		ln, ok := r.next()
		if !ok {
			break
		}
		tok := strings.Fields(string(ln))
		if len(tok) == 0 {
			continue
		}
		if len(tok) < h.tokens {
			return nil, format.Errorf("pcd", "truncated data: record %d has %d values, want %d", n+1, len(tok), h.tokens)
		}
		for _, axis := range [...]string{"x", "y", "z"} {
			v, err := strconv.ParseFloat(tok[h.offset[axis]], 64)
			if err != nil {
				return nil, format.Wrap("pcd", "record "+strconv.Itoa(n+1)+": invalid "+axis, err)
			}
			b.Positions = append(b.Positions, float32(v))
		}
		if b.Colors != nil {
			i := h.index[cf]
			packed, err := parsePackedASCII(tok[h.offset[cf]], h.typ[i])
			if err != nil {
				return nil, format.Wrap("pcd", "record "+strconv.Itoa(n+1)+": invalid "+cf, err)
			}
			b.Colors = appendPacked(b.Colors, packed)
		}
		if b.Normals != nil {
			for _, axis := range [...]string{"normal_x", "normal_y", "normal_z"} {
				v, err := strconv.ParseFloat(tok[h.offset[axis]], 64)
				if err != nil {
					return nil, format.Wrap("pcd", "record "+strconv.Itoa(n+1)+": invalid "+axis, err)
				}
				b.Normals = append(b.Normals, float32(v))
			}
		}
		n++
		if err := p.tick(ctx, n, r.pos); err != nil {
			return nil, err
		}
	}
	if n < h.points {
		return nil, format.Errorf("pcd", "truncated data: found %d of %d points", n, h.points)
	}
	return b, nil
}

// parsePackedASCII reads an rgb token. Float fields carry the packed bits
// of a float32; integer fields carry the value directly.
func parsePackedASCII(tok string, typ byte) (uint32, error) {
	if typ == 'F' {
		f, err := strconv.ParseFloat(tok, 32)
		if err != nil {
			return 0, err
		}
		return math.Float32bits(float32(f)), nil
	}
	v, err := strconv.ParseUint(tok, 10, 32)
	return uint32(v), err
}

// readPCDValue decodes one little-endian scalar.
func readPCDValue(b []byte, typ byte, size int) float64 {
	switch typ {
	case 'F':
		if size == 8 {
			return math.Float64frombits(binary.LittleEndian.Uint64(b))
		}
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	case 'I':
		switch size {
		case 1:
			return float64(int8(b[0]))
		case 2:
			return float64(int16(binary.LittleEndian.Uint16(b)))
		case 4:
			return float64(int32(binary.LittleEndian.Uint32(b)))
		default:
			return float64(int64(binary.LittleEndian.Uint64(b)))
		}
	default:
		switch size {
		case 1:
			return float64(b[0])
		case 2:
			return float64(binary.LittleEndian.Uint16(b))
		case 4:
			return float64(binary.LittleEndian.Uint32(b))
		default:
			return float64(binary.LittleEndian.Uint64(b))
		}
	}
}

// readPCDPacked returns the raw 32 bits of an rgb field.
func readPCDPacked(b []byte, size int) uint32 {
	if size >= 4 {
		return binary.LittleEndian.Uint32(b)
	}
	if size == 2 {
		return uint32(binary.LittleEndian.Uint16(b))
	}
	return uint32(b[0])
}

// pcdAccessor locates field bytes for point i.
type pcdAccessor func(field string, i int) []byte

// decodePCDRecords expects the caller to have checked that h.points records
// fit in the payload behind at.
func decodePCDRecords(ctx context.Context, h *pcdHeader, at pcdAccessor, p *progress, consumed func(i int) int) (*Buffer, error) {
	b := newPCDBuffer(h, h.points)
	cf := colorField(h)
	read := func(f string, i int) float32 {
		k := h.index[f]
		return float32(readPCDValue(at(f, i), h.typ[k], h.size[k]))
	}
	for i := 0; i < h.points; i++ {
		b.Positions = append(b.Positions, read("x", i), read("y", i), read("z", i))
		if b.Colors != nil {
			b.Colors = appendPacked(b.Colors, readPCDPacked(at(cf, i), h.size[h.index[cf]]))
		}
		if b.Normals != nil {
			b.Normals = append(b.Normals, read("normal_x", i), read("normal_y", i), read("normal_z", i))
		}
		if err := p.tick(ctx, i+1, consumed(i+1)); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func decodePCDBinary(ctx context.Context, h *pcdHeader, data []byte, p *progress) (*Buffer, error) {
	body := data[h.length:]
	if h.points > len(body)/h.rowSize {
		return nil, format.Errorf("pcd", "truncated data: %d points of %d bytes declared, have %d bytes", h.points, h.rowSize, len(body))
	}
	at := func(f string, i int) []byte {
		off := i*h.rowSize + h.offset[f]
		return body[off : off+h.size[h.index[f]]]
	}
	return decodePCDRecords(ctx, h, at, p, func(i int) int { return h.length + i*h.rowSize })
}

func decodePCDCompressed(ctx context.Context, h *pcdHeader, data []byte, p *progress) (*Buffer, error) {
	body := data[h.length:]
	if len(body) < 8 {
		return nil, format.Errorf("pcd", "truncated data: missing compressed block sizes")
	}
	compressed := int(binary.LittleEndian.Uint32(body[0:4]))
	decompressed := int(binary.LittleEndian.Uint32(body[4:8]))
	if len(body)-8 < compressed {
		return nil, format.Errorf("pcd", "truncated data: need %d compressed bytes, have %d", compressed, len(body)-8)
	}
	if decompressed/lzfMaxExpansion > compressed {
		return nil, format.Errorf("pcd", "corrupt compressed data: %d bytes cannot expand to %d", compressed, decompressed)
	}
	if h.points > math.MaxInt/h.rowSize || decompressed != h.points*h.rowSize {
		return nil, format.Errorf("pcd", "unsupported field layout: %d decompressed bytes for %d points of %d bytes",
			decompressed, h.points, h.rowSize)
	}
	raw, err := lzfDecompress(body[8:8+compressed], decompressed)
	if err != nil {
		return nil, format.Wrap("pcd", "corrupt compressed data", err)
	}
	// Compressed payloads are stored column by column.
	column := make(map[string]int, len(h.fields))
	off := 0
	for i, f := range h.fields {
		column[f] = off
		off += h.size[i] * h.count[i] * h.points
	}
	at := func(f string, i int) []byte {
		k := h.index[f]
		start := column[f] + i*h.size[k]*h.count[k]
		return raw[start : start+h.size[k]]
	}
	base := h.length + 8
	return decodePCDRecords(ctx, h, at, p, func(i int) int { return base + compressed*i/h.points })
}

func atoiAll(vals []string) ([]int, error) {
	out := make([]int, len(vals))
	for i, v := range vals {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func atoiFirst(vals []string) (int, error) {
	if len(vals) == 0 {
		return 0, strconv.ErrSyntax
	}
	return strconv.Atoi(vals[0])
}

func repeat(v, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = v
	}
	return out
}
