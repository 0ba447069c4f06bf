package pointcloud

import "bytes"

// lineReader walks a byte slice line by line, tracking the offset for
// progress and the line number for error messages.
type lineReader struct {
	data []byte
	pos  int
	line int
}

func (r *lineReader) next() ([]byte, bool) {
	if r.pos >= len(r.data) {
		return nil, false
	}
	rest := r.data[r.pos:]
	i := bytes.IndexByte(rest, '\n')
	var ln []byte
	if i < 0 {
		ln = rest
		r.pos = len(r.data)
	} else {
		ln = rest[:i]
		r.pos += i + 1
	}
	r.line++
	return bytes.TrimRight(ln, "\r"), true
}
