package pointcloud

import "errors"

var (
	errLZFInput  = errors.New("lzf: input overrun")
	errLZFOutput = errors.New("lzf: output overrun")
	errLZFRef    = errors.New("lzf: back reference before start")
	errLZFShort  = errors.New("lzf: decompressed size mismatch")
)

// lzfMaxExpansion bounds the output of one input byte: a three byte back
// reference copies at most 264 bytes.
const lzfMaxExpansion = 88

// lzfDecompress expands a liblzf stream into exactly outLen bytes.
func lzfDecompress(in []byte, outLen int) ([]byte, error) {
	out := make([]byte, outLen)
	ip, op := 0, 0
	for ip < len(in) {
		ctrl := int(in[ip])
		ip++
		if ctrl < 1<<5 {
			n := ctrl + 1
			if ip+n > len(in) {
				return nil, errLZFInput
			}
			if op+n > outLen {
				return nil, errLZFOutput
			}
			copy(out[op:], in[ip:ip+n])
			ip += n
			op += n
			continue
		}
		length := ctrl >> 5
		ref := op - (ctrl&0x1f)<<8 - 1
		if length == 7 {
			if ip >= len(in) {
				return nil, errLZFInput
			}
			length += int(in[ip])
			ip++
		}
		if ip >= len(in) {
			return nil, errLZFInput
		}
		ref -= int(in[ip])
		ip++
		length += 2
		if ref < 0 {
			return nil, errLZFRef
		}
		if op+length > outLen {
			return nil, errLZFOutput
		}
		// byte-wise: source and destination may overlap
		for i := 0; i < length; i++ {
			out[op] = out[ref]
			op++
			ref++
		}
	}
	if op != outLen {
		return nil, errLZFShort
	}
	return out, nil
}
