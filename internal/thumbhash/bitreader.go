package thumbhash

// bitReader extracts bit fields least-significant bit first. It is owned by
// a single decode call.
//
// Reads past the end of data yield zero bits, so a short AC section decodes
// as mid-range coefficients instead of touching memory outside the buffer.
type bitReader struct {
	data   []byte
	pos    int  // byte cursor
	bitPos uint // next bit within data[pos], 0-7
}

func newBitReader(data []byte, start int) *bitReader {
	return &bitReader{data: data, pos: start}
}

// readBits returns the next n bits (n <= 32) as an unsigned integer whose
// bit i is the i-th bit read.
func (r *bitReader) readBits(n int) uint32 {
	var v uint32
	for i := 0; i < n; i++ {
		if r.pos < len(r.data) && (r.data[r.pos]>>r.bitPos)&1 != 0 {
			v |= 1 << i
		}
		r.bitPos++
		if r.bitPos == 8 {
			r.bitPos = 0
			r.pos++
		}
	}
	return v
}

// offset is the absolute bit position of the cursor.
func (r *bitReader) offset() int {
	return r.pos*8 + int(r.bitPos)
}

// overrun reports whether any bit was read past the end of data.
func (r *bitReader) overrun() bool {
	return r.offset() > len(r.data)*8
}
