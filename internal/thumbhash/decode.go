// Package thumbhash decodes ThumbHash image placeholders.
//
// A hash is a 5-25 byte blob: a fixed header carrying the DC term and
// scale of each LPQ(A) channel, followed by 4-bit AC coefficients packed
// least-significant bit first. Decoding reconstructs a raster whose longer
// side is 32px by summing the cosine basis for every pixel.
//
// Header layout:
//
//	bytes 0-2 (LE):  bits  0-5  lDC     /63
//	                 bits  6-11 pDC     /31.5 - 1
//	                 bits 12-17 qDC     /31.5 - 1
//	                 bits 18-22 lScale  /31
//	                 bit  23    hasAlpha
//	bytes 3-4 (LE):  bits  0-5  pScale  /63
//	                 bits  6-11 qScale  /63
//	                 bit  12    isLandscape
//	                 bits 13-15 luminance size hint
//	byte 5 (alpha):  low nibble aScale /15, high nibble aDC /15
//
// Decoding is pure: every call owns its cursor, coefficients and output.
package thumbhash

import (
	"encoding/base64"
	"image/color"
	"math"
	"strings"
)

const (
	headerSize      = 5
	alphaHeaderSize = 6

	// rasterSize is the length of the longer raster side.
	rasterSize = 32
)

// Header masks.
const (
	mask6 = 0x3f
	mask5 = 0x1f
	mask4 = 0x0f
	mask3 = 0x07
)

type header struct {
	lDC, pDC, qDC, aDC             float64
	lScale, pScale, qScale, aScale float64
	hasAlpha                       bool
	isLandscape                    bool
	lx, ly                         int // luminance AC grid
	acStart                        int
}

func parseHeader(hash []byte) (header, error) {
	if len(hash) < headerSize {
		return header{}, truncated(headerSize, len(hash))
	}

	h24 := uint32(hash[0]) | uint32(hash[1])<<8 | uint32(hash[2])<<16
	h16 := uint16(hash[3]) | uint16(hash[4])<<8

	h := header{
		lDC:         float64(h24&mask6) / 63,
		pDC:         float64((h24>>6)&mask6)/31.5 - 1,
		qDC:         float64((h24>>12)&mask6)/31.5 - 1,
		lScale:      float64((h24>>18)&mask5) / 31,
		hasAlpha:    (h24>>23)&1 != 0,
		pScale:      float64(h16&mask6) / 63,
		qScale:      float64((h16>>6)&mask6) / 63,
		isLandscape: (h16>>12)&1 != 0,
		aDC:         1,
		acStart:     headerSize,
	}

	long := 7
	if h.hasAlpha {
		long = 5
	}
	hinted := max(3, int(h16>>13)&mask3+1)
	if h.isLandscape {
		h.lx, h.ly = long, hinted
	} else {
		h.lx, h.ly = hinted, long
	}

	if h.hasAlpha {
		if len(hash) < alphaHeaderSize {
			return header{}, truncated(alphaHeaderSize, len(hash))
		}
		h.aScale = float64(hash[5]&mask4) / 15
		h.aDC = float64(hash[5]>>4) / 15
		h.acStart = alphaHeaderSize
	}
	return h, nil
}

// size returns the raster dimensions. The longer side is rasterSize.
func (h header) size() (w, hgt int) {
	ratio := float64(h.ly) / float64(h.lx)
	if h.isLandscape {
		ratio = float64(h.lx) / float64(h.ly)
	}
	fw, fh := rasterSize*ratio, float64(rasterSize)
	if ratio > 1 {
		fw, fh = rasterSize, rasterSize/ratio
	}
	return max(1, int(math.Round(fw))), max(1, int(math.Round(fh)))
}

// term is one AC basis function.
type term struct{ cx, cy int }

// channel is one of L, P, Q or A.
type channel struct {
	dc    float64
	terms []term
	ac    []float64
}

// triangle enumerates the AC index set of an nx by ny grid: cy outer, cx
// inner, skipping the DC term, keeping cx*ny < nx*(ny-cy).
func triangle(nx, ny int) []term {
	var ts []term
	for cy := 0; cy < ny; cy++ {
		cx := 0
		if cy == 0 {
			cx = 1
		}
		for ; cx*ny < nx*(ny-cy); cx++ {
			ts = append(ts, term{cx, cy})
		}
	}
	return ts
}

// readChannel pulls len(triangle(nx, ny)) nibbles from br.
func readChannel(br *bitReader, nx, ny int, dc, scale float64) channel {
	ch := channel{dc: dc, terms: triangle(nx, ny)}
	ch.ac = make([]float64, len(ch.terms))
	for i := range ch.ac {
		raw := float64(br.readBits(4))
		ch.ac[i] = ((raw+0.5)/16 - 0.5) * scale
	}
	return ch
}

// at evaluates the channel at one pixel from precomputed cosine rows.
func (ch *channel) at(cosX []float64, cosY []float64, w, h, x, y int) float64 {
	v := ch.dc
	for i, t := range ch.terms {
		v += ch.ac[i] * cosX[t.cx*w+x] * cosY[t.cy*h+y]
	}
	return v
}

// Decode reconstructs the placeholder raster of a binary ThumbHash.
// It fails only with a *DecodeError of kind KindTruncatedInput; any
// length-valid header decodes, however odd the result.
func Decode(hash []byte) (*Raster, error) {
	h, err := parseHeader(hash)
	if err != nil {
		return nil, err
	}

	br := newBitReader(hash, h.acStart)
	l := readChannel(br, h.lx, h.ly, h.lDC, h.lScale)
	p := readChannel(br, 3, 3, h.pDC, h.pScale)
	q := readChannel(br, 3, 3, h.qDC, h.qScale)
	var a channel
	if h.hasAlpha {
		a = readChannel(br, 5, 5, h.aDC, h.aScale)
	}

	w, ht := h.size()
	nx, ny := max(h.lx, 5), max(h.ly, 5)
	cosX := cosTable(nx, w)
	cosY := cosTable(ny, ht)

	out := &Raster{Width: w, Height: ht, RGBA: make([]byte, w*ht*4)}
	i := 0
	for y := 0; y < ht; y++ {
		for x := 0; x < w; x++ {
			lv := l.at(cosX, cosY, w, ht, x, y)
			pv := p.at(cosX, cosY, w, ht, x, y)
			qv := q.at(cosX, cosY, w, ht, x, y)
			av := 1.0
			if h.hasAlpha {
				av = a.at(cosX, cosY, w, ht, x, y)
			}

			r, g, b := lpqToRGB(lv, pv, qv)
			out.RGBA[i] = toByte(r)
			out.RGBA[i+1] = toByte(g)
			out.RGBA[i+2] = toByte(b)
			out.RGBA[i+3] = toByte(av)
			i += 4
		}
	}
	return out, nil
}

// DecodeString decodes the base64 form of a hash. Padding is optional.
func DecodeString(s string) (*Raster, error) {
	hash, err := decodeBase64(s)
	if err != nil {
		return nil, err
	}
	return Decode(hash)
}

// AverageColor returns the flat color carried by the DC terms alone.
func AverageColor(hash []byte) (color.NRGBA, error) {
	h, err := parseHeader(hash)
	if err != nil {
		return color.NRGBA{}, err
	}
	r, g, b := lpqToRGB(h.lDC, h.pDC, h.qDC)
	return color.NRGBA{R: toByte(r), G: toByte(g), B: toByte(b), A: toByte(h.aDC)}, nil
}

// ParseString decodes the base64 form of a hash into raw bytes.
func ParseString(s string) ([]byte, error) {
	return decodeBase64(s)
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimRight(strings.TrimSpace(s), "=")
	hash, err := base64.RawStdEncoding.DecodeString(s)
	if err != nil {
		return nil, &DecodeError{Kind: KindInvalidEncoding, Cause: err}
	}
	return hash, nil
}

// cosTable returns n rows of size samples: row c holds cos(pi*c*(i+0.5)/size).
func cosTable(n, size int) []float64 {
	t := make([]float64, n*size)
	for c := 0; c < n; c++ {
		for i := 0; i < size; i++ {
			t[c*size+i] = math.Cos(math.Pi * float64(c) * (float64(i) + 0.5) / float64(size))
		}
	}
	return t
}

func lpqToRGB(l, p, q float64) (r, g, b float64) {
	b = l - 2.0/3.0*p
	r = (3*l - b + q) / 2
	g = r - q
	return r, g, b
}

// toByte clamps v to [0, 1] and scales it to a byte, truncating.
func toByte(v float64) byte {
	v *= 255
	switch {
	case !(v > 0):
		return 0
	case v >= 255:
		return 255
	}
	return byte(v)
}
