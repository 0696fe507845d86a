package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"io"
	"math"

	"github.com/AnyUserName/mediagrid/internal/layout"
	"github.com/cespare/xxhash/v2"
)

// ContentHash computes the xxHash64 of data and returns a hex string
// truncated to the given length. Filenames use 8 hex chars; the manifest
// records the full 16.
func ContentHash(data []byte, hexLen int) string {
	return truncate(xxhash.Sum64(data), hexLen)
}

// ContentHashReader computes xxHash64 from a reader, streaming.
func ContentHashReader(r io.Reader, hexLen int) (string, error) {
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return truncate(h.Sum64(), hexLen), nil
}

// LayoutKey identifies a layout computation: the item dimensions past
// MaxItems are ignored, as the engine ignores them.
func LayoutKey(items []layout.Dimensions, cfg layout.Config) uint64 {
	h := xxhash.New()
	var buf [8]byte
	putFloat := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		h.Write(buf[:])
	}

	putFloat(cfg.MaxWidth)
	putFloat(cfg.Gap)
	putFloat(cfg.BorderRadius)
	if cfg.RTL {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}

	n := min(len(items), layout.MaxItems)
	h.Write([]byte{byte(n)})
	for _, d := range items[:n] {
		putFloat(d.Width)
		putFloat(d.Height)
	}
	return h.Sum64()
}

// StringKey hashes a string without copying it.
func StringKey(s string) uint64 {
	return xxhash.Sum64String(s)
}

func truncate(v uint64, hexLen int) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	full := hex.EncodeToString(b[:])
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}
