package encoder

import (
	"context"
	"image"
)

// Encoder encodes a rendered preview to a specific format.
type Encoder interface {
	// Format returns the output format name (e.g. "png", "jpeg", "webp", "avif").
	Format() string

	// Encode converts the image to bytes at the given quality (1-100).
	// Lossless encoders ignore quality.
	Encode(ctx context.Context, img image.Image, quality int) ([]byte, error)

	// Available returns true if the encoder is ready to use.
	// External encoders (cwebp, avifenc) may not be installed.
	Available() bool

	// Extension returns the file extension without dot.
	Extension() string

	// Alpha reports whether the format keeps transparency.
	Alpha() bool
}

// defaultQuality applies when a caller passes an out-of-range quality.
const defaultQuality = 82

func clampQuality(q int) int {
	if q <= 0 || q > 100 {
		return defaultQuality
	}
	return q
}
