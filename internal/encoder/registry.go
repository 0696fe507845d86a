package encoder

import (
	"fmt"
	"image/color"
	"strings"
)

// priority is the order Available reports formats in.
var priority = []string{"avif", "webp", "png", "jpeg"}

// Registry holds all available encoders, one per format.
type Registry struct {
	encoders map[string]Encoder
}

// NewRegistry creates a registry, probing all encoders for availability.
// JPEG output is flattened onto background.
func NewRegistry(background color.Color) *Registry {
	return newRegistry(
		NewAVIF(),
		NewWebP(),
		&PNGEncoder{},
		&JPEGEncoder{Background: background},
	)
}

func newRegistry(all ...Encoder) *Registry {
	r := &Registry{encoders: make(map[string]Encoder)}
	for _, enc := range all {
		if enc.Available() {
			r.encoders[enc.Format()] = enc
		}
	}
	return r
}

// Get returns an encoder for the given format, or nil if unavailable.
func (r *Registry) Get(format string) Encoder {
	return r.encoders[normalize(format)]
}

// Available returns all available format names in priority order.
func (r *Registry) Available() []string {
	var result []string
	for _, f := range priority {
		if _, ok := r.encoders[f]; ok {
			result = append(result, f)
		}
	}
	return result
}

// ResolveFormats filters requested formats to those available, in the
// requested order. When none of the requested formats keep transparency,
// PNG is appended so the rounded corners survive in at least one variant.
func (r *Registry) ResolveFormats(requested []string) []string {
	var resolved []string
	seen := map[string]bool{}
	alpha := false

	for _, f := range requested {
		f = normalize(f)
		enc, ok := r.encoders[f]
		if !ok || seen[f] {
			continue
		}
		resolved = append(resolved, f)
		seen[f] = true
		alpha = alpha || enc.Alpha()
	}

	if !alpha && r.encoders["png"] != nil {
		resolved = append(resolved, "png")
	}
	return resolved
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	avail := r.Available()
	if len(avail) == 0 {
		return "no encoders available"
	}
	return fmt.Sprintf("encoders: %s", strings.Join(avail, ", "))
}

func normalize(format string) string {
	f := strings.ToLower(strings.TrimSpace(format))
	if f == "jpg" {
		return "jpeg"
	}
	return f
}
