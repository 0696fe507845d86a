package pipeline

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/AnyUserName/mediagrid/internal/hasher"
	"github.com/AnyUserName/mediagrid/internal/layout"
	"github.com/AnyUserName/mediagrid/internal/manifest"
	"go.uber.org/zap"
)

// job is one message of one document.
type job struct {
	docKey string
	msg    manifest.Message
}

func (j job) key() string {
	return j.docKey + "/" + j.msg.ID
}

// processResult holds the result of rendering a single message.
type processResult struct {
	key   string
	entry manifest.MessageEntry
	err   error
}

// processMessage lays out one message, resolves its placeholders and
// writes one preview per scale and format.
func (p *Pipeline) processMessage(ctx context.Context, j job) processResult {
	result := processResult{key: j.key()}
	prof := p.cfg.Profile
	dims := j.msg.Dimensions()

	base := prof.Layout
	base.RTL = j.msg.RTL
	grid := p.caches.layout(dims, base)
	if len(grid.Cells) == 0 {
		result.err = fmt.Errorf("message %s: no media", result.key)
		return result
	}

	result.entry = manifest.MessageEntry{
		Topology: layout.Topology(len(dims)),
		RTL:      j.msg.RTL,
		Width:    grid.TotalWidth,
		Height:   grid.TotalHeight,
		Dropped:  max(0, len(dims)-layout.MaxItems),
	}

	tiles := make([]tile, len(grid.Cells))
	for i, c := range grid.Cells {
		media := j.msg.Media[c.Index]
		entry, t := p.resolveCell(media, c, len(grid.Cells))
		if entry.Warning != "" {
			p.log.Debug("flat placeholder",
				zap.String("message", result.key), zap.Int("cell", i), zap.String("reason", entry.Warning))
		}
		result.entry.Cells = append(result.entry.Cells, entry)
		tiles[i] = t
	}

	dir := path.Dir(j.docKey)
	if err := os.MkdirAll(filepath.Join(p.cfg.OutputDir, filepath.FromSlash(dir)), 0o755); err != nil {
		result.err = fmt.Errorf("create output dir: %w", err)
		return result
	}

	for _, scale := range prof.Scales() {
		cfg := prof.Scaled(scale)
		cfg.RTL = j.msg.RTL
		img := compose(p.caches.layout(dims, cfg), tiles)
		if img.Bounds().Empty() {
			result.err = fmt.Errorf("message %s: empty %dx preview", result.key, scale)
			return result
		}

		for _, format := range p.formats {
			if err := ctx.Err(); err != nil {
				result.err = err
				return result
			}
			enc := p.registry.Get(format)
			if enc == nil {
				continue
			}

			data, err := enc.Encode(ctx, img, prof.Quality)
			if err != nil {
				p.log.Warn("encode failed",
					zap.String("message", result.key), zap.Int("scale", scale),
					zap.String("format", format), zap.Error(err))
				continue
			}

			contentHash := hasher.ContentHash(data, 16)
			fileName := fmt.Sprintf("%s.%s.%dx.%s.%s",
				path.Base(j.docKey), safeName(j.msg.ID), scale, contentHash[:8], enc.Extension())
			relPath := path.Join(dir, fileName)

			if err := writeOnce(filepath.Join(p.cfg.OutputDir, filepath.FromSlash(relPath)), data); err != nil {
				result.err = fmt.Errorf("write %s: %w", relPath, err)
				return result
			}

			b := img.Bounds()
			result.entry.Variants = append(result.entry.Variants, manifest.Variant{
				Format: format,
				Scale:  scale,
				Width:  b.Dx(),
				Height: b.Dy(),
				Size:   int64(len(data)),
				Hash:   contentHash,
				Path:   relPath,
			})
		}
	}

	if len(result.entry.Variants) == 0 {
		result.err = fmt.Errorf("message %s: every encoder failed", result.key)
	}
	return result
}

// resolveCell builds the manifest entry for one cell and picks its tile.
// Any placeholder problem degrades to the flat fallback color.
func (p *Pipeline) resolveCell(media manifest.Media, c layout.Cell, total int) (manifest.CellEntry, tile) {
	entry := manifest.CellEntry{
		Index:       c.Index,
		Type:        media.Type,
		Src:         media.Src,
		X:           c.X,
		Y:           c.Y,
		Width:       c.Width,
		Height:      c.Height,
		Radius:      c.Corners.CSS(),
		Label:       layout.Label(media.Alt, c.Index, total),
		Duration:    media.DurationLabel(),
		Placeholder: manifest.PlaceholderFlat,
	}
	t := tile{fill: p.cfg.Fallback}

	switch {
	case media.ThumbHash != "":
		ph := p.caches.placeholder(media.ThumbHash)
		if ph.err != nil {
			entry.Warning = ph.err.Error()
			break
		}
		entry.Placeholder = manifest.PlaceholderThumbHash
		entry.AvgColor = &[3]uint8{ph.avg.R, ph.avg.G, ph.avg.B}
		t.raster = ph.raster
	case media.BlurHash != "":
		entry.Warning = "blurhash placeholders are not decoded"
	default:
		entry.Warning = "no placeholder hash"
	}
	return entry, t
}

// writeOnce writes data unless an identical-size file already exists.
// Names are content-addressed, so an existing file has the same bytes.
func writeOnce(name string, data []byte) error {
	if info, err := os.Stat(name); err == nil && info.Size() == int64(len(data)) {
		return nil
	}
	return os.WriteFile(name, data, 0o644)
}

// safeName keeps message ids filesystem-friendly. Rewritten ids get a
// suffix derived from the original so distinct ids never share a name.
func safeName(id string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, id)
	if safe != id {
		safe = fmt.Sprintf("%s-%08x", safe, uint32(hasher.StringKey(id)))
	}
	return safe
}
