package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Validate checks a manifest for internal consistency and that every
// variant exists on disk under baseDir with the recorded size. Problems
// are returned in stable order.
func Validate(m *Manifest, baseDir string) []string {
	var errs []string

	if m.Version != SupportedManifestVersion {
		errs = append(errs, fmt.Sprintf("unsupported manifest version: %d", m.Version))
	}

	keys := make([]string, 0, len(m.Messages))
	for k := range m.Messages {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	seenPaths := map[string]string{}
	for _, key := range keys {
		e := m.Messages[key]

		if len(e.Cells) == 0 {
			errs = append(errs, fmt.Sprintf("message %q: no cells", key))
		}
		if e.Width <= 0 || e.Height < 0 {
			errs = append(errs, fmt.Sprintf("message %q: invalid grid size %.1fx%.1f", key, e.Width, e.Height))
		}
		for i, c := range e.Cells {
			if c.Index != i {
				errs = append(errs, fmt.Sprintf("message %q cell[%d]: index %d out of order", key, i, c.Index))
			}
			if c.X < 0 || c.Y < 0 || c.X+c.Width > e.Width+0.5 || c.Y+c.Height > e.Height+0.5 {
				errs = append(errs, fmt.Sprintf("message %q cell[%d]: outside the grid", key, i))
			}
			if c.Placeholder != PlaceholderThumbHash && c.Placeholder != PlaceholderFlat {
				errs = append(errs, fmt.Sprintf("message %q cell[%d]: unknown placeholder %q", key, i, c.Placeholder))
			}
		}

		if len(e.Variants) == 0 {
			errs = append(errs, fmt.Sprintf("message %q: no variants", key))
		}
		for i, v := range e.Variants {
			if v.Format == "" {
				errs = append(errs, fmt.Sprintf("message %q variant[%d]: empty format", key, i))
			}
			if v.Width <= 0 || v.Height <= 0 {
				errs = append(errs, fmt.Sprintf("message %q variant[%d]: invalid dimensions %dx%d",
					key, i, v.Width, v.Height))
			}
			if v.Hash == "" {
				errs = append(errs, fmt.Sprintf("message %q variant[%d]: missing hash", key, i))
			}
			if v.Path == "" {
				errs = append(errs, fmt.Sprintf("message %q variant[%d]: missing path", key, i))
				continue
			}

			if owner, dup := seenPaths[v.Path]; dup {
				errs = append(errs, fmt.Sprintf("message %q variant[%d]: duplicate path %q (also %q)", key, i, v.Path, owner))
			}
			seenPaths[v.Path] = key

			info, err := os.Stat(filepath.Join(baseDir, v.Path))
			if err != nil {
				errs = append(errs, fmt.Sprintf("message %q variant[%d]: file not found: %s", key, i, v.Path))
			} else if v.Size > 0 && info.Size() != v.Size {
				errs = append(errs, fmt.Sprintf("message %q variant[%d]: size mismatch: manifest=%d, disk=%d",
					key, i, v.Size, info.Size()))
			}
		}
	}

	recount := *m
	recount.ComputeStats()
	want := recount.Stats
	if m.Stats.TotalMessages != want.TotalMessages {
		errs = append(errs, fmt.Sprintf("stats.total_messages mismatch: %d != %d", m.Stats.TotalMessages, want.TotalMessages))
	}
	if m.Stats.TotalCells != want.TotalCells {
		errs = append(errs, fmt.Sprintf("stats.total_cells mismatch: %d != %d", m.Stats.TotalCells, want.TotalCells))
	}
	if m.Stats.TotalVariants != want.TotalVariants {
		errs = append(errs, fmt.Sprintf("stats.total_variants mismatch: %d != %d", m.Stats.TotalVariants, want.TotalVariants))
	}

	return errs
}
