package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/AnyUserName/mediagrid/internal/manifest"
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <out_dir_or_manifest>",
		Short: "Display statistics for a rendered output directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manifest.ReadJSON(args[0])
			if err != nil {
				return err
			}
			printStats(cmd.OutOrStdout(), m)
			return nil
		},
	}
}

func printStats(w io.Writer, m *manifest.Manifest) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Manifest version: %d\n", m.Version)
	fmt.Fprintf(w, "  Generated:        %s\n", m.GeneratedAt)
	fmt.Fprintf(w, "  Profile:          %s\n", m.Profile)
	if m.BuildInfo != nil {
		fmt.Fprintf(w, "  Workers:          %d\n", m.BuildInfo.Workers)
		fmt.Fprintf(w, "  Cache hits:       %d layouts, %d placeholders\n",
			m.BuildInfo.LayoutHits, m.BuildInfo.PlaceholderHits)
	}
	fmt.Fprintln(w)

	s := m.Stats
	fmt.Fprintf(w, "  Total messages:   %d\n", s.TotalMessages)
	fmt.Fprintf(w, "  Total cells:      %d\n", s.TotalCells)
	fmt.Fprintf(w, "  Total variants:   %d\n", s.TotalVariants)
	fmt.Fprintf(w, "  Output size:      %s\n", formatBytes(s.TotalOutputBytes))
	fmt.Fprintln(w)

	// Per-format breakdown.
	formatStats := map[string]struct {
		count int
		bytes int64
	}{}
	scaleStats := map[int]int{}
	for _, e := range m.Messages {
		for _, v := range e.Variants {
			fs := formatStats[v.Format]
			fs.count++
			fs.bytes += v.Size
			formatStats[v.Format] = fs
			scaleStats[v.Scale]++
		}
	}

	fmt.Fprintln(w, "  Format breakdown:")
	for _, f := range []string{"avif", "webp", "png", "jpeg"} {
		if fs, ok := formatStats[f]; ok {
			fmt.Fprintf(w, "    %-6s  %4d files  %s\n", f, fs.count, formatBytes(fs.bytes))
		}
	}
	fmt.Fprintln(w)

	var scales []int
	for sc := range scaleStats {
		scales = append(scales, sc)
	}
	sort.Ints(scales)
	fmt.Fprintln(w, "  Scale breakdown:")
	for _, sc := range scales {
		fmt.Fprintf(w, "    %dx  %4d variants\n", sc, scaleStats[sc])
	}
	fmt.Fprintln(w)

	if len(s.Topologies) > 0 {
		fmt.Fprintln(w, "  Topologies:")
		for _, name := range []string{"single", "pair", "feature", "quad", "mosaic"} {
			if n := s.Topologies[name]; n > 0 {
				fmt.Fprintf(w, "    %-8s %4d messages\n", name, n)
			}
		}
		fmt.Fprintln(w)
	}

	thumbs := s.TotalCells - s.FlatFallbacks
	fmt.Fprintf(w, "  ThumbHash coverage: %d / %d cells\n", thumbs, s.TotalCells)

	// Warnings.
	var warnings []string
	keys := make([]string, 0, len(m.Messages))
	for k := range m.Messages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		e := m.Messages[key]
		if len(e.Variants) == 0 {
			warnings = append(warnings, fmt.Sprintf("message %q has no variants", key))
		}
		if e.Dropped > 0 {
			warnings = append(warnings, fmt.Sprintf("message %q: %d media not shown", key, e.Dropped))
		}
		for _, c := range e.Cells {
			if c.Warning != "" {
				warnings = append(warnings, fmt.Sprintf("message %q cell %d: %s", key, c.Index, c.Warning))
			}
		}
	}
	failed := make([]string, 0, len(m.Failures))
	for k := range m.Failures {
		failed = append(failed, k)
	}
	sort.Strings(failed)
	for _, k := range failed {
		warnings = append(warnings, fmt.Sprintf("%s failed: %s", k, m.Failures[k]))
	}

	if len(warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  Warnings (%d):\n", len(warnings))
		for _, msg := range warnings {
			fmt.Fprintf(w, "    ⚠ %s\n", msg)
		}
	}
	fmt.Fprintln(w)
}
