package cmd

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/AnyUserName/mediagrid/internal/config"
	"github.com/AnyUserName/mediagrid/internal/encoder"
	"github.com/AnyUserName/mediagrid/internal/logging"
	"github.com/AnyUserName/mediagrid/internal/manifest"
	"github.com/AnyUserName/mediagrid/internal/pipeline"
	"github.com/AnyUserName/mediagrid/internal/profile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type renderOptions struct {
	outDir   string
	profile  string
	workers  int
	quality  int
	formats  []string
	fallback string
}

func newRenderCmd(root *rootOptions) *cobra.Command {
	var o renderOptions

	c := &cobra.Command{
		Use:   "render <input_dir>",
		Short: "Render grid previews for conversation documents + manifest",
		Long: `Scans the input directory for *.json conversation documents, lays out
the media of every message, decodes ThumbHash placeholders and renders a
rounded-corner preview per profile scale and format. Writes a manifest
with cell geometry, accessibility labels and preview paths.

Output filenames are content-addressed: <doc>.<message>.<scale>x.<hash>.ext`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, root.loaded(), o, args[0])
		},
	}

	f := c.Flags()
	f.StringVarP(&o.outDir, "out", "o", "", "output directory (default from config render.out_dir)")
	f.StringVarP(&o.profile, "profile", "p", "", "render profile (default from config render.profile)")
	f.IntVarP(&o.workers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	f.IntVarP(&o.quality, "quality", "q", 0, "quality 1-100 (0 = profile default)")
	f.StringSliceVar(&o.formats, "formats", nil, "preview formats, e.g. webp,png (overrides profile)")
	f.StringVar(&o.fallback, "fallback", "", "flat placeholder color, e.g. #e0e0e0")
	return c
}

// merge applies explicitly set flags over the render config.
func (o renderOptions) merge(cmd *cobra.Command, rc config.RenderConfig) config.RenderConfig {
	flags := cmd.Flags()
	if flags.Changed("out") {
		rc.OutDir = o.outDir
	}
	if flags.Changed("profile") {
		rc.Profile = o.profile
	}
	if flags.Changed("workers") {
		rc.Workers = o.workers
	}
	if flags.Changed("quality") {
		rc.Quality = o.quality
	}
	if flags.Changed("formats") {
		rc.Formats = o.formats
	}
	if flags.Changed("fallback") {
		rc.FallbackColor = o.fallback
	}
	return rc
}

func runRender(cmd *cobra.Command, cfg *config.Config, o renderOptions, inputDir string) error {
	log := logging.GetLogger()
	start := time.Now()

	rc := o.merge(cmd, cfg.Render)
	if rc.Quality < 0 || rc.Quality > 100 {
		return fmt.Errorf("quality must be within 0-100, got %d", rc.Quality)
	}
	fallback, err := rc.Fallback()
	if err != nil {
		return err
	}

	// Resolve absolute paths.
	absInput, err := filepath.Abs(inputDir)
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(rc.OutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	// Load profile.
	if !profile.Known(rc.Profile) {
		log.Warn("unknown profile, using defaults",
			zap.String("profile", rc.Profile), zap.Strings("known", profile.Names()))
	}
	prof := profile.Get(rc.Profile)
	if rc.Quality > 0 {
		prof.Quality = rc.Quality
	}
	if len(rc.Formats) > 0 {
		prof.Formats = rc.Formats
	}

	log.Debug("render settings",
		zap.String("input", absInput),
		zap.String("output", absOutput),
		zap.String("profile", prof.Name),
		zap.Float64("max_width", prof.Layout.MaxWidth),
		zap.Strings("formats", prof.Formats),
		zap.Int("quality", prof.Quality))

	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	p := pipeline.New(pipeline.Config{
		InputDir:  absInput,
		OutputDir: absOutput,
		Profile:   prof,
		Workers:   rc.Workers,
		Fallback:  fallback,
		Registry:  encoder.NewRegistry(color.White),
		Logger:    log,
	})

	m, err := p.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	manifestPath := filepath.Join(absOutput, manifest.FileName)
	if err := manifest.WriteJSON(m, manifestPath); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	printRenderReport(cmd.OutOrStdout(), m, manifestPath, time.Since(start))
	return nil
}

func printRenderReport(w io.Writer, m *manifest.Manifest, manifestPath string, elapsed time.Duration) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "╔══════════════════════════════════════════════════╗")
	fmt.Fprintln(w, "║            mediagrid render complete             ║")
	fmt.Fprintln(w, "╚══════════════════════════════════════════════════╝")
	fmt.Fprintln(w)

	s := m.Stats
	fmt.Fprintf(w, "  Messages:    %d\n", s.TotalMessages)
	fmt.Fprintf(w, "  Cells:       %d\n", s.TotalCells)
	fmt.Fprintf(w, "  Variants:    %d\n", s.TotalVariants)
	fmt.Fprintf(w, "  Output size: %s\n", formatBytes(s.TotalOutputBytes))
	if s.FlatFallbacks > 0 {
		fmt.Fprintf(w, "  Flat cells:  %d (placeholder missing or undecodable)\n", s.FlatFallbacks)
	}
	if s.FailedMessages > 0 {
		fmt.Fprintf(w, "  Failed:      %d\n", s.FailedMessages)
	}
	fmt.Fprintf(w, "  Time:        %s\n", elapsed.Round(time.Millisecond))

	if m.BuildInfo != nil {
		fmt.Fprintf(w, "  Workers:     %d  (cache hits: %d layouts, %d placeholders)\n",
			m.BuildInfo.Workers, m.BuildInfo.LayoutHits, m.BuildInfo.PlaceholderHits)
	}
	fmt.Fprintln(w)

	// Top 10 heaviest messages.
	if len(m.Messages) > 0 {
		type messageSize struct {
			key   string
			cells int
			bytes int64
		}
		var items []messageSize
		for key, e := range m.Messages {
			var sum int64
			for _, v := range e.Variants {
				sum += v.Size
			}
			items = append(items, messageSize{key, len(e.Cells), sum})
		}
		sort.Slice(items, func(i, j int) bool {
			if items[i].bytes != items[j].bytes {
				return items[i].bytes > items[j].bytes
			}
			return items[i].key < items[j].key
		})
		n := min(len(items), 10)
		fmt.Fprintf(w, "  Top %d heaviest messages:\n", n)
		for _, it := range items[:n] {
			fmt.Fprintf(w, "    %-40s %d cells  %8s\n", truncKey(it.key, 40), it.cells, formatBytes(it.bytes))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "  Formats:     %s\n", strings.Join(detectOutputFormats(m), ", "))
	fmt.Fprintln(w)

	if info, err := os.Stat(manifestPath); err == nil {
		fmt.Fprintf(w, "  Manifest:    %s (%s)\n", manifest.FileName, formatBytes(info.Size()))
		fmt.Fprintln(w)
	}
}

func detectOutputFormats(m *manifest.Manifest) []string {
	set := map[string]bool{}
	for _, e := range m.Messages {
		for _, v := range e.Variants {
			set[v.Format] = true
		}
	}
	var out []string
	for _, f := range []string{"avif", "webp", "png", "jpeg"} {
		if set[f] {
			out = append(out, f)
		}
	}
	return out
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
