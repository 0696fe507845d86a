package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"runtime"
	"sort"

	"github.com/AnyUserName/mediagrid/internal/encoder"
	"github.com/AnyUserName/mediagrid/internal/manifest"
	"github.com/AnyUserName/mediagrid/internal/profile"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Config holds all parameters for a render pipeline run.
type Config struct {
	InputDir  string
	OutputDir string
	Profile   profile.Profile
	Workers   int         // 0 = NumCPU
	Fallback  color.NRGBA // fill for cells without a decodable placeholder
	Registry  *encoder.Registry
	Logger    *zap.Logger
}

// Pipeline renders conversation documents into grid previews.
type Pipeline struct {
	cfg      Config
	registry *encoder.Registry
	formats  []string
	caches   *caches
	log      *zap.Logger
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Fallback == (color.NRGBA{}) {
		cfg.Fallback = color.NRGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}
	}
	reg := cfg.Registry
	if reg == nil {
		reg = encoder.NewRegistry(color.White)
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		cfg:      cfg,
		registry: reg,
		formats:  reg.ResolveFormats(cfg.Profile.Formats),
		caches:   newCaches(),
		log:      log.Named("pipeline"),
	}
}

// Run renders every message of every document under InputDir and returns
// the manifest. Bad documents and failed messages are recorded in the
// manifest's failures; Run fails only when nothing rendered or ctx ends.
func (p *Pipeline) Run(ctx context.Context) (*manifest.Manifest, error) {
	p.log.Debug("starting render",
		zap.String("input", p.cfg.InputDir),
		zap.String("profile", p.cfg.Profile.Name),
		zap.Strings("formats", p.formats),
		zap.Stringer("registry", p.registry))

	if len(p.formats) == 0 {
		return nil, errors.New("no usable output formats")
	}

	// Step 1: Scan for documents.
	sources, err := ScanDocuments(p.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no documents found in %s", p.cfg.InputDir)
	}
	p.log.Info("found documents", zap.Int("count", len(sources)))

	// Step 2: Parse documents into message jobs.
	failures := map[string]string{}
	var jobs []job
	for _, src := range sources {
		doc, err := manifest.ReadDocument(src.AbsPath)
		if err == nil {
			err = doc.Validate()
		}
		if err != nil {
			p.log.Warn("skipping document", zap.String("document", src.RelPath), zap.Error(err))
			failures[src.Key] = err.Error()
			continue
		}
		for _, msg := range doc.Messages {
			jobs = append(jobs, job{docKey: src.Key, msg: msg})
		}
	}

	// Step 3: Render messages in parallel.
	results := make([]processResult, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)
	for i, j := range jobs {
		g.Go(func() error {
			results[i] = p.processMessage(gctx, j)
			if r := results[i]; r.err == nil {
				p.log.Debug("rendered",
					zap.String("message", r.key), zap.Int("variants", len(r.entry.Variants)))
			}
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	// Step 4: Collect results into manifest.
	m := manifest.New(p.cfg.Profile.Name)
	for _, r := range results {
		if r.err != nil {
			p.log.Warn("message failed", zap.String("message", r.key), zap.Error(r.err))
			failures[r.key] = r.err.Error()
			continue
		}
		m.Messages[r.key] = r.entry
	}
	if len(failures) > 0 {
		m.Failures = failures
	}

	if len(m.Messages) == 0 {
		if len(failures) == 0 {
			return nil, fmt.Errorf("no messages found in %s", p.cfg.InputDir)
		}
		keys := make([]string, 0, len(failures))
		for k := range failures {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("all %d documents/messages failed (first: %s: %s)",
			len(failures), keys[0], failures[keys[0]])
	}

	m.BuildInfo = &manifest.BuildInfo{
		Workers:         p.cfg.Workers,
		LayoutHits:      p.caches.layouts.Hits(),
		PlaceholderHits: p.caches.placeholders.Hits(),
	}
	m.ComputeStats()
	p.log.Info("render complete",
		zap.Int("messages", m.Stats.TotalMessages),
		zap.Int("variants", m.Stats.TotalVariants),
		zap.Int("failed", len(failures)))
	return m, nil
}
