package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/AnyUserName/mediagrid/internal/encoder"
	"github.com/AnyUserName/mediagrid/internal/manifest"
	"github.com/AnyUserName/mediagrid/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

const (
	opaqueHash = "YTkGJwaRhWUIt4lbgnhZl3ath2BUBGYA"
	alphaHash  = "YTmGJwankYVlCLeJW4J4WZd2rYdgVARmAA=="
)

func writeDoc(t *testing.T, dir, rel string, doc manifest.Document) {
	t.Helper()
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	p := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, data, 0o644))
}

func photo(w, h float64, hash string) manifest.Media {
	return manifest.Media{Type: manifest.MediaImage, Src: "p.jpg", Width: w, Height: h, ThumbHash: hash}
}

func sampleConversation() manifest.Document {
	return manifest.Document{
		Version: 1,
		Messages: []manifest.Message{
			{ID: "single", Media: []manifest.Media{photo(800, 600, opaqueHash)}},
			{ID: "pair", Media: []manifest.Media{photo(800, 600, opaqueHash), photo(600, 800, alphaHash)}},
			{ID: "mosaic-rtl", RTL: true, Media: []manifest.Media{
				photo(1, 1, opaqueHash), photo(1, 1, ""), photo(1, 1, "SGVsbA=="),
				{Type: manifest.MediaVideo, Src: "v.mp4", Width: 1920, Height: 1080, Duration: 65, BlurHash: "LEHV6nWB2yk8pyo0adR*.7kCMdnj"},
				photo(1, 1, alphaHash), photo(1, 1, opaqueHash),
			}},
		},
	}
}

func newTestPipeline(t *testing.T, in, out string) *Pipeline {
	t.Helper()
	prof := profile.Get("chat")
	prof.Formats = []string{"png", "jpeg"}
	return New(Config{
		InputDir:  in,
		OutputDir: out,
		Profile:   prof,
		Workers:   3,
		Registry:  encoder.NewRegistry(color.White),
		Logger:    zaptest.NewLogger(t),
	})
}

func TestRun_EndToEnd(t *testing.T) {
	defer goleak.VerifyNone(t)

	in, out := t.TempDir(), t.TempDir()
	writeDoc(t, in, "chats/general.json", sampleConversation())

	m, err := newTestPipeline(t, in, out).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, m.Messages, 3)
	assert.Empty(t, m.Failures)

	single := m.Messages["chats/general/single"]
	assert.Equal(t, "single", single.Topology)
	assert.Equal(t, 400.0, single.Width)
	assert.Equal(t, 300.0, single.Height)
	require.Len(t, single.Cells, 1)
	assert.Equal(t, manifest.PlaceholderThumbHash, single.Cells[0].Placeholder)
	assert.Equal(t, "12px 12px 12px 12px", single.Cells[0].Radius)
	assert.Equal(t, "Image 1, 1 of 1", single.Cells[0].Label)
	require.NotNil(t, single.Cells[0].AvgColor)
	// 1x and 2x, png and jpeg.
	require.Len(t, single.Variants, 4)
	assert.Equal(t, 800, single.Variants[len(single.Variants)-1].Width)

	mosaic := m.Messages["chats/general/mosaic-rtl"]
	assert.Equal(t, "mosaic", mosaic.Topology)
	assert.True(t, mosaic.RTL)
	assert.Equal(t, 1, mosaic.Dropped)
	require.Len(t, mosaic.Cells, 5)
	assert.Equal(t, manifest.PlaceholderFlat, mosaic.Cells[1].Placeholder)
	assert.Equal(t, "no placeholder hash", mosaic.Cells[1].Warning)
	assert.Contains(t, mosaic.Cells[2].Warning, "truncated input")
	assert.Equal(t, "1:05", mosaic.Cells[3].Duration)
	assert.Equal(t, "blurhash placeholders are not decoded", mosaic.Cells[3].Warning)
	assert.Greater(t, mosaic.Cells[0].X, mosaic.Cells[1].X, "RTL puts the first item on the right")

	// The pair message reuses the opaque and alpha hashes.
	assert.Greater(t, m.BuildInfo.PlaceholderHits, 0)
	assert.Equal(t, 3, m.Stats.FlatFallbacks)

	// Files on disk agree with the manifest.
	manifestPath := filepath.Join(out, manifest.FileName)
	require.NoError(t, manifest.WriteJSON(m, manifestPath))
	assert.Empty(t, manifest.Validate(m, out))

	// The 1x PNG keeps transparent outer corners.
	var pngVariant manifest.Variant
	for _, v := range single.Variants {
		if v.Format == "png" && v.Scale == 1 {
			pngVariant = v
		}
	}
	data, err := os.ReadFile(filepath.Join(out, pngVariant.Path))
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	_, _, _, a := img.At(0, 0).RGBA()
	assert.Zero(t, a)
	_, _, _, a = img.At(200, 150).RGBA()
	assert.Equal(t, uint32(0xffff), a)
}

func TestRun_Idempotent(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeDoc(t, in, "a.json", sampleConversation())

	first, err := newTestPipeline(t, in, out).Run(context.Background())
	require.NoError(t, err)
	second, err := newTestPipeline(t, in, out).Run(context.Background())
	require.NoError(t, err)

	for k, e := range first.Messages {
		require.Equal(t, len(e.Variants), len(second.Messages[k].Variants))
		for i, v := range e.Variants {
			assert.Equal(t, v.Path, second.Messages[k].Variants[i].Path, "content-addressed names are stable")
		}
	}
}

func TestRun_PartialFailures(t *testing.T) {
	defer goleak.VerifyNone(t)

	in, out := t.TempDir(), t.TempDir()
	writeDoc(t, in, "good.json", sampleConversation())
	require.NoError(t, os.WriteFile(filepath.Join(in, "broken.json"), []byte("{"), 0o644))
	writeDoc(t, in, "future.json", manifest.Document{Version: 9})

	m, err := newTestPipeline(t, in, out).Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, m.Messages, 3)
	assert.Contains(t, m.Failures, "broken")
	assert.Contains(t, m.Failures["future"], "unsupported document version")
	assert.Equal(t, 2, m.Stats.FailedMessages)
}

func TestRun_AllFail(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(in, "broken.json"), []byte("[]"), 0o644))

	_, err := newTestPipeline(t, in, out).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 1 documents/messages failed")
}

func TestRun_NoDocuments(t *testing.T) {
	_, err := newTestPipeline(t, t.TempDir(), t.TempDir()).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no documents found")
}

func TestRun_Cancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	in, out := t.TempDir(), t.TempDir()
	writeDoc(t, in, "a.json", sampleConversation())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestPipeline(t, in, out).Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
