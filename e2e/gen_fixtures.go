//go:build ignore

// gen_fixtures creates conversation documents for the E2E smoke test.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnyUserName/mediagrid/internal/manifest"
)

// Hashes for a 4:3 landscape photo, the same photo with alpha, and a
// landscape-flagged variant.
var hashes = []string{
	"YTkGJwaRhWUIt4lbgnhZl3ath2BUBGYA",
	"YTmGJwankYVlCLeJW4J4WZd2rYdgVARmAA==",
	"YTkGJ5aRhWUIt4lbgnhZl3ath2BUBGYA",
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	os.MkdirAll(filepath.Join(dir, "chats"), 0o755)

	// One message per topology, plus an overflowing album.
	general := manifest.Document{Version: manifest.SupportedDocumentVersion}
	for n := 1; n <= 6; n++ {
		general.Messages = append(general.Messages, manifest.Message{
			ID:    fmt.Sprintf("album-%d", n),
			Media: album(n),
		})
	}
	writeDoc(filepath.Join(dir, "chats", "general.json"), general)

	// Right-to-left conversation with a video and a blurhash-only photo.
	rtl := manifest.Document{
		Version: manifest.SupportedDocumentVersion,
		Messages: []manifest.Message{
			{ID: "rtl-pair", RTL: true, Media: album(2)},
			{ID: "rtl-mixed", RTL: true, Media: []manifest.Media{
				{Type: manifest.MediaVideo, Src: "clip.mp4", Width: 1920, Height: 1080, Duration: 125, ThumbHash: hashes[2]},
				{Type: manifest.MediaImage, Src: "sky.jpg", Width: 1200, Height: 1600, BlurHash: "LEHV6nWB2yk8pyo0adR*.7kCMdnj"},
				{Type: manifest.MediaImage, Src: "cat.jpg", Width: 640, Height: 640, Alt: "Cat"},
			}},
		},
	}
	writeDoc(filepath.Join(dir, "chats", "rtl.json"), rtl)

	// A document the renderer must skip and report.
	os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{"version":1,"messages":[{"id":""}]}`), 0o644)

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 3 documents in %s\n", dir)
}

func album(n int) []manifest.Media {
	sizes := [][2]float64{{800, 600}, {600, 800}, {1920, 1080}, {1080, 1920}, {1000, 1000}, {640, 480}}
	media := make([]manifest.Media, n)
	for i := range media {
		media[i] = manifest.Media{
			Type:      manifest.MediaImage,
			Src:       fmt.Sprintf("photo-%d.jpg", i+1),
			Width:     sizes[i%len(sizes)][0],
			Height:    sizes[i%len(sizes)][1],
			ThumbHash: hashes[i%len(hashes)],
		}
	}
	return media
}

func writeDoc(path string, doc manifest.Document) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
