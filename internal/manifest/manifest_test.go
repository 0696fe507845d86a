package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleEntry() MessageEntry {
	return MessageEntry{
		Topology: "pair",
		Width:    400,
		Height:   240,
		Cells: []CellEntry{
			{Index: 0, Type: MediaImage, Src: "a.jpg", Width: 199, Height: 240, Radius: "12px 0 0 12px",
				Label: "Sunset, 1 of 2", Placeholder: PlaceholderThumbHash, AvgColor: &[3]uint8{134, 126, 120}},
			{Index: 1, Type: MediaVideo, Src: "b.mp4", X: 201, Width: 199, Height: 240, Radius: "0 12px 12px 0",
				Label: "Image 2, 2 of 2", Duration: "1:05", Placeholder: PlaceholderFlat, Warning: "no thumbhash"},
		},
		Variants: []Variant{
			{Format: "png", Scale: 1, Width: 400, Height: 240, Size: 5000, Hash: "abcd1234abcd1234",
				Path: "chat/m1.1x.abcd1234.png"},
		},
	}
}

func TestManifestRoundtrip(t *testing.T) {
	m := New("test-profile")
	m.BuildInfo = &BuildInfo{Workers: 4, LayoutHits: 2, PlaceholderHits: 7}
	m.Messages["chat/m1"] = sampleEntry()

	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := WriteJSON(m, path); err != nil {
		t.Fatalf("write: %v", err)
	}

	m2, err := ReadJSON(dir)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if m2.Version != SupportedManifestVersion {
		t.Errorf("version: got %d, want %d", m2.Version, SupportedManifestVersion)
	}
	if m2.Profile != "test-profile" {
		t.Errorf("profile: got %q", m2.Profile)
	}
	if m2.BuildInfo == nil || m2.BuildInfo.PlaceholderHits != 7 {
		t.Fatalf("build_info: got %+v", m2.BuildInfo)
	}

	e, ok := m2.Messages["chat/m1"]
	if !ok {
		t.Fatal("message chat/m1 missing")
	}
	if len(e.Cells) != 2 || e.Cells[1].Duration != "1:05" {
		t.Errorf("cells: got %+v", e.Cells)
	}
	if e.Cells[0].AvgColor == nil || *e.Cells[0].AvgColor != [3]uint8{134, 126, 120} {
		t.Errorf("avg color: got %v", e.Cells[0].AvgColor)
	}

	s := m2.Stats
	if s.TotalMessages != 1 || s.TotalCells != 2 || s.TotalVariants != 1 || s.TotalOutputBytes != 5000 {
		t.Errorf("stats: got %+v", s)
	}
	if s.FlatFallbacks != 1 || s.Topologies["pair"] != 1 {
		t.Errorf("fallbacks/topologies: got %+v", s)
	}
}

func TestManifestVersion(t *testing.T) {
	m := New("v-test")
	if m.Version != SupportedManifestVersion {
		t.Errorf("new manifest version: got %d, want %d", m.Version, SupportedManifestVersion)
	}
}

func TestManifestIgnoresUnknownFields(t *testing.T) {
	raw := `{
		"version": 1,
		"generated_at": "2025-01-01T00:00:00Z",
		"profile": "test",
		"base_path": "./",
		"future_field": "should be ignored",
		"build_info": { "workers": 8, "layout_cache_hits": 1, "new_flag": true },
		"messages": {},
		"stats": { "total_messages": 0, "total_cells": 0, "total_variants": 0, "new_stat": 42 }
	}`

	var m Manifest
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("unmarshal with unknown fields: %v", err)
	}
	if m.Version != 1 {
		t.Errorf("version: got %d", m.Version)
	}
	if m.BuildInfo == nil || m.BuildInfo.Workers != 8 {
		t.Error("build_info not parsed correctly")
	}
}

func TestReadJSON_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := ReadJSON(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadJSON(bad); err == nil || !strings.Contains(err.Error(), "parse manifest") {
		t.Errorf("got %v", err)
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	writeVariant := func(rel string, size int) {
		t.Helper()
		full := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, make([]byte, size), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("valid", func(t *testing.T) {
		m := New("p")
		m.Messages["chat/m1"] = sampleEntry()
		m.ComputeStats()
		writeVariant("chat/m1.1x.abcd1234.png", 5000)
		if errs := Validate(m, dir); len(errs) != 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
	})

	t.Run("problems", func(t *testing.T) {
		m := New("p")
		e := sampleEntry()
		e.Cells[1].Index = 5
		e.Cells[1].Placeholder = "blurhash"
		e.Variants = append(e.Variants,
			Variant{Format: "jpeg", Scale: 2, Width: 800, Height: 480, Size: 10, Hash: "x", Path: "chat/missing.jpg"},
			Variant{Format: "png", Scale: 1, Width: 400, Height: 240, Size: 1, Hash: "y", Path: "chat/m1.1x.abcd1234.png"},
		)
		m.Messages["chat/m1"] = e
		m.Version = 2

		errs := Validate(m, dir)
		joined := strings.Join(errs, "\n")
		for _, want := range []string{
			"unsupported manifest version: 2",
			"index 5 out of order",
			`unknown placeholder "blurhash"`,
			"file not found: chat/missing.jpg",
			"duplicate path",
			"size mismatch: manifest=1, disk=5000",
			"stats.total_messages mismatch",
		} {
			if !strings.Contains(joined, want) {
				t.Errorf("missing %q in:\n%s", want, joined)
			}
		}
	})
}
