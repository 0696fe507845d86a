package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileName is the manifest written at the root of an output directory.
const FileName = "mediagrid.manifest.json"

// New creates an empty manifest with defaults.
func New(profileName string) *Manifest {
	return &Manifest{
		Version:     SupportedManifestVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Profile:     profileName,
		BasePath:    "./",
		Messages:    make(map[string]MessageEntry),
	}
}

// ComputeStats recalculates aggregate statistics from messages.
func (m *Manifest) ComputeStats() {
	var s Stats
	s.TotalMessages = len(m.Messages)
	s.FailedMessages = len(m.Failures)
	for _, e := range m.Messages {
		s.TotalCells += len(e.Cells)
		s.TotalVariants += len(e.Variants)
		for _, v := range e.Variants {
			s.TotalOutputBytes += v.Size
		}
		for _, c := range e.Cells {
			if c.Placeholder == PlaceholderFlat {
				s.FlatFallbacks++
			}
		}
		if e.Topology != "" {
			if s.Topologies == nil {
				s.Topologies = make(map[string]int)
			}
			s.Topologies[e.Topology]++
		}
	}
	m.Stats = s
}

// WriteJSON serializes the manifest to a JSON file with stable ordering.
func WriteJSON(m *Manifest, path string) error {
	m.ComputeStats()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// ReadJSON loads a manifest. A directory is resolved to the manifest
// file inside it.
func ReadJSON(path string) (*Manifest, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		path = filepath.Join(path, FileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}
