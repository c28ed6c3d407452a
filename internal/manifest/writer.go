package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// New creates an empty manifest with defaults.
func New(profileName string, budget int, encoderName string) *Manifest {
	return &Manifest{
		Version:     SupportedManifestVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Profile:     profileName,
		Budget:      budget,
		Encoder:     encoderName,
		BasePath:    "./",
		Assets:      make(map[string]Asset),
		Failures:    make(map[string]Failure),
	}
}

// ComputeStats recalculates aggregate statistics from assets and failures.
func (m *Manifest) ComputeStats() {
	var s Stats
	s.TotalAssets = len(m.Assets)
	s.TotalFailures = len(m.Failures)
	for _, a := range m.Assets {
		s.TotalInputBytes += a.Original.Size
		s.TotalOutputBytes += a.Output.Size
		if a.Output.Resized {
			s.TotalResized++
		}
		if a.Output.Fallback {
			s.TotalFallback++
		}
	}
	m.Stats = s
}

// Ratio returns total output bytes as a percentage of total input bytes.
func (s Stats) Ratio() float64 {
	if s.TotalInputBytes == 0 {
		return 0
	}
	return float64(s.TotalOutputBytes) / float64(s.TotalInputBytes) * 100
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

// Read loads a manifest from path. A directory is resolved to the manifest
// file inside it.
func Read(path string) (*Manifest, error) {
	if info, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	} else if info.IsDir() {
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
