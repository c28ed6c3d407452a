package manifest

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManifestRoundtrip(t *testing.T) {
	m := New("test-profile", 5242880, "native")
	m.BuildInfo = &BuildInfo{Workers: 4, InitialQuality: 85, MinQuality: 10, MaxDimension: 4000, SecondaryMaxDimension: 2000}
	m.Assets["test/image"] = Asset{
		Original: OriginalInfo{
			Width: 6000, Height: 4000,
			Format: "png", Mode: "truecolor+alpha", Size: 30000000, HasAlpha: true,
		},
		Output: Output{
			Width: 4000, Height: 2666, Quality: 70, Size: 4900000,
			Hash: "abcd1234abcd1234", Path: "test/image.webp", Attempts: 4, Resized: true,
		},
	}
	m.Failures["test/noise"] = Failure{Reason: "size constraint unmet", Achieved: 6000000}

	dir := t.TempDir()
	require.NoError(t, WriteJSON(m, filepath.Join(dir, FileName)))

	// Read resolves the directory to the manifest inside it.
	m2, err := Read(dir)
	require.NoError(t, err)

	assert.Equal(t, SupportedManifestVersion, m2.Version)
	assert.Equal(t, "test-profile", m2.Profile)
	assert.Equal(t, 5242880, m2.Budget)
	assert.Equal(t, "native", m2.Encoder)
	require.NotNil(t, m2.BuildInfo)
	assert.Equal(t, 4, m2.BuildInfo.Workers)
	assert.Equal(t, 2000, m2.BuildInfo.SecondaryMaxDimension)

	a, ok := m2.Assets["test/image"]
	require.True(t, ok, "asset test/image missing")
	assert.Equal(t, m.Assets["test/image"], a)
	assert.Equal(t, 6000000, m2.Failures["test/noise"].Achieved)

	assert.Equal(t, 1, m2.Stats.TotalAssets)
	assert.Equal(t, 1, m2.Stats.TotalFailures)
	assert.Equal(t, 1, m2.Stats.TotalResized)
	assert.Equal(t, int64(4900000), m2.Stats.TotalOutputBytes)
}

func TestStatsRatio(t *testing.T) {
	assert.Zero(t, Stats{}.Ratio())
	assert.InDelta(t, 25.0, Stats{TotalInputBytes: 400, TotalOutputBytes: 100}.Ratio(), 1e-9)
}

func TestManifestIgnoresUnknownFields(t *testing.T) {
	// Simulate a future manifest with extra fields.
	raw := `{
		"version": 1,
		"generated_at": "2025-01-01T00:00:00Z",
		"profile": "test",
		"budget": 1024,
		"base_path": "./",
		"future_field": "should be ignored",
		"build_info": { "workers": 8, "new_flag": true },
		"assets": {},
		"stats": { "total_input_bytes": 0, "total_output_bytes": 0, "total_assets": 0, "new_stat": 42 }
	}`

	var m Manifest
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	assert.Equal(t, 1, m.Version)
	assert.Equal(t, 1024, m.Budget)
	require.NotNil(t, m.BuildInfo)
	assert.Equal(t, 8, m.BuildInfo.Workers)
}

func TestReadMissing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
