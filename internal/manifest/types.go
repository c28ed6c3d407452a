package manifest

// Manifest is the record written by a batch run.
type Manifest struct {
	Version     int                `json:"version"`
	GeneratedAt string             `json:"generated_at"`
	Profile     string             `json:"profile"`
	Budget      int                `json:"budget"` // max output bytes per image
	Encoder     string             `json:"encoder"`
	BasePath    string             `json:"base_path"`
	BuildInfo   *BuildInfo         `json:"build_info,omitempty"`
	Assets      map[string]Asset   `json:"assets"`
	Failures    map[string]Failure `json:"failures,omitempty"`
	Stats       Stats              `json:"stats"`
}

// BuildInfo captures run-time parameters for diagnostics.
type BuildInfo struct {
	Workers               int `json:"workers"`
	InitialQuality        int `json:"initial_quality"`
	MinQuality            int `json:"min_quality"`
	MaxDimension          int `json:"max_dimension"`
	SecondaryMaxDimension int `json:"secondary_max_dimension"`
}

// Asset describes a source image and its compressed output.
type Asset struct {
	Original OriginalInfo `json:"original"`
	Output   Output       `json:"output"`
}

// OriginalInfo holds metadata about the source image.
type OriginalInfo struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
	Mode     string `json:"mode"` // color mode before normalization
	Size     int64  `json:"size"`
	HasAlpha bool   `json:"has_alpha"` // at least one non-opaque pixel
}

// Output is the WebP written for an asset.
type Output struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Quality  int    `json:"quality"`
	Size     int64  `json:"size"`     // bytes on disk
	Hash     string `json:"hash"`     // first 16 hex chars of xxhash64
	Path     string `json:"path"`     // relative to base_path
	Attempts int    `json:"attempts"` // encodes tried
	Resized  bool   `json:"resized,omitempty"`
	Fallback bool   `json:"fallback,omitempty"` // produced by the secondary resize
}

// Failure records an image that could not be brought under budget or read.
type Failure struct {
	Reason   string `json:"reason"`
	Achieved int    `json:"achieved,omitempty"` // smallest encoded size, for size failures
}

// Stats aggregates run metrics.
type Stats struct {
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
	TotalAssets      int   `json:"total_assets"`
	TotalFailures    int   `json:"total_failures"`
	TotalResized     int   `json:"total_resized"`
	TotalFallback    int   `json:"total_fallback,omitempty"`
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1

// FileName is the manifest file name inside an output directory.
const FileName = "webpfit.manifest.json"
