package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/webpfit/internal/hasher"
	"github.com/AnyUserName/webpfit/internal/manifest"
)

var validateHashes bool

var validateCmd = &cobra.Command{
	Use:   "validate <out_dir_or_manifest>",
	Short: "Validate a webpfit manifest and check every output against it",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateHashes, "hashes", true, "re-hash output files")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	path := args[0]
	m, err := manifest.Read(path)
	if err != nil {
		return err
	}

	baseDir := path
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		baseDir = filepath.Dir(path)
	}
	errors := validateManifest(m, filepath.Join(baseDir, m.BasePath), validateHashes)

	if len(errors) == 0 {
		fmt.Println("  ✓ Manifest is valid")
		fmt.Printf("  ✓ %d assets under %s, all files present\n", m.Stats.TotalAssets, formatBytes(int64(m.Budget)))
		return nil
	}

	fmt.Printf("  ✗ Manifest has %d error(s):\n", len(errors))
	for _, e := range errors {
		fmt.Printf("    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errors))
}

func validateManifest(m *manifest.Manifest, baseDir string, checkHashes bool) []string {
	var errs []string

	if m.Version != manifest.SupportedManifestVersion {
		errs = append(errs, fmt.Sprintf("unsupported manifest version: %d", m.Version))
	}
	if m.Budget <= 0 {
		errs = append(errs, fmt.Sprintf("invalid budget: %d", m.Budget))
	}

	seenPaths := map[string]string{}
	for key, asset := range m.Assets {
		if asset.Original.Width <= 0 || asset.Original.Height <= 0 {
			errs = append(errs, fmt.Sprintf("asset %q: invalid original dimensions %dx%d",
				key, asset.Original.Width, asset.Original.Height))
		}

		out := asset.Output
		if out.Width <= 0 || out.Height <= 0 {
			errs = append(errs, fmt.Sprintf("asset %q: invalid output dimensions %dx%d", key, out.Width, out.Height))
		}
		// Resolution never increases.
		if out.Width > asset.Original.Width || out.Height > asset.Original.Height {
			errs = append(errs, fmt.Sprintf("asset %q: output %dx%d larger than original %dx%d",
				key, out.Width, out.Height, asset.Original.Width, asset.Original.Height))
		}
		if out.Quality < 1 || out.Quality > 100 {
			errs = append(errs, fmt.Sprintf("asset %q: quality %d out of range", key, out.Quality))
		}
		if out.Size > int64(m.Budget) {
			errs = append(errs, fmt.Sprintf("asset %q: size %d exceeds budget %d", key, out.Size, m.Budget))
		}
		if out.Hash == "" {
			errs = append(errs, fmt.Sprintf("asset %q: missing hash", key))
		}
		if out.Path == "" {
			errs = append(errs, fmt.Sprintf("asset %q: missing path", key))
			continue
		}

		if other, dup := seenPaths[out.Path]; dup {
			errs = append(errs, fmt.Sprintf("asset %q: path %q already used by %q", key, out.Path, other))
		}
		seenPaths[out.Path] = key

		fullPath := filepath.Join(baseDir, filepath.FromSlash(out.Path))
		info, err := os.Stat(fullPath)
		if err != nil {
			errs = append(errs, fmt.Sprintf("asset %q: file not found: %s", key, out.Path))
			continue
		}
		if info.Size() != out.Size {
			errs = append(errs, fmt.Sprintf("asset %q: size mismatch: manifest=%d, disk=%d",
				key, out.Size, info.Size()))
		}
		if checkHashes && out.Hash != "" {
			sum, err := hasher.FileHash(fullPath, len(out.Hash))
			if err != nil {
				errs = append(errs, fmt.Sprintf("asset %q: %v", key, err))
			} else if sum != out.Hash {
				errs = append(errs, fmt.Sprintf("asset %q: hash mismatch: manifest=%s, disk=%s", key, out.Hash, sum))
			}
		}
	}

	for key := range m.Failures {
		if _, ok := m.Assets[key]; ok {
			errs = append(errs, fmt.Sprintf("asset %q: listed as both output and failure", key))
		}
	}

	// Verify stats consistency.
	if m.Stats.TotalAssets != len(m.Assets) {
		errs = append(errs, fmt.Sprintf("stats.total_assets mismatch: %d != %d", m.Stats.TotalAssets, len(m.Assets)))
	}
	if m.Stats.TotalFailures != len(m.Failures) {
		errs = append(errs, fmt.Sprintf("stats.total_failures mismatch: %d != %d", m.Stats.TotalFailures, len(m.Failures)))
	}

	return errs
}
