package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/AnyUserName/webpfit/internal/encoder"
	"github.com/AnyUserName/webpfit/internal/hasher"
	"github.com/AnyUserName/webpfit/internal/shrink"
	"github.com/AnyUserName/webpfit/internal/source"
)

var (
	compressOut         string
	compressContentHash bool
)

var compressCmd = &cobra.Command{
	Use:   "compress <image>",
	Short: "Compress one image to WebP under the byte budget",
	Long: `Decodes an image, flattens transparency onto white, caps its resolution
and encodes it as WebP at the highest quality that fits the budget.

Output defaults to <name>.webp next to the input (<name>.fit.webp when the
input already is WebP).`,
	Args: cobra.ExactArgs(1),
	RunE: runCompress,
}

func init() {
	compressCmd.Flags().StringVarP(&compressOut, "out", "o", "", "output file")
	compressCmd.Flags().BoolVar(&compressContentHash, "content-hash", false, "name output <name>.<hash>.webp")
	addSearchFlags(compressCmd)
	rootCmd.AddCommand(compressCmd)
}

func runCompress(_ *cobra.Command, args []string) error {
	inputPath := args[0]
	start := time.Now()

	in, err := source.Open(inputPath, settings.MaxInputBytes)
	if err != nil {
		return err
	}

	enc, err := encoder.NewRegistry().Get(settings.Encoder)
	if err != nil {
		return err
	}
	log.Debug().
		Str("input", inputPath).
		Str("format", in.Format).
		Str("encoder", enc.Name()).
		Str("profile", settings.Profile.Name).
		Int("budget", settings.Profile.Budget).
		Msg("compressing")

	s, err := shrink.New(enc, settings.Profile.Options())
	if err != nil {
		return err
	}
	res, err := s.Compress(in.Image, settings.Profile.Budget)
	if err != nil {
		var se *shrink.SizeError
		if errors.As(err, &se) {
			fmt.Printf("  ✗ %s\n", filepath.Base(inputPath))
			fmt.Printf("    budget %s, smallest %s after %d attempts\n",
				formatBytes(int64(se.Budget)), formatBytes(int64(se.Smallest)), se.Attempts)
		}
		return fmt.Errorf("compress %s: %w", inputPath, err)
	}

	outPath := outputPath(inputPath, in.Format, res.Data)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(outPath, res.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	printCompressReport(in, res, outPath, time.Since(start))
	return nil
}

// outputPath picks the destination: --out, or a name derived from the input.
func outputPath(inputPath, format string, data []byte) string {
	ext := encoder.Extension()
	dir := filepath.Dir(inputPath)
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))

	switch {
	case compressOut != "" && compressContentHash:
		dir = filepath.Dir(compressOut)
		stem = strings.TrimSuffix(filepath.Base(compressOut), filepath.Ext(compressOut))
		return filepath.Join(dir, hasher.FileName(stem, data, ext))
	case compressOut != "":
		return compressOut
	case compressContentHash:
		return filepath.Join(dir, hasher.FileName(stem, data, ext))
	case format == encoder.Format:
		return filepath.Join(dir, stem+".fit."+ext)
	}
	return filepath.Join(dir, stem+"."+ext)
}

func printCompressReport(in *source.Image, res *shrink.Result, outPath string, elapsed time.Duration) {
	b := in.Image.Bounds()
	saved := float64(0)
	if in.Size > 0 {
		saved = (1 - float64(res.Size())/float64(in.Size)) * 100
	}

	fmt.Printf("  ✓ %s\n", outPath)
	fmt.Printf("    %8s → %8s  (−%.0f%%)\n", formatBytes(in.Size), formatBytes(int64(res.Size())), saved)
	fmt.Printf("    %s %s %dx%d → %s %dx%d, quality %d, %d attempts",
		in.Format, res.Mode, b.Dx(), b.Dy(), encoder.MediaType, res.Width, res.Height, res.Quality, res.Attempts)
	if res.Fallback {
		fmt.Print(", fallback resize")
	}
	fmt.Printf(", %s\n", elapsed.Round(time.Millisecond))
}
