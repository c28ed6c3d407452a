package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/AnyUserName/webpfit/internal/encoder"
	"github.com/AnyUserName/webpfit/internal/manifest"
	"github.com/AnyUserName/webpfit/internal/pipeline"
)

var (
	batchOutDir      string
	batchContentHash bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <input_dir>",
	Short: "Compress every image in a directory and write a manifest",
	Long: `Scans the input directory for images (png, jpg, jpeg, gif, bmp, tiff,
webp), compresses each one under the byte budget on a pool of workers, and
writes webpfit.manifest.json describing outputs and failures.

Output paths mirror the input tree: <key>.webp, or <key>.<hash>.webp with
--content-hash.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchOutDir, "out", "o", "./webpfit_out", "output directory")
	batchCmd.Flags().IntP("workers", "w", 0, "parallel workers (0 = NumCPU)")
	batchCmd.Flags().BoolVar(&batchContentHash, "content-hash", false, "content-addressed output names")
	addSearchFlags(batchCmd)
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	start := time.Now()

	absInput, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(batchOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	enc, err := encoder.NewRegistry().Get(settings.Encoder)
	if err != nil {
		return err
	}

	prof := settings.Profile
	log.Debug().
		Str("input", absInput).
		Str("output", absOutput).
		Str("profile", prof.Name).
		Int("budget", prof.Budget).
		Int("initial_quality", prof.InitialQuality).
		Int("min_quality", prof.MinQuality).
		Int("max_dimension", prof.MaxDimension).
		Msg("batch settings")

	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	p, err := pipeline.New(pipeline.Config{
		InputDir:      absInput,
		OutputDir:     absOutput,
		Profile:       prof,
		Encoder:       enc,
		Workers:       settings.Workers,
		MaxInputBytes: settings.MaxInputBytes,
		ContentHash:   batchContentHash,
	})
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	m, err := p.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			log.Warn().Msg("batch interrupted")
		}
		return fmt.Errorf("pipeline: %w", err)
	}

	if err := manifest.WriteJSON(m, filepath.Join(absOutput, manifest.FileName)); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	printBatchReport(m, time.Since(start))
	return nil
}

func printBatchReport(m *manifest.Manifest, elapsed time.Duration) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════╗")
	fmt.Println("║              webpfit batch complete              ║")
	fmt.Println("╚══════════════════════════════════════════════════╝")
	fmt.Println()

	stats := m.Stats
	fmt.Printf("  Assets:      %d\n", stats.TotalAssets)
	if stats.TotalFailures > 0 {
		fmt.Printf("  Failed:      %d\n", stats.TotalFailures)
	}
	fmt.Printf("  Budget:      %s per image (%s)\n", formatBytes(int64(m.Budget)), m.Profile)
	fmt.Printf("  Input size:  %s\n", formatBytes(stats.TotalInputBytes))
	fmt.Printf("  Output size: %s\n", formatBytes(stats.TotalOutputBytes))
	fmt.Printf("  Ratio:       %.1f%% of original\n", stats.Ratio())
	if stats.TotalResized > 0 {
		fmt.Printf("  Resized:     %d (%d via fallback)\n", stats.TotalResized, stats.TotalFallback)
	}
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))
	if m.BuildInfo != nil {
		fmt.Printf("  Workers:     %d  (encoder %s)\n", m.BuildInfo.Workers, m.Encoder)
	}
	fmt.Println()

	// Top 10 heaviest assets.
	if len(m.Assets) > 0 {
		type assetSize struct {
			key        string
			inputSize  int64
			outputSize int64
			quality    int
		}
		var items []assetSize
		for key, a := range m.Assets {
			items = append(items, assetSize{key, a.Original.Size, a.Output.Size, a.Output.Quality})
		}
		sort.Slice(items, func(i, j int) bool {
			return items[i].inputSize > items[j].inputSize
		})
		n := min(len(items), 10)
		fmt.Printf("  Top %d heaviest (original → webp):\n", n)
		for _, it := range items[:n] {
			saved := float64(0)
			if it.inputSize > 0 {
				saved = (1 - float64(it.outputSize)/float64(it.inputSize)) * 100
			}
			fmt.Printf("    %-40s %8s → %8s  q%-3d (−%.0f%%)\n",
				truncKey(it.key, 40),
				formatBytes(it.inputSize),
				formatBytes(it.outputSize),
				it.quality,
				saved,
			)
		}
		fmt.Println()
	}

	if len(m.Failures) > 0 {
		keys := make([]string, 0, len(m.Failures))
		for k := range m.Failures {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Println("  Failures:")
		for _, k := range keys {
			fmt.Printf("    %-40s %s\n", truncKey(k, 40), m.Failures[k].Reason)
		}
		fmt.Println()
	}

	data, _ := json.Marshal(m)
	fmt.Printf("  Manifest:    %s (%s)\n", manifest.FileName, formatBytes(int64(len(data))))
	fmt.Println()
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
