package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/webpfit/internal/manifest"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_manifest>",
	Short: "Display statistics for a batch output directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, args []string) error {
	m, err := manifest.Read(args[0])
	if err != nil {
		return err
	}
	printStats(m)
	return nil
}

func printStats(m *manifest.Manifest) {
	fmt.Println()
	fmt.Printf("  Manifest version: %d\n", m.Version)
	fmt.Printf("  Generated:        %s\n", m.GeneratedAt)
	fmt.Printf("  Profile:          %s\n", m.Profile)
	fmt.Printf("  Budget:           %s\n", formatBytes(int64(m.Budget)))
	fmt.Printf("  Encoder:          %s\n", m.Encoder)
	if m.BuildInfo != nil {
		fmt.Printf("  Workers:          %d\n", m.BuildInfo.Workers)
		fmt.Printf("  Quality range:    %d → %d\n", m.BuildInfo.InitialQuality, m.BuildInfo.MinQuality)
		fmt.Printf("  Resolution caps:  %dpx, fallback %dpx\n",
			m.BuildInfo.MaxDimension, m.BuildInfo.SecondaryMaxDimension)
	}
	fmt.Println()

	s := m.Stats
	fmt.Printf("  Total assets:     %d\n", s.TotalAssets)
	fmt.Printf("  Total failures:   %d\n", s.TotalFailures)
	fmt.Printf("  Input size:       %s\n", formatBytes(s.TotalInputBytes))
	fmt.Printf("  Output size:      %s\n", formatBytes(s.TotalOutputBytes))
	if s.TotalInputBytes > 0 {
		fmt.Printf("  Compression:      %.1f%% of original\n", s.Ratio())
	}
	fmt.Printf("  Resized:          %d (%d via fallback)\n", s.TotalResized, s.TotalFallback)
	fmt.Println()

	// Per-quality breakdown.
	qualityStats := map[int]int{}
	modeStats := map[string]int{}
	var headroom int64
	for _, a := range m.Assets {
		qualityStats[a.Output.Quality]++
		modeStats[a.Original.Mode]++
		headroom += int64(m.Budget) - a.Output.Size
	}
	var qualities []int
	for q := range qualityStats {
		qualities = append(qualities, q)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(qualities)))
	fmt.Println("  Quality breakdown:")
	for _, q := range qualities {
		fmt.Printf("    q%-3d  %4d assets\n", q, qualityStats[q])
	}
	fmt.Println()

	var modes []string
	for mode := range modeStats {
		modes = append(modes, mode)
	}
	sort.Strings(modes)
	fmt.Println("  Source color modes:")
	for _, mode := range modes {
		fmt.Printf("    %-16s %4d assets\n", mode, modeStats[mode])
	}
	if len(m.Assets) > 0 {
		fmt.Printf("\n  Mean headroom:    %s under budget\n", formatBytes(headroom/int64(len(m.Assets))))
	}

	// Warnings.
	var warnings []string
	for key, a := range m.Assets {
		if a.Output.Size > int64(m.Budget) {
			warnings = append(warnings, fmt.Sprintf("asset %q exceeds budget (%d > %d)", key, a.Output.Size, m.Budget))
		}
		if a.Output.Fallback {
			warnings = append(warnings, fmt.Sprintf("asset %q needed the fallback resize", key))
		}
	}
	for key, f := range m.Failures {
		warnings = append(warnings, fmt.Sprintf("asset %q failed: %s", key, f.Reason))
	}
	sort.Strings(warnings)
	if len(warnings) > 0 {
		fmt.Println()
		fmt.Printf("  Warnings (%d):\n", len(warnings))
		for _, w := range warnings {
			fmt.Printf("    ⚠ %s\n", w)
		}
	}
	fmt.Println()
}
