package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/webpfit/internal/encoder"
	"github.com/AnyUserName/webpfit/internal/profile"
	"github.com/AnyUserName/webpfit/internal/source"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List built-in budget profiles and available encoders",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		printProfiles(settings.Profile.Name)
		fmt.Printf("  Inputs:  %s\n", strings.Join(source.Extensions(), " "))
		fmt.Printf("  Output:  %s (.%s)\n", encoder.MediaType, encoder.Extension())
		fmt.Printf("  %s\n\n", encoder.NewRegistry())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}

func printProfiles(active string) {
	fmt.Println()
	fmt.Printf("  %-2s%-12s %10s  %7s  %7s  %9s\n", "", "PROFILE", "BUDGET", "QUALITY", "MAX DIM", "FALLBACK")
	for _, name := range profile.Names() {
		p := profile.Get(name)
		mark := ""
		if name == active {
			mark = "*"
		}
		fmt.Printf("  %-2s%-12s %10s  %3d-%-3d  %6dpx  %7dpx\n",
			mark, p.Name, formatBytes(int64(p.Budget)),
			p.MinQuality, p.InitialQuality, p.MaxDimension, p.SecondaryMaxDimension)
		fmt.Printf("  %-2s%-12s ladder %s\n", "", "", qualityLadder(p))
	}
	fmt.Println()
}

// qualityLadder lists the qualities the search tries for p, highest first.
func qualityLadder(p profile.Profile) string {
	opts := p.Options()
	qs := opts.Schedule.Qualities(opts.InitialQuality, opts.MinQuality)
	parts := make([]string, len(qs))
	for i, q := range qs {
		parts[i] = strconv.Itoa(q)
	}
	return strings.Join(parts, " → ")
}
