package cmd

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/AnyUserName/webpfit/internal/config"
)

var (
	version    = "0.1.0"
	verbose    bool
	configFile string

	// settings is resolved before any subcommand runs.
	settings config.Config
)

var rootCmd = &cobra.Command{
	Use:   "webpfit",
	Short: "Re-encode images as WebP under a byte budget",
	Long: `webpfit turns arbitrary PNG, JPEG, GIF, BMP, TIFF and WebP images into
WebP files no larger than a byte budget.

Images are flattened onto white, capped to a maximum resolution, and encoded
at decreasing quality until the output fits. As a last resort the image is
downsampled once more and encoded at the minimum quality.

Settings are read from ./webpfit.toml (or --config), WEBPFIT_* environment
variables and flags, in increasing precedence.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (log level debug)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./webpfit.toml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"webpfit %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// loadSettings layers config file, environment and the flags of the running
// command, then configures the global logger.
func loadSettings(cmd *cobra.Command, _ []string) error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	v := config.New()
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	if err := config.ReadFile(v, configFile); err != nil {
		return err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	if verbose {
		cfg.LogLevel = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)

	if used := v.ConfigFileUsed(); used != "" {
		log.Debug().Str("file", used).Msg("config loaded")
	}
	settings = cfg
	return nil
}

// bindFlags binds every flag whose name maps to a config key, so
// --min-quality overrides min_quality only when given.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if !config.IsKey(key) || err != nil {
			return
		}
		err = v.BindPFlag(key, f)
	})
	return err
}

// addSearchFlags registers the flags shared by compress and batch. Their
// names match config keys; unset flags leave the profile values alone.
func addSearchFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("profile", "p", "", "budget profile, see webpfit profiles")
	f.IntP("budget", "b", 0, "maximum output size in bytes (overrides profile)")
	f.Int("initial-quality", 0, "first quality tried, 1-100")
	f.Int("min-quality", 0, "lowest quality tried, 1-100")
	f.Int("max-dimension", 0, "resolution cap for the longest side")
	f.Int("secondary-max-dimension", 0, "resolution cap for the fallback attempt")
	f.String("encoder", "", "webp backend: auto, native, cwebp")
	f.Int64("max-input-bytes", 0, "reject inputs larger than this")
}
