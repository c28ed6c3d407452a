// Package config resolves run settings from a TOML file, WEBPFIT_*
// environment variables and command-line flags, layered over a named profile.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/AnyUserName/webpfit/internal/encoder"
	"github.com/AnyUserName/webpfit/internal/profile"
	"github.com/AnyUserName/webpfit/internal/shrink"
	"github.com/AnyUserName/webpfit/internal/source"
)

// EnvPrefix prefixes every environment variable, e.g. WEBPFIT_BUDGET.
const EnvPrefix = "WEBPFIT"

// FileName is the config file looked up in the working directory.
const FileName = "webpfit"

// Keys.
const (
	KeyLogLevel              = "log_level"
	KeyProfile               = "profile"
	KeyBudget                = "budget"
	KeyInitialQuality        = "initial_quality"
	KeyMinQuality            = "min_quality"
	KeyMaxDimension          = "max_dimension"
	KeySecondaryMaxDimension = "secondary_max_dimension"
	KeyEncoder               = "encoder"
	KeyMaxInputBytes         = "max_input_bytes"
	KeyWorkers               = "workers"
)

var keys = []string{
	KeyLogLevel, KeyProfile, KeyBudget, KeyInitialQuality, KeyMinQuality,
	KeyMaxDimension, KeySecondaryMaxDimension, KeyEncoder, KeyMaxInputBytes, KeyWorkers,
}

// IsKey reports whether key is a recognized setting.
func IsKey(key string) bool {
	return slices.Contains(keys, key)
}

// Config is the resolved configuration for one command run.
type Config struct {
	LogLevel      zerolog.Level
	Profile       profile.Profile
	Encoder       string
	MaxInputBytes int64
	Workers       int
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyProfile, profile.DefaultName)
	v.SetDefault(KeyEncoder, encoder.Auto)
	v.SetDefault(KeyMaxInputBytes, source.DefaultMaxInputBytes)
	v.SetDefault(KeyWorkers, 0)
	return v
}

// ReadFile loads the config file at path, or webpfit.toml from the working
// directory when path is empty. A missing default file is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		return nil
	}

	v.AddConfigPath(".")
	v.SetConfigName(FileName)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load resolves the configuration. Explicitly set keys override the values
// of the selected profile.
func Load(v *viper.Viper) (Config, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(v.GetString(KeyLogLevel)))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", KeyLogLevel, err)
	}

	name := v.GetString(KeyProfile)
	p, ok := profile.Lookup(name)
	if !ok {
		return Config{}, fmt.Errorf("unknown profile %q (available: %s)", name, strings.Join(profile.Names(), ", "))
	}

	override := func(key string, dst *int) {
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}
	override(KeyBudget, &p.Budget)
	override(KeyInitialQuality, &p.InitialQuality)
	override(KeyMinQuality, &p.MinQuality)
	override(KeyMaxDimension, &p.MaxDimension)
	override(KeySecondaryMaxDimension, &p.SecondaryMaxDimension)

	if p.Budget <= 0 {
		return Config{}, fmt.Errorf("%s: %w", KeyBudget, shrink.ErrInvalidBudget)
	}
	if err := p.Options().Validate(); err != nil {
		return Config{}, err
	}

	cfg := Config{
		LogLevel:      level,
		Profile:       p,
		Encoder:       v.GetString(KeyEncoder),
		MaxInputBytes: v.GetInt64(KeyMaxInputBytes),
		Workers:       v.GetInt(KeyWorkers),
	}
	if cfg.MaxInputBytes <= 0 {
		return Config{}, fmt.Errorf("%s must be positive, got %d", KeyMaxInputBytes, cfg.MaxInputBytes)
	}
	return cfg, nil
}
