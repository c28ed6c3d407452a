// Package pipeline compresses every image under a directory, one
// size-constrained search per image, on a bounded pool of workers.
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/AnyUserName/webpfit/internal/encoder"
	"github.com/AnyUserName/webpfit/internal/manifest"
	"github.com/AnyUserName/webpfit/internal/profile"
	"github.com/AnyUserName/webpfit/internal/shrink"
)

// Config holds all parameters for a batch run.
type Config struct {
	InputDir      string
	OutputDir     string
	Profile       profile.Profile
	Encoder       encoder.Encoder
	Workers       int
	MaxInputBytes int64
	ContentHash   bool // name outputs <key>.<hash>.webp
}

// Pipeline orchestrates image processing.
type Pipeline struct {
	cfg      Config
	shrinker *shrink.Shrinker
}

// New creates a configured pipeline.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Encoder == nil {
		return nil, fmt.Errorf("pipeline: no encoder")
	}
	s, err := shrink.New(cfg.Encoder, cfg.Profile.Options())
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	return &Pipeline{cfg: cfg, shrinker: s}, nil
}

// Run executes the batch and returns the manifest. Per-image failures are
// recorded in the manifest; Run fails only if scanning fails, ctx is
// cancelled, or no image could be compressed.
func (p *Pipeline) Run(ctx context.Context) (*manifest.Manifest, error) {
	sources, err := ScanImages(p.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %s", p.cfg.InputDir)
	}

	var inputBytes int64
	for _, s := range sources {
		inputBytes += s.Size
	}

	log.Info().
		Int("images", len(sources)).
		Int64("input_bytes", inputBytes).
		Int("workers", p.cfg.Workers).
		Str("encoder", p.cfg.Encoder.Name()).
		Int("budget", p.cfg.Profile.Budget).
		Msg("starting batch")

	results := make([]processResult, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			if err := ctx.Err(); err != nil {
				results[idx] = failed(s.Key, err)
				return
			}

			log.Debug().Str("key", s.Key).Msg("processing")
			results[idx] = p.processImage(s)
			if f := results[idx].failure; f != nil {
				log.Warn().Str("key", s.Key).Str("reason", f.Reason).Msg("image failed")
			}
		}(i, src)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts := p.cfg.Profile.Options()
	m := manifest.New(p.cfg.Profile.Name, p.cfg.Profile.Budget, p.cfg.Encoder.Name())
	m.BuildInfo = &manifest.BuildInfo{
		Workers:               p.cfg.Workers,
		InitialQuality:        opts.InitialQuality,
		MinQuality:            opts.MinQuality,
		MaxDimension:          opts.MaxDimension,
		SecondaryMaxDimension: opts.SecondaryMaxDimension,
	}
	for _, r := range results {
		if r.failure != nil {
			m.Failures[r.key] = *r.failure
			continue
		}
		m.Assets[r.key] = r.asset
	}
	m.ComputeStats()

	if len(m.Failures) > 0 {
		if len(m.Failures) == len(sources) {
			return nil, fmt.Errorf("all %d images failed to process", len(sources))
		}
		log.Warn().Int("failed", len(m.Failures)).Int("total", len(sources)).Msg("some images had errors")
	}
	return m, nil
}
