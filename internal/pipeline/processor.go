package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/AnyUserName/webpfit/internal/encoder"
	"github.com/AnyUserName/webpfit/internal/hasher"
	"github.com/AnyUserName/webpfit/internal/manifest"
	"github.com/AnyUserName/webpfit/internal/shrink"
	"github.com/AnyUserName/webpfit/internal/source"
)

// processResult holds the result of processing a single source image.
type processResult struct {
	key     string
	asset   manifest.Asset
	failure *manifest.Failure
}

func failed(key string, err error) processResult {
	f := &manifest.Failure{Reason: err.Error()}
	var se *shrink.SizeError
	if errors.As(err, &se) {
		f.Achieved = se.Smallest
	}
	return processResult{key: key, failure: f}
}

// processImage handles a single source image: decode, compress, write.
func (p *Pipeline) processImage(src Source) processResult {
	in, err := source.Open(src.AbsPath, p.cfg.MaxInputBytes)
	if err != nil {
		return failed(src.Key, err)
	}

	if in.Format != src.Format {
		log.Warn().
			Str("key", src.Key).
			Str("extension", src.Format).
			Str("content", in.Format).
			Msg("extension does not match image content")
	}

	bounds := in.Image.Bounds()
	res, err := p.shrinker.Compress(in.Image, p.cfg.Profile.Budget)
	if err != nil {
		return failed(src.Key, fmt.Errorf("compress %s: %w", src.RelPath, err))
	}

	relPath := src.Key + "." + encoder.Extension()
	if p.cfg.ContentHash {
		relPath = hasher.FileName(src.Key, res.Data, encoder.Extension())
	}

	outPath := filepath.Join(p.cfg.OutputDir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return failed(src.Key, fmt.Errorf("create dir for %s: %w", relPath, err))
	}
	if err := os.WriteFile(outPath, res.Data, 0o644); err != nil {
		return failed(src.Key, fmt.Errorf("write %s: %w", relPath, err))
	}

	log.Debug().
		Str("key", src.Key).
		Int("quality", res.Quality).
		Int("size", res.Size()).
		Int64("original", in.Size).
		Msg("compressed")

	return processResult{
		key: src.Key,
		asset: manifest.Asset{
			Original: manifest.OriginalInfo{
				Width:    bounds.Dx(),
				Height:   bounds.Dy(),
				Format:   in.Format,
				Mode:     res.Mode.String(),
				Size:     in.Size,
				HasAlpha: res.Transparent,
			},
			Output: manifest.Output{
				Width:    res.Width,
				Height:   res.Height,
				Quality:  res.Quality,
				Size:     int64(res.Size()),
				Hash:     hasher.ContentHash(res.Data, hasher.HexLen),
				Path:     relPath,
				Attempts: res.Attempts,
				Resized:  res.Resized,
				Fallback: res.Fallback,
			},
		},
	}
}
