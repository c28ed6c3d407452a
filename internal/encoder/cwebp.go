package encoder

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// Atomic counter for unique temp file names across goroutines.
var tempCounter atomic.Int64

// CWebPEncoder encodes images by shelling out to cwebp with -m 6, the
// slowest and smallest compression method.
// Install: brew install webp / apt install webp
type CWebPEncoder struct {
	once      sync.Once
	available bool
	cwebpPath string
}

func (e *CWebPEncoder) Name() string { return "cwebp" }

func (e *CWebPEncoder) Available() bool {
	e.once.Do(func() {
		path, err := exec.LookPath("cwebp")
		if err != nil {
			log.Debug().Msg("cwebp binary not found")
			return
		}
		log.Debug().Str("path", path).Msg("cwebp binary found")
		e.available = true
		e.cwebpPath = path
	})
	return e.available
}

func (e *CWebPEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	if !e.Available() {
		return nil, fmt.Errorf("cwebp not found in PATH; install with: brew install webp")
	}
	if err := checkDimensions(img); err != nil {
		return nil, err
	}

	id := tempCounter.Add(1)
	srcFile, err := os.CreateTemp("", fmt.Sprintf("webpfit_src_%d_*.png", id))
	if err != nil {
		return nil, fmt.Errorf("create temp: %w", err)
	}
	srcPath := srcFile.Name()
	defer os.Remove(srcPath)

	// Lossless intermediate; speed matters more than size here.
	enc := &png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(srcFile, img); err != nil {
		srcFile.Close()
		return nil, fmt.Errorf("encode temp png: %w", err)
	}
	if err := srcFile.Close(); err != nil {
		return nil, fmt.Errorf("close temp png: %w", err)
	}

	dstFile, err := os.CreateTemp("", fmt.Sprintf("webpfit_dst_%d_*.webp", id))
	if err != nil {
		return nil, fmt.Errorf("create temp: %w", err)
	}
	dstPath := dstFile.Name()
	dstFile.Close()
	defer os.Remove(dstPath)

	cmd := exec.Command(e.cwebpPath,
		"-q", strconv.Itoa(clampQuality(quality)),
		"-m", "6",
		"-mt",
		"-quiet",
		srcPath,
		"-o", dstPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("cwebp: %w: %s", err, string(out))
	}

	return os.ReadFile(dstPath)
}
