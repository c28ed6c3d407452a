package encoder

import (
	"bytes"
	"fmt"
	"image"

	"github.com/chai2010/webp"
)

// MaxDimension is the largest width or height the WebP bitstream can hold.
const MaxDimension = 16383

// WebPEncoder encodes in-process through libwebp (cgo).
type WebPEncoder struct{}

func (e *WebPEncoder) Name() string    { return "native" }
func (e *WebPEncoder) Available() bool { return true }

func (e *WebPEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	if err := checkDimensions(img); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(256 * 1024)

	err := webp.Encode(&buf, img, &webp.Options{Quality: float32(clampQuality(quality))})
	if err != nil {
		return nil, fmt.Errorf("webp: %w", err)
	}
	return buf.Bytes(), nil
}

func checkDimensions(img image.Image) error {
	b := img.Bounds()
	if b.Empty() {
		return fmt.Errorf("webp: empty image %dx%d", b.Dx(), b.Dy())
	}
	if b.Dx() > MaxDimension || b.Dy() > MaxDimension {
		return fmt.Errorf("webp: image dimension %dx%d exceeds maximum %d", b.Dx(), b.Dy(), MaxDimension)
	}
	return nil
}
