// Package encoder provides the WebP backends the size search drives.
package encoder

import (
	"image"
)

// Encoder encodes an image to WebP.
type Encoder interface {
	// Name identifies the backend (e.g. "native", "cwebp").
	Name() string

	// Encode converts the image to bytes at the given quality (1-100),
	// using the slowest, best-compressing effort level the backend offers.
	Encode(img image.Image, quality int) ([]byte, error)

	// Available returns true if the encoder is ready to use.
	// External encoders (cwebp) may not be installed.
	Available() bool
}

// Format is the output container produced by every backend.
const Format = "webp"

// Extension returns the output file extension without dot.
func Extension() string { return Format }

// MediaType is the MIME type of the output.
const MediaType = "image/webp"

func clampQuality(q int) int {
	switch {
	case q < 0:
		return 0
	case q > 100:
		return 100
	}
	return q
}
