// Package source reads and decodes input images before they reach the size
// search. Everything that can go wrong with the raw input (unknown format,
// oversized upload, corrupt bytes) is reported here.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultMaxInputBytes limits the raw input read for one image (50 MiB).
const DefaultMaxInputBytes = 50 << 20

var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrInputTooLarge     = errors.New("input file too large")
	ErrCorrupt           = errors.New("invalid image data")
)

// extensions maps recognized file extensions to format names.
var extensions = map[string]string{
	".png":  "png",
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".gif":  "gif",
	".bmp":  "bmp",
	".tiff": "tiff",
	".tif":  "tiff",
	".webp": "webp",
}

// Image is a decoded input.
type Image struct {
	Image image.Image
	// Format is the container format reported by the decoder.
	Format string
	// Size is the raw input length in bytes.
	Size int64
}

// FormatOf returns the format name for path's extension.
func FormatOf(path string) (string, bool) {
	f, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// Supported reports whether path has a recognized image extension.
func Supported(path string) bool {
	_, ok := FormatOf(path)
	return ok
}

// Extensions returns the recognized extensions, dot included, sorted.
func Extensions() []string {
	out := make([]string, 0, len(extensions))
	for ext := range extensions {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Open reads and decodes the file at path. maxBytes <= 0 means
// DefaultMaxInputBytes.
func Open(path string, maxBytes int64) (*Image, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxInputBytes
	}
	if !Supported(path) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.Size() > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrInputTooLarge, info.Size(), maxBytes)
	}
	return Decode(f, path, maxBytes)
}

// Decode reads at most maxBytes from r and decodes the image. name is used
// for the extension check; pass "" to skip it and rely on content sniffing.
func Decode(r io.Reader, name string, maxBytes int64) (*Image, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxInputBytes
	}
	if name != "" && !Supported(name) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(name))
	}

	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: limit %d bytes", ErrInputTooLarge, maxBytes)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if b := img.Bounds(); b.Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrCorrupt)
	}

	return &Image{
		Image:  img,
		Format: format,
		Size:   int64(len(data)),
	}, nil
}
