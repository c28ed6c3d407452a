package shrink

import (
	"image"
	"image/color"
)

// ColorMode classifies a decoded image by how it must be normalized.
type ColorMode int

const (
	ModeTruecolor ColorMode = iota
	ModeTruecolorAlpha
	ModePalette
	ModeGrayscale
	ModeGrayscaleAlpha

	numModes
)

var modeNames = [numModes]string{
	ModeTruecolor:      "truecolor",
	ModeTruecolorAlpha: "truecolor+alpha",
	ModePalette:        "palette",
	ModeGrayscale:      "grayscale",
	ModeGrayscaleAlpha: "grayscale+alpha",
}

func (m ColorMode) String() string {
	if m < 0 || m >= numModes {
		return "unknown"
	}
	return modeNames[m]
}

// HasAlpha reports whether the mode is normalized by compositing onto the
// background. Palettes count even when every entry is opaque; use
// HasTransparency to ask about the pixels.
func (m ColorMode) HasAlpha() bool {
	return m == ModeTruecolorAlpha || m == ModeGrayscaleAlpha || m == ModePalette
}

// HasTransparency reports whether any pixel of img is not fully opaque.
func HasTransparency(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	return !opaqueScan(img)
}

// DetectMode inspects img and returns its color mode. Images with an alpha
// channel that is fully opaque are reported as ModeTruecolor.
func DetectMode(img image.Image) ColorMode {
	switch src := img.(type) {
	case *image.Paletted:
		return ModePalette
	case *image.Gray, *image.Gray16:
		return ModeGrayscale
	case *image.Alpha, *image.Alpha16:
		return ModeGrayscaleAlpha
	case *image.YCbCr, *image.CMYK:
		return ModeTruecolor
	case *image.NRGBA:
		if src.Opaque() {
			return ModeTruecolor
		}
		if grayNRGBA(src) {
			return ModeGrayscaleAlpha
		}
		return ModeTruecolorAlpha
	case *image.RGBA:
		if src.Opaque() {
			return ModeTruecolor
		}
		return ModeTruecolorAlpha
	case *image.NYCbCrA:
		if src.Opaque() {
			return ModeTruecolor
		}
		return ModeTruecolorAlpha
	}

	switch img.ColorModel() {
	case color.GrayModel, color.Gray16Model:
		return ModeGrayscale
	}
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return ModeTruecolor
	}
	if opaqueScan(img) {
		return ModeTruecolor
	}
	return ModeTruecolorAlpha
}

// grayNRGBA reports whether every pixel of a non-opaque NRGBA image has
// equal color channels, which is how PNG gray+alpha decodes.
func grayNRGBA(img *image.NRGBA) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 0; i < len(row); i += 4 {
			if row[i] != row[i+1] || row[i] != row[i+2] {
				return false
			}
		}
	}
	return true
}

func opaqueScan(img image.Image) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a < 0xffff {
				return false
			}
		}
	}
	return true
}
