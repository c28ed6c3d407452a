package shrink

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Background is the canvas color transparent pixels are composited onto.
var Background = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

type normalizeRule func(img image.Image) *image.NRGBA

var normalizeRules = [numModes]normalizeRule{
	ModeTruecolor:      toTruecolor,
	ModeTruecolorAlpha: flatten,
	ModePalette:        expandAndFlatten,
	ModeGrayscale:      toTruecolor,
	ModeGrayscaleAlpha: flatten,
}

// Normalize converts img into an opaque truecolor NRGBA image with bounds
// starting at (0, 0). The source is never modified and the returned image
// never aliases its pixels.
func Normalize(img image.Image) *image.NRGBA {
	return NormalizeMode(img, DetectMode(img))
}

// NormalizeMode is Normalize with a caller-supplied color mode, for callers
// that already classified the image.
func NormalizeMode(img image.Image, mode ColorMode) *image.NRGBA {
	if mode < 0 || mode >= numModes {
		mode = ModeTruecolorAlpha
	}
	return normalizeRules[mode](img)
}

// toTruecolor copies the pixels into NRGBA. Gray values expand to (v, v, v).
func toTruecolor(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

// flatten composites img over an opaque canvas using its alpha as the mask.
func flatten(img image.Image) *image.NRGBA {
	b := img.Bounds()
	canvas := imaging.New(b.Dx(), b.Dy(), Background)
	return imaging.Overlay(canvas, img, image.Pt(0, 0), 1.0)
}

// expandAndFlatten turns palette indices into explicit NRGBA values before
// compositing, so transparent palette entries blend like any other alpha.
func expandAndFlatten(img image.Image) *image.NRGBA {
	return flatten(imaging.Clone(img))
}
