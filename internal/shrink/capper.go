package shrink

import (
	"image"

	"github.com/disintegration/imaging"
)

// CappedSize returns the dimensions of a w×h image after limiting its
// longest side to maxDim. The longest side becomes exactly maxDim and the
// other side is scaled by the same ratio, truncated, never below 1.
// If the image already fits, or maxDim <= 0, w and h are returned unchanged.
func CappedSize(w, h, maxDim int) (int, int) {
	long := max(w, h)
	if maxDim <= 0 || long <= maxDim {
		return w, h
	}
	if w >= h {
		return maxDim, max(1, h*maxDim/w)
	}
	return max(1, w*maxDim/h), maxDim
}

// CapResolution downsamples img with a Lanczos filter so that its longest
// side is at most maxDim. An image that already fits is returned as is.
func CapResolution(img *image.NRGBA, maxDim int) *image.NRGBA {
	b := img.Bounds()
	w, h := CappedSize(b.Dx(), b.Dy(), maxDim)
	if w == b.Dx() && h == b.Dy() {
		return img
	}
	return imaging.Resize(img, w, h, imaging.Lanczos)
}

func longestSide(img image.Image) int {
	b := img.Bounds()
	return max(b.Dx(), b.Dy())
}
