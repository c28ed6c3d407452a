//go:build ignore

// gen_fixtures creates test images in every color mode webpfit normalizes,
// plus one large noisy photo that forces the quality search to step down.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	if err := os.MkdirAll(filepath.Join(dir, "modes"), 0o755); err != nil {
		panic(err)
	}

	// Truecolor JPEG, 400x225.
	write(filepath.Join(dir, "banner.jpg"), gradient(400, 225), encodeJPEG)

	// One file per color mode.
	write(filepath.Join(dir, "modes", "truecolor-alpha.png"), alphaGradient(200, 200), png.Encode)
	write(filepath.Join(dir, "modes", "gray.png"), grayRamp(160, 90), png.Encode)
	write(filepath.Join(dir, "modes", "gray-alpha.png"), grayAlpha(120, 120), png.Encode)
	write(filepath.Join(dir, "modes", "palette.gif"), paletted(150, 100), encodeGIF)
	write(filepath.Join(dir, "modes", "truecolor.bmp"), gradient(64, 48), bmp.Encode)
	write(filepath.Join(dir, "modes", "truecolor.tiff"), gradient(64, 48), encodeTIFF)

	// Noise compresses badly: 4800x3200 is capped to 4000 and needs
	// several quality steps under the default 5 MiB budget.
	write(filepath.Join(dir, "noise.png"), noise(4800, 3200), png.Encode)

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 8 fixtures in %s\n", dir)
}

func gradient(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func alphaGradient(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: 220, G: 60, B: 30,
				A: uint8(x * 255 / w),
			})
		}
	}
	return img
}

func grayRamp(w, h int) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8((x + y) * 255 / (w + h))})
		}
	}
	return img
}

// grayAlpha has equal RGB channels and varying alpha, which PNG stores as
// gray+alpha.
func grayAlpha(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(x * 255 / w)
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: uint8(y * 255 / h)})
		}
	}
	return img
}

func paletted(w, h int) image.Image {
	img := image.NewPaletted(image.Rect(0, 0, w, h), palette.Plan9)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetColorIndex(x, y, uint8((x/10+y/10)%len(palette.Plan9)))
		}
	}
	return img
}

func noise(w, h int) image.Image {
	r := rand.New(rand.NewPCG(1, 2))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(r.IntN(256))
		img.Pix[i+1] = uint8(r.IntN(256))
		img.Pix[i+2] = uint8(r.IntN(256))
		img.Pix[i+3] = 255
	}
	return img
}

func encodeJPEG(w io.Writer, img image.Image) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: 85})
}

func encodeGIF(w io.Writer, img image.Image) error {
	return gif.Encode(w, img, nil)
}

func encodeTIFF(w io.Writer, img image.Image) error {
	return tiff.Encode(w, img, nil)
}

func write(path string, img image.Image, encode func(io.Writer, image.Image) error) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	if err := encode(f, img); err != nil {
		panic(err)
	}
}
