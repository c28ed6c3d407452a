package shrink

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectMode(t *testing.T) {
	r := image.Rect(0, 0, 4, 4)

	opaqueNRGBA := image.NewNRGBA(r)
	translucent := image.NewNRGBA(r)
	grayAlpha := image.NewNRGBA(r)
	opaqueRGBA := image.NewRGBA(r)
	for i := 0; i < len(opaqueNRGBA.Pix); i += 4 {
		opaqueNRGBA.Pix[i], opaqueNRGBA.Pix[i+3] = 10, 255
		translucent.Pix[i], translucent.Pix[i+3] = 10, 100
		grayAlpha.Pix[i], grayAlpha.Pix[i+1], grayAlpha.Pix[i+2], grayAlpha.Pix[i+3] = 60, 60, 60, 100
		opaqueRGBA.Pix[i+3] = 255
	}

	tests := []struct {
		name string
		img  image.Image
		want ColorMode
	}{
		{"ycbcr", image.NewYCbCr(r, image.YCbCrSubsampleRatio420), ModeTruecolor},
		{"opaque nrgba", opaqueNRGBA, ModeTruecolor},
		{"opaque rgba", opaqueRGBA, ModeTruecolor},
		{"translucent nrgba", translucent, ModeTruecolorAlpha},
		{"transparent rgba", image.NewRGBA(r), ModeTruecolorAlpha},
		{"gray", image.NewGray(r), ModeGrayscale},
		{"gray16", image.NewGray16(r), ModeGrayscale},
		{"gray alpha", grayAlpha, ModeGrayscaleAlpha},
		{"alpha mask", image.NewAlpha(r), ModeGrayscaleAlpha},
		{"paletted", image.NewPaletted(r, color.Palette{color.Black}), ModePalette},
		{"transparent nrgba64", image.NewNRGBA64(r), ModeTruecolorAlpha},
		{"cmyk", image.NewCMYK(r), ModeTruecolor},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DetectMode(tc.img))
		})
	}
}

func TestColorModeString(t *testing.T) {
	assert.Equal(t, "palette", ModePalette.String())
	assert.Equal(t, "grayscale+alpha", ModeGrayscaleAlpha.String())
	assert.Equal(t, "unknown", ColorMode(42).String())
	assert.True(t, ModePalette.HasAlpha())
	assert.False(t, ModeGrayscale.HasAlpha())
}

func requireOpaque(t *testing.T, img *image.NRGBA) {
	t.Helper()
	for i := 3; i < len(img.Pix); i += 4 {
		require.Equal(t, uint8(255), img.Pix[i], "alpha at byte %d", i)
	}
}

func TestNormalize_TruecolorIsIdempotent(t *testing.T) {
	src := solid(17, 9)
	once := Normalize(src)
	twice := Normalize(once)

	assert.Equal(t, src.Pix, once.Pix)
	assert.Equal(t, once.Pix, twice.Pix)
	assert.Equal(t, once.Bounds(), twice.Bounds())
	assert.NotSame(t, &src.Pix[0], &once.Pix[0], "must not alias the source")
}

func TestNormalize_YCbCr(t *testing.T) {
	src := image.NewYCbCr(image.Rect(0, 0, 8, 8), image.YCbCrSubsampleRatio444)
	for i := range src.Y {
		src.Y[i] = 128
		src.Cb[i] = 128
		src.Cr[i] = 128
	}
	out := Normalize(src)
	requireOpaque(t, out)
	assert.Equal(t, color.NRGBA{R: 128, G: 128, B: 128, A: 255}, out.NRGBAAt(3, 3))
}

func TestNormalize_Grayscale(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 3, 1))
	src.Pix = []uint8{0, 77, 255}

	out := Normalize(src)
	requireOpaque(t, out)
	for x, v := range []uint8{0, 77, 255} {
		assert.Equal(t, color.NRGBA{R: v, G: v, B: v, A: 255}, out.NRGBAAt(x, 0))
	}
}

func TestNormalize_AlphaCompositesOnWhite(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 0, B: 0, A: 0})
	src.SetNRGBA(1, 0, color.NRGBA{R: 255, G: 0, B: 0, A: 255})
	src.SetNRGBA(2, 0, color.NRGBA{R: 0, G: 0, B: 0, A: 128})
	before := append([]uint8(nil), src.Pix...)

	out := Normalize(src)
	requireOpaque(t, out)

	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, out.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 255, G: 0, B: 0, A: 255}, out.NRGBAAt(1, 0))
	half := out.NRGBAAt(2, 0)
	assert.InDelta(t, 127, int(half.R), 1)
	assert.Equal(t, half.R, half.G)
	assert.Equal(t, half.R, half.B)

	assert.Equal(t, before, src.Pix, "source must not be modified")
}

func TestNormalize_GrayAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 40, G: 40, B: 40, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{R: 40, G: 40, B: 40, A: 0})
	require.Equal(t, ModeGrayscaleAlpha, DetectMode(src))

	out := Normalize(src)
	requireOpaque(t, out)
	assert.Equal(t, color.NRGBA{R: 40, G: 40, B: 40, A: 255}, out.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, out.NRGBAAt(1, 0))
}

func TestNormalize_Palette(t *testing.T) {
	pal := color.Palette{
		color.NRGBA{R: 0, G: 0, B: 0, A: 0},
		color.NRGBA{R: 10, G: 20, B: 30, A: 255},
	}
	src := image.NewPaletted(image.Rect(0, 0, 2, 2), pal)
	src.Pix = []uint8{0, 1, 1, 0}

	out := Normalize(src)
	requireOpaque(t, out)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, out.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255}, out.NRGBAAt(1, 0))
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255}, out.NRGBAAt(0, 1))
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, out.NRGBAAt(1, 1))
}

func TestNormalize_OffsetBounds(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 20, 14, 22))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i+1], src.Pix[i+3] = 200, 255
	}
	src.SetNRGBA(10, 20, color.NRGBA{A: 0})

	out := Normalize(src)
	assert.Equal(t, image.Rect(0, 0, 4, 2), out.Bounds())
	requireOpaque(t, out)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, out.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 0, G: 200, B: 0, A: 255}, out.NRGBAAt(3, 1))
}

func TestHasTransparency(t *testing.T) {
	alpha := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	assert.True(t, HasTransparency(alpha))
	assert.False(t, HasTransparency(image.NewGray(image.Rect(0, 0, 2, 2))))

	pal := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.Black, color.Transparent})
	assert.False(t, HasTransparency(pal), "unused transparent entry")
	pal.SetColorIndex(0, 0, 1)
	assert.True(t, HasTransparency(pal))
}
