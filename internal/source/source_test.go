package source

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path   string
		format string
		ok     bool
	}{
		{"a/photo.JPG", "jpeg", true},
		{"b.jpeg", "jpeg", true},
		{"c.tif", "tiff", true},
		{"d.webp", "webp", true},
		{"e.bmp", "bmp", true},
		{"notes.txt", "", false},
		{"noext", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			f, ok := FormatOf(tc.path)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.format, f)
		})
	}
	assert.Equal(t, []string{".bmp", ".gif", ".jpeg", ".jpg", ".png", ".tif", ".tiff", ".webp"}, Extensions())
}

func TestDecode(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 5, 3))
	data := pngBytes(t, gray)

	img, err := Decode(bytes.NewReader(data), "gray.png", 0)
	require.NoError(t, err)
	assert.Equal(t, "png", img.Format)
	assert.Equal(t, int64(len(data)), img.Size)
	assert.Equal(t, image.Rect(0, 0, 5, 3), img.Image.Bounds())
	assert.IsType(t, &image.Gray{}, img.Image)
}

func TestDecode_Errors(t *testing.T) {
	data := pngBytes(t, image.NewNRGBA(image.Rect(0, 0, 8, 8)))

	tests := []struct {
		name    string
		input   []byte
		file    string
		max     int64
		wantErr error
	}{
		{"unsupported extension", data, "doc.pdf", 0, ErrUnsupportedFormat},
		{"too large", data, "img.png", int64(len(data) - 1), ErrInputTooLarge},
		{"garbage", []byte("definitely not an image"), "img.png", 0, ErrCorrupt},
		{"truncated", data[:len(data)/2], "img.png", 0, ErrCorrupt},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(bytes.NewReader(tc.input), tc.file, tc.max)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestDecode_ExactLimitAccepted(t *testing.T) {
	data := pngBytes(t, image.NewNRGBA(image.Rect(0, 0, 2, 2)))
	_, err := Decode(bytes.NewReader(data), "", int64(len(data)))
	assert.NoError(t, err)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	pal := color.Palette{color.Transparent, color.NRGBA{R: 200, A: 255}}
	anim := &gif.GIF{
		Image: []*image.Paletted{image.NewPaletted(image.Rect(0, 0, 6, 4), pal)},
		Delay: []int{0},
	}
	path := filepath.Join(dir, "logo.gif")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, gif.EncodeAll(f, anim))
	require.NoError(t, f.Close())

	img, err := Open(path, 0)
	require.NoError(t, err)
	assert.Equal(t, "gif", img.Format)
	assert.IsType(t, &image.Paletted{}, img.Image)

	_, err = Open(path, 10)
	assert.ErrorIs(t, err, ErrInputTooLarge)

	_, err = Open(filepath.Join(dir, "missing.png"), 0)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
