package shrink

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCappedSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h, cap    int
		wantW, wantH int
	}{
		{"landscape over cap", 6000, 4000, 4000, 4000, 2666},
		{"portrait over cap", 4000, 6000, 4000, 2666, 4000},
		{"square over cap", 5000, 5000, 4000, 4000, 4000},
		{"exactly at cap", 4000, 3000, 4000, 4000, 3000},
		{"under cap", 1920, 1080, 4000, 1920, 1080},
		{"secondary cap", 4000, 2666, 2000, 2000, 1333},
		{"thin strip keeps one pixel", 10000, 1, 4000, 4000, 1},
		{"zero cap is a no-op", 800, 600, 0, 800, 600},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, h := CappedSize(tc.w, tc.h, tc.cap)
			assert.Equal(t, tc.wantW, w)
			assert.Equal(t, tc.wantH, h)
			if tc.w > tc.cap && tc.cap > 0 {
				ratio := float64(tc.w) / float64(tc.h)
				assert.InDelta(t, float64(w)/ratio, float64(h), 1)
			}
		})
	}
}

func TestCapResolution_PassThrough(t *testing.T) {
	img := solid(64, 32)
	assert.Same(t, img, CapResolution(img, 64))
	assert.Same(t, img, CapResolution(img, 1000))
}

func TestCapResolution_Downsamples(t *testing.T) {
	img := solid(100, 50)
	out := CapResolution(img, 40)
	assert.Equal(t, 40, out.Bounds().Dx())
	assert.Equal(t, 20, out.Bounds().Dy())
	requireOpaque(t, out)
	assert.Equal(t, 100, img.Bounds().Dx(), "source untouched")
}

func TestCapResolution_Reentrant(t *testing.T) {
	first := CapResolution(solid(500, 250), 400)
	second := CapResolution(first, 200)
	again := CapResolution(second, 200)

	assert.Equal(t, 400, first.Bounds().Dx())
	assert.Equal(t, 200, second.Bounds().Dx())
	assert.Equal(t, 100, second.Bounds().Dy())
	assert.Same(t, second, again)
}

func BenchmarkCapResolution(b *testing.B) {
	img := solid(3000, 2000)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = CapResolution(img, 2000)
	}
}
