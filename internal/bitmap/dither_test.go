package bitmap

import (
	"image"
	"image/color"
	"testing"
)

func uniform(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// noise fills an image with a deterministic pseudo-random pattern.
func noise(w, h int, seed uint32) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	state := seed
	next := func() uint8 {
		state = state*1664525 + 1013904223
		return uint8(state >> 24)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: next(), G: next(), B: next(), A: 0xFF})
		}
	}
	return img
}

func TestNormalizeWidth(t *testing.T) {
	tests := []struct {
		name       string
		w, h       int
		wantHeight int
	}{
		{"downscale 2x", 768, 400, 200},
		{"already raster width", 384, 100, 100},
		{"upscale", 96, 96, 384},
		{"tall input", 128, 512, 1536},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(uniform(tt.w, tt.h, color.White))
			if got.Bounds().Dx() != RasterWidth {
				t.Fatalf("width = %d, want %d", got.Bounds().Dx(), RasterWidth)
			}
			if dy := got.Bounds().Dy(); dy < tt.wantHeight-1 || dy > tt.wantHeight+1 {
				t.Errorf("height = %d, want %d (±1)", dy, tt.wantHeight)
			}
		})
	}
}

func TestGrayscaleUnweightedAverage(t *testing.T) {
	tests := []struct {
		name string
		c    color.RGBA
		want uint8
	}{
		{"pure red", color.RGBA{255, 0, 0, 255}, 85},
		{"pure white", color.RGBA{255, 255, 255, 255}, 255},
		{"pure black", color.RGBA{0, 0, 0, 255}, 0},
		{"mid gray", color.RGBA{128, 128, 128, 255}, 128},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, lo, hi := Grayscale(uniform(4, 4, tt.c))
			if got := g.GrayAt(0, 0).Y; got != tt.want {
				t.Errorf("luminance = %d, want %d", got, tt.want)
			}
			if lo != tt.want || hi != tt.want {
				t.Errorf("min/max = %d/%d, want %d/%d", lo, hi, tt.want, tt.want)
			}
		})
	}
}

func TestStretch(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 3, 1))
	copy(g.Pix, []uint8{50, 100, 150})
	stretch(g, 50, 150)
	want := []uint8{0, 127, 255}
	for i, v := range want {
		if g.Pix[i] != v {
			t.Errorf("pix[%d] = %d, want %d", i, g.Pix[i], v)
		}
	}
}

func TestStretchFlatImageUntouched(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 4, 1))
	copy(g.Pix, []uint8{77, 77, 77, 77})
	stretch(g, 77, 77)
	for i, v := range g.Pix {
		if v != 77 {
			t.Errorf("pix[%d] = %d, want 77", i, v)
		}
	}
}

func TestRenderDeterministic(t *testing.T) {
	src := noise(RasterWidth, 64, 42)
	a, b := Render(src, Atkinson), Render(src, Atkinson)

	if a.Bounds() != b.Bounds() {
		t.Fatalf("bounds differ: %v vs %v", a.Bounds(), b.Bounds())
	}
	for y := 0; y < a.Bounds().Dy(); y++ {
		for x := 0; x < a.Bounds().Dx(); x++ {
			if a.InkAt(x, y) != b.InkAt(x, y) {
				t.Fatalf("pixel (%d, %d) differs between runs", x, y)
			}
		}
	}
}

func TestDitherExtremes(t *testing.T) {
	algorithms := []struct {
		name string
		alg  Algorithm
	}{
		{"atkinson", Atkinson},
		{"floydsteinberg", FloydSteinberg},
		{"threshold", Threshold},
	}

	for _, ta := range algorithms {
		t.Run(ta.name, func(t *testing.T) {
			white := Render(uniform(RasterWidth, 32, color.White), ta.alg)
			if n := white.InkCount(); n != 0 {
				t.Errorf("all-white image has %d ink pixels, want 0", n)
			}

			black := Render(uniform(RasterWidth, 32, color.Black), ta.alg)
			if n, want := black.InkCount(), RasterWidth*32; n != want {
				t.Errorf("all-black image has %d ink pixels, want %d", n, want)
			}
		})
	}
}

func TestDitherMidGray(t *testing.T) {
	bm := Render(uniform(RasterWidth, RasterWidth, color.RGBA{128, 128, 128, 255}), Atkinson)
	ratio := float64(bm.InkCount()) / float64(RasterWidth*RasterWidth)
	if ratio < 0.35 || ratio > 0.65 {
		t.Errorf("mid-gray ink ratio = %.3f, want roughly 0.5", ratio)
	}
}

func TestParseAlgorithm(t *testing.T) {
	if _, ok := ParseAlgorithm("floydsteinberg"); !ok {
		t.Error("floydsteinberg not recognized")
	}
	if _, ok := ParseAlgorithm("ordered"); ok {
		t.Error("unknown algorithm accepted")
	}
}
