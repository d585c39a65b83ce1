package bitmap

import (
	"image"

	"github.com/MaxHalford/halfgone"
)

// An Algorithm selects how grayscale pixels are quantized to 1-bit.
type Algorithm int

const (
	// Atkinson error diffusion. The default: it drops a quarter of the
	// quantization error, which keeps highlights from washing out on
	// thermal paper.
	Atkinson Algorithm = iota
	// FloydSteinberg error diffusion.
	FloydSteinberg
	// Threshold quantizes each pixel independently.
	Threshold
)

// ParseAlgorithm maps a flag value to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, bool) {
	switch s {
	case "", "atkinson":
		return Atkinson, true
	case "floydsteinberg":
		return FloydSteinberg, true
	case "threshold":
		return Threshold, true
	}
	return Atkinson, false
}

// Grayscale converts img to grayscale using the unweighted mean of the red,
// green and blue channels, ignoring alpha. It also returns the observed
// minimum and maximum luminance.
func Grayscale(img image.Image) (g *image.Gray, lo, hi uint8) {
	r := img.Bounds()
	g = image.NewGray(image.Rect(0, 0, r.Dx(), r.Dy()))
	lo, hi = 0xFF, 0x00
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			cr, cg, cb, _ := img.At(x, y).RGBA()
			v := uint8(((cr + cg + cb) / 3) >> 8)
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
			g.Pix[(y-r.Min.Y)*g.Stride+(x-r.Min.X)] = v
		}
	}
	return g, lo, hi
}

// stretch linearly remaps [lo, hi] to [0, 255] in place. A flat image
// (lo == hi) is left alone.
func stretch(g *image.Gray, lo, hi uint8) {
	if lo >= hi {
		return
	}
	span := int(hi) - int(lo)
	for i, v := range g.Pix {
		g.Pix[i] = uint8((int(v) - int(lo)) * 255 / span)
	}
}

// ditherAtkinson quantizes g in place using Atkinson error diffusion: each
// pixel is snapped to pure black or white at the default threshold, and an
// eighth of the error is pushed to each of six forward neighbors. The scan
// order is row-major and later pixels see already-diffused values, so the
// pass is inherently sequential.
func ditherAtkinson(g *image.Gray) {
	w, h := g.Bounds().Dx(), g.Bounds().Dy()

	work := make([]int32, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			work[y*w+x] = int32(g.Pix[y*g.Stride+x])
		}
	}

	spill := func(x, y int, e int32) {
		if x >= 0 && x < w && y < h {
			work[y*w+x] += e
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cur := work[y*w+x]
			var q int32
			if cur >= DefaultThreshold {
				q = 255
			}
			e := (cur - q) / 8
			spill(x+1, y, e)
			spill(x+2, y, e)
			spill(x-1, y+1, e)
			spill(x, y+1, e)
			spill(x+1, y+1, e)
			spill(x, y+2, e)
			g.Pix[y*g.Stride+x] = uint8(q)
		}
	}
}

// Dither quantizes a grayscale image to 1-bit with the given algorithm.
func Dither(g *image.Gray, alg Algorithm) *Image {
	switch alg {
	case FloydSteinberg:
		var fs halfgone.FloydSteinbergDitherer
		g = fs.Apply(g)
	case Threshold:
		td := halfgone.ThresholdDitherer{Threshold: DefaultThreshold - 1}
		g = td.Apply(g)
	default:
		ditherAtkinson(g)
	}
	return FromGray(g)
}

// Render converts an arbitrary source image into the canonical print bitmap:
// rescale to the raster width, grayscale, contrast-stretch, dither. The
// result is what both the preview and the printer render.
func Render(img image.Image, alg Algorithm) *Image {
	g, lo, hi := Grayscale(Normalize(img))
	stretch(g, lo, hi)
	return Dither(g, alg)
}
