package bitmap

import (
	"image"
	"image/color"
)

// RasterWidth is the fixed width of the print head, in pixels. Every bitmap
// handed to the printer must be exactly this wide.
const RasterWidth = 384

// DefaultThreshold is the luminance below which a pixel counts as ink.
const DefaultThreshold = 128

// ColorModel is the default color model for bitmaps.
var ColorModel color.Model = ThresholdColorModel(DefaultThreshold)

type thresholdModel byte

func (t thresholdModel) Convert(c color.Color) color.Color {
	return model(color.GrayModel.Convert(c).(color.Gray), byte(t))
}

// ThresholdColorModel returns a color model with the given threshold.
func ThresholdColorModel(threshold byte) color.Model {
	return thresholdModel(threshold)
}

func model(c color.Gray, threshold byte) color.Color {
	if c.Y < threshold {
		return color.Black
	}
	return color.White
}

// An Image is a 1-bit image. A pixel is either ink (black) or blank (white).
// It is the single source of truth for preview and print: whatever a preview
// shows is exactly what the packer serializes.
type Image struct {
	src       *image.Gray
	threshold byte
}

// New creates a new all-blank Image with the given bounds.
func New(r image.Rectangle) *Image {
	b := &Image{src: image.NewGray(r), threshold: DefaultThreshold}
	for i := range b.src.Pix {
		b.src.Pix[i] = 0xFF
	}
	return b
}

// FromGray converts a grayscale image to a 1-bit Image by thresholding.
// Already-binary input (dithered pixels, rasterized text, QR modules) passes
// through this same code path so there is exactly one quantization rule.
func FromGray(g *image.Gray) *Image {
	return &Image{src: g, threshold: DefaultThreshold}
}

// ColorModel returns the Image's color model.
func (b *Image) ColorModel() color.Model {
	return ThresholdColorModel(b.threshold)
}

// Bounds returns the domain for which At can return non-zero color.
func (b *Image) Bounds() image.Rectangle {
	return b.src.Bounds()
}

// At returns the color of the pixel at (x, y): black for ink, white for blank.
func (b *Image) At(x, y int) color.Color {
	return model(b.src.GrayAt(x, y), b.threshold)
}

// InkAt returns true if the pixel at (x, y) prints ink.
func (b *Image) InkAt(x, y int) bool {
	return b.src.GrayAt(x, y).Y < b.threshold
}

// Set sets the color of the pixel at (x, y).
func (b *Image) Set(x, y int, c color.Color) {
	b.src.Set(x, y, b.ColorModel().Convert(c))
}

// SetInk sets or clears the ink at (x, y).
func (b *Image) SetInk(x, y int, ink bool) {
	if ink {
		b.src.Set(x, y, color.Black)
	} else {
		b.src.Set(x, y, color.White)
	}
}

// InkCount returns the number of ink pixels in the image.
func (b *Image) InkCount() int {
	n := 0
	r := b.Bounds()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if b.InkAt(x, y) {
				n++
			}
		}
	}
	return n
}
