// Package qr renders QR codes to print bitmaps.
package qr

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/boombuler/barcode"
	bqr "github.com/boombuler/barcode/qr"

	"github.com/pgavlin/catprinty/internal/bitmap"
)

// quiet is the white margin above and below the code, in pixels.
const quiet = 16

// Render encodes content as a QR code, scales it to size pixels and centers
// it on a raster-width bitmap.
func Render(content string, size int) (*bitmap.Image, error) {
	if size <= 0 || size > bitmap.RasterWidth {
		size = 288
	}

	code, err := bqr.Encode(content, bqr.M, bqr.Auto)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, size, size)
	if err != nil {
		return nil, err
	}

	g := image.NewGray(image.Rect(0, 0, bitmap.RasterWidth, size+2*quiet))
	draw.Draw(g, g.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	left := (bitmap.RasterWidth - size) / 2
	target := image.Rect(left, quiet, left+size, quiet+size)
	draw.Draw(g, target, scaled, scaled.Bounds().Min, draw.Src)

	return bitmap.FromGray(g), nil
}
