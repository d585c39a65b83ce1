package bitmap

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrDecode is returned when input bytes cannot be decoded as an image.
var ErrDecode = errors.New("bitmap: undecodable image")

// Decode reads an image in any registered format (png, jpeg, gif, bmp, webp).
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, nil
}

// Normalize rescales img to the raster width, preserving aspect ratio. Input
// already at the raster width is returned unchanged.
func Normalize(img image.Image) image.Image {
	if img.Bounds().Dx() == RasterWidth {
		return img
	}
	return resize.Resize(RasterWidth, 0, img, resize.Bilinear)
}
