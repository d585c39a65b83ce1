package protocol

import "github.com/pgavlin/catprinty/internal/bitmap"

// RowBytes is the size of one packed scanline.
const RowBytes = bitmap.RasterWidth / 8

// PackRow serializes row y of img into dst, which must be RowBytes long.
//
// Three wire conventions are applied here and nowhere else: pixels pack
// 8-per-byte most-significant-bit first; polarity is inverted (a set wire bit
// means "leave white", so ink packs as 0); and the row is mirrored
// horizontally because the head scans in the reverse of screen order. The
// bitmap itself stays device-agnostic.
func PackRow(img *bitmap.Image, y int, dst []byte) {
	for i := range dst {
		dst[i] = 0
	}
	w := img.Bounds().Dx()
	for x := 0; x < w; x++ {
		if !img.InkAt(w-1-x, y) {
			dst[x/8] |= 0x80 >> uint(x%8)
		}
	}
}

// UnpackRow is the inverse of PackRow: it recovers the ink flags of one
// scanline, in screen order.
func UnpackRow(packed []byte) []bool {
	w := len(packed) * 8
	ink := make([]bool, w)
	for x := 0; x < w; x++ {
		set := packed[x/8]&(0x80>>uint(x%8)) != 0
		ink[w-1-x] = !set
	}
	return ink
}
