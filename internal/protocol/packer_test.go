package protocol

import (
	"image"
	"testing"

	"github.com/pgavlin/catprinty/internal/bitmap"
)

func rowImage(ink func(x int) bool) *bitmap.Image {
	img := bitmap.New(image.Rect(0, 0, bitmap.RasterWidth, 1))
	for x := 0; x < bitmap.RasterWidth; x++ {
		img.SetInk(x, 0, ink(x))
	}
	return img
}

func TestPackRowRoundTrip(t *testing.T) {
	state := uint32(7)
	img := rowImage(func(int) bool {
		state = state*1664525 + 1013904223
		return state&0x8000 != 0
	})

	packed := make([]byte, RowBytes)
	PackRow(img, 0, packed)

	ink := UnpackRow(packed)
	if len(ink) != bitmap.RasterWidth {
		t.Fatalf("unpacked %d pixels, want %d", len(ink), bitmap.RasterWidth)
	}
	for x := 0; x < bitmap.RasterWidth; x++ {
		if ink[x] != img.InkAt(x, 0) {
			t.Fatalf("pixel %d: round trip = %v, want %v", x, ink[x], img.InkAt(x, 0))
		}
	}
}

func TestPackRowPolarity(t *testing.T) {
	blank := rowImage(func(int) bool { return false })
	packed := make([]byte, RowBytes)
	PackRow(blank, 0, packed)
	for i, b := range packed {
		if b != 0xFF {
			t.Fatalf("blank row byte %d = 0x%02X, want 0xFF (set bit means leave white)", i, b)
		}
	}

	full := rowImage(func(int) bool { return true })
	PackRow(full, 0, packed)
	for i, b := range packed {
		if b != 0x00 {
			t.Fatalf("full-ink row byte %d = 0x%02X, want 0x00", i, b)
		}
	}
}

func TestPackRowMirror(t *testing.T) {
	// Ink in the leftmost screen pixel lands in the last wire bit: the head
	// scans in the reverse of screen order.
	img := rowImage(func(x int) bool { return x == 0 })
	packed := make([]byte, RowBytes)
	PackRow(img, 0, packed)

	for i := 0; i < RowBytes-1; i++ {
		if packed[i] != 0xFF {
			t.Errorf("byte %d = 0x%02X, want 0xFF", i, packed[i])
		}
	}
	if packed[RowBytes-1] != 0xFE {
		t.Errorf("last byte = 0x%02X, want 0xFE", packed[RowBytes-1])
	}
}
