package protocol

import (
	"errors"
	"image"
	"testing"

	"github.com/pgavlin/catprinty/internal/bitmap"
)

func testBitmap(h int) *bitmap.Image {
	img := bitmap.New(image.Rect(0, 0, bitmap.RasterWidth, h))
	for y := 0; y < h; y++ {
		for x := 0; x < bitmap.RasterWidth; x++ {
			img.SetInk(x, y, (x+y)%2 == 0)
		}
	}
	return img
}

func TestEncodeJobCommandOrder(t *testing.T) {
	frames, err := EncodeJob(testBitmap(4), JobOptions{})
	if err != nil {
		t.Fatalf("EncodeJob: %v", err)
	}

	want := []Command{
		CmdSpeed, CmdEnergy, CmdQuality, CmdDrawingMode, CmdLatticeControl,
		CmdBitmapRow, CmdBitmapRow, CmdBitmapRow, CmdBitmapRow,
		CmdLatticeControl, CmdFeedPaper,
	}
	if len(frames) != len(want) {
		t.Fatalf("got %d frames, want %d", len(frames), len(want))
	}
	for i, frame := range frames {
		if Command(frame[2]) != want[i] {
			t.Errorf("frame %d opcode = 0x%02X, want 0x%02X", i, frame[2], byte(want[i]))
		}
	}
}

func TestEncodeJobBatching(t *testing.T) {
	frames, err := EncodeJob(testBitmap(5), JobOptions{RowsPerCommand: 2})
	if err != nil {
		t.Fatalf("EncodeJob: %v", err)
	}

	var rowFrames [][]byte
	for _, frame := range frames {
		if Command(frame[2]) == CmdBitmapRow {
			rowFrames = append(rowFrames, frame)
		}
	}
	// 5 rows at 2 per command: 2 + 2 + 1.
	if len(rowFrames) != 3 {
		t.Fatalf("got %d bitmap frames, want 3", len(rowFrames))
	}
	wantPayloads := []int{2 * RowBytes, 2 * RowBytes, RowBytes}
	for i, frame := range rowFrames {
		if got := len(frame) - 6; got != wantPayloads[i] {
			t.Errorf("bitmap frame %d payload = %d bytes, want %d", i, got, wantPayloads[i])
		}
	}
}

func TestEncodeJobRowOrder(t *testing.T) {
	// One ink row at the top; it must be the first bitmap frame.
	img := bitmap.New(image.Rect(0, 0, bitmap.RasterWidth, 3))
	for x := 0; x < bitmap.RasterWidth; x++ {
		img.SetInk(x, 0, true)
	}

	frames, err := EncodeJob(img, JobOptions{})
	if err != nil {
		t.Fatalf("EncodeJob: %v", err)
	}

	var rows [][]byte
	for _, frame := range frames {
		if Command(frame[2]) == CmdBitmapRow {
			rows = append(rows, frame[5:5+RowBytes])
		}
	}
	if rows[0][0] != 0x00 {
		t.Error("first transmitted scanline is not the top bitmap row")
	}
	if rows[1][0] != 0xFF || rows[2][0] != 0xFF {
		t.Error("blank rows did not pack blank")
	}
}

func TestEncodeJobRejectsWrongWidth(t *testing.T) {
	img := bitmap.New(image.Rect(0, 0, 200, 4))
	if _, err := EncodeJob(img, JobOptions{}); err == nil {
		t.Fatal("bitmap with wrong width accepted")
	}
}

func TestEncodeJobRejectsOversizedBatch(t *testing.T) {
	_, err := EncodeJob(testBitmap(16), JobOptions{RowsPerCommand: MaxPayload/RowBytes + 1})
	if !errors.Is(err, ErrFrameTooLarge) {
		t.Fatalf("err = %v, want ErrFrameTooLarge", err)
	}
}
