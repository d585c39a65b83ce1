package protocol

import (
	"bytes"
	"errors"
	"testing"
)

func TestFrameStructure(t *testing.T) {
	payload := []byte{0xE0, 0x2E}
	frame, err := CmdEnergy.Frame(payload)
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}

	if frame[0] != 0x51 || frame[1] != 0x78 {
		t.Errorf("preamble = % X, want 51 78", frame[0:2])
	}
	if frame[2] != byte(CmdEnergy) {
		t.Errorf("opcode = 0x%02X, want 0x%02X", frame[2], byte(CmdEnergy))
	}
	if frame[3] != 2 || frame[4] != 0 {
		t.Errorf("length = % X, want 02 00", frame[3:5])
	}
	if !bytes.Equal(frame[5:7], payload) {
		t.Errorf("payload = % X, want % X", frame[5:7], payload)
	}
	if got, want := frame[len(frame)-1], Checksum(frame[2:len(frame)-1]); got != want {
		t.Errorf("checksum = 0x%02X, want 0x%02X", got, want)
	}
	if len(frame) != 6+len(payload) {
		t.Errorf("frame length = %d, want %d", len(frame), 6+len(payload))
	}
}

func TestFrameTooLarge(t *testing.T) {
	_, err := CmdBitmapRow.Frame(make([]byte, MaxPayload+1))
	if !errors.Is(err, ErrFrameTooLarge) {
		t.Fatalf("err = %v, want ErrFrameTooLarge", err)
	}

	if _, err := CmdBitmapRow.Frame(make([]byte, MaxPayload)); err != nil {
		t.Fatalf("payload at the limit rejected: %v", err)
	}
}

func TestFrameChecksumCoversOpcodeAndLength(t *testing.T) {
	a, _ := CmdEnergy.Frame([]byte{0x01})
	b, _ := CmdQuality.Frame([]byte{0x01})
	if a[len(a)-1] == b[len(b)-1] {
		t.Error("frames with different opcodes share a checksum")
	}
}
