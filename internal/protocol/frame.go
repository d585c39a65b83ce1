package protocol

import (
	"errors"
	"fmt"
)

// A Command identifies one of the printer's logical operations.
type Command byte

const (
	CmdFeedPaper      Command = 0xA1
	CmdBitmapRow      Command = 0xA2
	CmdQuality        Command = 0xA4
	CmdLatticeControl Command = 0xA6
	CmdEnergy         Command = 0xAF
	CmdSpeed          Command = 0xBD
	CmdDrawingMode    Command = 0xBE
)

// MaxPayload is the largest payload the device's command buffer accepts.
// Exceeding it is a programming error in the batching policy, not a
// recoverable runtime condition.
const MaxPayload = 512

// ErrFrameTooLarge is returned when a payload exceeds MaxPayload.
var ErrFrameTooLarge = errors.New("protocol: frame payload exceeds device limit")

// Frame layout: 2-byte preamble, opcode, little-endian u16 payload length,
// payload, CRC-8 over everything after the preamble.
var preamble = [2]byte{0x51, 0x78}

// Lattice control payloads bracketing a bitmap transfer.
var (
	latticeStart  = []byte{0xAA, 0x55, 0x17, 0x38, 0x44, 0x5F, 0x5F, 0x5F, 0x44, 0x38, 0x2C}
	latticeFinish = []byte{0xAA, 0x55, 0x17, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x17}
)

// Frame wraps payload in the printer's command frame format.
func (c Command) Frame(payload []byte) ([]byte, error) {
	if len(payload) > MaxPayload {
		return nil, fmt.Errorf("%w: %d bytes in command 0x%02X", ErrFrameTooLarge, len(payload), byte(c))
	}

	buf := make([]byte, 0, 6+len(payload))
	buf = append(buf, preamble[0], preamble[1], byte(c), byte(len(payload)), byte(len(payload)>>8))
	buf = append(buf, payload...)
	return append(buf, Checksum(buf[2:])), nil
}

// mustFrame frames a payload whose size is fixed at compile time.
func (c Command) mustFrame(payload []byte) []byte {
	frame, err := c.Frame(payload)
	if err != nil {
		panic(err)
	}
	return frame
}

func u16le(v uint16) []byte {
	return []byte{byte(v), byte(v >> 8)}
}
