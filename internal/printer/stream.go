package printer

import (
	"context"
	"io"

	"github.com/tarm/serial"
)

// streamCharacteristic adapts any io.Writer (a file, os.Stdout, a serial
// port) to the Characteristic interface. Useful for capturing the exact byte
// stream a job would send, and for bench setups where the printer's UART is
// wired directly.
type streamCharacteristic struct {
	w io.Writer
}

func (s *streamCharacteristic) Write(p []byte) error {
	_, err := s.w.Write(p)
	return err
}

func (s *streamCharacteristic) Close() error {
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// StreamDialer returns a Dialer that writes frames to w instead of a
// wireless link.
func StreamDialer(w io.Writer) Dialer {
	return func(context.Context) (Characteristic, error) {
		return &streamCharacteristic{w: w}, nil
	}
}

// SerialDialer returns a Dialer that opens the named serial port.
func SerialDialer(port string, baud int) Dialer {
	return func(context.Context) (Characteristic, error) {
		s, err := serial.OpenPort(&serial.Config{Name: port, Baud: baud})
		if err != nil {
			return nil, err
		}
		return &streamCharacteristic{w: s}, nil
	}
}
