package protocol

import (
	"fmt"

	"github.com/pgavlin/catprinty/internal/bitmap"
)

// JobOptions tune the setup commands emitted ahead of a bitmap transfer.
type JobOptions struct {
	// Energy controls burn strength (darkness). 0 means the default.
	Energy uint16
	// Quality is the device quality/threshold register, 0x31..0x35.
	Quality byte
	// Speed is the feed motor speed register.
	Speed byte
	// RowsPerCommand batches consecutive scanlines into one bitmap command.
	// The product RowsPerCommand*RowBytes must stay within MaxPayload.
	RowsPerCommand int
	// FeedLines is the number of blank lines fed after the bitmap so the
	// printed tail clears the tear bar.
	FeedLines uint16
}

const (
	defaultEnergy    = 0x2EE0
	defaultQuality   = 0x33
	defaultSpeed     = 0x23
	defaultFeedLines = 112
)

func (o *JobOptions) setDefaults() {
	if o.Energy == 0 {
		o.Energy = defaultEnergy
	}
	if o.Quality == 0 {
		o.Quality = defaultQuality
	}
	if o.Speed == 0 {
		o.Speed = defaultSpeed
	}
	if o.RowsPerCommand == 0 {
		o.RowsPerCommand = 1
	}
	if o.FeedLines == 0 {
		o.FeedLines = defaultFeedLines
	}
}

// EncodeJob turns a print bitmap into the ordered frame sequence for one job:
// setup commands, packed scanlines top to bottom, then lattice stop and feed.
func EncodeJob(img *bitmap.Image, opts JobOptions) ([][]byte, error) {
	opts.setDefaults()

	if w := img.Bounds().Dx(); w != bitmap.RasterWidth {
		return nil, fmt.Errorf("protocol: bitmap must be %d pixels wide, got %d", bitmap.RasterWidth, w)
	}
	if opts.RowsPerCommand*RowBytes > MaxPayload {
		return nil, fmt.Errorf("%w: %d rows per command", ErrFrameTooLarge, opts.RowsPerCommand)
	}

	h := img.Bounds().Dy()
	frames := [][]byte{
		CmdSpeed.mustFrame([]byte{opts.Speed}),
		CmdEnergy.mustFrame(u16le(opts.Energy)),
		CmdQuality.mustFrame([]byte{opts.Quality}),
		CmdDrawingMode.mustFrame([]byte{0x00}),
		CmdLatticeControl.mustFrame(latticeStart),
	}

	for y := 0; y < h; y += opts.RowsPerCommand {
		rows := opts.RowsPerCommand
		if y+rows > h {
			rows = h - y
		}
		payload := make([]byte, rows*RowBytes)
		for i := 0; i < rows; i++ {
			PackRow(img, y+i, payload[i*RowBytes:(i+1)*RowBytes])
		}
		frame, err := CmdBitmapRow.Frame(payload)
		if err != nil {
			return nil, err
		}
		frames = append(frames, frame)
	}

	frames = append(frames,
		CmdLatticeControl.mustFrame(latticeFinish),
		CmdFeedPaper.mustFrame(u16le(opts.FeedLines)),
	)
	return frames, nil
}
