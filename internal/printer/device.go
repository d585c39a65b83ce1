// Package printer delivers framed commands to a printer over a writable
// characteristic, pacing writes to the link's flow-control limits.
package printer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pgavlin/catprinty/internal/bitmap"
	"github.com/pgavlin/catprinty/internal/protocol"
)

var (
	// ErrDeviceNotFound means discovery finished without a matching printer.
	ErrDeviceNotFound = errors.New("printer: no matching device found")
	// ErrConnectionLost means the link dropped mid-job.
	ErrConnectionLost = errors.New("printer: connection lost")
	// ErrWriteFailed means the characteristic rejected a chunk.
	ErrWriteFailed = errors.New("printer: write failed")
	// ErrBusy is returned by TryPrint while another job is writing.
	ErrBusy = errors.New("printer: device busy")
)

// A Characteristic is the printer's writable endpoint. Writes must be applied
// in call order; the link offers no acknowledgement payload.
type Characteristic interface {
	Write(p []byte) error
	Close() error
}

// A Dialer produces a connected Characteristic. It is invoked lazily on the
// first print and again whenever the cached connection has been invalidated.
type Dialer func(ctx context.Context) (Characteristic, error)

// Options tune delivery behavior.
type Options struct {
	// Job configures the setup/teardown commands around the bitmap.
	Job protocol.JobOptions
	// ChunkSize bounds each characteristic write.
	ChunkSize int
	// ChunkDelay is the pause between chunks. The link has no backpressure
	// signal, so this is a blind rate limit rather than real flow control.
	ChunkDelay time.Duration
}

const (
	defaultChunkSize  = 64
	defaultChunkDelay = 20 * time.Millisecond
)

func (o *Options) setDefaults() {
	if o.ChunkSize == 0 {
		o.ChunkSize = defaultChunkSize
	}
	if o.ChunkDelay == 0 {
		o.ChunkDelay = defaultChunkDelay
	}
}

// A Device owns the cached connection to one printer and serializes print
// jobs against it. Jobs queue: a second Print blocks until the first job's
// chunks are done, because the physical device is single-threaded.
type Device struct {
	dial Dialer
	opts Options

	mu   sync.Mutex // held for the duration of one job
	conn Characteristic
}

// New creates a Device that connects through dial on first use.
func New(dial Dialer, opts Options) *Device {
	opts.setDefaults()
	return &Device{dial: dial, opts: opts}
}

// Print encodes img and delivers it to the printer, blocking until every
// chunk is written or the first failure. Cancelling ctx stops further chunks;
// bytes already written cannot be unsent.
func (d *Device) Print(ctx context.Context, img *bitmap.Image) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.print(ctx, img)
}

// TryPrint is the fail-fast variant of Print: it returns ErrBusy instead of
// queueing behind a job in progress.
func (d *Device) TryPrint(ctx context.Context, img *bitmap.Image) error {
	if !d.mu.TryLock() {
		return ErrBusy
	}
	defer d.mu.Unlock()
	return d.print(ctx, img)
}

func (d *Device) print(ctx context.Context, img *bitmap.Image) error {
	frames, err := protocol.EncodeJob(img, d.opts.Job)
	if err != nil {
		return err
	}

	conn, err := d.characteristic(ctx)
	if err != nil {
		return err
	}

	var stream []byte
	for _, f := range frames {
		stream = append(stream, f...)
	}

	pacing := time.NewTimer(0)
	defer pacing.Stop()
	<-pacing.C

	for off := 0; off < len(stream); off += d.opts.ChunkSize {
		end := off + d.opts.ChunkSize
		if end > len(stream) {
			end = len(stream)
		}

		if err := ctx.Err(); err != nil {
			return err
		}
		if err := conn.Write(stream[off:end]); err != nil {
			d.invalidate(conn)
			if errors.Is(err, ErrConnectionLost) {
				return err
			}
			return fmt.Errorf("%w: %v", ErrWriteFailed, err)
		}

		if end < len(stream) {
			pacing.Reset(d.opts.ChunkDelay)
			select {
			case <-pacing.C:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return nil
}

// characteristic returns the cached connection, dialing if necessary.
func (d *Device) characteristic(ctx context.Context) (Characteristic, error) {
	if d.conn != nil {
		return d.conn, nil
	}
	conn, err := d.dial(ctx)
	if err != nil {
		return nil, err
	}
	d.conn = conn
	return conn, nil
}

// invalidate drops the cached connection so the next job re-dials.
func (d *Device) invalidate(conn Characteristic) {
	if d.conn == conn {
		d.conn = nil
	}
	conn.Close()
}

// Close releases the cached connection, if any.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn == nil {
		return nil
	}
	err := d.conn.Close()
	d.conn = nil
	return err
}
