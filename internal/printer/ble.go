package printer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-ble/ble"
	"github.com/go-ble/ble/examples/lib/dev"
)

// The GB01 family advertises service AE30 and exposes its write-only command
// characteristic as AE01.
var (
	bleServiceUUID = ble.UUID16(0xAE30)
	bleWriteUUID   = ble.UUID16(0xAE01)
)

// Model names the printers are known to advertise under.
var knownModels = []string{"GB01", "GB02", "GB03", "GT01", "MX05", "MX06", "YT01"}

// BLEOptions configure device discovery.
type BLEOptions struct {
	// Name, if set, must match the advertised local name exactly. When
	// empty, any known model name or an advertised AE30 service matches.
	Name string
	// ScanTimeout bounds discovery. Zero means 15 seconds.
	ScanTimeout time.Duration
}

// The HCI handle is process-wide state in the BLE stack; initialize it once.
var (
	bleInit    sync.Once
	bleInitErr error
)

// BLEDialer returns a Dialer that scans for a printer, connects and resolves
// the writable command characteristic.
func BLEDialer(opts BLEOptions) Dialer {
	return func(ctx context.Context) (Characteristic, error) {
		return dialBLE(ctx, opts)
	}
}

func dialBLE(ctx context.Context, opts BLEOptions) (Characteristic, error) {
	bleInit.Do(func() {
		d, err := dev.NewDevice("default")
		if err != nil {
			bleInitErr = err
			return
		}
		ble.SetDefaultDevice(d)
	})
	if bleInitErr != nil {
		return nil, fmt.Errorf("printer: bluetooth init: %w", bleInitErr)
	}

	timeout := opts.ScanTimeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	scanCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := ble.Connect(scanCtx, func(a ble.Advertisement) bool {
		return matches(a, opts.Name)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceNotFound, err)
	}

	profile, err := client.DiscoverProfile(true)
	if err != nil {
		client.CancelConnection()
		return nil, fmt.Errorf("%w: profile discovery: %v", ErrDeviceNotFound, err)
	}
	for _, s := range profile.Services {
		if !s.UUID.Equal(bleServiceUUID) {
			continue
		}
		for _, c := range s.Characteristics {
			if c.UUID.Equal(bleWriteUUID) {
				return &bleCharacteristic{client: client, char: c}, nil
			}
		}
	}
	client.CancelConnection()
	return nil, fmt.Errorf("%w: device has no AE01 characteristic", ErrDeviceNotFound)
}

func matches(a ble.Advertisement, name string) bool {
	if name != "" {
		return a.LocalName() == name
	}
	for _, m := range knownModels {
		if a.LocalName() == m {
			return true
		}
	}
	for _, u := range a.Services() {
		if u.Equal(bleServiceUUID) {
			return true
		}
	}
	return false
}

type bleCharacteristic struct {
	client ble.Client
	char   *ble.Characteristic
}

func (b *bleCharacteristic) Write(p []byte) error {
	select {
	case <-b.client.Disconnected():
		return ErrConnectionLost
	default:
	}
	// Write without response: the characteristic never acknowledges.
	if err := b.client.WriteCharacteristic(b.char, p, true); err != nil {
		return err
	}
	return nil
}

func (b *bleCharacteristic) Close() error {
	return b.client.CancelConnection()
}
