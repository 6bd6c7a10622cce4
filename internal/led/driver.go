package led

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Pin identifies the output line a strip hangs off. For SPI drivers it is the
// spireg port name, e.g. "SPI0.0".
type Pin string

// Driver abstracts an LED output sink.
type Driver interface {
	// Write pushes one encoded frame, already in wire byte order.
	Write(frame []byte) error
	// Close releases resources.
	Close() error
}

// Transmitter hands a frame to whatever drives pin. It blocks until the frame
// has been sent.
type Transmitter interface {
	Transmit(pin Pin, frame []byte) error
}

// TransmitterFunc adapts a function to Transmitter.
type TransmitterFunc func(pin Pin, frame []byte) error

func (f TransmitterFunc) Transmit(pin Pin, frame []byte) error {
	return f(pin, frame)
}

var ErrNoDriver = errors.New("led: no driver attached")

// Bus routes frames to the driver attached to each pin. Several matrices on
// different pins can share one Bus.
type Bus struct {
	mu      sync.RWMutex
	drivers map[Pin]Driver
}

func NewBus() *Bus {
	return &Bus{drivers: map[Pin]Driver{}}
}

// Attach binds d to pin, replacing any previous driver without closing it.
func (b *Bus) Attach(pin Pin, d Driver) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.drivers[pin] = d
}

// Driver returns the driver attached to pin.
func (b *Bus) Driver(pin Pin) (Driver, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	d, ok := b.drivers[pin]
	return d, ok
}

// Pins lists attached pins in sorted order.
func (b *Bus) Pins() []Pin {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Pin, 0, len(b.drivers))
	for p := range b.drivers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (b *Bus) Transmit(pin Pin, frame []byte) error {
	d, ok := b.Driver(pin)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoDriver, pin)
	}
	if err := d.Write(frame); err != nil {
		return fmt.Errorf("pin %s: %w", pin, err)
	}
	return nil
}

// Close closes every attached driver and detaches it.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	var errs []error
	for p, d := range b.drivers {
		if err := d.Close(); err != nil {
			errs = append(errs, fmt.Errorf("pin %s: %w", p, err))
		}
		delete(b.drivers, p)
	}
	return errors.Join(errs...)
}

// Multi fans every frame out to all drivers, e.g. hardware plus a preview.
func Multi(drivers ...Driver) Driver {
	return multi(drivers)
}

type multi []Driver

func (m multi) Write(frame []byte) error {
	var errs []error
	for _, d := range m {
		if err := d.Write(frame); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m multi) Close() error {
	var errs []error
	for _, d := range m {
		if err := d.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
