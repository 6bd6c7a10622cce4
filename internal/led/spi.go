package led

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
)

// Freq is the SPI clock nrzled requires: four SPI bits per 800kHz NRZ bit.
const Freq = 2500 * physic.KiloHertz

// ErrWhiteUnsupported is returned for 4 channel strips; nrzled's SPI path
// only encodes 3 bytes per pixel.
var ErrWhiteUnsupported = errors.New("spi: 4 channel (RGBW) strips are not supported over SPI")

// SPI drives a WS2812B-style chain by NRZ-encoding frames onto an SPI MOSI
// line. Frame bytes reach the wire in the order given.
type SPI struct {
	mu      sync.Mutex
	port    spi.PortCloser
	dev     *nrzled.Dev
	name    string
	bytes   int
	scratch []byte
}

// OpenSPI opens the spireg port named by pin (empty for the first available)
// and prepares it for pixels LEDs of channels bytes each.
func OpenSPI(pin Pin, pixels, channels int) (*SPI, error) {
	p, err := spireg.Open(string(pin))
	if err != nil {
		return nil, fmt.Errorf("open spi %q: %w", pin, err)
	}
	s, err := NewSPI(p, pixels, channels)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	return s, nil
}

// NewSPI wraps an already opened port.
func NewSPI(p spi.PortCloser, pixels, channels int) (*SPI, error) {
	if pixels <= 0 {
		return nil, fmt.Errorf("invalid LED count: %d", pixels)
	}
	switch channels {
	case 3:
	case 4:
		return nil, ErrWhiteUnsupported
	default:
		return nil, fmt.Errorf("invalid channel count: %d", channels)
	}
	d, err := nrzled.NewSPI(p, &nrzled.Opts{
		NumPixels: pixels,
		Channels:  channels,
		Freq:      Freq,
	})
	if err != nil {
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	n := pixels * channels
	return &SPI{port: p, dev: d, name: d.String(), bytes: n, scratch: make([]byte, n)}, nil
}

func (s *SPI) String() string {
	return s.name
}

// Write takes len(frame) == pixels*3.
func (s *SPI) Write(frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dev == nil {
		return fmt.Errorf("spi closed")
	}
	if len(frame) != s.bytes {
		return fmt.Errorf("frame length %d does not match %d", len(frame), s.bytes)
	}
	// nrzled reads r,g,b and sends g,r,b; pre-swap so the frame goes out as is.
	for i := 0; i < len(frame); i += 3 {
		s.scratch[i], s.scratch[i+1], s.scratch[i+2] = frame[i+1], frame[i], frame[i+2]
	}
	if _, err := s.dev.Write(s.scratch); err != nil {
		return fmt.Errorf("spi write: %w", err)
	}
	return nil
}

// Close turns the strip off and releases the port.
func (s *SPI) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dev == nil {
		return nil
	}
	err := s.dev.Halt()
	if cerr := s.port.Close(); err == nil {
		err = cerr
	}
	s.dev = nil
	return err
}
