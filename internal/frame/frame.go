// Package frame owns the byte layout of the buffer handed to the strip.
package frame

import (
	"fmt"
	"strings"
)

// Mode is the colorspace of a chipset: channel count and byte order.
type Mode int

const (
	// RGB writes red, green, blue.
	RGB Mode = iota + 1
	// GRB writes green, red, blue; most WS2812B strips.
	GRB
	// GRBW writes green, red, blue, white; SK6812 RGBW strips.
	GRBW
)

// Stride is the number of bytes per pixel.
func (m Mode) Stride() int {
	if m == GRBW {
		return 4
	}
	return 3
}

// HasWhite reports whether the mode carries a white channel.
func (m Mode) HasWhite() bool {
	return m == GRBW
}

func (m Mode) Valid() bool {
	return m == RGB || m == GRB || m == GRBW
}

func (m Mode) String() string {
	switch m {
	case RGB:
		return "RGB"
	case GRB:
		return "GRB"
	case GRBW:
		return "GRBW"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts "RGB", "GRB" or "GRBW", case-insensitive. Empty is GRB.
func ParseMode(s string) (Mode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "GRB":
		return GRB, nil
	case "RGB":
		return RGB, nil
	case "GRBW", "RGBW":
		return GRBW, nil
	}
	return 0, fmt.Errorf("frame: unknown color mode %q", s)
}

// Buffer is the wire-ordered byte sequence for one strip.
type Buffer struct {
	mode   Mode
	stride int
	buf    []byte
}

// New allocates a zeroed Buffer for pixels LEDs.
func New(mode Mode, pixels int) *Buffer {
	return &Buffer{
		mode:   mode,
		stride: mode.Stride(),
		buf:    make([]byte, pixels*mode.Stride()),
	}
}

func (b *Buffer) Mode() Mode  { return b.mode }
func (b *Buffer) Stride() int { return b.stride }

// Bytes returns the underlying buffer; callers must not retain it across
// writes.
func (b *Buffer) Bytes() []byte {
	return b.buf
}

// SetRGB writes the color channels of the pixel at offset in mode order.
// The white byte of a GRBW pixel is left alone.
func (b *Buffer) SetRGB(offset int, r, g, bl uint8) {
	i := offset * b.stride
	if b.mode == RGB {
		b.buf[i+0] = r
		b.buf[i+1] = g
	} else {
		b.buf[i+0] = g
		b.buf[i+1] = r
	}
	b.buf[i+2] = bl
}

// SetWhite writes the white byte of the pixel at offset. No-op unless GRBW.
func (b *Buffer) SetWhite(offset int, w uint8) {
	if b.mode != GRBW {
		return
	}
	b.buf[offset*b.stride+3] = w
}

// Zero turns every LED off.
func (b *Buffer) Zero() {
	for i := range b.buf {
		b.buf[i] = 0
	}
}

func pixel(mode Mode, p []byte) (r, g, b, w uint8) {
	if mode == RGB {
		r, g = p[0], p[1]
	} else {
		r, g = p[1], p[0]
	}
	b = p[2]
	if mode == GRBW {
		w = p[3]
	}
	return
}

// Decode converts a wire frame into plain RGB triples, one per LED in strip
// order. White is mixed into the color channels so that previews show it.
func Decode(mode Mode, wire []byte) []byte {
	stride := mode.Stride()
	n := len(wire) / stride
	out := make([]byte, n*3)
	for i := 0; i < n; i++ {
		r, g, b, w := pixel(mode, wire[i*stride:])
		out[i*3+0] = addSat(r, w)
		out[i*3+1] = addSat(g, w)
		out[i*3+2] = addSat(b, w)
	}
	return out
}

func addSat(a, b uint8) uint8 {
	if s := int(a) + int(b); s < 255 {
		return uint8(s)
	}
	return 255
}
