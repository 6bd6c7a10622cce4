// Package model holds the packed 24-bit color value handed around by the
// matrix and the helpers that build one.
package model

import "image/color"

const (
	RED_OFFSET   uint8 = 0x10
	GREEN_OFFSET uint8 = 0x08
	BLUE_OFFSET  uint8 = 0x0
)

// Color is a packed 0xRRGGBB value. White is tracked separately by the matrix.
type Color uint32

// Pack combines three channels into a Color. Each channel is masked to 8 bits,
// so out-of-range values are truncated rather than rejected.
func Pack(r, g, b int) Color {
	return Color(uint32(r&0xFF)<<RED_OFFSET | uint32(g&0xFF)<<GREEN_OFFSET | uint32(b&0xFF)<<BLUE_OFFSET)
}

// RGB is an alias of Pack.
func RGB(r, g, b int) Color {
	return Pack(r, g, b)
}

// Unpack splits c into its channels.
func Unpack(c Color) (r, g, b uint8) {
	return c.R(), c.G(), c.B()
}

func getcolor(c Color, off uint8) uint8 {
	var mask uint32 = 0xFF << off
	return uint8((uint32(c) & mask) >> off)
}

func (c Color) R() uint8 {
	return getcolor(c, RED_OFFSET)
}

func (c Color) G() uint8 {
	return getcolor(c, GREEN_OFFSET)
}

func (c Color) B() uint8 {
	return getcolor(c, BLUE_OFFSET)
}

// RGBA implements color.Color. Colors are always opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R())
	r |= r << 8
	g = uint32(c.G())
	g |= g << 8
	b = uint32(c.B())
	b |= b << 8
	return r, g, b, 0xFFFF
}

// FromColor converts any color.Color, dropping alpha after premultiplication.
func FromColor(c color.Color) Color {
	if v, ok := c.(Color); ok {
		return v
	}
	r, g, b, _ := c.RGBA()
	return Pack(int(r>>8), int(g>>8), int(b>>8))
}

// Model converts arbitrary colors to Color.
var Model = color.ModelFunc(func(c color.Color) color.Color {
	return FromColor(c)
})

var _ color.Color = Color(0)
