package model

import "math"

// Named colors.
const (
	Black  Color = 0x000000
	Red    Color = 0xFF0000
	Orange Color = 0xFFA500
	Yellow Color = 0xFFFF00
	Green  Color = 0x00FF00
	Blue   Color = 0x0000FF
	Indigo Color = 0x4B0082
	Violet Color = 0x8A2BE2
	Purple Color = 0xFF00FF
	White  Color = 0xFFFFFF
)

// HSL builds a Color from hue (degrees, 0-360), saturation and luminance
// (both percent, 0-100). A NaN hue yields a grey of the given luminance.
func HSL(hue, saturation, luminance float64) Color {
	s := saturation / 100.0
	l := luminance / 100.0
	c := (1 - math.Abs(2*l-1)) * s
	hp := hue / 60.0
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))

	var r, g, b float64
	switch {
	case math.IsNaN(hue):
	case hp <= 1:
		r, g = c, x
	case hp <= 2:
		r, g = x, c
	case hp <= 3:
		g, b = c, x
	case hp <= 4:
		g, b = x, c
	case hp <= 5:
		r, b = x, c
	case hp <= 6:
		r, b = c, x
	}
	m := l - c*0.5
	return Pack(
		int(math.Round(255*(r+m))),
		int(math.Round(255*(g+m))),
		int(math.Round(255*(b+m))),
	)
}
