// Package brightness corrects linear 0-255 intensities for perceived
// brightness and scales them by a global percentage.
package brightness

import "fmt"

// Base maps a linear intensity to a perceptually linear one, roughly
// 2^((i+1)/32)-1. It is monotonic and Base[255] == 255.
var Base = [256]uint8{
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 2, 2, 2, 2, 2, 2,
	2, 2, 2, 2, 2, 2, 2, 2,
	2, 3, 3, 3, 3, 3, 3, 3,
	3, 3, 3, 3, 3, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 5, 5,
	5, 5, 5, 5, 5, 5, 6, 6,
	6, 6, 6, 6, 6, 7, 7, 7,
	7, 7, 8, 8, 8, 8, 8, 9,
	9, 9, 9, 9, 10, 10, 10, 10,
	11, 11, 11, 11, 12, 12, 12, 12,
	13, 13, 13, 14, 14, 14, 15, 15,
	15, 16, 16, 16, 17, 17, 18, 18,
	18, 19, 19, 20, 20, 21, 21, 22,
	22, 23, 23, 24, 24, 25, 25, 26,
	26, 27, 28, 28, 29, 30, 30, 31,
	32, 32, 33, 34, 35, 35, 36, 37,
	38, 39, 40, 40, 41, 42, 43, 44,
	45, 46, 47, 48, 49, 51, 52, 53,
	54, 55, 56, 58, 59, 60, 62, 63,
	64, 66, 67, 69, 70, 72, 73, 75,
	77, 78, 80, 82, 84, 86, 88, 90,
	91, 94, 96, 98, 100, 102, 104, 107,
	109, 111, 114, 116, 119, 122, 124, 127,
	130, 133, 136, 139, 142, 145, 148, 151,
	155, 158, 161, 165, 169, 172, 176, 180,
	184, 188, 192, 196, 201, 205, 210, 214,
	219, 224, 229, 234, 239, 244, 250, 255,
}

const (
	MinPercent     = 0
	MaxPercent     = 100
	DefaultPercent = 75
)

// Policy selects how a Curve is applied to the color channels.
type Policy int

const (
	// PerChannel passes every channel through the scaled table.
	PerChannel Policy = iota
	// Uniform multiplies every channel by one perceptually chosen factor.
	Uniform
)

func (p Policy) String() string {
	switch p {
	case PerChannel:
		return "per_channel"
	case Uniform:
		return "uniform"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy accepts the names returned by Policy.String.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "per_channel", "per-channel", "perchannel", "":
		return PerChannel, nil
	case "uniform":
		return Uniform, nil
	}
	return PerChannel, fmt.Errorf("unknown brightness policy %q", s)
}

// Clamp limits percent to [0,100].
func Clamp(percent int) int {
	if percent < MinPercent {
		return MinPercent
	}
	if percent > MaxPercent {
		return MaxPercent
	}
	return percent
}

// Scaled returns Base scaled by percent, flooring every entry.
func Scaled(percent int) [256]uint8 {
	p := Clamp(percent)
	var out [256]uint8
	for i, v := range Base {
		out[i] = uint8(int(v) * p / MaxPercent)
	}
	return out
}

// Curve is the brightness state derived from one percentage. It is never
// mutated; a brightness change builds a new Curve.
type Curve struct {
	percent int
	table   [256]uint8
	factor  uint8
}

// New builds the Curve for percent, clamped to [0,100].
func New(percent int) Curve {
	p := Clamp(percent)
	return Curve{
		percent: p,
		table:   Scaled(p),
		factor:  Base[p*255/MaxPercent],
	}
}

func (c Curve) Percent() int {
	return c.percent
}

// Apply corrects a single channel value under policy.
//
// The uniform product uses factor+1 so that a factor of 255 is full scale and
// a factor of 0 is black.
func (c Curve) Apply(p Policy, v uint8) uint8 {
	if p == Uniform {
		return uint8(int(v) * (int(c.factor) + 1) >> 8)
	}
	return c.table[v]
}
