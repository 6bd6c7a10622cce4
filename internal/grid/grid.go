// Package grid stores the last logical color (and white level) set for every
// cell of a matrix, independent of brightness and wiring.
package grid

import "github.com/coreman2200/ledmatrix/model"

type Grid struct {
	w, h  int
	color []model.Color
	white []uint8
}

// New allocates a black grid. withWhite adds a parallel white plane.
func New(w, h int, withWhite bool) *Grid {
	g := &Grid{
		w:     w,
		h:     h,
		color: make([]model.Color, w*h),
	}
	if withWhite {
		g.white = make([]uint8, w*h)
	}
	return g
}

func (g *Grid) Width() int  { return g.w }
func (g *Grid) Height() int { return g.h }

// HasWhite reports whether the grid tracks white levels.
func (g *Grid) HasWhite() bool {
	return g.white != nil
}

func (g *Grid) In(x, y int) bool {
	return x >= 0 && x < g.w && y >= 0 && y < g.h
}

func (g *Grid) idx(x, y int) int {
	return y*g.w + x
}

// Color returns the color at x,y or black when out of range.
func (g *Grid) Color(x, y int) model.Color {
	if !g.In(x, y) {
		return 0
	}
	return g.color[g.idx(x, y)]
}

// White returns the white level at x,y, or 0 when out of range or untracked.
func (g *Grid) White(x, y int) uint8 {
	if !g.In(x, y) || g.white == nil {
		return 0
	}
	return g.white[g.idx(x, y)]
}

// SetColor stores c at x,y. It reports false, storing nothing, when out of
// range.
func (g *Grid) SetColor(x, y int, c model.Color) bool {
	if !g.In(x, y) {
		return false
	}
	g.color[g.idx(x, y)] = c
	return true
}

// SetWhite stores w at x,y. It reports false when out of range or when the
// grid does not track white.
func (g *Grid) SetWhite(x, y int, w uint8) bool {
	if !g.In(x, y) || g.white == nil {
		return false
	}
	g.white[g.idx(x, y)] = w
	return true
}

// Fill sets every color cell to c. White levels are untouched.
func (g *Grid) Fill(c model.Color) {
	for i := range g.color {
		g.color[i] = c
	}
}

// Reset zeroes colors and white levels.
func (g *Grid) Reset() {
	for i := range g.color {
		g.color[i] = 0
	}
	for i := range g.white {
		g.white[i] = 0
	}
}

// Each calls fn for every cell in row-major order.
func (g *Grid) Each(fn func(x, y int, c model.Color, w uint8)) {
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			i := g.idx(x, y)
			var w uint8
			if g.white != nil {
				w = g.white[i]
			}
			fn(x, y, g.color[i], w)
		}
	}
}
