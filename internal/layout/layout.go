package layout

import (
	"fmt"
	"image"
	"strings"
)

// Dim is the size of the logical grid.
type Dim struct{ X, Y int }

func (d Dim) Count() int {
	return d.X * d.Y
}

// In reports whether x,y lies inside the grid.
func (d Dim) In(x, y int) bool {
	return x >= 0 && x < d.X && y >= 0 && y < d.Y
}

// Corner is where the first LED of the chain sits on the physical matrix.
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomLeft
	BottomRight
)

// Axis is the direction the chain primarily runs in.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

// Traversal says whether every row runs the same way or rows snake back and
// forth.
type Traversal int

const (
	Progressive Traversal = iota
	ZigZag
)

// Layout describes the physical wiring of a matrix. The zero value is the
// default wiring: top left, horizontal, progressive.
type Layout struct {
	Corner    Corner
	Axis      Axis
	Traversal Traversal
}

// Index maps x,y -> linear LED index (0..N-1). x,y must be inside dim.
//
// The three corrections are applied independently, in order: corner, axis,
// traversal.
func (l Layout) Index(x, y int, dim Dim) int {
	w, h := dim.X, dim.Y

	if l.Corner == TopRight || l.Corner == BottomRight {
		x = w - 1 - x
	}
	if l.Corner == BottomLeft || l.Corner == BottomRight {
		y = h - 1 - y
	}

	// Rows are the serial run when horizontal.
	if l.Axis == Horizontal {
		x, y = y, x
		w, h = h, w
	}

	if l.Traversal == ZigZag && x%2 == 1 {
		return (x+1)*h - 1 - y
	}
	return x*h + y
}

// Strip lists the logical coordinates of every LED in chain order, the
// inverse of Index.
func (l Layout) Strip(dim Dim) []image.Point {
	out := make([]image.Point, dim.Count())
	for y := 0; y < dim.Y; y++ {
		for x := 0; x < dim.X; x++ {
			out[l.Index(x, y, dim)] = image.Pt(x, y)
		}
	}
	return out
}

func (l Layout) Validate() error {
	if l.Corner < TopLeft || l.Corner > BottomRight {
		return fmt.Errorf("layout: invalid corner %d", int(l.Corner))
	}
	if l.Axis != Horizontal && l.Axis != Vertical {
		return fmt.Errorf("layout: invalid axis %d", int(l.Axis))
	}
	if l.Traversal != Progressive && l.Traversal != ZigZag {
		return fmt.Errorf("layout: invalid traversal %d", int(l.Traversal))
	}
	return nil
}

func (l Layout) String() string {
	return l.Corner.String() + "/" + l.Axis.String() + "/" + l.Traversal.String()
}

var cornerNames = map[Corner]string{
	TopLeft:     "top_left",
	TopRight:    "top_right",
	BottomLeft:  "bottom_left",
	BottomRight: "bottom_right",
}

func (c Corner) String() string {
	if s, ok := cornerNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Corner(%d)", int(c))
}

func (a Axis) String() string {
	switch a {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

func (t Traversal) String() string {
	switch t {
	case Progressive:
		return "progressive"
	case ZigZag:
		return "zigzag"
	}
	return fmt.Sprintf("Traversal(%d)", int(t))
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}

// ParseCorner accepts "top_left", "top-right", "Bottom Left" and so on. An
// empty string is the default corner.
func ParseCorner(s string) (Corner, error) {
	n := normalize(s)
	if n == "" {
		return TopLeft, nil
	}
	for c, name := range cornerNames {
		if name == n || strings.ReplaceAll(name, "_", "") == n {
			return c, nil
		}
	}
	return TopLeft, fmt.Errorf("layout: unknown corner %q", s)
}

func ParseAxis(s string) (Axis, error) {
	switch normalize(s) {
	case "", "horizontal", "horizontally":
		return Horizontal, nil
	case "vertical", "vertically":
		return Vertical, nil
	}
	return Horizontal, fmt.Errorf("layout: unknown axis %q", s)
}

func ParseTraversal(s string) (Traversal, error) {
	switch normalize(s) {
	case "", "progressive":
		return Progressive, nil
	case "zigzag", "zig_zag", "serpentine":
		return ZigZag, nil
	}
	return Progressive, fmt.Errorf("layout: unknown traversal %q", s)
}

// Parse builds a Layout from its three names.
func Parse(corner, axis, traversal string) (Layout, error) {
	c, err := ParseCorner(corner)
	if err != nil {
		return Layout{}, err
	}
	a, err := ParseAxis(axis)
	if err != nil {
		return Layout{}, err
	}
	t, err := ParseTraversal(traversal)
	if err != nil {
		return Layout{}, err
	}
	return Layout{Corner: c, Axis: a, Traversal: t}, nil
}
