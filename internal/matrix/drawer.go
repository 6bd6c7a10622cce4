package matrix

import (
	"fmt"
	"image"
	"image/color"

	"periph.io/x/conn/v3/display"

	"github.com/coreman2200/ledmatrix/model"
)

func (m *Matrix) String() string {
	return fmt.Sprintf("ledmatrix{%s %dx%d %s}", m.cfg.Pin, m.cfg.Width, m.cfg.Height, m.cfg.Mode)
}

// Halt turns the LEDs off and transmits regardless of auto-update.
func (m *Matrix) Halt() error {
	m.grid.Reset()
	m.buf.Zero()
	m.Update()
	return nil
}

func (m *Matrix) ColorModel() color.Model {
	return model.Model
}

func (m *Matrix) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.cfg.Width, m.cfg.Height)
}

// Draw copies src into the grid through the same pipeline as SetPixel and
// transmits once. Only pixels inside both r and the matrix are touched.
func (m *Matrix) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(m.Bounds())
	sb := src.Bounds()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			s := image.Pt(sp.X+x-r.Min.X, sp.Y+y-r.Min.Y)
			if !s.In(sb) {
				continue
			}
			c := model.FromColor(src.At(s.X, s.Y))
			m.grid.SetColor(x, y, c)
			m.encodeRGB(x, y, c)
		}
	}
	m.flush()
	return nil
}

var _ display.Drawer = (*Matrix)(nil)
