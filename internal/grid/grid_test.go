package grid

import (
	"testing"

	"github.com/coreman2200/ledmatrix/model"
	"github.com/stretchr/testify/assert"
)

func TestGridBounds(t *testing.T) {
	g := New(3, 2, false)
	assert.True(t, g.SetColor(2, 1, model.Red))
	assert.Equal(t, model.Red, g.Color(2, 1))

	for _, p := range [][2]int{{-1, 0}, {3, 0}, {0, 2}, {0, -1}} {
		assert.False(t, g.SetColor(p[0], p[1], model.Blue))
		assert.Equal(t, model.Color(0), g.Color(p[0], p[1]))
	}
	assert.False(t, g.SetWhite(0, 0, 5), "no white plane")
	assert.Equal(t, uint8(0), g.White(0, 0))
	assert.False(t, g.HasWhite())
}

func TestGridWhite(t *testing.T) {
	g := New(2, 2, true)
	assert.True(t, g.SetWhite(1, 1, 200))
	assert.Equal(t, uint8(200), g.White(1, 1))
	assert.Equal(t, model.Color(0), g.Color(1, 1))
	assert.False(t, g.SetWhite(2, 1, 1))

	g.Fill(model.Green)
	assert.Equal(t, uint8(200), g.White(1, 1))
	assert.Equal(t, model.Green, g.Color(0, 0))

	g.Reset()
	assert.Equal(t, uint8(0), g.White(1, 1))
	assert.Equal(t, model.Color(0), g.Color(0, 0))
}

func TestGridEachRowMajor(t *testing.T) {
	g := New(2, 2, false)
	g.SetColor(1, 0, model.Blue)
	var order [][2]int
	g.Each(func(x, y int, c model.Color, w uint8) {
		order = append(order, [2]int{x, y})
		if x == 1 && y == 0 {
			assert.Equal(t, model.Blue, c)
		}
	})
	assert.Equal(t, [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}}, order)
}
