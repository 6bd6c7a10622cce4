package demo

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/ledmatrix/internal/brightness"
	"github.com/coreman2200/ledmatrix/internal/frame"
	"github.com/coreman2200/ledmatrix/internal/layout"
	"github.com/coreman2200/ledmatrix/internal/led"
	"github.com/coreman2200/ledmatrix/internal/matrix"
	"github.com/coreman2200/ledmatrix/model"
)

func newMatrix(t *testing.T, w, h int, opts ...matrix.Option) (*matrix.Matrix, *led.Sim) {
	t.Helper()
	sim := led.NewSim()
	bus := led.NewBus()
	bus.Attach("P0", sim)
	m, err := matrix.New(matrix.Config{Pin: "P0", Width: w, Height: h, Mode: frame.GRB}, bus, opts...)
	require.NoError(t, err)
	return m, sim
}

func counter() (Pause, *int) {
	n := 0
	return func(int) { n++ }, &n
}

func TestTestPattern(t *testing.T) {
	m, sim := newMatrix(t, 8, 8)
	TestPattern(m)

	assert.Equal(t, uint64(1), sim.Frames(), "transmitted once")
	assert.True(t, m.AutoUpdate(), "auto-update restored")

	assert.Equal(t, model.Pack(127, 64, 25), m.Pixel(0, 0))
	assert.Equal(t, model.Pack(63, 32, 12), m.Pixel(0, 1))
	assert.Equal(t, model.Pack(126, 63, 24), m.Pixel(1, 0))
	assert.Equal(t, model.Pack(int(brightness.Base[127]), int(brightness.Base[64]), int(brightness.Base[25])), m.Pixel(2, 0))
	assert.Equal(t, m.Pixel(0, 3), m.Pixel(3, 3))
	assert.Equal(t, model.Black, m.Pixel(6, 0))
}

func TestStripScan(t *testing.T) {
	m, sim := newMatrix(t, 6, 1)
	pause, n := counter()

	require.NoError(t, StripScan(context.Background(), m, pause, 60, 2))

	assert.Equal(t, 6, *n)
	assert.Equal(t, uint64(1+2*2*3), sim.Frames())
	assert.Equal(t, ScanStart, m.Pixel(0, 0))
	assert.Equal(t, ScanMarker, m.Pixel(1, 0))
	assert.Equal(t, ScanMarker, m.Pixel(2, 0))
	for x := 3; x < 6; x++ {
		assert.Equal(t, model.Black, m.Pixel(x, 0))
	}
	assert.True(t, m.AutoUpdate())
}

func TestStripScanFollowsWiring(t *testing.T) {
	m, _ := newMatrix(t, 2, 3, matrix.WithLayout(layout.Layout{Corner: layout.TopLeft, Axis: layout.Vertical, Traversal: layout.ZigZag}))

	var lit []image.Point
	pause := func(int) {
		for y := 0; y < 3; y++ {
			for x := 0; x < 2; x++ {
				if m.Pixel(x, y) == ScanChase {
					lit = append(lit, image.Pt(x, y))
				}
			}
		}
	}
	require.NoError(t, StripScan(context.Background(), m, pause, 0, 1))

	// Column 0 runs down, column 1 runs back up.
	assert.Equal(t, ScanStart, m.Pixel(0, 0))
	assert.Equal(t, ScanMarker, m.Pixel(0, 1))
	assert.Equal(t, ScanMarker, m.Pixel(0, 2))
	assert.Equal(t, []image.Point{{1, 2}, {1, 1}, {1, 0}}, lit)
}

func TestStripScanCancelled(t *testing.T) {
	m, _ := newMatrix(t, 10, 1)
	ctx, cancel := context.WithCancel(context.Background())
	pause := func(int) { cancel() }

	err := StripScan(ctx, m, pause, 0, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFadeOut(t *testing.T) {
	m, sim := newMatrix(t, 2, 2)
	m.Fill(model.White)
	pause, n := counter()

	require.NoError(t, FadeOut(context.Background(), m, pause, 10))

	assert.Equal(t, 101, *n)
	assert.Equal(t, uint64(1+101), sim.Frames())
	assert.Equal(t, 0, m.Brightness())
	assert.Equal(t, make([]byte, 12), sim.Last())
	assert.Equal(t, model.White, m.Pixel(1, 1), "logical content kept")
}

func TestRunner(t *testing.T) {
	m, sim := newMatrix(t, 3, 1)

	r := NewRunner(Plan{Kind: Fill, Color: model.Red}, nil)
	assert.Equal(t, Fill, r.Kind())
	require.NoError(t, r.Run(context.Background(), m))
	assert.Equal(t, model.Red, m.Pixel(2, 0))
	assert.Equal(t, uint64(1), sim.Frames())

	require.NoError(t, NewRunner(Plan{}, nil).Run(context.Background(), m))
	assert.Equal(t, uint64(1), sim.Frames())

	assert.Error(t, NewRunner(Plan{Kind: "disco"}, nil).Run(context.Background(), m))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Scan ")
	require.NoError(t, err)
	assert.Equal(t, Scan, k)

	_, err = ParseKind("strobe")
	assert.Error(t, err)
}
