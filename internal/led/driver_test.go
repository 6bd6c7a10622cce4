package led

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/spi/spitest"

	"github.com/coreman2200/ledmatrix/internal/frame"
)

type failDriver struct{ closed bool }

func (f *failDriver) Write(frame []byte) error { return errors.New("boom") }
func (f *failDriver) Close() error             { f.closed = true; return nil }

func TestBusRoutesByPin(t *testing.T) {
	bus := NewBus()
	a, b := NewSim(), NewSim()
	bus.Attach("P0", a)
	bus.Attach("P1", b)
	assert.Equal(t, []Pin{"P0", "P1"}, bus.Pins())

	require.NoError(t, bus.Transmit("P1", []byte{1, 2, 3}))
	assert.Equal(t, uint64(0), a.Frames())
	assert.Equal(t, uint64(1), b.Frames())
	assert.Equal(t, []byte{1, 2, 3}, b.Last())

	err := bus.Transmit("P9", []byte{0})
	assert.True(t, errors.Is(err, ErrNoDriver), "%v", err)
}

func TestBusWrapsDriverErrors(t *testing.T) {
	bus := NewBus()
	f := &failDriver{}
	bus.Attach("P2", f)
	err := bus.Transmit("P2", []byte{0, 0, 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "P2")

	require.NoError(t, bus.Close())
	assert.True(t, f.closed)
	assert.Empty(t, bus.Pins())
}

func TestMulti(t *testing.T) {
	a, b := NewSim(), NewSim()
	m := Multi(a, b)
	require.NoError(t, m.Write([]byte{9, 9, 9}))
	assert.Equal(t, []byte{9, 9, 9}, a.Last())
	assert.Equal(t, []byte{9, 9, 9}, b.Last())

	assert.Error(t, Multi(a, &failDriver{}).Write([]byte{1, 1, 1}))
	require.NoError(t, m.Close())
}

func TestSimLastIsCopy(t *testing.T) {
	s := NewSim()
	buf := []byte{1, 2, 3}
	require.NoError(t, s.Write(buf))
	buf[0] = 7
	last := s.Last()
	assert.Equal(t, byte(1), last[0])
	last[1] = 7
	assert.Equal(t, byte(2), s.Last()[1])
}

func TestTransmitterFunc(t *testing.T) {
	var got Pin
	tx := TransmitterFunc(func(pin Pin, frame []byte) error {
		got = pin
		return nil
	})
	require.NoError(t, tx.Transmit("SPI0.0", nil))
	assert.Equal(t, Pin("SPI0.0"), got)
}

var (
	nrz0 = []byte{0x88, 0x88, 0x88, 0x88}
	nrz1 = []byte{0xEE, 0xEE, 0xEE, 0xEE}
)

func join(parts ...[]byte) []byte { return bytes.Join(parts, nil) }

func TestSPI_WireOrder(t *testing.T) {
	latch := []byte{0, 0, 0}
	cases := []struct {
		mode   frame.Mode
		expect []byte
	}{
		// Red: the wire carries the frame bytes unchanged.
		{frame.GRB, join(nrz0, nrz1, nrz0, latch)},
		{frame.RGB, join(nrz1, nrz0, nrz0, latch)},
	}
	for _, c := range cases {
		t.Run(c.mode.String(), func(t *testing.T) {
			var got bytes.Buffer
			s, err := NewSPI(spitest.NewRecordRaw(&got), 1, c.mode.Stride())
			require.NoError(t, err)
			assert.Equal(t, "nrzled{recordraw}", s.String())

			b := frame.New(c.mode, 1)
			b.SetRGB(0, 255, 0, 0)
			require.NoError(t, s.Write(b.Bytes()))
			assert.Equal(t, c.expect, got.Bytes())
		})
	}
}

func TestSPI_Write(t *testing.T) {
	var got bytes.Buffer
	s, err := NewSPI(spitest.NewRecordRaw(&got), 2, 3)
	require.NoError(t, err)

	require.NoError(t, s.Write([]byte{0x00, 0xFF, 0x00, 0xFF, 0x00, 0xFF}))
	assert.Equal(t, join(nrz0, nrz1, nrz0, nrz1, nrz0, nrz1, []byte{0, 0, 0}), got.Bytes())

	assert.Error(t, s.Write([]byte{1, 2, 3}), "short frame")

	got.Reset()
	require.NoError(t, s.Close())
	assert.Equal(t, join(nrz0, nrz0, nrz0, nrz0, nrz0, nrz0, []byte{0, 0, 0}), got.Bytes(), "halt sends black")
	assert.Error(t, s.Write(make([]byte, 6)), "closed")
	require.NoError(t, s.Close())
	assert.Equal(t, "nrzled{recordraw}", s.String())
}

func TestSPI_InvalidGeometry(t *testing.T) {
	_, err := NewSPI(spitest.NewRecordRaw(&bytes.Buffer{}), 0, 3)
	assert.Error(t, err)
	_, err = NewSPI(spitest.NewRecordRaw(&bytes.Buffer{}), 4, 5)
	assert.Error(t, err)
	_, err = NewSPI(spitest.NewRecordRaw(&bytes.Buffer{}), 4, frame.GRBW.Stride())
	assert.ErrorIs(t, err, ErrWhiteUnsupported)
}

func TestConsole(t *testing.T) {
	c := NewConsole(frame.GRBW, 2)
	require.NoError(t, c.Write([]byte{0, 255, 0, 0, 0, 0, 0, 128}))
	require.NoError(t, c.Close())
}
