package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelOrder(t *testing.T) {
	cases := []struct {
		mode   Mode
		expect []byte
	}{
		{RGB, []byte{0, 0, 0, 0x11, 0x22, 0x33}},
		{GRB, []byte{0, 0, 0, 0x22, 0x11, 0x33}},
		{GRBW, []byte{0, 0, 0, 0, 0x22, 0x11, 0x33, 0x44}},
	}
	for _, c := range cases {
		t.Run(c.mode.String(), func(t *testing.T) {
			b := New(c.mode, 2)
			assert.Len(t, b.Bytes(), 2*c.mode.Stride())
			assert.Equal(t, c.mode.Stride(), b.Stride())
			b.SetRGB(1, 0x11, 0x22, 0x33)
			b.SetWhite(1, 0x44)
			assert.Equal(t, c.expect, b.Bytes())

			r, g, bl, w := pixel(c.mode, b.Bytes()[b.Stride():])
			assert.Equal(t, [3]uint8{0x11, 0x22, 0x33}, [3]uint8{r, g, bl})
			if c.mode.HasWhite() {
				assert.Equal(t, uint8(0x44), w)
			} else {
				assert.Equal(t, uint8(0), w)
			}
		})
	}
}

func TestSetRGBKeepsWhite(t *testing.T) {
	b := New(GRBW, 1)
	b.SetWhite(0, 9)
	b.SetRGB(0, 1, 2, 3)
	assert.Equal(t, []byte{2, 1, 3, 9}, b.Bytes())
}

func TestZero(t *testing.T) {
	b := New(GRB, 3)
	for i := 0; i < 3; i++ {
		b.SetRGB(i, 255, 255, 255)
	}
	b.Zero()
	assert.Equal(t, make([]byte, 9), b.Bytes())
}

func TestDecode(t *testing.T) {
	assert.Equal(t, []byte{1, 2, 3}, Decode(RGB, []byte{1, 2, 3}))
	assert.Equal(t, []byte{1, 2, 3}, Decode(GRB, []byte{2, 1, 3}))
	assert.Equal(t, []byte{11, 12, 13, 255, 255, 255}, Decode(GRBW, []byte{2, 1, 3, 10, 200, 200, 200, 100}))
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{RGB, GRB, GRBW} {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
		assert.True(t, got.Valid())
	}
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, GRB, m)

	_, err = ParseMode("BGR")
	assert.Error(t, err)
	assert.False(t, Mode(0).Valid())
}
