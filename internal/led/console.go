package led

import (
	"periph.io/x/devices/v3/screen1d"

	"github.com/coreman2200/ledmatrix/internal/frame"
)

// Console renders frames as a row of ANSI colored blocks on stdout, in strip
// order. Useful without a strip attached.
type Console struct {
	mode frame.Mode
	dev  *screen1d.Dev
}

func NewConsole(mode frame.Mode, pixels int) *Console {
	return &Console{
		mode: mode,
		dev:  screen1d.New(&screen1d.Opts{X: pixels}),
	}
}

func (c *Console) Write(buf []byte) error {
	_, err := c.dev.Write(frame.Decode(c.mode, buf))
	return err
}

func (c *Console) Close() error {
	return c.dev.Halt()
}
