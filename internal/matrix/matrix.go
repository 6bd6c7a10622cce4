// Package matrix drives a 2D grid of chained RGB(W) LEDs: it keeps the
// logical colors, maps them through the physical wiring and the brightness
// curve into the strip's wire bytes, and hands those to a transmitter.
//
// A Matrix is not safe for concurrent use.
package matrix

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/ledmatrix/internal/brightness"
	"github.com/coreman2200/ledmatrix/internal/frame"
	"github.com/coreman2200/ledmatrix/internal/grid"
	"github.com/coreman2200/ledmatrix/internal/layout"
	"github.com/coreman2200/ledmatrix/internal/led"
	"github.com/coreman2200/ledmatrix/model"
)

var ErrConfiguration = errors.New("matrix: invalid configuration")

// Config is fixed for the lifetime of a Matrix.
type Config struct {
	Pin    led.Pin
	Width  int
	Height int
	Mode   frame.Mode
}

type Matrix struct {
	cfg Config
	dim layout.Dim
	tx  led.Transmitter
	log zerolog.Logger

	layout         layout.Layout
	curve          brightness.Curve
	policy         brightness.Policy
	auto           bool
	redrawOnLayout bool

	grid *grid.Grid
	buf  *frame.Buffer
}

type Option func(*Matrix)

func WithLogger(l zerolog.Logger) Option {
	return func(m *Matrix) { m.log = l }
}

// WithBrightness sets the initial brightness percentage.
func WithBrightness(percent int) Option {
	return func(m *Matrix) { m.curve = brightness.New(percent) }
}

func WithPolicy(p brightness.Policy) Option {
	return func(m *Matrix) { m.policy = p }
}

func WithLayout(l layout.Layout) Option {
	return func(m *Matrix) { m.layout = l }
}

func WithAutoUpdate(on bool) Option {
	return func(m *Matrix) { m.auto = on }
}

// WithRedrawOnLayout makes SetLayout re-encode the whole frame. By default a
// layout change only affects later writes and callers must Redraw.
func WithRedrawOnLayout(on bool) Option {
	return func(m *Matrix) { m.redrawOnLayout = on }
}

type discard struct{}

func (discard) Transmit(led.Pin, []byte) error { return nil }

// New builds a black matrix. A nil tx discards every frame.
func New(cfg Config, tx led.Transmitter, opts ...Option) (*Matrix, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrConfiguration, cfg.Width, cfg.Height)
	}
	if !cfg.Mode.Valid() {
		return nil, fmt.Errorf("%w: color mode %s", ErrConfiguration, cfg.Mode)
	}
	if tx == nil {
		tx = discard{}
	}
	m := &Matrix{
		cfg:   cfg,
		dim:   layout.Dim{X: cfg.Width, Y: cfg.Height},
		tx:    tx,
		log:   log.Logger,
		curve: brightness.New(brightness.DefaultPercent),
		auto:  true,
		grid:  grid.New(cfg.Width, cfg.Height, cfg.Mode.HasWhite()),
		buf:   frame.New(cfg.Mode, cfg.Width*cfg.Height),
	}
	for _, o := range opts {
		o(m)
	}
	if err := m.layout.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	m.log = m.log.With().Str("pin", string(cfg.Pin)).Logger()
	return m, nil
}

func (m *Matrix) Pin() led.Pin              { return m.cfg.Pin }
func (m *Matrix) Width() int                { return m.cfg.Width }
func (m *Matrix) Height() int               { return m.cfg.Height }
func (m *Matrix) Mode() frame.Mode          { return m.cfg.Mode }
func (m *Matrix) Layout() layout.Layout     { return m.layout }
func (m *Matrix) Brightness() int           { return m.curve.Percent() }
func (m *Matrix) Policy() brightness.Policy { return m.policy }
func (m *Matrix) AutoUpdate() bool          { return m.auto }

// SetLayout replaces the wiring description. Pixels already in the frame stay
// at their old offsets until the next Redraw, unless WithRedrawOnLayout was
// given.
func (m *Matrix) SetLayout(l layout.Layout) {
	if err := l.Validate(); err != nil {
		m.log.Warn().Err(err).Msg("ignoring layout")
		return
	}
	m.layout = l
	m.log.Debug().Stringer("layout", l).Msg("layout changed")
	if m.redrawOnLayout {
		m.Redraw()
	}
}

// SetPixel stores c at x,y and encodes it. Out of range is a no-op.
func (m *Matrix) SetPixel(x, y int, c model.Color) {
	if !m.grid.SetColor(x, y, c) {
		return
	}
	m.encodeRGB(x, y, c)
	m.flush()
}

// SetWhite stores the white level at x,y, truncated to 8 bits. It is a no-op
// out of range or when the mode has no white channel.
func (m *Matrix) SetWhite(x, y int, level int) {
	if !m.cfg.Mode.HasWhite() {
		return
	}
	w := uint8(level & 0xFF)
	if !m.grid.SetWhite(x, y, w) {
		return
	}
	m.encodeWhite(x, y, w)
	m.flush()
}

// Fill sets every pixel to c and transmits once.
func (m *Matrix) Fill(c model.Color) {
	m.grid.Fill(c)
	for y := 0; y < m.cfg.Height; y++ {
		for x := 0; x < m.cfg.Width; x++ {
			m.encodeRGB(x, y, c)
		}
	}
	m.flush()
}

// SetBrightness clamps percent to [0,100], rebuilds the curve and redraws
// every pixel.
func (m *Matrix) SetBrightness(percent int) {
	m.curve = brightness.New(percent)
	m.log.Debug().Int("brightness", m.curve.Percent()).Msg("brightness changed")
	m.Redraw()
}

// SetPolicy switches between per-channel and uniform brightness correction
// and redraws.
func (m *Matrix) SetPolicy(p brightness.Policy) {
	m.policy = p
	m.Redraw()
}

// Clear turns every pixel off.
func (m *Matrix) Clear() {
	m.grid.Reset()
	m.buf.Zero()
	m.flush()
}

// SetAutoUpdate controls whether writes transmit immediately. With it off,
// batch writes and call Update.
func (m *Matrix) SetAutoUpdate(on bool) {
	m.auto = on
}

// Update transmits the current frame.
func (m *Matrix) Update() {
	if err := m.tx.Transmit(m.cfg.Pin, m.buf.Bytes()); err != nil {
		m.log.Warn().Err(err).Int("bytes", len(m.buf.Bytes())).Msg("transmit failed")
	}
}

// Redraw re-encodes every pixel under the current brightness and layout.
func (m *Matrix) Redraw() {
	m.grid.Each(func(x, y int, c model.Color, w uint8) {
		m.encodeRGB(x, y, c)
		if m.cfg.Mode.HasWhite() {
			m.encodeWhite(x, y, w)
		}
	})
	m.flush()
}

// Pixel returns the logical color at x,y, or black out of range.
func (m *Matrix) Pixel(x, y int) model.Color {
	return m.grid.Color(x, y)
}

// White returns the logical white level at x,y, or 0.
func (m *Matrix) White(x, y int) uint8 {
	return m.grid.White(x, y)
}

// Frame returns a copy of the wire bytes.
func (m *Matrix) Frame() []byte {
	return append([]byte(nil), m.buf.Bytes()...)
}

func (m *Matrix) flush() {
	if m.auto {
		m.Update()
	}
}

func (m *Matrix) offset(x, y int) int {
	return m.layout.Index(x, y, m.dim)
}

func (m *Matrix) encodeRGB(x, y int, c model.Color) {
	r, g, b := model.Unpack(c)
	m.buf.SetRGB(m.offset(x, y),
		m.curve.Apply(m.policy, r),
		m.curve.Apply(m.policy, g),
		m.curve.Apply(m.policy, b),
	)
}

func (m *Matrix) encodeWhite(x, y int, w uint8) {
	m.buf.SetWhite(m.offset(x, y), m.curve.Apply(m.policy, w))
}
