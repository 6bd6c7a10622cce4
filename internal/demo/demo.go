package demo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/coreman2200/ledmatrix/internal/brightness"
	"github.com/coreman2200/ledmatrix/internal/layout"
	"github.com/coreman2200/ledmatrix/internal/matrix"
	"github.com/coreman2200/ledmatrix/model"
)

// Pause blocks for ms milliseconds.
type Pause func(ms int)

// Sleep is the wall-clock Pause.
func Sleep(ms int) { time.Sleep(time.Duration(ms) * time.Millisecond) }

type Kind string

const (
	None    Kind = ""
	Pattern Kind = "pattern"
	Scan    Kind = "scan"
	Fade    Kind = "fade"
	Fill    Kind = "fill"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case None, Pattern, Scan, Fade, Fill:
		return k, nil
	}
	return None, fmt.Errorf("demo: unknown routine %q", s)
}

type Plan struct {
	Kind    Kind
	Repeat  int
	PauseMs int
	Color   model.Color
}

type Runner struct {
	plan  Plan
	pause Pause
}

func NewRunner(plan Plan, pause Pause) *Runner {
	if pause == nil {
		pause = Sleep
	}
	if plan.Repeat <= 0 {
		plan.Repeat = 1
	}
	return &Runner{plan: plan, pause: pause}
}

func (r *Runner) Kind() Kind { return r.plan.Kind }

// Run executes the planned routine on m. It returns ctx.Err() when
// cancelled part way.
func (r *Runner) Run(ctx context.Context, m *matrix.Matrix) error {
	switch r.plan.Kind {
	case None:
		return nil
	case Pattern:
		TestPattern(m)
		return nil
	case Scan:
		return StripScan(ctx, m, r.pause, r.plan.PauseMs, r.plan.Repeat)
	case Fade:
		return FadeOut(ctx, m, r.pause, r.plan.PauseMs)
	case Fill:
		m.Fill(r.plan.Color)
		return nil
	}
	return fmt.Errorf("demo: unknown routine %q", r.plan.Kind)
}

// TestPattern draws six columns, two each of: halving steps, steps
// along the brightness curve, and curve-mapped levels. The frame is
// transmitted once at the end.
func TestPattern(m *matrix.Matrix) {
	auto := m.AutoUpdate()
	m.SetAutoUpdate(false)
	r, g, b := 127, 64, 25
	for x := 0; x < 6; x++ {
		switch x % 3 {
		case 0:
			halving(m, x, r, g, b)
		case 1:
			curveSteps(m, x, r, g, b)
		case 2:
			curveMapped(m, x, r, g, b)
		}
	}
	m.Update()
	m.SetAutoUpdate(auto)
}

func halving(m *matrix.Matrix, x, r, g, b int) {
	for y := 0; y < m.Height(); y++ {
		m.SetPixel(x, y, model.Pack(r, g, b))
		r, g, b = r/2, g/2, b/2
	}
}

func curveSteps(m *matrix.Matrix, x, r, g, b int) {
	level := 255
	for y := 0; y < m.Height(); y++ {
		f := int(brightness.Base[level])
		m.SetPixel(x, y, model.Pack(f*r>>8, f*g>>8, f*b>>8))
		level = level * 4 / 5
	}
}

func curveMapped(m *matrix.Matrix, x, r, g, b int) {
	for y := 0; y < m.Height(); y++ {
		m.SetPixel(x, y, model.Pack(int(brightness.Base[r]), int(brightness.Base[g]), int(brightness.Base[b])))
		r, g, b = r*4/5, g*4/5, b*4/5
	}
}

// Marker colors for StripScan.
const (
	ScanStart  model.Color = 0xAAAAAA
	ScanMarker model.Color = 0x900000
	ScanChase  model.Color = 0x666666
)

// StripScan checks a chain in wiring order: the first LED grey, the next
// two red, then one grey LED chased along the rest of the strip, repeat
// times.
func StripScan(ctx context.Context, m *matrix.Matrix, pause Pause, ms, repeat int) error {
	auto := m.AutoUpdate()
	m.SetAutoUpdate(false)
	defer m.SetAutoUpdate(auto)

	strip := m.Layout().Strip(layout.Dim{X: m.Width(), Y: m.Height()})
	for i, c := range []model.Color{ScanStart, ScanMarker, ScanMarker} {
		if i < len(strip) {
			m.SetPixel(strip[i].X, strip[i].Y, c)
		}
	}
	m.Update()

	for j := 0; j < repeat; j++ {
		for _, p := range strip[min(3, len(strip)):] {
			if err := ctx.Err(); err != nil {
				return err
			}
			m.SetPixel(p.X, p.Y, ScanChase)
			m.Update()
			pause(ms)
			m.SetPixel(p.X, p.Y, model.Black)
			m.Update()
		}
	}
	return nil
}

// FadeOut ramps brightness from 100 down to 0 over the current content.
func FadeOut(ctx context.Context, m *matrix.Matrix, pause Pause, ms int) error {
	for p := brightness.MaxPercent; p >= brightness.MinPercent; p-- {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.SetBrightness(p)
		if !m.AutoUpdate() {
			m.Update()
		}
		pause(ms)
	}
	return nil
}
