package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coreman2200/ledmatrix/internal/brightness"
	"github.com/coreman2200/ledmatrix/internal/frame"
	"github.com/coreman2200/ledmatrix/internal/layout"
)

type Layout struct {
	Corner    string `yaml:"corner"`    // top_left | top_right | bottom_left | bottom_right
	Axis      string `yaml:"axis"`      // horizontal | vertical
	Traversal string `yaml:"traversal"` // progressive | zigzag
}

type SPI struct {
	Port string `yaml:"port"` // spireg name, e.g. SPI0.0; defaults to pin
}

type Preview struct {
	Addr string `yaml:"addr"` // e.g. :8080; empty disables the server
}

type Power struct {
	LimitAmps float64 `yaml:"limit_amps"` // 0 disables the preview budget warning
}

type Demo struct {
	Pattern string `yaml:"pattern"` // pattern | scan | fade | fill
	Repeat  int    `yaml:"repeat"`
	PauseMs int    `yaml:"pause_ms"`
	Color   string `yaml:"color"` // hex, for fill
}

type Config struct {
	Driver     string `yaml:"driver"` // spi | console | sim | preview
	Pin        string `yaml:"pin"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	ColorMode  string `yaml:"color_mode"` // RGB | GRB | GRBW
	Brightness *int   `yaml:"brightness,omitempty"`
	Policy     string `yaml:"policy"` // per_channel | uniform

	AutoUpdate     *bool `yaml:"auto_update,omitempty"`
	RedrawOnLayout *bool `yaml:"redraw_on_layout,omitempty"`

	Layout  Layout  `yaml:"layout"`
	SPI     SPI     `yaml:"spi,omitempty"`
	Preview Preview `yaml:"preview,omitempty"`
	Power   Power   `yaml:"power,omitempty"`
	Demo    Demo    `yaml:"demo,omitempty"`
}

// Default matches the common 32x8 GRB panel wired in vertical zig-zag.
func Default() *Config {
	on, off := true, false
	percent := brightness.DefaultPercent
	return &Config{
		Driver:         "sim",
		Pin:            "SPI0.0",
		Width:          32,
		Height:         8,
		ColorMode:      frame.GRB.String(),
		Brightness:     &percent,
		Policy:         brightness.PerChannel.String(),
		AutoUpdate:     &on,
		RedrawOnLayout: &off,
		Layout: Layout{
			Corner:    layout.TopLeft.String(),
			Axis:      layout.Vertical.String(),
			Traversal: layout.ZigZag.String(),
		},
		Demo: Demo{Pattern: "pattern", Repeat: 1, PauseMs: 60},
	}
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Mode parses ColorMode.
func (c *Config) Mode() (frame.Mode, error) {
	return frame.ParseMode(c.ColorMode)
}

// MatrixLayout parses the layout section.
func (c *Config) MatrixLayout() (layout.Layout, error) {
	return layout.Parse(c.Layout.Corner, c.Layout.Axis, c.Layout.Traversal)
}

// BrightnessPolicy parses Policy.
func (c *Config) BrightnessPolicy() (brightness.Policy, error) {
	return brightness.ParsePolicy(c.Policy)
}

// AutoUpdateOn reports auto_update, true when unset.
func (c *Config) AutoUpdateOn() bool {
	return c.AutoUpdate == nil || *c.AutoUpdate
}

// BrightnessPercent reports brightness, the default when unset.
func (c *Config) BrightnessPercent() int {
	if c.Brightness == nil {
		return brightness.DefaultPercent
	}
	return *c.Brightness
}

// RedrawOnLayoutOn reports redraw_on_layout, false when unset.
func (c *Config) RedrawOnLayoutOn() bool {
	return c.RedrawOnLayout != nil && *c.RedrawOnLayout
}

// Validate checks every field that would otherwise fail later.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("config: invalid dimensions %dx%d", c.Width, c.Height)
	}
	if _, err := c.Mode(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := c.MatrixLayout(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := c.BrightnessPolicy(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Power.LimitAmps < 0 {
		return fmt.Errorf("config: negative power.limit_amps %v", c.Power.LimitAmps)
	}
	switch c.Driver {
	case "", "spi", "console", "sim", "preview":
	default:
		return fmt.Errorf("config: unknown driver %q", c.Driver)
	}
	return nil
}
