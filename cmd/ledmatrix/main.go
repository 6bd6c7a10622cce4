package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/host/v3"

	"github.com/coreman2200/ledmatrix/internal/config"
	"github.com/coreman2200/ledmatrix/internal/demo"
	"github.com/coreman2200/ledmatrix/internal/led"
	"github.com/coreman2200/ledmatrix/internal/matrix"
	"github.com/coreman2200/ledmatrix/internal/ws"
	"github.com/coreman2200/ledmatrix/model"
)

func main() {
	// ---- Flags (remain usable; config.yaml can override most) ----
	def := config.Default()
	var (
		width      = flag.Int("width", def.Width, "LEDs per row")
		height     = flag.Int("height", def.Height, "LED rows")
		pin        = flag.String("pin", def.Pin, "output pin / SPI port name")
		colorMode  = flag.String("color", def.ColorMode, "LED color mode: RGB | GRB | GRBW")
		bright     = flag.Int("brightness", def.BrightnessPercent(), "brightness percent 0..100")
		policy     = flag.String("policy", def.Policy, "brightness policy: per_channel | uniform")
		corner     = flag.String("corner", def.Layout.Corner, "first LED corner")
		axis       = flag.String("axis", def.Layout.Axis, "serial run axis: horizontal | vertical")
		traversal  = flag.String("traversal", def.Layout.Traversal, "progressive | zigzag")
		driver     = flag.String("driver", def.Driver, "driver: spi | console | sim | preview")
		addr       = flag.String("addr", "", "preview HTTP listen address, e.g. :8080")
		pattern    = flag.String("demo", def.Demo.Pattern, "demo: pattern | scan | fade | fill | none")
		fill       = flag.String("fill", "", "fill color as hex, for -demo fill")
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		writeCfg   = flag.String("write-config", "", "write the effective config to this path and exit")
		simOnly    = flag.Bool("sim-only", false, "force simulation (no hardware output)")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: colorable.NewColorableStdout(), TimeFormat: time.Kitchen})

	// ---- Effective config: flags, then config.yaml where set ----
	cfg := def
	cfg.Width, cfg.Height, cfg.Pin = *width, *height, *pin
	cfg.ColorMode, cfg.Brightness, cfg.Policy = *colorMode, bright, *policy
	cfg.Layout = config.Layout{Corner: *corner, Axis: *axis, Traversal: *traversal}
	cfg.Driver = *driver
	cfg.Preview.Addr = *addr
	cfg.Demo.Pattern, cfg.Demo.Color = *pattern, *fill

	if c, err := config.Load(*configPath); err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with flags")
	} else {
		overlay(cfg, c)
	}
	if *simOnly {
		cfg.Driver = "sim"
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if *writeCfg != "" {
		if err := config.Save(*writeCfg, cfg); err != nil {
			log.Fatal().Err(err).Str("path", *writeCfg).Msg("write config")
		}
		log.Info().Str("path", *writeCfg).Msg("config written")
		return
	}

	mode, _ := cfg.Mode()
	lay, _ := cfg.MatrixLayout()
	pol, _ := cfg.BrightnessPolicy()
	kind, err := demo.ParseKind(cfg.Demo.Pattern)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid demo")
	}
	fillColor, err := parseHex(cfg.Demo.Color)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid fill color")
	}

	// ---- Preview hub (optional, or the only sink with driver=preview) ----
	var hub *ws.Hub
	if cfg.Preview.Addr != "" || cfg.Driver == "preview" {
		hub = ws.NewHub(mode, ws.Topology{
			Pin:    cfg.Pin,
			Width:  cfg.Width,
			Height: cfg.Height,
			Layout: lay.String(),
			Driver: cfg.Driver,
		})
		hub.SetLimitAmps(cfg.Power.LimitAmps)
		if cfg.Preview.Addr == "" {
			cfg.Preview.Addr = ":8080"
		}
	}

	// ---- Driver selection ----
	pixels := cfg.Width * cfg.Height
	var drv led.Driver
	switch cfg.Driver {
	case "spi":
		if _, err := host.Init(); err != nil {
			log.Warn().Err(err).Msg("periph host init failed; falling back to SIM")
			drv = led.NewSim()
			break
		}
		port := cfg.SPI.Port
		if port == "" {
			port = cfg.Pin
		}
		d, err := led.OpenSPI(led.Pin(port), pixels, mode.Stride())
		if err != nil {
			log.Warn().Err(err).
				Str("driver", "spi").
				Str("port", port).
				Str("mode", mode.String()).
				Msg("SPI init failed; falling back to SIM")
			drv = led.NewSim()
		} else {
			log.Info().Str("dev", d.String()).Msg("SPI ready")
			drv = d
		}
	case "console":
		drv = led.NewConsole(mode, pixels)
	case "preview":
		drv = hub
	default:
		drv = led.NewSim()
	}
	if hub != nil && cfg.Driver != "preview" {
		drv = led.Multi(drv, hub)
	}

	bus := led.NewBus()
	bus.Attach(led.Pin(cfg.Pin), drv)

	m, err := matrix.New(
		matrix.Config{Pin: led.Pin(cfg.Pin), Width: cfg.Width, Height: cfg.Height, Mode: mode},
		bus,
		matrix.WithBrightness(cfg.BrightnessPercent()),
		matrix.WithPolicy(pol),
		matrix.WithLayout(lay),
		matrix.WithAutoUpdate(cfg.AutoUpdateOn()),
		matrix.WithRedrawOnLayout(cfg.RedrawOnLayoutOn()),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("matrix")
	}
	log.Info().
		Str("matrix", m.String()).
		Str("layout", lay.String()).
		Int("brightness", m.Brightness()).
		Str("policy", pol.String()).
		Msg("matrix ready")

	// ---- HTTP routes ----
	var srv *http.Server
	if hub != nil {
		mux := http.NewServeMux()
		mux.HandleFunc("/ws", hub.HandleFramesWS)
		mux.HandleFunc("/diag", hub.HandleDiagWS)
		mux.HandleFunc("/health", hub.HandleHealth)
		srv = &http.Server{
			Addr:         cfg.Preview.Addr,
			Handler:      withCORS(mux),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			log.Info().Str("addr", srv.Addr).Str("driver", cfg.Driver).Msg("HTTP server starting")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatal().Err(err).Msg("http server crashed")
			}
		}()
	}

	// ---- Demo ----
	ctx, cancel := context.WithCancel(context.Background())
	runner := demo.NewRunner(demo.Plan{
		Kind:    kind,
		Repeat:  cfg.Demo.Repeat,
		PauseMs: cfg.Demo.PauseMs,
		Color:   fillColor,
	}, demo.Sleep)
	done := startDemo(ctx, runner, m)

	// ---- Graceful shutdown ----
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	s := <-ch
	log.Info().Str("signal", s.String()).Msg("shutting down")

	// The matrix is single-owner: the demo must be finished before Halt.
	cancel()
	<-done
	if srv != nil {
		_ = srv.Close()
	}
	if err := m.Halt(); err != nil {
		log.Warn().Err(err).Msg("halt")
	}
	if err := bus.Close(); err != nil {
		log.Warn().Err(err).Msg("close drivers")
	}
}

// startDemo runs r on m in the background. The returned channel closes once
// r no longer touches m.
func startDemo(ctx context.Context, r *demo.Runner, m *matrix.Matrix) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := r.Run(ctx, m); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Str("demo", string(r.Kind())).Msg("demo failed")
			return
		}
		log.Info().Str("demo", string(r.Kind())).Msg("demo done")
	}()
	return done
}

// overlay copies every field set in src over dst.
func overlay(dst, src *config.Config) {
	if src.Driver != "" {
		dst.Driver = src.Driver
	}
	if src.Pin != "" {
		dst.Pin = src.Pin
	}
	if src.Width > 0 {
		dst.Width = src.Width
	}
	if src.Height > 0 {
		dst.Height = src.Height
	}
	if src.ColorMode != "" {
		dst.ColorMode = src.ColorMode
	}
	if src.Brightness != nil {
		dst.Brightness = src.Brightness
	}
	if src.Policy != "" {
		dst.Policy = src.Policy
	}
	if src.AutoUpdate != nil {
		dst.AutoUpdate = src.AutoUpdate
	}
	if src.RedrawOnLayout != nil {
		dst.RedrawOnLayout = src.RedrawOnLayout
	}
	if src.Layout.Corner != "" {
		dst.Layout.Corner = src.Layout.Corner
	}
	if src.Layout.Axis != "" {
		dst.Layout.Axis = src.Layout.Axis
	}
	if src.Layout.Traversal != "" {
		dst.Layout.Traversal = src.Layout.Traversal
	}
	if src.SPI.Port != "" {
		dst.SPI.Port = src.SPI.Port
	}
	if src.Preview.Addr != "" {
		dst.Preview.Addr = src.Preview.Addr
	}
	if src.Power.LimitAmps > 0 {
		dst.Power.LimitAmps = src.Power.LimitAmps
	}
	if src.Demo.Pattern != "" {
		dst.Demo.Pattern = src.Demo.Pattern
	}
	if src.Demo.Repeat > 0 {
		dst.Demo.Repeat = src.Demo.Repeat
	}
	if src.Demo.PauseMs > 0 {
		dst.Demo.PauseMs = src.Demo.PauseMs
	}
	if src.Demo.Color != "" {
		dst.Demo.Color = src.Demo.Color
	}
}

// parseHex reads "ff8800", "#ff8800" or "0xff8800"; empty is white.
func parseHex(s string) (model.Color, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "#"), "0x")
	if s == "" {
		return model.White, nil
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil || v > 0xFFFFFF {
		return 0, fmt.Errorf("bad color %q", s)
	}
	return model.Color(v), nil
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h.ServeHTTP(w, r)
	})
}
