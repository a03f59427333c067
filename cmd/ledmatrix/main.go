package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/ledmatrix/internal/config"
	"github.com/coreman2200/ledmatrix/internal/diagnostics"
	"github.com/coreman2200/ledmatrix/runner"
)

func main() {
	os.Exit(run())
}

func run() int {
	def := config.Default()
	var (
		configPath  = flag.String("config", "", "path to a YAML config; flags override it")
		rows        = flag.Int("rows", def.Rows, "matrix rows")
		cols        = flag.Int("cols", def.Cols, "matrix columns")
		origin      = flag.String("origin", def.Origin, "corner of the first LED: NORTHWEST NORTHEAST SOUTHWEST SOUTHEAST")
		orientation = flag.String("orientation", def.Orientation, "wiring: ROW COLUMN ALTERNATING_ROW ALTERNATING_COLUMN")
		order       = flag.String("order", def.ColorOrder, "channel order: RGB GRB RGBW GRBW")
		color       = flag.String("color", def.Color, "default color, a name or #rrggbb")
		anim        = flag.String("animation", def.Animation, "animation to run")
		turns       = flag.Int("turns", def.Turns, "frames to show, 0 runs until interrupted")
		delay       = flag.Int("delay", def.DelayMs, "frame delay in milliseconds")
		gradient    = flag.Int("gradient", def.Gradient, "colorcycle offset per row and column")
		text        = flag.String("text", def.Text, "ticker text; #rrggbb switches color inline")
		textFile    = flag.String("text-file", "", "read ticker text from a file")
		static      = flag.Bool("static", def.Static, "paint the ticker text once instead of scrolling")
		antialias   = flag.Bool("antialias", def.Antialias, "keep font coverage instead of on/off pixels")
		fontPath    = flag.String("font", "", "TrueType/OpenType font file, Go Mono when empty")
		sweepKind   = flag.String("sweep", "", "sweep kind: cell_sweep index_sweep rgb_channels")
		seed        = flag.Uint64("seed", 0, "random seed, 0 picks one")
		driver      = flag.String("driver", def.Driver, "driver: spi | stream | console | sim")
		spiPort     = flag.String("spi", "", "SPI port name, empty picks the first")
		pins        = flag.String("pins", "", "comma separated GPIO pins, one per row (stream driver)")
		brightness  = flag.Float64("brightness", def.Brightness, "global brightness 0..1")
		budget      = flag.Float64("budget-ma", 0, "power budget in mA, 0 disables the limiter")
		program     = flag.String("program", "", "YAML show program to play instead of -animation")
		writeConfig = flag.String("write-config", "", "write the effective config to this path and exit")
		verbose     = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg := &def
	if *configPath != "" {
		c, err := config.Load(*configPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			log.Warn().Str("path", *configPath).Msg("config not found; using flags")
		case err != nil:
			log.Error().Err(err).Str("path", *configPath).Msg("config load failed")
			return 2
		default:
			cfg = c
		}
	}

	// explicitly set flags win over the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "rows":
			cfg.Rows = *rows
		case "cols":
			cfg.Cols = *cols
		case "origin":
			cfg.Origin = *origin
		case "orientation":
			cfg.Orientation = *orientation
		case "order":
			cfg.ColorOrder = *order
		case "color":
			cfg.Color = *color
		case "animation":
			cfg.Animation = *anim
		case "turns":
			cfg.Turns = *turns
		case "delay":
			cfg.DelayMs = *delay
		case "gradient":
			cfg.Gradient = *gradient
		case "text":
			cfg.Text = *text
		case "static":
			cfg.Static = *static
		case "antialias":
			cfg.Antialias = *antialias
		case "font":
			cfg.FontPath = *fontPath
		case "sweep":
			cfg.Sweep = *sweepKind
		case "seed":
			cfg.Seed = *seed
		case "driver":
			cfg.Driver = *driver
		case "spi":
			cfg.SPI.Port = *spiPort
		case "pins":
			cfg.Pins = splitPins(*pins)
		case "brightness":
			cfg.Brightness = *brightness
		case "budget-ma":
			cfg.Power.BudgetmA = *budget
		case "program":
			cfg.Program = *program
		}
	})
	if *textFile != "" {
		b, err := os.ReadFile(*textFile)
		if err != nil {
			log.Error().Err(err).Str("path", *textFile).Msg("text file")
			return 2
		}
		cfg.Text = strings.TrimRight(string(b), "\r\n")
	}

	if *writeConfig != "" {
		if err := config.Save(*writeConfig, cfg); err != nil {
			log.Error().Err(err).Str("path", *writeConfig).Msg("write config")
			return 2
		}
		log.Info().Str("path", *writeConfig).Msg("config written")
		return 0
	}

	l, fallback, err := runner.Setup(cfg, nil)
	if fallback != nil {
		_ = diagnostics.Write(os.Stderr, []diagnostics.Diagnostic{*fallback})
	}
	if err != nil {
		_ = diagnostics.Write(os.Stderr, diagnostics.Diagnose(err))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := l.Run(ctx); err != nil {
		log.Error().Err(err).Msg("run failed")
		return 1
	}
	if ctx.Err() != nil {
		fmt.Fprintln(os.Stderr, "interrupted")
	}
	return 0
}

func splitPins(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
