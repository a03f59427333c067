package runner

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/ledmatrix/internal/animation"
	"github.com/coreman2200/ledmatrix/internal/config"
	"github.com/coreman2200/ledmatrix/internal/diagnostics"
	"github.com/coreman2200/ledmatrix/internal/font"
	"github.com/coreman2200/ledmatrix/internal/led"
	"github.com/coreman2200/ledmatrix/internal/sequence"
	"github.com/coreman2200/ledmatrix/matrix"
	"github.com/coreman2200/ledmatrix/model"
)

// Params maps the animation knobs of a config onto animation.Params.
func Params(c *config.Config) (animation.Params, error) {
	p := animation.Params{
		Gradient: c.Gradient,
		Text:     c.Text,
		Static:   c.Static,
		Delay:    time.Duration(c.DelayMs) * time.Millisecond,
		Seed:     c.Seed,
		Sweep:    c.Sweep,
		Font:     font.Options{Antialias: c.Antialias},
	}
	if c.FontPath != "" {
		b, err := os.ReadFile(c.FontPath)
		if err != nil {
			return p, fmt.Errorf("font: %w", err)
		}
		p.Font.TTF = b
	}
	return p, nil
}

// NewMatrix builds the matrix described by c on dev.
func NewMatrix(c *config.Config, dev led.Device) (*matrix.Matrix, error) {
	l, err := c.Layout()
	if err != nil {
		return nil, err
	}
	order, err := model.ParseChannelOrder(c.ColorOrder)
	if err != nil {
		return nil, err
	}
	col, err := model.ParseColor(c.Color)
	if err != nil {
		return nil, err
	}
	m, err := matrix.New(matrix.Config{Layout: l, Order: order, DefaultColor: col}, dev)
	if err != nil {
		return nil, err
	}
	m.SetBrightness(c.Brightness)
	return m, nil
}

// Setup validates c, opens the device and builds a ready Looper. A non-nil
// diagnostic reports a hardware fallback. On error nothing is left open.
func Setup(c *config.Config, reg *animation.Registry) (*Looper, *diagnostics.Diagnostic, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}
	if reg == nil {
		reg = Animations()
	}
	p, err := Params(c)
	if err != nil {
		return nil, nil, err
	}
	var prog *sequence.Program
	if c.Program != "" {
		pr, err := sequence.LoadFile(c.Program)
		if err != nil {
			return nil, nil, err
		}
		prog = &pr
	}

	opts, err := DeviceOptionsFrom(c)
	if err != nil {
		return nil, nil, err
	}
	dev, fallback, err := OpenDevice(opts)
	if err != nil {
		return nil, nil, err
	}
	m, err := NewMatrix(c, dev)
	if err != nil {
		return nil, fallback, errors.Join(err, dev.Close())
	}

	l := &Looper{Matrix: m, Turns: c.Turns, Delay: p.Delay}
	if prog != nil {
		l.Turns = 0
		l.Player = NewShow(l, reg, p, c.Brightness)
		if err := l.Player.Load(*prog); err != nil {
			return nil, fallback, errors.Join(err, m.Close())
		}
		log.Info().Str("program", c.Program).Int("clips", len(prog.Clips)).Bool("loop", prog.Loop).Msg("program loaded")
		return l, fallback, nil
	}

	a, err := reg.New(c.Animation, m, p)
	if err != nil {
		return nil, fallback, errors.Join(err, m.Close())
	}
	l.Animation = a
	return l, fallback, nil
}

// NewShow returns a player whose clips swap the animation and frame delay of
// l. Clip overrides are applied over base; brightness envelopes scale the
// configured brightness.
func NewShow(l *Looper, reg *animation.Registry, base animation.Params, brightness float64) *sequence.Player {
	return sequence.NewPlayer(sequence.Hooks{
		SetAnimation: func(c sequence.Clip) error {
			p := base
			if c.Text != "" {
				p.Text = c.Text
			}
			if c.Gradient > 0 {
				p.Gradient = c.Gradient
			}
			if c.Sweep != "" {
				p.Sweep = c.Sweep
			}
			if c.DelayMs > 0 {
				p.Delay = time.Duration(c.DelayMs) * time.Millisecond
			}
			if l.Animation != nil {
				if err := animation.Release(l.Animation); err != nil {
					return fmt.Errorf("release %s: %w", l.Animation.Name(), err)
				}
				l.Animation = nil
			}
			if err := l.Matrix.Fill(model.Black); err != nil {
				return err
			}
			l.Matrix.SetBrightness(brightness)
			a, err := reg.New(c.Animation, l.Matrix, p)
			if err != nil {
				return fmt.Errorf("clip %q: %w", c.Name, err)
			}
			l.Animation = a
			l.Delay = p.Delay
			log.Debug().Str("clip", c.Name).Str("animation", c.Animation).Int("turns", c.Turns).Msg("clip start")
			return nil
		},
		SetBrightness: func(v float64) {
			l.Matrix.SetBrightness(v * brightness)
		},
	})
}
