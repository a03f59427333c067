package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coreman2200/ledmatrix/internal/layout"
	"github.com/coreman2200/ledmatrix/model"
)

type PowerCfg struct {
	BudgetmA  float64 `yaml:"budget_ma"`
	ChannelmA float64 `yaml:"channel_ma"`
	WhiteCap  float64 `yaml:"white_cap"`
	Knee      float64 `yaml:"knee"`
}

type SPI struct {
	Port    string `yaml:"port"`     // periph port name, "" picks the first
	FreqKHz int    `yaml:"freq_khz"` // NRZ bit rate of streamed pins, 800 for WS2812
}

type Config struct {
	Driver      string  `yaml:"driver"` // "sim" | "console" | "spi" | "stream"
	Rows        int     `yaml:"rows"`
	Cols        int     `yaml:"cols"`
	Origin      string  `yaml:"origin"`
	Orientation string  `yaml:"orientation"`
	ColorOrder  string  `yaml:"color_order"`
	Color       string  `yaml:"color"`
	Brightness  float64 `yaml:"brightness"`

	Animation string `yaml:"animation"`
	Turns     int    `yaml:"turns"`
	DelayMs   int    `yaml:"delay_ms"`
	Gradient  int    `yaml:"gradient"`
	Text      string `yaml:"text,omitempty"`
	Static    bool   `yaml:"static,omitempty"`
	Seed      uint64 `yaml:"seed,omitempty"`
	FontPath  string `yaml:"font,omitempty"`
	Antialias bool   `yaml:"antialias"`
	Sweep     string `yaml:"sweep,omitempty"`
	Program   string `yaml:"program,omitempty"`

	SPI   SPI      `yaml:"spi,omitempty"`
	Pins  []string `yaml:"pins,omitempty"` // one streamed data pin per row
	Power PowerCfg `yaml:"power"`
}

func Default() Config {
	return Config{
		Driver:      "spi",
		Rows:        7,
		Cols:        10,
		Origin:      "NORTHEAST",
		Orientation: "ALTERNATING_COLUMN",
		ColorOrder:  "GRB",
		Color:       "red",
		Brightness:  1,
		Animation:   "colorcycle",
		Turns:       1024,
		DelayMs:     20,
		Gradient:    1,
		Text:        "Hello, World!",
		Antialias:   true,
		SPI:         SPI{FreqKHz: 800},
		Power:       PowerCfg{ChannelmA: 20, Knee: 0.9},
	}
}

// Load reads path over the defaults, so a partial file only overrides what
// it names.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
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

var ErrInvalid = errors.New("invalid config")

// Layout parses the wiring fields.
func (c *Config) Layout() (layout.Layout, error) {
	o, err := layout.ParseOrigin(c.Origin)
	if err != nil {
		return layout.Layout{}, err
	}
	or, err := layout.ParseOrientation(c.Orientation)
	if err != nil {
		return layout.Layout{}, err
	}
	l := layout.Layout{Width: c.Cols, Height: c.Rows, Origin: o, Orientation: or}
	return l, l.Validate()
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.Layout(); err != nil {
		errs = append(errs, err)
	}
	if _, err := model.ParseChannelOrder(c.ColorOrder); err != nil {
		errs = append(errs, err)
	}
	if _, err := model.ParseColor(c.Color); err != nil {
		errs = append(errs, err)
	}
	if c.Brightness < 0 || c.Brightness > 1 {
		errs = append(errs, fmt.Errorf("%w: brightness %v outside [0,1]", ErrInvalid, c.Brightness))
	}
	if c.Turns < 0 || c.DelayMs < 0 || c.Gradient < 0 {
		errs = append(errs, fmt.Errorf("%w: turns, delay and gradient must not be negative", ErrInvalid))
	}
	switch c.Driver {
	case "sim", "console":
	case "spi":
		if o, err := model.ParseChannelOrder(c.ColorOrder); err == nil && o.HasWhite() {
			errs = append(errs, fmt.Errorf("%w: %w: %s needs a white channel, spi sends three", ErrInvalid, model.ErrUnsupportedOrder, c.ColorOrder))
		}
	case "stream":
		if len(c.Pins) == 0 {
			errs = append(errs, fmt.Errorf("%w: driver stream needs pins", ErrInvalid))
		} else if len(c.Pins) != c.Rows {
			errs = append(errs, fmt.Errorf("%w: %d rows but %d pins", ErrInvalid, c.Rows, len(c.Pins)))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: unknown driver %q", ErrInvalid, c.Driver))
	}
	return errors.Join(errs...)
}
