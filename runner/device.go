package runner

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/coreman2200/ledmatrix/internal/config"
	"github.com/coreman2200/ledmatrix/internal/diagnostics"
	"github.com/coreman2200/ledmatrix/internal/led"
	"github.com/coreman2200/ledmatrix/model"
)

// DeviceOptions select and size the output device.
type DeviceOptions struct {
	Driver  string // "sim" | "console" | "spi" | "stream"
	Rows    int
	Cols    int
	Order   model.ChannelOrder
	SPIPort string
	Freq    physic.Frequency // stream bit rate; SPI always runs at led.SPIClock
	Pins    []string
	Limiter *led.Limiter
}

// DeviceOptionsFrom maps a validated config onto DeviceOptions.
func DeviceOptionsFrom(c *config.Config) (DeviceOptions, error) {
	order, err := model.ParseChannelOrder(c.ColorOrder)
	if err != nil {
		return DeviceOptions{}, err
	}
	opts := DeviceOptions{
		Driver:  c.Driver,
		Rows:    c.Rows,
		Cols:    c.Cols,
		Order:   order,
		SPIPort: c.SPI.Port,
		Freq:    physic.Frequency(c.SPI.FreqKHz) * physic.KiloHertz,
		Pins:    c.Pins,
	}
	if p := c.Power; p.BudgetmA > 0 || p.WhiteCap > 0 {
		lim := led.DefaultLimiter()
		lim.WhiteCap, lim.BudgetmA = p.WhiteCap, p.BudgetmA
		if p.ChannelmA > 0 {
			lim.ChannelmA = p.ChannelmA
		}
		if p.Knee > 0 {
			lim.Knee = p.Knee
		}
		opts.Limiter = lim
	}
	return opts, nil
}

// OpenDevice opens the requested driver. When LED hardware cannot be opened
// it falls back to the console once and returns the reason as a diagnostic.
func OpenDevice(o DeviceOptions) (led.Device, *diagnostics.Diagnostic, error) {
	count := o.Rows * o.Cols
	ch := o.Order.Channels()

	switch o.Driver {
	case "sim":
		s := led.NewSim(count, ch)
		s.Limiter = o.Limiter
		s.Keep = 1
		return s, nil, nil
	case "console":
		return led.NewConsole(count, o.Order), nil, nil
	case "spi", "stream":
	default:
		return nil, nil, fmt.Errorf("%w: unknown driver %q", config.ErrInvalid, o.Driver)
	}

	dev, err := openHardware(o, count, ch)
	if err != nil {
		d := diagnostics.Fallback(o.Driver, err)
		log.Warn().Err(err).Str("driver", o.Driver).Msg("LED hardware unavailable; drawing on the console")
		return led.NewConsole(count, o.Order), &d, nil
	}
	return dev, nil, nil
}

func openHardware(o DeviceOptions, count, ch int) (led.Device, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	if o.Driver == "spi" {
		s, err := led.OpenSPI(o.SPIPort, count, ch)
		if err != nil {
			return nil, err
		}
		s.Limiter = o.Limiter
		log.Info().Str("dev", s.String()).Int("leds", count).Msg("spi strip open")
		return s, nil
	}

	// One streamed pin per row. A pin count that differs from the row count
	// is caught by the matrix as a segment mismatch.
	if len(o.Pins) == 0 {
		return nil, fmt.Errorf("%w: driver stream needs pins", config.ErrInvalid)
	}
	segs := make([]led.Device, 0, len(o.Pins))
	closeAll := func() error {
		var errs []error
		for _, s := range segs {
			errs = append(errs, s.Close())
		}
		return errors.Join(errs...)
	}
	for _, pin := range o.Pins {
		s, err := led.OpenStream(pin, o.Cols, ch, o.Freq)
		if err != nil {
			return nil, errors.Join(err, closeAll())
		}
		s.Limiter = o.Limiter
		segs = append(segs, s)
	}
	dev, err := led.NewSegmented(segs...)
	if err != nil {
		return nil, errors.Join(err, closeAll())
	}
	log.Info().Strs("pins", o.Pins).Int("leds", dev.Len()).Msg("streamed strips open")
	return dev, nil
}
