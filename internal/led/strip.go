package led

import (
	"errors"
	"fmt"
	"io"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/gpio/gpiostream"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"

	"github.com/coreman2200/ledmatrix/model"
)

const (
	// DefaultFreq is the WS281x bit rate, used when streaming from a pin.
	DefaultFreq = 800 * physic.KiloHertz
	// SPIClock is the only clock nrzled accepts over SPI: three SPI bits per
	// NRZ bit at 800kHz, rounded up.
	SPIClock = 2500 * physic.KiloHertz
)

type nrz interface {
	Write(p []byte) (int, error)
	Halt() error
}

// Strip drives a WS281x/SK6812 strip through periph's nrzled encoder, either
// over an SPI port or a streaming GPIO pin.
type Strip struct {
	*Buffer
	Limiter *Limiter

	name   string
	dev    nrz
	port   io.Closer
	out    []byte
	closed bool
}

func opts(count, channels int, freq physic.Frequency) *nrzled.Opts {
	if freq <= 0 {
		freq = DefaultFreq
	}
	return &nrzled.Opts{NumPixels: count, Channels: channels, Freq: freq}
}

// NewSPIStrip wraps an already opened port. The port is not closed by Close.
// nrzled cannot send a white channel over SPI, so only three channel strips
// are accepted.
func NewSPIStrip(p spi.Port, count, channels int) (*Strip, error) {
	if channels != 3 {
		return nil, fmt.Errorf("%w: spi strips carry 3 channels, got %d", model.ErrUnsupportedOrder, channels)
	}
	d, err := nrzled.NewSPI(p, opts(count, channels, SPIClock))
	if err != nil {
		return nil, fmt.Errorf("nrzled spi: %w", err)
	}
	return &Strip{Buffer: NewBuffer(count, channels), name: d.String(), dev: d}, nil
}

// OpenSPI opens the named SPI port ("" picks the first one) and owns it.
func OpenSPI(name string, count, channels int) (*Strip, error) {
	p, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open spi %q: %w", name, err)
	}
	s, err := NewSPIStrip(p, count, channels)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	s.port = p
	return s, nil
}

// OpenStream drives a strip from a single GPIO pin capable of bit streaming.
func OpenStream(pin string, count, channels int, freq physic.Frequency) (*Strip, error) {
	p := gpioreg.ByName(pin)
	if p == nil {
		return nil, fmt.Errorf("gpio %q: not found", pin)
	}
	out, ok := p.(gpiostream.PinOut)
	if !ok {
		return nil, fmt.Errorf("gpio %q: pin cannot stream", pin)
	}
	d, err := nrzled.NewStream(out, opts(count, channels, freq))
	if err != nil {
		return nil, fmt.Errorf("nrzled stream %q: %w", pin, err)
	}
	return &Strip{Buffer: NewBuffer(count, channels), name: d.String(), dev: d}, nil
}

func (s *Strip) String() string { return s.name }

func (s *Strip) Show() error {
	if s.closed {
		return ErrClosed
	}
	s.out = s.frame(s.out, s.Limiter)
	wireOrder(s.out, s.channels)
	if _, err := s.dev.Write(s.out); err != nil {
		return fmt.Errorf("%s write: %w", s.name, err)
	}
	return nil
}

// wireOrder undoes the swap nrzled applies to every pixel (it sends input
// bytes 1, 0, 2 and then 3), so the strip receives the tuple exactly as the
// channel order encoded it.
func wireOrder(buf []byte, channels int) {
	for i := 0; i+channels <= len(buf); i += channels {
		buf[i], buf[i+1] = buf[i+1], buf[i]
	}
}

func (s *Strip) Close() error {
	if s.closed {
		return nil
	}
	s.blank()
	err := s.Show()
	s.closed = true
	err = errors.Join(err, s.dev.Halt())
	if s.port != nil {
		err = errors.Join(err, s.port.Close())
	}
	return err
}
