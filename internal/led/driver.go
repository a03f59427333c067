package led

import (
	"errors"
	"fmt"
)

var (
	ErrIndex    = errors.New("led: index out of range")
	ErrChannels = errors.New("led: pixel width does not match channel count")
	ErrClosed   = errors.New("led: device closed")
)

// Device is an addressable strip. Pixels are raw channel tuples already in
// transmission order; nothing reaches the LEDs until Show.
type Device interface {
	Len() int
	Channels() int
	// Get returns a copy of pixel i.
	Get(i int) []byte
	Set(i int, px []byte) error
	Fill(px []byte) error
	// SetBrightness scales output in [0,1]. The stored pixels are untouched.
	SetBrightness(b float64)
	Show() error
	// Close blanks the strip and releases the hardware. Safe to call twice.
	Close() error
}

// Buffer is the per-device pixel store shared by every Device implementation.
type Buffer struct {
	raw        []byte
	channels   int
	brightness float64
}

func NewBuffer(count, channels int) *Buffer {
	return &Buffer{
		raw:        make([]byte, count*channels),
		channels:   channels,
		brightness: 1,
	}
}

func (b *Buffer) Len() int      { return len(b.raw) / b.channels }
func (b *Buffer) Channels() int { return b.channels }

func (b *Buffer) Get(i int) []byte {
	if i < 0 || i >= b.Len() {
		return nil
	}
	px := make([]byte, b.channels)
	copy(px, b.raw[i*b.channels:])
	return px
}

func (b *Buffer) Set(i int, px []byte) error {
	if i < 0 || i >= b.Len() {
		return fmt.Errorf("%w: %d of %d", ErrIndex, i, b.Len())
	}
	if len(px) != b.channels {
		return fmt.Errorf("%w: got %d want %d", ErrChannels, len(px), b.channels)
	}
	copy(b.raw[i*b.channels:], px)
	return nil
}

func (b *Buffer) Fill(px []byte) error {
	if len(px) != b.channels {
		return fmt.Errorf("%w: got %d want %d", ErrChannels, len(px), b.channels)
	}
	for i := 0; i < len(b.raw); i += b.channels {
		copy(b.raw[i:], px)
	}
	return nil
}

func (b *Buffer) SetBrightness(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	b.brightness = v
}

func (b *Buffer) Brightness() float64 { return b.brightness }

func (b *Buffer) blank() {
	for i := range b.raw {
		b.raw[i] = 0
	}
}

// frame writes the brightness scaled, power limited output into dst, growing
// it as needed.
func (b *Buffer) frame(dst []byte, lim *Limiter) []byte {
	if cap(dst) < len(b.raw) {
		dst = make([]byte, len(b.raw))
	}
	dst = dst[:len(b.raw)]
	if b.brightness >= 1 {
		copy(dst, b.raw)
	} else {
		for i, v := range b.raw {
			dst[i] = uint8(float64(v) * b.brightness)
		}
	}
	lim.Apply(dst, b.channels)
	return dst
}
