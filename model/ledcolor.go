package model

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

const MAX_CHANNEL uint8 = 255

// Color is an RGB value with an optional white channel. White is only
// meaningful when HasWhite is set.
type Color struct {
	R, G, B  uint8
	W        uint8
	HasWhite bool
}

var (
	Black  = Color{}
	Red    = Color{R: 255}
	Green  = Color{G: 255}
	Blue   = Color{B: 255}
	Yellow = Color{R: 255, G: 255}
	Teal   = Color{G: 255, B: 255}
	Pink   = Color{R: 255, B: 255}
	White  = Color{R: 255, G: 255, B: 255}
)

var named = map[string]Color{
	"black":  Black,
	"red":    Red,
	"green":  Green,
	"blue":   Blue,
	"yellow": Yellow,
	"teal":   Teal,
	"pink":   Pink,
	"white":  White,
}

func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

func RGBW(r, g, b, w uint8) Color {
	return Color{R: r, G: g, B: b, W: w, HasWhite: true}
}

// ParseColor accepts a color name ("red") or a hex triplet ("#ff8800").
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if c, ok := named[strings.ToLower(s)]; ok {
		return c, nil
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	cf, err := colorful.Hex(s)
	if err != nil {
		return Black, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := cf.RGB255()
	return RGB(r, g, b), nil
}

// IsBlack reports whether every channel is off.
func (c Color) IsBlack() bool {
	return c.R == 0 && c.G == 0 && c.B == 0 && c.W == 0
}

// Scale multiplies each channel by v/255, the way 8-bit glyph coverage tints
// a text color.
func (c Color) Scale(v uint8) Color {
	s := func(ch uint8) uint8 { return uint8(uint16(ch) * uint16(v) / 255) }
	return Color{R: s(c.R), G: s(c.G), B: s(c.B), W: s(c.W), HasWhite: c.HasWhite}
}

// NRGBA folds the white channel into RGB for on-screen previews.
func (c Color) NRGBA() color.NRGBA {
	add := func(ch uint8) uint8 {
		if !c.HasWhite {
			return ch
		}
		v := uint16(ch) + uint16(c.W)
		if v > 255 {
			v = 255
		}
		return uint8(v)
	}
	return color.NRGBA{R: add(c.R), G: add(c.G), B: add(c.B), A: 255}
}

func (c Color) String() string {
	if c.HasWhite {
		return fmt.Sprintf("#%02x%02x%02x/%02x", c.R, c.G, c.B, c.W)
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

var ErrUnsupportedOrder = errors.New("unsupported channel order")

// ChannelOrder maps each logical channel to its slot in the transmitted
// tuple. White is -1 when the strip has no white LED.
type ChannelOrder struct {
	Red, Green, Blue, White int
}

var (
	OrderRGB  = ChannelOrder{Red: 0, Green: 1, Blue: 2, White: -1}
	OrderGRB  = ChannelOrder{Green: 0, Red: 1, Blue: 2, White: -1}
	OrderRGBW = ChannelOrder{Red: 0, Green: 1, Blue: 2, White: 3}
	OrderGRBW = ChannelOrder{Green: 0, Red: 1, Blue: 2, White: 3}
)

var orders = map[string]ChannelOrder{
	"RGB":  OrderRGB,
	"GRB":  OrderGRB,
	"RGBW": OrderRGBW,
	"GRBW": OrderGRBW,
}

func ParseChannelOrder(s string) (ChannelOrder, error) {
	o, ok := orders[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return ChannelOrder{}, fmt.Errorf("%w: %q", ErrUnsupportedOrder, s)
	}
	return o, nil
}

func (o ChannelOrder) HasWhite() bool {
	return o.White >= 0
}

// Channels is the tuple length the device expects.
func (o ChannelOrder) Channels() int {
	if o.HasWhite() {
		return 4
	}
	return 3
}

// Validate checks the populated slots form a permutation of 0..n-1.
func (o ChannelOrder) Validate() error {
	n := o.Channels()
	seen := make([]bool, n)
	for _, s := range o.slots() {
		if s < 0 || s >= n || seen[s] {
			return fmt.Errorf("%w: slots %v", ErrUnsupportedOrder, o.slots())
		}
		seen[s] = true
	}
	return nil
}

func (o ChannelOrder) slots() []int {
	if o.HasWhite() {
		return []int{o.Red, o.Green, o.Blue, o.White}
	}
	return []int{o.Red, o.Green, o.Blue}
}

// Encode writes c into dst in transmission order. dst must hold Channels()
// bytes. A white value is dropped when the order has no white slot.
func (o ChannelOrder) Encode(c Color, dst []byte) {
	dst[o.Red] = c.R
	dst[o.Green] = c.G
	dst[o.Blue] = c.B
	if o.HasWhite() {
		dst[o.White] = c.W
	}
}

// Decode is the inverse of Encode.
func (o ChannelOrder) Decode(raw []byte) Color {
	c := Color{R: raw[o.Red], G: raw[o.Green], B: raw[o.Blue]}
	if o.HasWhite() {
		c.W = raw[o.White]
		c.HasWhite = true
	}
	return c
}

func (o ChannelOrder) String() string {
	for k, v := range orders {
		if v == o {
			return k
		}
	}
	return fmt.Sprintf("ChannelOrder%v", o.slots())
}
