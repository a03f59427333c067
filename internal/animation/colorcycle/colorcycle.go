// Package colorcycle walks every pixel around the red, green, blue color
// wheel with a positional offset, drawing a moving diagonal rainbow.
package colorcycle

import (
	"github.com/coreman2200/ledmatrix/internal/animation"
	"github.com/coreman2200/ledmatrix/matrix"
	"github.com/coreman2200/ledmatrix/model"
)

const Name = "colorcycle"

// Period is the number of steps that bring a wheel color back to itself.
const Period = 3 * int(model.MAX_CHANNEL)

// Next returns the color one step further around the wheel. The full value
// moves from red to green, green to blue and blue back to red, one unit per
// step. It is a crossfade, so the wheel never rests on yellow, teal or pink:
// halfway from red to green is (127,128,0). Colors off the wheel (no channel
// at zero) drift onto it by lowering their weakest channel. Black is left as
// is.
func Next(c model.Color) model.Color {
	switch {
	case c.B == 0 && c.R > 0:
		c.R--
		c.G = inc(c.G)
	case c.R == 0 && c.G > 0:
		c.G--
		c.B = inc(c.B)
	case c.G == 0 && c.B > 0:
		c.B--
		c.R = inc(c.R)
	case c.R == 0 && c.G == 0 && c.B == 0:
	default:
		switch {
		case c.R <= c.G && c.R <= c.B:
			c.R--
		case c.G <= c.B:
			c.G--
		default:
			c.B--
		}
	}
	return c
}

func inc(v uint8) uint8 {
	if v == model.MAX_CHANNEL {
		return v
	}
	return v + 1
}

// Advance applies Next n times.
func Advance(c model.Color, n int) model.Color {
	for i := 0; i < n; i++ {
		c = Next(c)
	}
	return c
}

type ColorCycle struct {
	*matrix.Matrix
}

// New seeds cell (r, c) with the default color advanced r*gradient then
// c*gradient steps.
func New(m *matrix.Matrix, gradient int) (*ColorCycle, error) {
	if err := m.Fill(m.DefaultColor()); err != nil {
		return nil, err
	}
	for r := 0; r < m.Height(); r++ {
		for c := 0; c < m.Width(); c++ {
			px := Advance(m.DefaultColor(), r*gradient)
			px = Advance(px, c*gradient)
			if err := m.Set(r, c, px); err != nil {
				return nil, err
			}
		}
	}
	return &ColorCycle{Matrix: m}, nil
}

func Factory(m *matrix.Matrix, p animation.Params) (animation.Animation, error) {
	return New(m, p.Gradient)
}

func (cc *ColorCycle) Name() string { return Name }

func (cc *ColorCycle) NextState() error {
	for r := 0; r < cc.Height(); r++ {
		for c := 0; c < cc.Width(); c++ {
			px, err := cc.At(r, c)
			if err != nil {
				return err
			}
			if err := cc.Set(r, c, Next(px)); err != nil {
				return err
			}
		}
	}
	return nil
}
