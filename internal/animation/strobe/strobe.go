package strobe

import (
	"math/rand/v2"

	"github.com/coreman2200/ledmatrix/internal/animation"
	"github.com/coreman2200/ledmatrix/matrix"
	"github.com/coreman2200/ledmatrix/model"
)

const Name = "strobe"

// Strobe fills the whole matrix with a new random color every step.
type Strobe struct {
	*matrix.Matrix
	rnd *rand.Rand
}

func New(m *matrix.Matrix, rnd *rand.Rand) *Strobe {
	if rnd == nil {
		rnd = animation.Params{}.Rand()
	}
	return &Strobe{Matrix: m, rnd: rnd}
}

func Factory(m *matrix.Matrix, p animation.Params) (animation.Animation, error) {
	return New(m, p.Rand()), nil
}

func (s *Strobe) Name() string { return Name }

func (s *Strobe) channel() uint8 { return uint8(s.rnd.IntN(256)) }

func (s *Strobe) NextState() error {
	c := model.RGB(s.channel(), s.channel(), s.channel())
	if s.Order().HasWhite() {
		c = model.RGBW(c.R, c.G, c.B, s.channel())
	}
	return s.Fill(c)
}
