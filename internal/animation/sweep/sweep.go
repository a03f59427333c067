// Package sweep holds wiring tests: patterns that make a miswired origin or
// orientation obvious at a glance.
package sweep

import (
	"fmt"

	"github.com/coreman2200/ledmatrix/internal/animation"
	"github.com/coreman2200/ledmatrix/matrix"
	"github.com/coreman2200/ledmatrix/model"
)

const Name = "sweep"

type Kind string

const (
	// CellSweep lights logical cells one at a time in row-major order.
	CellSweep Kind = "cell_sweep"
	// IndexSweep lights strip pixels in physical order.
	IndexSweep Kind = "index_sweep"
	RGBTest    Kind = "rgb_channels"
)

type Sweep struct {
	*matrix.Matrix
	kind Kind
	step int
}

func New(m *matrix.Matrix, kind Kind) (*Sweep, error) {
	switch kind {
	case "":
		kind = CellSweep
	case CellSweep, IndexSweep, RGBTest:
	default:
		return nil, fmt.Errorf("sweep: unknown kind %q", kind)
	}
	return &Sweep{Matrix: m, kind: kind}, nil
}

func Factory(m *matrix.Matrix, p animation.Params) (animation.Animation, error) {
	return New(m, Kind(p.Sweep))
}

func (s *Sweep) Name() string { return Name }
func (s *Sweep) Kind() Kind   { return s.kind }

// Steps is the length of one pass.
func (s *Sweep) Steps() int {
	if s.kind == RGBTest {
		return 3
	}
	return s.Layout().Count()
}

func (s *Sweep) Done() bool { return s.step >= s.Steps() }

func (s *Sweep) color() model.Color {
	if c := s.DefaultColor(); !c.IsBlack() {
		return c
	}
	return model.White
}

func (s *Sweep) NextState() error {
	if s.Done() {
		return nil
	}
	if err := s.Fill(model.Black); err != nil {
		return err
	}

	var err error
	switch s.kind {
	case CellSweep:
		err = s.Set(s.step/s.Width(), s.step%s.Width(), s.color())
	case IndexSweep:
		r, c := s.Layout().Coordinate(s.step)
		err = s.Set(r, c, s.color())
	case RGBTest:
		err = s.Fill([]model.Color{model.Red, model.Green, model.Blue}[s.step%3])
	}
	if err != nil {
		return err
	}
	s.step++
	return nil
}
