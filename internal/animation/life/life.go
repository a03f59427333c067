// Package life plays Conway's Game of Life on a toroidal board: cells on
// opposite edges are neighbors.
package life

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sort"

	"github.com/coreman2200/ledmatrix/internal/animation"
	"github.com/coreman2200/ledmatrix/matrix"
	"github.com/coreman2200/ledmatrix/model"
)

const Name = "life"

// Density is the chance a cell starts dead.
const Density = 0.7

type Cell struct {
	Row, Col int
}

type Life struct {
	*matrix.Matrix
	alive  map[Cell]struct{}
	rnd    *rand.Rand
	seed   []Cell
	seeded bool
}

type Option func(*Life)

// WithCells starts from an explicit pattern instead of a random board.
func WithCells(cells ...Cell) Option {
	return func(l *Life) {
		l.seed = append(l.seed, cells...)
		l.seeded = true
	}
}

func WithRand(r *rand.Rand) Option {
	return func(l *Life) { l.rnd = r }
}

func New(m *matrix.Matrix, opts ...Option) (*Life, error) {
	l := &Life{Matrix: m, alive: map[Cell]struct{}{}}
	for _, o := range opts {
		o(l)
	}

	if l.seeded {
		for _, c := range l.seed {
			if c.Row < 0 || c.Row >= m.Height() || c.Col < 0 || c.Col >= m.Width() {
				return nil, fmt.Errorf("%w: seed cell %v", matrix.ErrOutOfRange, c)
			}
			l.alive[c] = struct{}{}
		}
	} else {
		if l.rnd == nil {
			l.rnd = animation.Params{}.Rand()
		}
		for r := 0; r < m.Height(); r++ {
			for c := 0; c < m.Width(); c++ {
				if l.rnd.Float64() > Density {
					l.alive[Cell{r, c}] = struct{}{}
				}
			}
		}
	}
	return l, l.paint()
}

func Factory(m *matrix.Matrix, p animation.Params) (animation.Animation, error) {
	return New(m, WithRand(p.Rand()))
}

func (l *Life) Name() string { return Name }

func (l *Life) Alive(c Cell) bool {
	_, ok := l.alive[c]
	return ok
}

func (l *Life) Population() int { return len(l.alive) }

// Cells returns the live cells in row-major order.
func (l *Life) Cells() []Cell {
	out := make([]Cell, 0, len(l.alive))
	for c := range l.alive {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

// neighbors returns the distinct cells around c, wrapped around the board.
// Boards narrower than 3 cells have fewer than 8.
func (l *Life) neighbors(c Cell) []Cell {
	h, w := l.Height(), l.Width()
	out := make([]Cell, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			nb := Cell{
				Row: (c.Row + dr + h) % h,
				Col: (c.Col + dc + w) % w,
			}
			if !slices.Contains(out, nb) {
				out = append(out, nb)
			}
		}
	}
	return out
}

func (l *Life) willLive(c Cell) bool {
	n := 0
	for _, nb := range l.neighbors(c) {
		if l.Alive(nb) {
			n++
		}
	}
	switch {
	case n == 3:
		return true
	case !l.Alive(c):
		return false
	default:
		return n == 2
	}
}

func (l *Life) NextState() error {
	next := map[Cell]struct{}{}
	for c := range l.alive {
		if l.willLive(c) {
			next[c] = struct{}{}
		}
		for _, nb := range l.neighbors(c) {
			if l.willLive(nb) {
				next[nb] = struct{}{}
			}
		}
	}
	l.alive = next
	return l.paint()
}

func (l *Life) paint() error {
	for r := 0; r < l.Height(); r++ {
		for c := 0; c < l.Width(); c++ {
			px := model.Black
			if l.Alive(Cell{r, c}) {
				px = l.DefaultColor()
			}
			if err := l.Set(r, c, px); err != nil {
				return err
			}
		}
	}
	return nil
}
