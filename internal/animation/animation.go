package animation

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/coreman2200/ledmatrix/internal/font"
	"github.com/coreman2200/ledmatrix/matrix"
)

var ErrUnknown = errors.New("animation: unknown")

// Animation mutates a matrix one state at a time. NextState never renders
// or sleeps; the caller drives NextState, Render and the frame delay.
type Animation interface {
	Name() string
	NextState() error
}

// Finite animations report when they have nothing left to show.
type Finite interface {
	Done() bool
}

// Releaser is implemented by animations holding resources besides the
// matrix they draw on. Release leaves the matrix open.
type Releaser interface {
	Release() error
}

// Release frees a's own resources when it has any.
func Release(a Animation) error {
	if r, ok := a.(Releaser); ok {
		return r.Release()
	}
	return nil
}

// Params carries the knobs shared by every engine. Engines ignore what they
// don't use.
type Params struct {
	Gradient int           // colorcycle: steps of offset per row and column
	Text     string        // ticker
	Static   bool          // ticker: paint once instead of scrolling
	Delay    time.Duration // frame delay for helpers that pace themselves
	Seed     uint64        // 0 picks a random seed
	Font     font.Options
	Sweep    string // sweep kind
}

// Rand returns a generator seeded from Seed.
func (p Params) Rand() *rand.Rand {
	seed := p.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type Factory func(m *matrix.Matrix, p Params) (Animation, error)

type Registry struct{ m map[string]Factory }

func NewRegistry() *Registry { return &Registry{m: map[string]Factory{}} }

func (r *Registry) Register(name string, f Factory) {
	if f == nil {
		return
	}
	r.m[name] = f
}

func (r *Registry) Get(name string) (Factory, bool) { f, ok := r.m[name]; return f, ok }

func (r *Registry) New(name string, m *matrix.Matrix, p Params) (Animation, error) {
	f, ok := r.m[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	return f(m, p)
}

func (r *Registry) List() []string {
	out := make([]string, 0, len(r.m))
	for k := range r.m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
