package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/ledmatrix/internal/animation"
	"github.com/coreman2200/ledmatrix/internal/sequence"
	"github.com/coreman2200/ledmatrix/matrix"
)

// Looper drives an animation on a matrix: NextState, Render, then wait out
// the frame delay. It owns the matrix and closes it when Run returns.
type Looper struct {
	Matrix    *matrix.Matrix
	Animation animation.Animation
	Turns     int // 0 runs until the context is done
	Delay     time.Duration

	// Player, when set, sequences clips and decides when the run ends.
	Player *sequence.Player

	// Sleep waits between frames; tests swap it out.
	Sleep func(ctx context.Context, d time.Duration) error

	turn int
}

// Turn reports how many frames have been rendered.
func (l *Looper) Turn() int { return l.turn }

// Run loops until the turns are spent, a finite animation is done, the
// program ends or ctx is cancelled. Cancellation is a normal stop. The matrix
// is closed on every exit path, including a panic in an animation.
func (l *Looper) Run(ctx context.Context) (err error) {
	if l.Matrix == nil {
		return errors.New("runner: no matrix")
	}
	defer func() {
		if l.Animation != nil {
			if rerr := animation.Release(l.Animation); rerr != nil {
				err = errors.Join(err, fmt.Errorf("release %s: %w", l.Animation.Name(), rerr))
			}
		}
		if cerr := l.Matrix.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close: %w", cerr))
		}
	}()
	if l.Sleep == nil {
		l.Sleep = animation.Sleep
	}
	if l.Player != nil {
		if err := l.Player.Start(); err != nil {
			return err
		}
	}
	if l.Animation == nil {
		return errors.New("runner: no animation")
	}

	start := time.Now()
	log.Info().Str("animation", l.Animation.Name()).Int("turns", l.Turns).Dur("delay", l.Delay).Msg("run start")
	defer func() {
		log.Info().Int("frames", l.turn).Dur("elapsed", time.Since(start)).Msg("run stop")
	}()

	for l.Turns <= 0 || l.turn < l.Turns {
		if ctx.Err() != nil {
			return nil
		}
		if f, ok := l.Animation.(animation.Finite); ok && f.Done() && l.Player == nil {
			return nil
		}
		if err := l.step(); err != nil {
			return err
		}
		if err := l.Sleep(ctx, l.Delay); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if l.Player != nil {
			more, err := l.Player.Tick()
			if err != nil {
				return err
			}
			if !more {
				return nil
			}
		}
	}
	return nil
}

func (l *Looper) step() error {
	// a finished animation inside a show holds its last frame
	if f, ok := l.Animation.(animation.Finite); !ok || !f.Done() {
		if err := l.Animation.NextState(); err != nil {
			return fmt.Errorf("%s: %w", l.Animation.Name(), err)
		}
	}
	if err := l.Matrix.Render(); err != nil {
		return err
	}
	l.turn++
	if l.turn%256 == 0 {
		log.Debug().Int("frame", l.turn).Msg("tick")
	}
	return nil
}
