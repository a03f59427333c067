// Package ticker renders text on the matrix, either painted once or
// scrolled in from the right edge one column per step.
package ticker

import (
	"context"
	"errors"
	"time"

	"github.com/coreman2200/ledmatrix/internal/animation"
	"github.com/coreman2200/ledmatrix/internal/font"
	"github.com/coreman2200/ledmatrix/matrix"
	"github.com/coreman2200/ledmatrix/model"
)

const Name = "ticker"

type Ticker struct {
	*matrix.Matrix
	font *font.Font

	text *font.Bitmap
	step int

	// Sleep paces WriteScroll; tests swap it out.
	Sleep func(ctx context.Context, d time.Duration) error
}

// New builds a font sized to the matrix height. The text color defaults to
// the matrix default color.
func New(m *matrix.Matrix, opts font.Options) (*Ticker, error) {
	opts.Height = m.Height()
	if opts.Color == model.Black {
		opts.Color = m.DefaultColor()
	}
	f, err := font.New(opts)
	if err != nil {
		return nil, err
	}
	return &Ticker{Matrix: m, font: f, Sleep: animation.Sleep}, nil
}

// Factory loads p.Text for scrolling, or paints it once when p.Static is set.
func Factory(m *matrix.Matrix, p animation.Params) (animation.Animation, error) {
	t, err := New(m, p.Font)
	if err != nil {
		return nil, err
	}
	if p.Static {
		if err := t.WriteStatic(p.Text); err != nil {
			return nil, errors.Join(err, t.Release())
		}
		return t, nil
	}
	t.Load(p.Text)
	return t, nil
}

func (t *Ticker) Name() string { return Name }

func (t *Ticker) Font() *font.Font { return t.font }

// WriteStatic paints text from the left edge and renders it. Columns past
// the end of the text keep what they held.
func (t *Ticker) WriteStatic(text string) error {
	bm := t.font.Rasterize(text)
	for row := 0; row < t.Height(); row++ {
		for col := 0; col < t.Width() && col < bm.Width(); col++ {
			if err := t.Set(row, col, bm.At(row, col)); err != nil {
				return err
			}
		}
	}
	t.text = nil
	return t.Render()
}

// Load prepares text for scrolling. The scroll takes Steps() states.
func (t *Ticker) Load(text string) {
	t.text = t.font.Rasterize(text)
	t.step = 0
}

// Steps is the matrix width plus the text width: the text enters at the
// right edge and has fully left at the final step.
func (t *Ticker) Steps() int {
	if t.text == nil {
		return 0
	}
	return t.Width() + t.text.Width()
}

// Done reports a finished scroll. Static text is never done.
func (t *Ticker) Done() bool {
	return t.text != nil && t.step >= t.Steps()
}

// NextState admits the next text column at the right edge, black once the
// text has run out. It does nothing after the scroll is done.
func (t *Ticker) NextState() error {
	if t.text == nil || t.Done() {
		return nil
	}
	if err := t.ShiftLeft(t.text.Column(t.step)); err != nil {
		return err
	}
	t.step++
	return nil
}

// WriteScroll scrolls text across the matrix: Steps() shifts, each followed
// by the delay and a render.
func (t *Ticker) WriteScroll(ctx context.Context, text string, delay time.Duration) error {
	t.Load(text)
	for !t.Done() {
		if err := t.NextState(); err != nil {
			return err
		}
		if err := t.Sleep(ctx, delay); err != nil {
			return err
		}
		if err := t.Render(); err != nil {
			return err
		}
	}
	return nil
}

// Release closes the font face and leaves the matrix open.
func (t *Ticker) Release() error { return t.font.Close() }

func (t *Ticker) Close() error {
	return errors.Join(t.Release(), t.Matrix.Close())
}
