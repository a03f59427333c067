package ticker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/ledmatrix/internal/animation"
	"github.com/coreman2200/ledmatrix/internal/font"
	"github.com/coreman2200/ledmatrix/internal/layout"
	"github.com/coreman2200/ledmatrix/internal/led"
	"github.com/coreman2200/ledmatrix/matrix"
	"github.com/coreman2200/ledmatrix/model"
)

func newTicker(t *testing.T, w int) (*Ticker, *led.Sim) {
	t.Helper()
	h := 7
	sim := led.NewSim(w*h, 3)
	m, err := matrix.New(matrix.Config{
		Layout:       layout.Layout{Width: w, Height: h, Origin: layout.NorthEast, Orientation: layout.AlternatingColumn},
		Order:        model.OrderGRB,
		DefaultColor: model.Red,
	}, sim)
	require.NoError(t, err)
	tk, err := New(m, font.Options{Antialias: true})
	require.NoError(t, err)
	return tk, sim
}

func allBlack(t *testing.T, m *matrix.Matrix) {
	t.Helper()
	for r := 0; r < m.Height(); r++ {
		for c := 0; c < m.Width(); c++ {
			px, _ := m.At(r, c)
			require.Equal(t, model.Black, px, "(%d,%d)", r, c)
		}
	}
}

func TestWriteScrollRunsWidthPlusTextSteps(t *testing.T) {
	tk, sim := newTicker(t, 10)
	var sleeps []time.Duration
	tk.Sleep = func(_ context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}

	L := tk.Font().Rasterize("Hi").Width()
	require.Greater(t, L, 0)

	require.NoError(t, tk.WriteScroll(context.Background(), "Hi", 5*time.Millisecond))
	assert.Equal(t, 10+L, sim.Shows)
	assert.Len(t, sleeps, 10+L)
	assert.Equal(t, 5*time.Millisecond, sleeps[0])
	assert.True(t, tk.Done())

	allBlack(t, tk.Matrix)
	for _, v := range sim.Last() {
		require.Zero(t, v)
	}
}

func TestTextPassesThroughTheMatrix(t *testing.T) {
	tk, _ := newTicker(t, 4)
	tk.Load("I")
	bm := tk.Font().Rasterize("I")
	require.Equal(t, 4+bm.Width(), tk.Steps())

	lit := false
	for !tk.Done() {
		require.NoError(t, tk.NextState())
		for r := 0; r < tk.Height(); r++ {
			px, _ := tk.At(r, tk.Width()-1)
			lit = lit || !px.IsBlack()
		}
	}
	assert.True(t, lit, "text reached the right edge")
	allBlack(t, tk.Matrix)

	// finished scrolls stay put
	require.NoError(t, tk.NextState())
	allBlack(t, tk.Matrix)
}

func TestRightEdgeShowsTextColumns(t *testing.T) {
	tk, _ := newTicker(t, 6)
	tk.Load("A")
	bm := tk.Font().Rasterize("A")
	for step := 0; step < bm.Width(); step++ {
		require.NoError(t, tk.NextState())
		for r := 0; r < tk.Height(); r++ {
			px, _ := tk.At(r, tk.Width()-1)
			assert.Equal(t, bm.At(r, step), px, "step %d row %d", step, r)
		}
	}
}

func TestWriteStaticPaintsOnlyTextColumns(t *testing.T) {
	tk, sim := newTicker(t, 30)
	require.NoError(t, tk.Fill(model.Blue))

	bm := tk.Font().Rasterize("1")
	require.Less(t, bm.Width(), 30)
	require.NoError(t, tk.WriteStatic("1"))
	assert.Equal(t, 1, sim.Shows)

	for r := 0; r < tk.Height(); r++ {
		for c := 0; c < 30; c++ {
			px, _ := tk.At(r, c)
			if c < bm.Width() {
				assert.Equal(t, bm.At(r, c), px)
			} else {
				assert.Equal(t, model.Blue, px, "(%d,%d) untouched", r, c)
			}
		}
	}
	assert.False(t, tk.Done())
}

func TestScrollStopsOnCancel(t *testing.T) {
	tk, _ := newTicker(t, 8)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := tk.WriteScroll(ctx, "stop", time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFactory(t *testing.T) {
	sim := led.NewSim(5*7, 3)
	m, err := matrix.New(matrix.Config{
		Layout: layout.Layout{Width: 5, Height: 7},
		Order:  model.OrderRGB,
	}, sim)
	require.NoError(t, err)

	a, err := Factory(m, animation.Params{Text: "ok"})
	require.NoError(t, err)
	tk := a.(*Ticker)
	assert.Equal(t, Name, a.Name())
	assert.Greater(t, tk.Steps(), 5)
	assert.Equal(t, model.Black, tk.DefaultColor())
	assert.Equal(t, model.Red, tk.Font().Color(), "black text falls back to red")
	require.NoError(t, tk.Close())
	require.NoError(t, tk.Close())
}

func TestReleaseKeepsMatrixOpen(t *testing.T) {
	sim := led.NewSim(5*7, 3)
	m, err := matrix.New(matrix.Config{
		Layout: layout.Layout{Width: 5, Height: 7},
		Order:  model.OrderRGB,
	}, sim)
	require.NoError(t, err)

	a, err := Factory(m, animation.Params{Text: "ok"})
	require.NoError(t, err)
	require.NoError(t, animation.Release(a))
	require.NoError(t, animation.Release(a))
	assert.False(t, m.Closed())
	assert.NoError(t, m.Render())
}
