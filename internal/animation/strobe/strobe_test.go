package strobe

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/ledmatrix/internal/layout"
	"github.com/coreman2200/ledmatrix/internal/led"
	"github.com/coreman2200/ledmatrix/matrix"
	"github.com/coreman2200/ledmatrix/model"
)

func newStrobe(t *testing.T, order model.ChannelOrder) (*Strobe, *led.Sim) {
	t.Helper()
	sim := led.NewSim(12, order.Channels())
	m, err := matrix.New(matrix.Config{
		Layout: layout.Layout{Width: 4, Height: 3, Origin: layout.SouthEast, Orientation: layout.Column},
		Order:  order,
	}, sim)
	require.NoError(t, err)
	return New(m, rand.New(rand.NewPCG(1, 2))), sim
}

func TestFillsWithOneColor(t *testing.T) {
	s, sim := newStrobe(t, model.OrderGRB)
	assert.Equal(t, Name, s.Name())
	seen := map[model.Color]bool{}
	for i := 0; i < 20; i++ {
		require.NoError(t, s.NextState())
		first := sim.Get(0)
		for p := 1; p < sim.Len(); p++ {
			require.Equal(t, first, sim.Get(p))
		}
		c, _ := s.At(0, 0)
		assert.False(t, c.HasWhite)
		seen[c] = true
	}
	assert.Greater(t, len(seen), 1, "colors change between steps")
}

func TestWhiteOnlyWhenWired(t *testing.T) {
	s, sim := newStrobe(t, model.OrderGRBW)
	white := false
	for i := 0; i < 20; i++ {
		require.NoError(t, s.NextState())
		c, _ := s.At(2, 3)
		assert.True(t, c.HasWhite)
		white = white || sim.Get(5)[3] != 0
	}
	assert.True(t, white)
}

func TestSameSeedSameSequence(t *testing.T) {
	a, _ := newStrobe(t, model.OrderRGB)
	b, _ := newStrobe(t, model.OrderRGB)
	for i := 0; i < 5; i++ {
		require.NoError(t, a.NextState())
		require.NoError(t, b.NextState())
		ca, _ := a.At(1, 1)
		cb, _ := b.At(1, 1)
		assert.Equal(t, ca, cb)
	}
}
