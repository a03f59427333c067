package font

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/ledmatrix/model"
)

func spans(t *testing.T, f *Font, text string) (top, bottom bool) {
	t.Helper()
	b := f.Rasterize(text)
	for c := 0; c < b.Width(); c++ {
		top = top || b.Lit(0, c)
		bottom = bottom || b.Lit(b.Height()-1, c)
	}
	return top, bottom
}

func TestCalibrationSpansEveryRow(t *testing.T) {
	for _, h := range []int{1, 2, 7, 8, 12} {
		for _, aa := range []bool{false, true} {
			f, err := New(Options{Height: h, Antialias: aa})
			require.NoError(t, err, "height %d antialias %v", h, aa)
			top, bottom := spans(t, f, calibrationChars)
			assert.True(t, top, "height %d: first row lit", h)
			assert.True(t, bottom, "height %d: last row lit", h)
			assert.GreaterOrEqual(t, f.Expand, 0)
			assert.LessOrEqual(t, f.Expand, 2*h+8)
			require.NoError(t, f.Close())
		}
	}
}

func TestRasterizeShape(t *testing.T) {
	f, err := New(Options{Height: 7})
	require.NoError(t, err)

	a := f.Rasterize("A")
	assert.Equal(t, 7, a.Height())
	assert.Greater(t, a.Width(), 0)

	ab := f.Rasterize("AB")
	b := f.Rasterize("B")
	assert.Equal(t, a.Width()+b.Width(), ab.Width())

	empty := f.Rasterize("")
	assert.Equal(t, 0, empty.Width())
	assert.Len(t, empty.Column(0), 7)
}

func TestAliasedIsBinary(t *testing.T) {
	f, err := New(Options{Height: 8})
	require.NoError(t, err)
	b := f.Rasterize("Hello 42")
	for r := 0; r < b.Height(); r++ {
		for c := 0; c < b.Width(); c++ {
			v := b.Value(r, c)
			assert.True(t, v == 0 || v == 255, "(%d,%d)=%d", r, c, v)
		}
	}
}

func TestColumnsCarryTextColor(t *testing.T) {
	f, err := New(Options{Height: 7, Color: model.Blue, Antialias: true})
	require.NoError(t, err)
	b := f.Rasterize("HW")
	lit := 0
	for c := 0; c < b.Width(); c++ {
		for r, px := range b.Column(c) {
			if b.Lit(r, c) {
				lit++
				assert.Equal(t, model.Blue.Scale(b.Value(r, c)), px)
			} else {
				assert.Equal(t, model.Black, px)
			}
		}
	}
	assert.NotZero(t, lit)
	assert.Equal(t, []model.Color{model.Black, model.Black, model.Black, model.Black, model.Black, model.Black, model.Black}, b.Column(b.Width()))
}

func TestInlineColorToken(t *testing.T) {
	f, err := New(Options{Height: 7, Antialias: true})
	require.NoError(t, err)

	plain := f.Rasterize("AA")
	mixed := f.Rasterize("A#00ff00A")
	require.Equal(t, plain.Width(), mixed.Width(), "token takes no columns")

	half := f.Rasterize("A").Width()
	for c := 0; c < mixed.Width(); c++ {
		for r := 0; r < mixed.Height(); r++ {
			if !mixed.Lit(r, c) {
				continue
			}
			px := mixed.At(r, c)
			if c < half {
				assert.Equal(t, model.Red.Scale(mixed.Value(r, c)), px)
			} else {
				assert.Equal(t, model.Green.Scale(mixed.Value(r, c)), px)
			}
		}
	}

	// not a full hex triplet, drawn as text
	assert.Greater(t, f.Rasterize("#12").Width(), 0)
}

func TestTextCache(t *testing.T) {
	f, err := New(Options{Height: 7, CacheSize: 2})
	require.NoError(t, err)
	a := f.Rasterize("cache")
	assert.Same(t, a, f.Rasterize("cache"))

	f.Rasterize("one")
	f.Rasterize("two")
	assert.LessOrEqual(t, len(f.texts), 2)
}

func TestBadOptions(t *testing.T) {
	_, err := New(Options{Height: -1})
	assert.Error(t, err)
	_, err = New(Options{TTF: []byte("not a font")})
	assert.Error(t, err)
}
