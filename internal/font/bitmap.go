package font

import (
	"strings"

	"github.com/coreman2200/ledmatrix/model"
)

// Bitmap is rasterized text: Height rows of 8-bit coverage plus the text
// color of every column. Bitmaps are shared through the cache and must not
// be modified.
type Bitmap struct {
	height int
	width  int
	pix    []uint8
	colors []model.Color
}

func (b *Bitmap) Height() int { return b.height }
func (b *Bitmap) Width() int  { return b.width }

// Value is the coverage at (row, col), 0 outside the bitmap.
func (b *Bitmap) Value(row, col int) uint8 {
	if row < 0 || row >= b.height || col < 0 || col >= b.width {
		return 0
	}
	return b.pix[row*b.width+col]
}

func (b *Bitmap) Lit(row, col int) bool {
	return b.Value(row, col) > 0
}

// At is the text color scaled by coverage. Cells outside the bitmap are black.
func (b *Bitmap) At(row, col int) model.Color {
	v := b.Value(row, col)
	if v == 0 {
		return model.Black
	}
	return b.colors[col].Scale(v)
}

// Column returns the Height colors of column col, black past either end.
func (b *Bitmap) Column(col int) []model.Color {
	out := make([]model.Color, b.height)
	for row := range out {
		out[row] = b.At(row, col)
	}
	return out
}

func (b *Bitmap) String() string {
	var sb strings.Builder
	for row := 0; row < b.height; row++ {
		for col := 0; col < b.width; col++ {
			if b.Lit(row, col) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
