// Package font turns text into small grayscale pixel grids sized to a matrix
// height. Faces are scaled and shifted automatically so capital letters and
// digits span every row.
package font

import (
	"errors"
	"fmt"
	"image"
	"regexp"
	"sync"
	"unicode/utf8"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/coreman2200/ledmatrix/model"
)

const (
	DefaultHeight    = 7
	DefaultCacheSize = 256

	calibrationChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	halfPixel        = fixed.Int26_6(32)
)

var ErrCalibration = errors.New("font: calibration did not converge")

var colorToken = regexp.MustCompile(`^#[0-9A-Fa-f]{6}`)

type Options struct {
	Height    int    // rows; DefaultHeight when 0
	TTF       []byte // OpenType/TrueType data; Go Mono when nil
	Antialias bool   // keep 8-bit coverage instead of 0/255
	Color     model.Color
	CacheSize int // texts kept; DefaultCacheSize when 0
}

type glyph struct {
	width int
	pix   []uint8
}

// Font rasterizes text at a fixed pixel height. Options are fixed at
// construction so cached glyphs never go stale.
type Font struct {
	opts Options
	otf  *opentype.Font
	face font.Face

	// Expand is added to Height to get the face size in pixels. Shift moves
	// the baseline down (negative moves up).
	Expand int
	Shift  fixed.Int26_6

	mu     sync.Mutex
	glyphs map[rune]glyph
	texts  map[string]*Bitmap
}

func New(opts Options) (*Font, error) {
	if opts.Height == 0 {
		opts.Height = DefaultHeight
	}
	if opts.Height < 0 {
		return nil, fmt.Errorf("font: height %d", opts.Height)
	}
	if opts.TTF == nil {
		opts.TTF = gomono.TTF
	}
	if opts.Color == model.Black {
		opts.Color = model.Red
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	otf, err := opentype.Parse(opts.TTF)
	if err != nil {
		return nil, fmt.Errorf("font: parse: %w", err)
	}
	f := &Font{
		opts:   opts,
		otf:    otf,
		glyphs: make(map[rune]glyph),
		texts:  make(map[string]*Bitmap),
	}
	if err := f.calibrate(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Font) Height() int        { return f.opts.Height }
func (f *Font) Color() model.Color { return f.opts.Color }

func (f *Font) setFace(expand int) error {
	face, err := opentype.NewFace(f.otf, &opentype.FaceOptions{
		Size:    float64(f.opts.Height + expand),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("font: face: %w", err)
	}
	if f.face != nil {
		_ = f.face.Close()
	}
	f.face = face
	f.Expand = expand
	return nil
}

// calibrate grows the face until the calibration characters reach the last
// row, and lifts it in half pixel steps until they reach the first. Growth
// stops at maxExpand; past that the baseline is lifted instead, which is what
// brings glyph bodies into a single row matrix.
func (f *Font) calibrate() error {
	if err := f.setFace(0); err != nil {
		return err
	}
	h := f.opts.Height
	maxExpand := 2*h + 8
	limit := 16*h + 64
	for i := 0; i < limit; i++ {
		top, bottom := false, false
		for _, r := range calibrationChars {
			g := f.render(r)
			for c := 0; c < g.width; c++ {
				top = top || g.pix[c] > 0
				bottom = bottom || g.pix[(h-1)*g.width+c] > 0
			}
		}
		switch {
		case !bottom && f.Expand < maxExpand:
			if err := f.setFace(f.Expand + 1); err != nil {
				return err
			}
		case !top, !bottom:
			f.Shift -= halfPixel
		default:
			return nil
		}
	}
	return fmt.Errorf("%w: height %d after %d steps (expand %d, shift %v)",
		ErrCalibration, h, limit, f.Expand, f.Shift)
}

// render draws r white on black, Height rows tall and one advance wide.
func (f *Font) render(r rune) glyph {
	adv, ok := f.face.GlyphAdvance(r)
	if !ok {
		return glyph{pix: []uint8{}}
	}
	w := adv.Ceil()
	h := f.opts.Height
	img := image.NewGray(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: f.face,
		Dot:  fixed.Point26_6{Y: f.face.Metrics().Ascent + f.Shift},
	}
	d.DrawString(string(r))

	if !f.opts.Antialias {
		for i, v := range img.Pix {
			if v >= 128 {
				img.Pix[i] = 255
			} else {
				img.Pix[i] = 0
			}
		}
	}
	// img.Stride == w for a fresh Gray image
	return glyph{width: w, pix: img.Pix}
}

func (f *Font) glyph(r rune) glyph {
	if g, ok := f.glyphs[r]; ok {
		return g
	}
	g := f.render(r)
	f.glyphs[r] = g
	return g
}

// Rasterize converts text into a Bitmap. A "#rrggbb" token switches the
// color of the glyphs after it and takes no columns itself.
func (f *Font) Rasterize(text string) *Bitmap {
	f.mu.Lock()
	defer f.mu.Unlock()

	if b, ok := f.texts[text]; ok {
		return b
	}

	var (
		parts []glyph
		tints []model.Color
		width int
	)
	tint := f.opts.Color
	for i := 0; i < len(text); {
		if text[i] == '#' && colorToken.MatchString(text[i:]) {
			if c, err := colorful.Hex(text[i : i+7]); err == nil {
				r, g, b := c.RGB255()
				tint = model.RGB(r, g, b)
				i += 7
				continue
			}
		}
		r, n := utf8.DecodeRuneInString(text[i:])
		i += n
		g := f.glyph(r)
		parts = append(parts, g)
		tints = append(tints, tint)
		width += g.width
	}

	h := f.opts.Height
	b := &Bitmap{
		height: h,
		width:  width,
		pix:    make([]uint8, h*width),
		colors: make([]model.Color, 0, width),
	}
	x := 0
	for k, g := range parts {
		for row := 0; row < h; row++ {
			copy(b.pix[row*width+x:], g.pix[row*g.width:(row+1)*g.width])
		}
		for c := 0; c < g.width; c++ {
			b.colors = append(b.colors, tints[k])
		}
		x += g.width
	}

	if len(f.texts) >= f.opts.CacheSize {
		f.texts = make(map[string]*Bitmap)
	}
	f.texts[text] = b
	return b
}

func (f *Font) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.face == nil {
		return nil
	}
	err := f.face.Close()
	f.face = nil
	return err
}
