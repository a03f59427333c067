package matrix

import (
	"errors"
	"fmt"
	"strings"

	"github.com/coreman2200/ledmatrix/internal/layout"
	"github.com/coreman2200/ledmatrix/internal/led"
	"github.com/coreman2200/ledmatrix/model"
)

var (
	ErrOutOfRange        = errors.New("matrix: coordinate out of range")
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")
	ErrSegmentMismatch   = errors.New("matrix: row count does not match strip segments")
	ErrClosed            = errors.New("matrix: closed")
)

type Config struct {
	Layout       layout.Layout
	Order        model.ChannelOrder
	DefaultColor model.Color
}

// segmented devices run one strip per matrix row.
type segmented interface {
	Segments() int
}

// Matrix owns a logical Width x Height grid and the device it is mirrored to.
// Every cell write goes straight to the device buffer at the mapped index;
// Render flushes it.
type Matrix struct {
	cfg    Config
	grid   []model.Color
	dev    led.Device
	px     []byte
	closed bool
}

func New(cfg Config, dev led.Device) (*Matrix, error) {
	if err := cfg.Layout.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Order.Validate(); err != nil {
		return nil, err
	}
	if dev == nil {
		return nil, fmt.Errorf("%w: no device", ErrDimensionMismatch)
	}
	n := cfg.Layout.Count()
	if dev.Len() != n {
		return nil, fmt.Errorf("%w: device has %d pixels, matrix %dx%d needs %d",
			ErrDimensionMismatch, dev.Len(), cfg.Layout.Width, cfg.Layout.Height, n)
	}
	if dev.Channels() != cfg.Order.Channels() {
		return nil, fmt.Errorf("%w: device has %d channels, order %v needs %d",
			model.ErrUnsupportedOrder, dev.Channels(), cfg.Order, cfg.Order.Channels())
	}
	if s, ok := dev.(segmented); ok && s.Segments() != cfg.Layout.Height {
		return nil, fmt.Errorf("%w: %d rows, %d segments",
			ErrSegmentMismatch, cfg.Layout.Height, s.Segments())
	}

	m := &Matrix{
		cfg:  cfg,
		grid: make([]model.Color, n),
		dev:  dev,
		px:   make([]byte, cfg.Order.Channels()),
	}
	if err := dev.Fill(m.px); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Matrix) Width() int                { return m.cfg.Layout.Width }
func (m *Matrix) Height() int               { return m.cfg.Layout.Height }
func (m *Matrix) Layout() layout.Layout     { return m.cfg.Layout }
func (m *Matrix) Order() model.ChannelOrder { return m.cfg.Order }
func (m *Matrix) DefaultColor() model.Color { return m.cfg.DefaultColor }
func (m *Matrix) Device() led.Device        { return m.dev }
func (m *Matrix) SetBrightness(b float64)   { m.dev.SetBrightness(b) }
func (m *Matrix) Closed() bool              { return m.closed }

func (m *Matrix) inside(row, col int) bool {
	return row >= 0 && row < m.Height() && col >= 0 && col < m.Width()
}

func (m *Matrix) Set(row, col int, c model.Color) error {
	if m.closed {
		return ErrClosed
	}
	if !m.inside(row, col) {
		return fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfRange, row, col, m.Width(), m.Height())
	}
	m.put(row, col, c)
	return m.dev.Set(m.cfg.Layout.Index(row, col), m.px)
}

// put stores c in the grid and encodes it into m.px.
func (m *Matrix) put(row, col int, c model.Color) {
	if !m.cfg.Order.HasWhite() {
		c.W, c.HasWhite = 0, false
	}
	m.grid[row*m.Width()+col] = c
	m.cfg.Order.Encode(c, m.px)
}

func (m *Matrix) At(row, col int) (model.Color, error) {
	if !m.inside(row, col) {
		return model.Black, fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfRange, row, col, m.Width(), m.Height())
	}
	return m.grid[row*m.Width()+col], nil
}

func (m *Matrix) Fill(c model.Color) error {
	if m.closed {
		return ErrClosed
	}
	for row := 0; row < m.Height(); row++ {
		for col := 0; col < m.Width(); col++ {
			m.put(row, col, c)
		}
	}
	return m.dev.Fill(m.px)
}

// ShiftLeft drops column 0, moves every other column one to the left and
// writes column into the rightmost column. len(column) must equal Height.
func (m *Matrix) ShiftLeft(column []model.Color) error {
	if m.closed {
		return ErrClosed
	}
	if len(column) != m.Height() {
		return fmt.Errorf("%w: column has %d cells, matrix height %d",
			ErrDimensionMismatch, len(column), m.Height())
	}
	w := m.Width()
	for row := 0; row < m.Height(); row++ {
		line := m.grid[row*w : (row+1)*w]
		copy(line, line[1:])
		line[w-1] = column[row]
		// every physical pixel of the row now holds a different logical cell
		for col, c := range line {
			m.put(row, col, c)
			if err := m.dev.Set(m.cfg.Layout.Index(row, col), m.px); err != nil {
				return err
			}
		}
	}
	return nil
}

// Render flushes the device. Calling it twice without writes in between
// shows the same frame.
func (m *Matrix) Render() error {
	if m.closed {
		return ErrClosed
	}
	return m.dev.Show()
}

// Close blanks and releases the device. It is safe to call more than once.
func (m *Matrix) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	for i := range m.grid {
		m.grid[i] = model.Black
	}
	return m.dev.Close()
}

// String draws the logical grid with ANSI background colors.
func (m *Matrix) String() string {
	var sb strings.Builder
	for row := 0; row < m.Height(); row++ {
		for col := 0; col < m.Width(); col++ {
			c := m.grid[row*m.Width()+col].NRGBA()
			fmt.Fprintf(&sb, "\x1b[48;2;%d;%d;%dm  ", c.R, c.G, c.B)
		}
		sb.WriteString("\x1b[0m\n")
	}
	return sb.String()
}
