package layout

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidLayout = errors.New("invalid layout")

// Origin is the corner holding physical pixel 0.
type Origin int

const (
	NorthWest Origin = iota
	NorthEast
	SouthWest
	SouthEast
)

// Orientation is the path each strip run takes across the matrix.
type Orientation int

const (
	Row Orientation = iota
	Column
	AlternatingRow
	AlternatingColumn
)

var originNames = map[string]Origin{
	"NORTHWEST": NorthWest, "NW": NorthWest,
	"NORTHEAST": NorthEast, "NE": NorthEast,
	"SOUTHWEST": SouthWest, "SW": SouthWest,
	"SOUTHEAST": SouthEast, "SE": SouthEast,
}

var orientationNames = map[string]Orientation{
	"ROW": Row,
	"COLUMN": Column, "COL": Column,
	"ALTERNATING_ROW": AlternatingRow, "ALT_ROW": AlternatingRow,
	"ALTERNATING_COLUMN": AlternatingColumn, "ALT_COL": AlternatingColumn,
}

func ParseOrigin(s string) (Origin, error) {
	o, ok := originNames[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: unknown origin %q", ErrInvalidLayout, s)
	}
	return o, nil
}

func ParseOrientation(s string) (Orientation, error) {
	o, ok := orientationNames[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: unknown orientation %q", ErrInvalidLayout, s)
	}
	return o, nil
}

func (o Origin) String() string {
	switch o {
	case NorthWest:
		return "NORTHWEST"
	case NorthEast:
		return "NORTHEAST"
	case SouthWest:
		return "SOUTHWEST"
	case SouthEast:
		return "SOUTHEAST"
	}
	return fmt.Sprintf("Origin(%d)", int(o))
}

func (o Orientation) String() string {
	switch o {
	case Row:
		return "ROW"
	case Column:
		return "COLUMN"
	case AlternatingRow:
		return "ALTERNATING_ROW"
	case AlternatingColumn:
		return "ALTERNATING_COLUMN"
	}
	return fmt.Sprintf("Orientation(%d)", int(o))
}

func (o Origin) east() bool  { return o == NorthEast || o == SouthEast }
func (o Origin) south() bool { return o == SouthWest || o == SouthEast }

// Resolve maps a logical (row, col) to the strip index for a width x height
// matrix. Coordinates outside the grid clamp to the nearest edge.
func Resolve(row, col, width, height int, origin Origin, orientation Orientation) int {
	row = clamp(row, height)
	col = clamp(col, width)

	// normalise so (0,0) is the origin corner
	if origin.south() {
		row = height - 1 - row
	}
	if origin.east() {
		col = width - 1 - col
	}

	switch orientation {
	case Column:
		return col*height + row
	case AlternatingRow:
		if row%2 == 1 {
			col = width - 1 - col
		}
		return row*width + col
	case AlternatingColumn:
		if col%2 == 1 {
			row = height - 1 - row
		}
		return col*height + row
	default:
		return row*width + col
	}
}

func clamp(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}

// Layout describes how a strip snakes through a Width x Height matrix.
type Layout struct {
	Width       int
	Height      int
	Origin      Origin
	Orientation Orientation
}

func (l Layout) Validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidLayout, l.Width, l.Height)
	}
	if l.Origin < NorthWest || l.Origin > SouthEast {
		return fmt.Errorf("%w: %v", ErrInvalidLayout, l.Origin)
	}
	if l.Orientation < Row || l.Orientation > AlternatingColumn {
		return fmt.Errorf("%w: %v", ErrInvalidLayout, l.Orientation)
	}
	return nil
}

// Index maps row, col -> linear LED index (0..N-1)
func (l Layout) Index(row, col int) int {
	return Resolve(row, col, l.Width, l.Height, l.Origin, l.Orientation)
}

// Coordinate is the inverse of Index.
func (l Layout) Coordinate(index int) (row, col int) {
	byRow := l.Orientation == Row || l.Orientation == AlternatingRow
	run := l.Height
	if byRow {
		run = l.Width
	}
	major, off := index/run, index%run

	alt := l.Orientation == AlternatingRow || l.Orientation == AlternatingColumn
	if alt && major%2 == 1 {
		off = run - 1 - off
	}

	if byRow {
		row, col = major, off
	} else {
		row, col = off, major
	}

	if l.Origin.south() {
		row = l.Height - 1 - row
	}
	if l.Origin.east() {
		col = l.Width - 1 - col
	}
	return row, col
}

func (l Layout) Count() int {
	return l.Width * l.Height
}
