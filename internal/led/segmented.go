package led

import (
	"errors"
	"fmt"
)

var ErrSegments = errors.New("led: segments differ")

// Segmented presents several equal length strips (one per matrix row, each on
// its own data pin) as one contiguous Device.
type Segmented struct {
	segs     []Device
	segLen   int
	channels int
}

func NewSegmented(segs ...Device) (*Segmented, error) {
	if len(segs) == 0 {
		return nil, fmt.Errorf("%w: none given", ErrSegments)
	}
	n, ch := segs[0].Len(), segs[0].Channels()
	for i, s := range segs[1:] {
		if s.Len() != n || s.Channels() != ch {
			return nil, fmt.Errorf("%w: segment %d is %dx%d, want %dx%d",
				ErrSegments, i+1, s.Len(), s.Channels(), n, ch)
		}
	}
	return &Segmented{segs: segs, segLen: n, channels: ch}, nil
}

func (s *Segmented) Segments() int { return len(s.segs) }
func (s *Segmented) Len() int      { return s.segLen * len(s.segs) }
func (s *Segmented) Channels() int { return s.channels }

func (s *Segmented) locate(i int) (Device, int, bool) {
	if i < 0 || i >= s.Len() {
		return nil, 0, false
	}
	return s.segs[i/s.segLen], i % s.segLen, true
}

func (s *Segmented) Get(i int) []byte {
	d, j, ok := s.locate(i)
	if !ok {
		return nil
	}
	return d.Get(j)
}

func (s *Segmented) Set(i int, px []byte) error {
	d, j, ok := s.locate(i)
	if !ok {
		return fmt.Errorf("%w: %d of %d", ErrIndex, i, s.Len())
	}
	return d.Set(j, px)
}

func (s *Segmented) Fill(px []byte) error {
	for _, d := range s.segs {
		if err := d.Fill(px); err != nil {
			return err
		}
	}
	return nil
}

func (s *Segmented) SetBrightness(b float64) {
	for _, d := range s.segs {
		d.SetBrightness(b)
	}
}

func (s *Segmented) Show() error {
	var err error
	for _, d := range s.segs {
		err = errors.Join(err, d.Show())
	}
	return err
}

func (s *Segmented) Close() error {
	var err error
	for _, d := range s.segs {
		err = errors.Join(err, d.Close())
	}
	return err
}
