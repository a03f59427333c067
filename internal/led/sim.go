package led

import (
	"github.com/rs/zerolog/log"
)

// Sim is an in-memory Device. It keeps every shown frame and logs a compact
// summary (first pixel and channel average), useful for headless runs and tests.
type Sim struct {
	*Buffer
	Limiter *Limiter
	Frames  [][]byte
	Shows   int
	Closed  bool
	// Keep bounds how many frames are retained; 0 keeps them all.
	Keep int
}

func NewSim(count, channels int) *Sim {
	return &Sim{Buffer: NewBuffer(count, channels)}
}

func (s *Sim) Show() error {
	if s.Closed {
		return ErrClosed
	}
	f := s.frame(nil, s.Limiter)
	s.Shows++
	s.Frames = append(s.Frames, f)
	if s.Keep > 0 && len(s.Frames) > s.Keep {
		s.Frames = s.Frames[len(s.Frames)-s.Keep:]
	}

	if e := log.Debug(); e.Enabled() {
		var sum int
		for _, v := range f {
			sum += int(v)
		}
		n := len(f)
		if n == 0 {
			n = 1
		}
		e.Int("frame", s.Shows).
			Float64("avg", float64(sum)/float64(n)).
			Bytes("first", f[:min(len(f), s.channels)]).
			Msg("sim show")
	}
	return nil
}

// Last returns the most recently shown frame, or nil.
func (s *Sim) Last() []byte {
	if len(s.Frames) == 0 {
		return nil
	}
	return s.Frames[len(s.Frames)-1]
}

func (s *Sim) Close() error {
	if s.Closed {
		return nil
	}
	s.blank()
	if err := s.Show(); err != nil {
		return err
	}
	s.Closed = true
	return nil
}
