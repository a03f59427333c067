package sequence

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

var ErrEmpty = errors.New("program has no clips")

// NewPlayer constructs a Player with provided hooks.
func NewPlayer(h Hooks) *Player {
	return &Player{State: Idle, hooks: h}
}

// LoadFile reads a YAML program.
func LoadFile(path string) (Program, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Program{}, err
	}
	var prog Program
	if err := yaml.Unmarshal(b, &prog); err != nil {
		return Program{}, fmt.Errorf("program %s: %w", path, err)
	}
	return prog, prog.Validate()
}

// Validate checks every clip runs for at least one turn and sorts envelope keys.
func (prog Program) Validate() error {
	if len(prog.Clips) == 0 {
		return ErrEmpty
	}
	for i, c := range prog.Clips {
		if c.Animation == "" {
			return fmt.Errorf("clip %d (%s): no animation", i, c.Name)
		}
		if c.Turns <= 0 {
			return fmt.Errorf("clip %d (%s): turns must be positive", i, c.Name)
		}
		if c.Brightness != nil {
			keys := c.Brightness.Keys
			sort.SliceStable(keys, func(a, b int) bool { return keys[a].T < keys[b].T })
		}
	}
	return nil
}

// Load replaces the current program. Resets position and state to Idle.
func (p *Player) Load(prog Program) error {
	if err := prog.Validate(); err != nil {
		return err
	}
	p.prog = prog
	p.idx = 0
	p.turn = 0
	p.State = Idle
	return nil
}

// Start moves to Running and starts the first clip.
func (p *Player) Start() error {
	if p.State == Running {
		return nil
	}
	if len(p.prog.Clips) == 0 {
		return ErrEmpty
	}
	p.State = Running
	return p.enter()
}

// Pause pauses playback.
func (p *Player) Pause() { p.State = Paused }

// Resume resumes playback.
func (p *Player) Resume() {
	if p.State == Paused {
		p.State = Running
	}
}

// Stop stops and resets to start.
func (p *Player) Stop() {
	p.State = Idle
	p.idx = 0
	p.turn = 0
}

// Clip returns the active clip.
func (p *Player) Clip() Clip {
	return p.prog.Clips[p.idx]
}

// Index returns the active clip index and the turn within it.
func (p *Player) Index() (clip, turn int) { return p.idx, p.turn }

// Seek jumps to absolute program turn t, clamped into the program.
func (p *Player) Seek(t int) error {
	if len(p.prog.Clips) == 0 {
		return ErrEmpty
	}
	if t < 0 {
		t = 0
	}
	if total := p.TotalTurns(); t >= total {
		t = total - 1
	}
	for i, c := range p.prog.Clips {
		if t < c.Turns {
			p.idx, p.turn = i, t
			break
		}
		t -= c.Turns
	}
	return p.apply()
}

// Tick finishes one turn of the active clip and emits the hooks for the
// next one. It returns false once the program has ended.
func (p *Player) Tick() (bool, error) {
	if p.State != Running {
		return p.State == Paused, nil
	}
	p.turn++
	if p.turn >= p.Clip().Turns {
		next := p.nextIndex()
		if next == -1 {
			p.State = Idle
			return false, nil
		}
		p.idx, p.turn = next, 0
		return true, p.enter()
	}
	p.brightness()
	return true, nil
}

func (p *Player) TotalTurns() int {
	total := 0
	for _, c := range p.prog.Clips {
		total += c.Turns
	}
	return total
}

// enter starts the active clip from its first turn.
func (p *Player) enter() error {
	p.turn = 0
	return p.apply()
}

func (p *Player) apply() error {
	if p.hooks.SetAnimation != nil {
		if err := p.hooks.SetAnimation(p.Clip()); err != nil {
			return err
		}
	}
	p.brightness()
	return nil
}

func (p *Player) brightness() {
	c := p.Clip()
	if c.Brightness == nil || p.hooks.SetBrightness == nil {
		return
	}
	p.hooks.SetBrightness(clamp01(c.Brightness.Eval(float64(p.turn))))
}

func (p *Player) nextIndex() int {
	ni := p.idx + 1
	if ni >= len(p.prog.Clips) {
		if p.prog.Loop {
			return 0
		}
		return -1
	}
	return ni
}
