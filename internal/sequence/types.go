package sequence

// Keyframe is a value at turn T with an easing function that applies to the
// segment starting at this keyframe.
type Keyframe struct {
	T    float64 `yaml:"t"`
	V    float64 `yaml:"v"`
	Ease string  `yaml:"ease,omitempty"` // "linear","smooth","cubic"
}

// Envelope is a sorted list of keyframes; Eval(t) interpolates a value.
type Envelope struct {
	Keys []Keyframe `yaml:"keys"`
}

// Clip is one segment of a show: an animation run for a number of turns at
// a frame delay, with optional brightness automation.
type Clip struct {
	Name      string `yaml:"name"`
	Animation string `yaml:"animation"`
	Turns     int    `yaml:"turns"`
	DelayMs   int    `yaml:"delay_ms,omitempty"`

	// overrides for the animation, empty keeps the command line value
	Text     string `yaml:"text,omitempty"`
	Gradient int    `yaml:"gradient,omitempty"`
	Sweep    string `yaml:"sweep,omitempty"`

	Brightness *Envelope `yaml:"brightness,omitempty"`
}

// Program is a full sequence of clips.
type Program struct {
	Version string `yaml:"version"` // e.g., "seq.v1"
	Loop    bool   `yaml:"loop,omitempty"`
	Clips   []Clip `yaml:"clips"`
}

// PlayerState enumerates sequencer states.
type PlayerState string

const (
	Idle    PlayerState = "idle"
	Running PlayerState = "running"
	Paused  PlayerState = "paused"
)

// Hooks are dependency-injected callbacks into the frame loop.
type Hooks struct {
	// Start clip c on the matrix.
	SetAnimation func(c Clip) error
	// Brightness for the active clip, 0..1.
	SetBrightness func(v float64)
}

// Player owns the current Program timeline and uses Hooks to drive the loop.
type Player struct {
	State PlayerState

	prog Program
	turn int // turns played in the current clip
	idx  int // current clip index

	hooks Hooks
}
