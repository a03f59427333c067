package sequence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeEval(t *testing.T) {
	env := Envelope{Keys: []Keyframe{
		{T: 0, V: 0, Ease: "linear"},
		{T: 10, V: 10, Ease: "linear"},
	}}
	if v := env.Eval(-1); v != 0 {
		t.Fatalf("expected 0 before start, got %v", v)
	}
	if v := env.Eval(0); v != 0 {
		t.Fatalf("expected 0 at t=0, got %v", v)
	}
	if v := env.Eval(5); v != 5 {
		t.Fatalf("expected 5 at t=5, got %v", v)
	}
	if v := env.Eval(10); v != 10 {
		t.Fatalf("expected 10 at t=10, got %v", v)
	}
	if v := env.Eval(11); v != 10 {
		t.Fatalf("expected 10 after end, got %v", v)
	}
}

func TestEnvelopeEasing(t *testing.T) {
	smooth := Envelope{Keys: []Keyframe{{T: 0, V: 0, Ease: "smooth"}, {T: 4, V: 1}}}
	assert.InDelta(t, 0.5, smooth.Eval(2), 1e-9)
	assert.Less(t, smooth.Eval(1), 0.25)

	cubic := Envelope{Keys: []Keyframe{{T: 0, V: 0, Ease: "cubic"}, {T: 4, V: 1}}}
	assert.InDelta(t, 0.5, cubic.Eval(2), 1e-9)
	assert.Less(t, cubic.Eval(1), smooth.Eval(1))

	assert.Equal(t, 0.0, Envelope{}.Eval(3))
	assert.Equal(t, 0.7, Envelope{Keys: []Keyframe{{T: 5, V: 0.7}}}.Eval(0))
}

func TestSequencerSwitchesClips(t *testing.T) {
	log := []string{}
	var levels []float64
	h := Hooks{
		SetAnimation:  func(c Clip) error { log = append(log, "Set:"+c.Animation); return nil },
		SetBrightness: func(v float64) { levels = append(levels, v) },
	}
	p := NewPlayer(h)
	prog := Program{
		Version: "seq.v1",
		Clips: []Clip{
			{Name: "A", Animation: "colorcycle", Turns: 3, Brightness: &Envelope{Keys: []Keyframe{{T: 0, V: 0}, {T: 2, V: 1}}}},
			{Name: "B", Animation: "life", Turns: 2},
		},
	}
	require.NoError(t, p.Load(prog))
	require.NoError(t, p.Start())
	assert.Equal(t, []string{"Set:colorcycle"}, log)

	turns := 1
	for {
		more, err := p.Tick()
		require.NoError(t, err)
		if !more {
			break
		}
		turns++
	}
	assert.Equal(t, 5, turns)
	assert.Equal(t, p.TotalTurns(), turns)
	assert.Equal(t, []string{"Set:colorcycle", "Set:life"}, log)
	assert.Equal(t, []float64{0, 0.5, 1}, levels)
	assert.Equal(t, Idle, p.State)
}

func TestSequencerLoops(t *testing.T) {
	n := 0
	p := NewPlayer(Hooks{SetAnimation: func(Clip) error { n++; return nil }})
	require.NoError(t, p.Load(Program{Loop: true, Clips: []Clip{{Animation: "strobe", Turns: 2}}}))
	require.NoError(t, p.Start())
	for i := 0; i < 10; i++ {
		more, err := p.Tick()
		require.NoError(t, err)
		require.True(t, more)
	}
	assert.Equal(t, 6, n)
}

func TestPauseAndSeek(t *testing.T) {
	p := NewPlayer(Hooks{})
	require.NoError(t, p.Load(Program{Clips: []Clip{
		{Animation: "a", Turns: 4},
		{Animation: "b", Turns: 4},
	}}))
	require.NoError(t, p.Start())
	p.Pause()
	more, err := p.Tick()
	require.NoError(t, err)
	assert.True(t, more)
	clip, turn := p.Index()
	assert.Equal(t, 0, clip)
	assert.Equal(t, 0, turn)

	p.Resume()
	require.NoError(t, p.Seek(5))
	clip, turn = p.Index()
	assert.Equal(t, 1, clip)
	assert.Equal(t, 1, turn)

	require.NoError(t, p.Seek(100))
	clip, turn = p.Index()
	assert.Equal(t, 1, clip)
	assert.Equal(t, 3, turn)
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, Program{}.Validate(), ErrEmpty)
	assert.Error(t, Program{Clips: []Clip{{Animation: "x"}}}.Validate())
	assert.Error(t, Program{Clips: []Clip{{Turns: 1}}}.Validate())
	assert.Error(t, NewPlayer(Hooks{}).Start())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "show.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
version: seq.v1
loop: true
clips:
  - name: intro
    animation: ticker
    turns: 40
    delay_ms: 30
    text: "#00ff00HELLO"
  - name: fade
    animation: colorcycle
    turns: 100
    gradient: 4
    brightness:
      keys:
        - {t: 100, v: 0}
        - {t: 0, v: 1, ease: smooth}
`), 0o644))

	prog, err := LoadFile(path)
	require.NoError(t, err)
	assert.True(t, prog.Loop)
	require.Len(t, prog.Clips, 2)
	assert.Equal(t, "ticker", prog.Clips[0].Animation)
	assert.Equal(t, 30, prog.Clips[0].DelayMs)
	assert.Equal(t, "#00ff00HELLO", prog.Clips[0].Text)
	assert.Equal(t, 4, prog.Clips[1].Gradient)
	keys := prog.Clips[1].Brightness.Keys
	assert.Equal(t, 0.0, keys[0].T, "keys sorted by turn")
	assert.Equal(t, "smooth", keys[0].Ease)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
