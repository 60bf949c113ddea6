package audio

import (
	"math"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

const (
	squealToneHz     = 1400
	squealAmplitude  = 0.25
	squealWobbleHz   = 7
	squealNoiseLevel = 0.35
)

// Squeal is the tire squeal emitter: a looping tone behind a pause control
// The streamer joins the output on first Play and is only paused afterwards
type Squeal struct {
	mu         sync.Mutex
	out        Output
	ctrl       *beep.Ctrl
	vol        *effects.Volume
	registered bool
}

// NewSqueal builds the squeal streamer chain: sine + screech → Ctrl → Volume
func NewSqueal(out Output, volume float64) (*Squeal, error) {
	tone, err := generators.SineTone(sampleRate, squealToneHz)
	if err != nil {
		return nil, err
	}
	chain := beep.Mix(
		&gain{Streamer: tone, level: squealAmplitude},
		NewScreechGenerator(sampleRate, 1),
	)
	ctrl := &beep.Ctrl{Streamer: chain, Paused: true}
	vol := &effects.Volume{Streamer: ctrl, Base: 2}
	setVolume(vol, volume)

	return &Squeal{out: out, ctrl: ctrl, vol: vol}, nil
}

func (s *Squeal) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registered && !s.paused()
}

func (s *Squeal) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.registered {
		s.ctrl.Paused = false
		s.out.Add(s.vol)
		s.registered = true
		return
	}
	s.out.Lock()
	s.ctrl.Paused = false
	s.out.Unlock()
}

func (s *Squeal) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.registered {
		return
	}
	s.out.Lock()
	s.ctrl.Paused = true
	s.out.Unlock()
}

// paused reads the control flag under the output lock; s.mu must be held
func (s *Squeal) paused() bool {
	s.out.Lock()
	defer s.out.Unlock()
	return s.ctrl.Paused
}

// gain scales a streamer by a fixed linear factor
type gain struct {
	beep.Streamer
	level float64
}

func (g *gain) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = g.Streamer.Stream(samples)
	for i := range samples[:n] {
		samples[i][0] *= g.level
		samples[i][1] *= g.level
	}
	return n, ok
}

// ScreechGenerator generates a wobbling high-pitched noise band
type ScreechGenerator struct {
	sr   beep.SampleRate
	pos  int
	seed int64
}

// NewScreechGenerator creates a screech generator with a fixed noise seed
func NewScreechGenerator(sr beep.SampleRate, seed int64) *ScreechGenerator {
	return &ScreechGenerator{sr: sr, seed: seed}
}

func (g *ScreechGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		g.seed = (g.seed*1103515245 + 12345) & 0x7fffffff
		noise := float64(g.seed)/float64(0x7fffffff)*2 - 1

		// Frequency wobble gives the rubber chatter
		wobble := 0.5 + 0.5*math.Sin(2*math.Pi*squealWobbleHz*t)
		sample := squealNoiseLevel * wobble * noise * math.Sin(2*math.Pi*squealToneHz*1.5*t)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *ScreechGenerator) Err() error {
	return nil
}

// silentEmitter stands in when audio is disabled or the speaker failed
type silentEmitter struct {
	playing bool
}

func (e *silentEmitter) IsPlaying() bool { return e.playing }
func (e *silentEmitter) Play()           { e.playing = true }
func (e *silentEmitter) Stop()           { e.playing = false }
