// Package audio plays the tire squeal and engine hum through beep. Audio is
// optional: when the speaker cannot be opened every sound becomes a silent no-op.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(48000)

	speakerBufferDuration = 100 * time.Millisecond
)

// Config controls the sound manager
type Config struct {
	Enabled bool    `mapstructure:"enabled"`
	Volume  float64 `mapstructure:"volume"` // 0.0-1.0
}

func DefaultConfig() Config {
	return Config{Enabled: false, Volume: 0.6}
}

// Output receives streamers; Lock guards streamer state shared with playback
type Output interface {
	Add(s beep.Streamer)
	Lock()
	Unlock()
}

// SoundManager owns the speaker mixer and master volume
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	master      *effects.Volume
	initialized bool
	muted       bool
}

// NewSoundManager creates a new sound manager
func NewSoundManager() *SoundManager {
	mixer := &beep.Mixer{}
	return &SoundManager{
		mixer:  mixer,
		master: &effects.Volume{Streamer: mixer, Base: 2},
	}
}

// Initialize opens the speaker and starts the mixer
// Calling it twice is a no-op
func (sm *SoundManager) Initialize(volume float64) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(speakerBufferDuration)); err != nil {
		return err
	}
	setVolume(sm.master, volume)
	speaker.Play(sm.master)
	sm.initialized = true
	return nil
}

// Add registers a streamer with the mixer
func (sm *SoundManager) Add(s beep.Streamer) {
	sm.Lock()
	sm.mixer.Add(s)
	sm.Unlock()
}

// Lock takes the speaker lock once playback has started
func (sm *SoundManager) Lock() {
	sm.mu.Lock()
	if sm.initialized {
		speaker.Lock()
	}
}

func (sm *SoundManager) Unlock() {
	if sm.initialized {
		speaker.Unlock()
	}
	sm.mu.Unlock()
}

// ToggleMute flips the master mute, returns true if sound is now audible
func (sm *SoundManager) ToggleMute() bool {
	sm.Lock()
	defer sm.Unlock()
	sm.muted = !sm.muted
	sm.master.Silent = sm.muted
	return !sm.muted
}

// IsEnabled returns true if the speaker is open and unmuted
func (sm *SoundManager) IsEnabled() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.initialized && !sm.muted
}

// Cleanup clears all streamers; beep offers no speaker close
func (sm *SoundManager) Cleanup() {
	sm.Lock()
	sm.mixer.Clear()
	sm.Unlock()
}

// setVolume maps a linear 0-1 level onto the exponential Volume effect
func setVolume(v *effects.Volume, level float64) {
	if level <= 0 {
		v.Silent = true
		return
	}
	if level > 1 {
		level = 1
	}
	v.Silent = false
	v.Volume = math.Log2(level)
}
