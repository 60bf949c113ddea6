package audio

import (
	"fmt"

	"github.com/lixenwraith/drifter/vehicle"
)

// Sounds is what a simulation plugs in: the squeal as the wheel smoke companion
// and the hum driven by speed
type Sounds struct {
	Manager *SoundManager // nil when silent
	Squeal  vehicle.Emitter
	Hum     *Hum
}

// Silent reports whether no speaker backs these sounds
func (s *Sounds) Silent() bool { return s.Manager == nil }

// ToggleMute is a no-op returning false when silent
func (s *Sounds) ToggleMute() bool {
	if s.Manager == nil {
		return false
	}
	return s.Manager.ToggleMute()
}

// Close releases the mixer streamers
func (s *Sounds) Close() {
	if s.Manager != nil {
		s.Manager.Cleanup()
	}
}

func silentSounds() *Sounds {
	return &Sounds{Squeal: &silentEmitter{}, Hum: NewHum(sampleRate)}
}

// Open starts audio per cfg
// Speaker failure is not fatal: the silent set is returned together with the error
func Open(cfg Config) (*Sounds, error) {
	if !cfg.Enabled {
		return silentSounds(), nil
	}
	sm := NewSoundManager()
	if err := sm.Initialize(cfg.Volume); err != nil {
		return silentSounds(), fmt.Errorf("audio: speaker init: %w", err)
	}
	return attach(sm, cfg.Volume)
}

// attach builds the squeal and hum on an output
func attach(sm *SoundManager, volume float64) (*Sounds, error) {
	squeal, err := NewSqueal(sm, volume)
	if err != nil {
		return silentSounds(), fmt.Errorf("audio: squeal: %w", err)
	}
	hum := NewHum(sampleRate)
	sm.Add(hum)
	return &Sounds{Manager: sm, Squeal: squeal, Hum: hum}, nil
}
