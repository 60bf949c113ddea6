package audio

import (
	"math"
	"sync/atomic"

	"github.com/gopxl/beep"
)

const (
	humFreqMinHz    = 60
	humFreqMaxHz    = 220
	humAmplitude    = 0.12
	humIdleLoad     = 0.1
	humHarmonicGain = 0.4
)

// Hum is an engine drone whose pitch follows the car's speed
// SetLoad is called from the tick goroutine, Stream from the speaker's
type Hum struct {
	sr    beep.SampleRate
	phase float64
	load  atomic.Uint64 // float64 bits, 0..1
}

// NewHum creates a hum at idle load
func NewHum(sr beep.SampleRate) *Hum {
	h := &Hum{sr: sr}
	h.SetLoad(humIdleLoad)
	return h
}

// SetLoad sets the normalized engine load, clamped to [0, 1]
func (h *Hum) SetLoad(load float64) {
	load = math.Max(0, math.Min(1, load))
	h.load.Store(math.Float64bits(load))
}

func (h *Hum) Load() float64 {
	return math.Float64frombits(h.load.Load())
}

// Frequency is the current fundamental in Hz
func (h *Hum) Frequency() float64 {
	return humFreqMinHz + (humFreqMaxHz-humFreqMinHz)*h.Load()
}

func (h *Hum) Stream(samples [][2]float64) (n int, ok bool) {
	freq := h.Frequency()
	amp := humAmplitude * (0.4 + 0.6*h.Load())
	step := freq / float64(h.sr)

	for i := range samples {
		sample := amp * (math.Sin(2*math.Pi*h.phase) + humHarmonicGain*math.Sin(4*math.Pi*h.phase))
		samples[i][0] = sample
		samples[i][1] = sample

		// Phase accumulator keeps pitch changes click-free
		h.phase += step
		if h.phase >= 1 {
			h.phase -= 1
		}
	}
	return len(samples), true
}

func (h *Hum) Err() error {
	return nil
}
