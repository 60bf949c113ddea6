// Package effect holds the smoke emitters and tire trails the controller gates.
// Both are plain simulations advanced once per tick by the owner; rendering reads
// their particles and points.
package effect

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/drifter/vmath"
)

// Particle is a single smoke puff
type Particle struct {
	Pos      mgl64.Vec3
	Vel      mgl64.Vec3
	Age      float64 // seconds
	Lifetime float64 // seconds
	Color    color.NRGBA
}

// IsAlive returns true if the particle is still alive
func (p *Particle) IsAlive() bool {
	return p.Age < p.Lifetime
}

// Alpha fades linearly with age
func (p *Particle) Alpha() uint8 {
	f := vmath.Clamp01(1 - p.Age/p.Lifetime)
	return uint8(float64(p.Color.A) * f)
}

// SmokeConfig tunes an emitter
type SmokeConfig struct {
	MaxParticles int
	Rate         float64 // particles per second
	SpeedMin     float64
	SpeedMax     float64
	// Spread is the half-angle around the backward direction (radians)
	Spread      float64
	LifetimeMin float64
	LifetimeMax float64
	// Inherit is the fraction of emitter velocity particles keep
	Inherit float64
	Rise    float64 // upward drift (m/s)
	Color   color.NRGBA
}

// BodySmokeConfig is the exhaust-like puff that follows the car while moving
func BodySmokeConfig() SmokeConfig {
	return SmokeConfig{
		MaxParticles: 60,
		Rate:         20,
		SpeedMin:     1,
		SpeedMax:     3,
		Spread:       math.Pi / 8,
		LifetimeMin:  0.4,
		LifetimeMax:  0.9,
		Inherit:      0.2,
		Rise:         0.5,
		Color:        color.NRGBA{R: 150, G: 150, B: 150, A: 180},
	}
}

// WheelSmokeConfig is the dense tire smoke while drifting
func WheelSmokeConfig() SmokeConfig {
	return SmokeConfig{
		MaxParticles: 200,
		Rate:         80,
		SpeedMin:     2,
		SpeedMax:     6,
		Spread:       math.Pi / 3,
		LifetimeMin:  0.8,
		LifetimeMax:  1.6,
		Inherit:      0.1,
		Rise:         1,
		Color:        color.NRGBA{R: 230, G: 230, B: 230, A: 220},
	}
}

// Smoke is a particle emitter with idempotent Play/Stop
// Particles already alive keep ageing after Stop
type Smoke struct {
	cfg       SmokeConfig
	rng       *vmath.FastRand
	particles []Particle
	timer     float64
	playing   bool

	pos mgl64.Vec3
	vel mgl64.Vec3

	plays int
	stops int
}

// NewSmoke creates a stopped emitter; seed makes the jitter reproducible
func NewSmoke(cfg SmokeConfig, seed uint64) *Smoke {
	return &Smoke{
		cfg:       cfg,
		rng:       vmath.NewFastRand(seed),
		particles: make([]Particle, 0, cfg.MaxParticles),
	}
}

func (s *Smoke) IsPlaying() bool { return s.playing }

func (s *Smoke) Play() {
	if s.playing {
		return
	}
	s.playing = true
	s.plays++
}

func (s *Smoke) Stop() {
	if !s.playing {
		return
	}
	s.playing = false
	s.timer = 0
	s.stops++
}

// Edges returns how many times the emitter started and stopped
func (s *Smoke) Edges() (plays, stops int) { return s.plays, s.stops }

// Update moves the emitter, spawns while playing, and ages particles
func (s *Smoke) Update(dt float64, pos, vel mgl64.Vec3) {
	s.pos = pos
	s.vel = vel

	if s.playing && s.cfg.Rate > 0 {
		s.timer += dt
		n := int(s.cfg.Rate * s.timer)
		if n > 0 {
			s.timer -= float64(n) / s.cfg.Rate
			for i := 0; i < n && len(s.particles) < s.cfg.MaxParticles; i++ {
				s.emit()
			}
		}
	}

	// Compact in place, order preserved
	alive := s.particles[:0]
	for i := range s.particles {
		p := s.particles[i]
		p.Age += dt
		p.Pos = p.Pos.Add(p.Vel.Mul(dt))
		if p.IsAlive() {
			alive = append(alive, p)
		}
	}
	s.particles = alive
}

func (s *Smoke) emit() {
	back := vmath.V3Normalize(s.vel.Mul(-1))
	if back.LenSqr() == 0 {
		back = vmath.Forward.Mul(-1)
	}
	angle := s.rng.Range(-s.cfg.Spread, s.cfg.Spread)
	dir := vmath.QYaw(mgl64.RadToDeg(angle)).Rotate(back)

	speed := s.rng.Range(s.cfg.SpeedMin, s.cfg.SpeedMax)
	vel := dir.Mul(speed).Add(s.vel.Mul(s.cfg.Inherit)).Add(vmath.Up.Mul(s.cfg.Rise))

	s.particles = append(s.particles, Particle{
		Pos:      s.pos,
		Vel:      vel,
		Lifetime: s.rng.Range(s.cfg.LifetimeMin, s.cfg.LifetimeMax),
		Color:    s.cfg.Color,
	})
}

// Particles returns the live particles; the slice is reused on the next Update
func (s *Smoke) Particles() []Particle { return s.particles }

// Clear drops every particle and stops emission
func (s *Smoke) Clear() {
	s.Stop()
	s.particles = s.particles[:0]
}
