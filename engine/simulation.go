// Package engine drives one vehicle at a fixed step: it owns the controller, the
// embedded rigid body and wheels, the effect sinks and a telemetry backend, and
// exposes snapshots for renderers.
package engine

import (
	"errors"
	"fmt"
	"image/color"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/drifter/effect"
	"github.com/lixenwraith/drifter/physics"
	"github.com/lixenwraith/drifter/telemetry"
	"github.com/lixenwraith/drifter/vehicle"
	"github.com/lixenwraith/drifter/vmath"
)

// InputSource produces the two control axes once per step
type InputSource interface {
	Axes(dt float64) (throttle, steer float64)
}

// LoadSink receives engine load in [0,1] once per step
type LoadSink interface {
	SetLoad(load float64)
}

// Rig geometry of the embedded car
const (
	trackWidth = 1.6
	wheelbase  = 2.6

	// wallRestitution is the velocity kept when bouncing off the arena edge
	wallRestitution = 0.4
)

var (
	exhaustOffset  = mgl64.Vec3{0, 0.3, -2.2}
	rearAxleOffset = mgl64.Vec3{0, 0, -wheelbase / 2}

	regularTrailColor = color.NRGBA{R: 90, G: 90, B: 90}
	driftTrailColor   = color.NRGBA{R: 230, G: 70, B: 30}
)

// Options configures a Simulation; zero values fall back to defaults
// A partially filled Vehicle config is validated as given
type Options struct {
	Vehicle  vehicle.Config
	TickRate float64
	// MaxCatchUp caps steps run per scheduler wake-up
	MaxCatchUp int
	// ArenaHalfExtent bounds the XZ plane; 0 leaves it open
	ArenaHalfExtent float64

	Input    InputSource
	Recorder telemetry.Backend
	// RecorderName labels telemetry error metrics
	RecorderName string
	RunID        string

	// Squeal plays alongside wheel smoke
	Squeal vehicle.Emitter
	Engine LoadSink

	Seed   uint64
	Logger *zerolog.Logger
	Time   TimeProvider
}

// Simulation is safe for one stepping goroutine plus any number of Snapshot readers
type Simulation struct {
	mu sync.RWMutex

	opts  Options
	clock *Clock
	log   zerolog.Logger
	met   *simMetrics

	body   *physics.Body
	wheels []*physics.WheelNode
	ctrl   *vehicle.Controller

	bodySmoke     *effect.Smoke
	wheelSmoke    *effect.Smoke
	regularTrails []*effect.Trail
	driftTrails   []*effect.Trail

	throttle, steer float64
	state           vehicle.State
}

var ErrNoInput = errors.New("simulation needs an input source")

// NewSimulation builds the car at the origin facing +Z
func NewSimulation(opts Options) (*Simulation, error) {
	if opts.Input == nil {
		return nil, ErrNoInput
	}
	if opts.Vehicle == (vehicle.Config{}) {
		opts.Vehicle = vehicle.DefaultConfig()
	}
	if opts.TickRate == 0 {
		opts.TickRate = 50
	}
	if opts.MaxCatchUp <= 0 {
		opts.MaxCatchUp = 5
	}
	if opts.ArenaHalfExtent < 0 {
		return nil, fmt.Errorf("arena half extent %v is negative", opts.ArenaHalfExtent)
	}
	if opts.Recorder == nil {
		opts.Recorder = telemetry.Nop{}
	}
	if opts.RecorderName == "" {
		opts.RecorderName = "none"
	}
	if opts.Squeal == nil {
		opts.Squeal = vehicle.NopEmitter{}
	}
	if opts.Time == nil {
		opts.Time = NewMonotonicTimeProvider()
	}
	if opts.RunID == "" {
		opts.RunID = opts.Time.Now().UTC().Format("20060102T150405")
	}
	if opts.Seed == 0 {
		opts.Seed = 1
	}

	clock, err := NewClock(opts.TickRate)
	if err != nil {
		return nil, err
	}
	met, err := newSimMetrics(clock)
	if err != nil {
		return nil, err
	}

	log := zerolog.Nop()
	if opts.Logger != nil {
		log = opts.Logger.With().Str("component", "engine").Str("run", opts.RunID).Logger()
	}

	s := &Simulation{
		opts:  opts,
		clock: clock,
		log:   log,
		met:   met,
	}
	if err := s.build(); err != nil {
		return nil, err
	}
	return s, nil
}

// build creates the body, wheels, effects and a fresh controller
func (s *Simulation) build() error {
	s.body = physics.NewBody(mgl64.Vec3{}, s.opts.Vehicle.Mass)
	s.wheels = physics.NewWheelSet(s.body, trackWidth, wheelbase)

	s.bodySmoke = effect.NewSmoke(effect.BodySmokeConfig(), s.opts.Seed)
	s.wheelSmoke = effect.NewSmoke(effect.WheelSmokeConfig(), s.opts.Seed+1)
	s.regularTrails = s.regularTrails[:0]
	s.driftTrails = s.driftTrails[:0]
	for range 2 {
		s.regularTrails = append(s.regularTrails, effect.NewTrail(effect.DefaultTrailConfig(), regularTrailColor))
		s.driftTrails = append(s.driftTrails, effect.NewTrail(effect.DefaultTrailConfig(), driftTrailColor))
	}

	rig := vehicle.Rig{
		Body:          s.body,
		BodySmoke:     s.bodySmoke,
		WheelSmoke:    fanout{s.wheelSmoke, s.opts.Squeal},
		RegularTrails: []vehicle.Trail{s.regularTrails[0], s.regularTrails[1]},
		DriftTrails:   []vehicle.Trail{s.driftTrails[0], s.driftTrails[1]},
	}
	for _, w := range s.wheels {
		rig.Wheels = append(rig.Wheels, w)
	}

	ctrl, err := vehicle.New(s.opts.Vehicle, rig)
	if err != nil {
		return err
	}
	s.ctrl = ctrl
	s.state = vehicle.StateIdle
	s.throttle, s.steer = 0, 0
	return nil
}

func (s *Simulation) Clock() *Clock { return s.clock }

// RunID labels this run's telemetry
func (s *Simulation) RunID() string { return s.opts.RunID }

// Step advances the simulation by exactly one fixed step
func (s *Simulation) Step() {
	s.mu.Lock()
	defer s.mu.Unlock()

	dt := s.clock.Dt()
	s.throttle, s.steer = s.opts.Input.Axes(dt)
	s.throttle = vmath.Clamp(s.throttle, -1, 1)
	s.steer = vmath.Clamp(s.steer, -1, 1)

	s.ctrl.Tick(dt, s.throttle, s.steer)
	s.body.Integrate(dt)
	if physics.ReflectBounds(s.body, s.opts.ArenaHalfExtent, wallRestitution) {
		s.log.Debug().Uint64("tick", s.clock.Tick()).Msg("arena wall hit")
	}
	// Lateral drift force is integrated after the controller's own clamp
	if v := s.body.Velocity(); physics.CapSpeed(&v, s.opts.Vehicle.MaxSpeed) {
		s.body.SetVelocity(v)
	}

	s.updateEffects(dt)
	tick := s.clock.advance()

	speed := s.ctrl.CurrentSpeed()
	if s.opts.Engine != nil && s.opts.Vehicle.MaxSpeed > 0 {
		s.opts.Engine.SetLoad(speed / s.opts.Vehicle.MaxSpeed)
	}

	if state := s.ctrl.State(); state != s.state {
		s.log.Debug().
			Uint64("tick", tick).
			Str("from", s.state.String()).
			Str("to", state.String()).
			Float64("speed", speed).
			Float64("steer", s.steer).
			Msg("state transition")
		s.met.transition(s.state.String(), state.String())
		s.state = state
	}

	if err := s.opts.Recorder.Record(s.sampleLocked(tick)); err != nil {
		// Only the first failure is logged; the rest are counted
		if s.met.recordFailed.Load() == 0 {
			s.log.Warn().Err(err).Str("backend", s.opts.RecorderName).Msg("telemetry record failed")
		}
		s.met.recordFailure(s.opts.RecorderName)
	}
	s.met.step(speed)
}

func (s *Simulation) updateEffects(dt float64) {
	vel := s.body.Velocity()
	s.bodySmoke.Update(dt, s.body.TransformPoint(exhaustOffset), vel)
	s.wheelSmoke.Update(dt, s.body.TransformPoint(rearAxleOffset), vel)

	// Trails hang off the rear wheels
	for i, w := range s.wheels[2:] {
		anchor := w.WorldPosition()
		s.regularTrails[i].Update(dt, anchor)
		s.driftTrails[i].Update(dt, anchor)
	}
}

func (s *Simulation) sampleLocked(tick uint64) telemetry.Sample {
	pos := s.body.Position
	vel := s.body.Velocity()
	return telemetry.Sample{
		Run:        s.opts.RunID,
		Tick:       tick,
		Time:       float64(tick) * s.clock.Dt(),
		Throttle:   s.throttle,
		Steer:      s.steer,
		PosX:       pos.X(),
		PosY:       pos.Y(),
		PosZ:       pos.Z(),
		VelX:       vel.X(),
		VelY:       vel.Y(),
		VelZ:       vel.Z(),
		Heading:    s.body.Heading(),
		Speed:      s.ctrl.CurrentSpeed(),
		WheelOmega: s.ctrl.WheelRotationSpeed(),
		State:      s.state.String(),
	}
}

// Reset puts the car back at the origin with a fresh controller
// The tick counter restarts; telemetry already recorded is kept
func (s *Simulation) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.opts.Squeal.IsPlaying() {
		s.opts.Squeal.Stop()
	}
	if err := s.build(); err != nil {
		return err
	}
	s.clock.reset()
	s.log.Info().Msg("simulation reset")
	return nil
}

// Flush pushes buffered telemetry to the backend
func (s *Simulation) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts.Recorder.Flush()
}

// fanout drives several emitters from one controller handle
// The first emitter is the source of truth for IsPlaying
type fanout []vehicle.Emitter

func (f fanout) IsPlaying() bool { return f[0].IsPlaying() }

func (f fanout) Play() {
	for _, e := range f {
		if !e.IsPlaying() {
			e.Play()
		}
	}
}

func (f fanout) Stop() {
	for _, e := range f {
		if e.IsPlaying() {
			e.Stop()
		}
	}
}
