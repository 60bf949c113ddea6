package engine

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/drifter/effect"
	"github.com/lixenwraith/drifter/vehicle"
)

// WheelView is one wheel as a renderer sees it
type WheelView struct {
	Name     string
	Position mgl64.Vec3
	Spin     float64 // degrees
}

// TrailPointView is a trail sample with its current colour
type TrailPointView struct {
	Position mgl64.Vec3
	Color    color.NRGBA
}

type TrailView struct {
	Drift  bool
	Points []TrailPointView
}

// Snapshot is a copy of the simulation state, safe to keep after the next Step
type Snapshot struct {
	Tick   uint64
	Time   float64 // simulated seconds
	Paused bool

	Throttle float64
	Steer    float64

	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Heading  float64 // degrees, 0 = +Z, positive toward +X
	Speed    float64

	WheelOmega float64 // deg/s
	State      vehicle.State
	Moving     bool
	Drifting   bool
	Spinning   bool

	Wheels []WheelView
	Smoke  []effect.Particle
	// Trails holds only trails that would draw
	Trails []TrailView

	Dropped      uint64
	RecordErrors uint64
}

// Snapshot copies the current state under the read lock
func (s *Simulation) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Tick:         s.clock.Tick(),
		Time:         s.clock.Elapsed(),
		Paused:       s.clock.IsPaused(),
		Throttle:     s.throttle,
		Steer:        s.steer,
		Position:     s.body.Position,
		Velocity:     s.body.Velocity(),
		Heading:      s.body.Heading(),
		Speed:        s.ctrl.CurrentSpeed(),
		WheelOmega:   s.ctrl.WheelRotationSpeed(),
		State:        s.state,
		Moving:       s.ctrl.IsMoving(),
		Drifting:     s.ctrl.IsDrifting(),
		Spinning:     s.ctrl.IsSpinning(),
		Dropped:      s.met.droppedTotal.Load(),
		RecordErrors: s.met.recordFailed.Load(),
	}

	snap.Wheels = make([]WheelView, len(s.wheels))
	for i, w := range s.wheels {
		snap.Wheels[i] = WheelView{Name: w.Name, Position: w.WorldPosition(), Spin: w.SpinAngle()}
	}

	snap.Smoke = append(snap.Smoke, s.bodySmoke.Particles()...)
	snap.Smoke = append(snap.Smoke, s.wheelSmoke.Particles()...)

	for _, tr := range s.regularTrails {
		snap.appendTrail(tr, false)
	}
	for _, tr := range s.driftTrails {
		snap.appendTrail(tr, true)
	}
	return snap
}

func (snap *Snapshot) appendTrail(tr *effect.Trail, drift bool) {
	if !tr.Visible() {
		return
	}
	pts := tr.Points()
	view := TrailView{Drift: drift, Points: make([]TrailPointView, len(pts))}
	for i, p := range pts {
		view.Points[i] = TrailPointView{Position: p.Pos, Color: tr.PointColor(p.Age)}
	}
	snap.Trails = append(snap.Trails, view)
}
