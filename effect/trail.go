package effect

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/drifter/vmath"
)

// TrailPoint is one sample of a tire mark
type TrailPoint struct {
	Pos mgl64.Vec3
	Age float64
}

// TrailConfig tunes point spacing and fade
type TrailConfig struct {
	Lifetime   float64 // seconds a point stays visible
	MinSpacing float64 // metres between samples
	MaxPoints  int
}

func DefaultTrailConfig() TrailConfig {
	return TrailConfig{Lifetime: 3, MinSpacing: 0.5, MaxPoints: 256}
}

// Trail is a tire mark renderer anchored to a wheel
// Colour interpolates from start to end over a point's lifetime, and alpha 0 hides it
type Trail struct {
	cfg      TrailConfig
	start    color.NRGBA
	end      color.NRGBA
	emitting bool
	points   []TrailPoint
}

// NewTrail creates a hidden, non-emitting trail
func NewTrail(cfg TrailConfig, base color.NRGBA) *Trail {
	base.A = 0
	return &Trail{
		cfg:    cfg,
		start:  base,
		end:    base,
		points: make([]TrailPoint, 0, cfg.MaxPoints),
	}
}

func (t *Trail) SetEmitting(on bool)         { t.emitting = on }
func (t *Trail) Emitting() bool              { return t.emitting }
func (t *Trail) StartColor() color.NRGBA     { return t.start }
func (t *Trail) SetStartColor(c color.NRGBA) { t.start = c }
func (t *Trail) EndColor() color.NRGBA       { return t.end }
func (t *Trail) SetEndColor(c color.NRGBA)   { t.end = c }

// Update ages points and, while emitting, samples the anchor position
func (t *Trail) Update(dt float64, anchor mgl64.Vec3) {
	alive := t.points[:0]
	for _, p := range t.points {
		p.Age += dt
		if p.Age < t.cfg.Lifetime {
			alive = append(alive, p)
		}
	}
	t.points = alive

	if !t.emitting {
		return
	}
	if n := len(t.points); n > 0 && t.points[n-1].Pos.Sub(anchor).Len() < t.cfg.MinSpacing {
		return
	}
	if t.cfg.MaxPoints > 0 && len(t.points) >= t.cfg.MaxPoints {
		copy(t.points, t.points[1:])
		t.points = t.points[:len(t.points)-1]
	}
	t.points = append(t.points, TrailPoint{Pos: anchor})
}

// Points returns the live samples, oldest first
func (t *Trail) Points() []TrailPoint { return t.points }

// PointColor is the colour of a point at the given age
func (t *Trail) PointColor(age float64) color.NRGBA {
	f := 0.0
	if t.cfg.Lifetime > 0 {
		f = vmath.Clamp01(age / t.cfg.Lifetime)
	}
	mix := func(a, b uint8) uint8 {
		return uint8(vmath.Lerp(float64(a), float64(b), f) + 0.5)
	}
	return color.NRGBA{
		R: mix(t.start.R, t.end.R),
		G: mix(t.start.G, t.end.G),
		B: mix(t.start.B, t.end.B),
		A: uint8(float64(mix(t.start.A, t.end.A)) * (1 - f)),
	}
}

// Visible reports whether any point would draw
func (t *Trail) Visible() bool {
	return len(t.points) > 0 && (t.start.A > 0 || t.end.A > 0)
}

// Clear drops every point
func (t *Trail) Clear() { t.points = t.points[:0] }
