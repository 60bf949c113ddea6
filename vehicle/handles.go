package vehicle

import (
	"image/color"
	"reflect"

	"github.com/go-gl/mathgl/mgl64"
)

// RigidBody is the physics handle the controller drives
// The body integrates pose from velocity and accumulated force outside the controller
type RigidBody interface {
	Mass() float64
	SetMass(m float64)
	Velocity() mgl64.Vec3
	SetVelocity(v mgl64.Vec3)
	Rotation() mgl64.Quat
	SetRotation(q mgl64.Quat)
	// AddForce accumulates a world-space force for the next integration step
	AddForce(f mgl64.Vec3)
	// InverseTransformPoint maps a world point into body-local space
	InverseTransformPoint(p mgl64.Vec3) mgl64.Vec3
}

// Wheel is a scene transform owned by the host, borrowed for the tick
type Wheel interface {
	WorldPosition() mgl64.Vec3
	// RotateLocal applies an incremental rotation of deg degrees about a wheel-local axis
	RotateLocal(axis mgl64.Vec3, deg float64)
}

// Emitter is a stateful effect with idempotent Play/Stop
type Emitter interface {
	IsPlaying() bool
	Play()
	Stop()
}

// Trail is a trail renderer handle
type Trail interface {
	SetEmitting(on bool)
	StartColor() color.NRGBA
	SetStartColor(c color.NRGBA)
	SetEndColor(c color.NRGBA)
}

// NopEmitter stands in for an absent emitter; never plays
type NopEmitter struct{}

func (NopEmitter) IsPlaying() bool { return false }
func (NopEmitter) Play()           {}
func (NopEmitter) Stop()           {}

// NopTrail stands in for an absent trail
type NopTrail struct{}

func (NopTrail) SetEmitting(bool)          {}
func (NopTrail) StartColor() color.NRGBA   { return color.NRGBA{} }
func (NopTrail) SetStartColor(color.NRGBA) {}
func (NopTrail) SetEndColor(color.NRGBA)   {}

// absent reports whether a handle is missing, typed-nil pointers included
func absent(h any) bool {
	if h == nil {
		return true
	}
	v := reflect.ValueOf(h)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func emitterOrNop(e Emitter) Emitter {
	if absent(e) {
		return NopEmitter{}
	}
	return e
}

// compactTrails drops nil handles so the gating loop never branches on them
func compactTrails(in []Trail) []Trail {
	out := make([]Trail, 0, len(in))
	for _, tr := range in {
		if !absent(tr) {
			out = append(out, tr)
		}
	}
	return out
}
