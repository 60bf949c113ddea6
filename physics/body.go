// Package physics is the embedded rigid body the sandbox and simulator drive the
// controller against. Pose is integrated explicitly once per fixed step.
package physics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/drifter/vmath"
)

// Body is a point-mass rigid body with orientation and a force accumulator
type Body struct {
	Position mgl64.Vec3
	velocity mgl64.Vec3
	rotation mgl64.Quat
	mass     float64
	force    mgl64.Vec3
}

// NewBody returns a body at rest at pos facing +Z
func NewBody(pos mgl64.Vec3, mass float64) *Body {
	return &Body{
		Position: pos,
		rotation: mgl64.QuatIdent(),
		mass:     mass,
	}
}

func (b *Body) Mass() float64 { return b.mass }

// SetMass ignores non-positive values, a massless body cannot integrate force
func (b *Body) SetMass(m float64) {
	if m > 0 {
		b.mass = m
	}
}

func (b *Body) Velocity() mgl64.Vec3     { return b.velocity }
func (b *Body) SetVelocity(v mgl64.Vec3) { b.velocity = v }
func (b *Body) Rotation() mgl64.Quat     { return b.rotation }

func (b *Body) SetRotation(q mgl64.Quat) {
	b.rotation = q.Normalize()
}

// AddForce accumulates a world-space force until the next Integrate
func (b *Body) AddForce(f mgl64.Vec3) {
	b.force = b.force.Add(f)
}

// InverseTransformPoint maps a world point into body-local space
func (b *Body) InverseTransformPoint(p mgl64.Vec3) mgl64.Vec3 {
	return b.rotation.Inverse().Rotate(p.Sub(b.Position))
}

// TransformPoint maps a body-local point into world space
func (b *Body) TransformPoint(p mgl64.Vec3) mgl64.Vec3 {
	return b.Position.Add(b.rotation.Rotate(p))
}

// Heading is the yaw of the nose in degrees, 0 = +Z
func (b *Body) Heading() float64 {
	return vmath.QHeading(b.rotation)
}

// Integrate performs semi-implicit Euler: v += F/m*dt; p += v*dt
// The accumulator is cleared afterwards
func (b *Body) Integrate(dt float64) {
	if b.mass > 0 {
		b.velocity = b.velocity.Add(b.force.Mul(dt / b.mass))
	}
	b.Position = b.Position.Add(b.velocity.Mul(dt))
	b.force = mgl64.Vec3{}
}

// Reset puts the body back at rest at pos with identity orientation
func (b *Body) Reset(pos mgl64.Vec3) {
	b.Position = pos
	b.velocity = mgl64.Vec3{}
	b.rotation = mgl64.QuatIdent()
	b.force = mgl64.Vec3{}
}
