package physics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/drifter/vmath"
)

// CapSpeed limits the velocity vector magnitude to maxSpeed
// Returns true if velocity was clamped
func CapSpeed(vel *mgl64.Vec3, maxSpeed float64) bool {
	if vel.LenSqr() <= maxSpeed*maxSpeed {
		return false
	}
	*vel = vmath.V3ClampMagnitude(*vel, maxSpeed)
	return true
}

// ReflectAxis clamps one position component to [lo, hi] and reflects its velocity
// restitution scales the reflected component, 1 = perfect bounce
func ReflectAxis(pos, vel *float64, lo, hi, restitution float64) bool {
	if *pos < lo {
		*pos = lo
		if *vel < 0 {
			*vel = -*vel * restitution
		}
		return true
	}
	if *pos > hi {
		*pos = hi
		if *vel > 0 {
			*vel = -*vel * restitution
		}
		return true
	}
	return false
}

// ReflectBounds keeps the body inside a square arena of the given half extent on
// the ground plane, returns true if any wall was hit
func ReflectBounds(b *Body, halfExtent, restitution float64) bool {
	if halfExtent <= 0 {
		return false
	}
	px, pz := b.Position.X(), b.Position.Z()
	vx, vz := b.velocity.X(), b.velocity.Z()

	rx := ReflectAxis(&px, &vx, -halfExtent, halfExtent, restitution)
	rz := ReflectAxis(&pz, &vz, -halfExtent, halfExtent, restitution)
	if !rx && !rz {
		return false
	}
	b.Position = mgl64.Vec3{px, b.Position.Y(), pz}
	b.velocity = mgl64.Vec3{vx, b.velocity.Y(), vz}
	return true
}
