package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// QYaw returns a rotation of deg degrees about world up
// Positive yaw turns +Z toward +X
func QYaw(deg float64) mgl64.Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(deg), Up)
}

// QAxisAngle returns a rotation of deg degrees about axis
func QAxisAngle(axis mgl64.Vec3, deg float64) mgl64.Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(deg), V3Normalize(axis))
}

// QForward is the body forward axis in world space
func QForward(q mgl64.Quat) mgl64.Vec3 {
	return q.Rotate(Forward)
}

// QRight is the body right axis in world space
func QRight(q mgl64.Quat) mgl64.Vec3 {
	return q.Rotate(Right)
}

// QHeading returns the yaw of the forward axis in degrees, 0 = +Z, 90 = +X
func QHeading(q mgl64.Quat) float64 {
	f := QForward(q)
	return mgl64.RadToDeg(math.Atan2(f.X(), f.Z()))
}
