package vmath

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Local basis: +X right, +Y up, +Z forward
var (
	Right   = mgl64.Vec3{1, 0, 0}
	Up      = mgl64.Vec3{0, 1, 0}
	Forward = mgl64.Vec3{0, 0, 1}
)

// V3Normalize returns the unit vector, zero-safe
func V3Normalize(v mgl64.Vec3) mgl64.Vec3 {
	mag := v.Len()
	if mag < Epsilon {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / mag)
}

// V3ClampMagnitude limits vector magnitude while preserving direction
func V3ClampMagnitude(v mgl64.Vec3, maxMag float64) mgl64.Vec3 {
	magSq := v.LenSqr()
	if magSq <= maxMag*maxMag {
		return v
	}
	return V3Normalize(v).Mul(maxMag)
}

// V3Project returns the component of v parallel to onto
// Zero when onto is degenerate
func V3Project(v, onto mgl64.Vec3) mgl64.Vec3 {
	ontoSq := onto.LenSqr()
	if ontoSq < Epsilon {
		return mgl64.Vec3{}
	}
	return onto.Mul(v.Dot(onto) / ontoSq)
}

// V3Lerp interpolates a to b, t clamped to [0, 1]
func V3Lerp(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	t = Clamp01(t)
	return a.Add(b.Sub(a).Mul(t))
}

// V3Damp scales each component by factor (1 = no damp, 0 = full damp)
func V3Damp(v mgl64.Vec3, factor float64) mgl64.Vec3 {
	return v.Mul(factor)
}

// V3XZ flattens a vector onto the ground plane
func V3XZ(v mgl64.Vec3) (x, z float64) {
	return v.X(), v.Z()
}
