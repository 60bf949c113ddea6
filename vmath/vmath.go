// Package vmath holds the float vector and orientation helpers shared by the
// physics, vehicle and render packages. Vectors and quaternions are mgl64 types;
// this package adds the game-side operations mgl64 does not carry.
package vmath

import "math"

// Epsilon is the magnitude below which a vector is treated as zero
const Epsilon = 1e-9

// Clamp limits x to [lo, hi]
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Clamp01 limits x to [0, 1]
func Clamp01(x float64) float64 {
	return Clamp(x, 0, 1)
}

// ClampAxis limits a control axis to [-1, 1]
func ClampAxis(x float64) float64 {
	return Clamp(x, -1, 1)
}

// MoveTowards moves current toward target by at most maxDelta
func MoveTowards(current, target, maxDelta float64) float64 {
	if math.Abs(target-current) <= maxDelta {
		return target
	}
	if target > current {
		return current + maxDelta
	}
	return current - maxDelta
}

// Lerp interpolates a to b with t clamped to [0, 1]
func Lerp(a, b, t float64) float64 {
	t = Clamp01(t)
	return a + (b-a)*t
}

// WrapDegrees normalizes an angle to (-180, 180]
func WrapDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg > 180 {
		deg -= 360
	} else if deg <= -180 {
		deg += 360
	}
	return deg
}

// --- Randomness ---

// FastRand is a xorshift64 generator for effect jitter
// Deterministic per seed so effect tests are reproducible
type FastRand struct {
	state uint64
}

func NewFastRand(seed uint64) *FastRand {
	if seed == 0 {
		seed = 1
	}
	return &FastRand{state: seed}
}

func (r *FastRand) Next() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

// Float64 returns a value in [0, 1)
func (r *FastRand) Float64() float64 {
	return float64(r.Next()>>11) / (1 << 53)
}

// Range returns a value in [lo, hi)
func (r *FastRand) Range(lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}
