package input

import (
	"math"

	"github.com/lixenwraith/drifter/vmath"
)

// Axis is a smoothed virtual axis in [-1, 1]
// Value moves toward the target at Sensitivity units/s and falls back to zero at
// Gravity units/s once the target is released
type Axis struct {
	Sensitivity float64
	Gravity     float64
	// Snap zeroes the value when the target reverses sign
	Snap bool

	value float64
}

// Update advances the axis by dt seconds toward target and returns the new value
func (a *Axis) Update(target, dt float64) float64 {
	target = vmath.ClampAxis(target)
	if target == 0 {
		a.value = vmath.MoveTowards(a.value, 0, a.Gravity*dt)
		return a.value
	}
	if a.Snap && a.value != 0 && math.Signbit(a.value) != math.Signbit(target) {
		a.value = 0
	}
	a.value = vmath.ClampAxis(vmath.MoveTowards(a.value, target, a.Sensitivity*dt))
	return a.value
}

func (a *Axis) Value() float64 { return a.value }

// Reset drops the axis to rest
func (a *Axis) Reset() { a.value = 0 }
