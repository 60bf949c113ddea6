package vehicle

import (
	"math"

	"github.com/lixenwraith/drifter/vmath"
)

// Side is the wheel's lateral placement relative to the body
type Side uint8

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideLeft {
		return "left"
	}
	return "right"
}

// WheelSpinRate converts linear speed to wheel angular speed in deg/s
func WheelSpinRate(speed, radius float64) float64 {
	return speed / (2 * math.Pi * radius) * degreesPerRevolution
}

// WheelSpinSign returns the rotation sign for a wheel side and travel direction
// Left wheels spin positive going forward, right wheels mirror them
func WheelSpinSign(side Side, forward bool) float64 {
	if (side == SideLeft) == forward {
		return 1
	}
	return -1
}

func (c *Controller) wheelSide(w Wheel) Side {
	local := c.body.InverseTransformPoint(w.WorldPosition())
	if local.X() < 0 {
		return SideLeft
	}
	return SideRight
}

// rotateWheels spins every wheel by the same magnitude
// Direction reads world-axis velocity.z, not the body-forward projection
func (c *Controller) rotateWheels(dt float64) {
	if !c.isMoving {
		return
	}
	velocity := c.body.Velocity()
	c.wheelRotationSpeed = WheelSpinRate(velocity.Len(), c.cfg.WheelRadius)
	forward := velocity.Z() > 0
	delta := c.wheelRotationSpeed * dt

	for _, w := range c.wheels {
		sign := WheelSpinSign(c.wheelSide(w), forward)
		w.RotateLocal(vmath.Right, sign*delta)
	}
}
