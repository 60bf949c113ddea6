package vehicle

import (
	"math"

	"github.com/lixenwraith/drifter/vmath"
)

// applyInput runs the input-to-velocity pipeline
// Velocity is assigned, not accumulated: zero throttle stops the car within the tick
func (c *Controller) applyInput(dt, throttle, steer float64) {
	c.steerInput = steer

	rot := c.body.Rotation()
	velocity := vmath.QForward(rot).Mul(c.cfg.Acceleration * throttle)

	// Heading only changes while already moving, no pivoting in place
	if c.isMoving {
		rot = rot.Mul(vmath.QYaw(c.cfg.SteerAngle * steer)).Normalize()
		c.body.SetRotation(rot)
	}

	velocity = vmath.V3Damp(velocity, c.cfg.DragFactor)
	velocity = vmath.V3ClampMagnitude(velocity, c.cfg.MaxSpeed)

	// Traction: drop the lateral part, then blend toward the nose direction
	forward := vmath.QForward(rot)
	forwardVel := vmath.V3Project(velocity, forward)
	velocity = vmath.V3Lerp(forwardVel, forward.Mul(forwardVel.Len()), c.cfg.TractionFactor*dt)

	c.body.SetVelocity(velocity)

	c.isSpinning = math.Abs(throttle) > spinInputThreshold && math.Abs(steer) > spinInputThreshold
}

func (c *Controller) updateMovementStatus() {
	c.speed = c.body.Velocity().Len()
	c.isMoving = c.speed > movingThreshold
}

// applyForces pushes the body sideways; isDrifting is still last tick's value here
func (c *Controller) applyForces() {
	lateral := c.cfg.Acceleration * c.steerInput
	if c.isDrifting || c.isSpinning {
		right := vmath.QRight(c.body.Rotation())
		if c.isDrifting {
			c.body.AddForce(right.Mul(-lateral))
		}
		if c.isSpinning {
			c.body.AddForce(right.Mul(lateral))
		}
	}
}
