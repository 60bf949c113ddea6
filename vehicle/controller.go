// Package vehicle implements the arcade drift controller: one fixed-step tick turns
// a throttle and a steer axis into a rigid-body velocity and heading, classifies the
// car as idle, rolling, drifting or spinning, spins the wheels and gates the smoke
// and trail effects.
//
// The controller borrows every handle it is given. It holds no locks and never
// logs; the host serializes Tick with any other scene mutation.
package vehicle

import (
	"math"

	"github.com/lixenwraith/drifter/vmath"
)

const (
	// movingThreshold is the speed above which the car counts as moving (m/s)
	movingThreshold = 0.1
	// spinInputThreshold applies to both |throttle| and |steer|
	spinInputThreshold = 0.5

	degreesPerRevolution = 360.0
)

// Controller is the per-vehicle tick state machine
type Controller struct {
	cfg  Config
	body RigidBody

	wheels        []Wheel
	bodySmoke     Emitter
	wheelSmoke    Emitter
	regularTrails []Trail
	driftTrails   []Trail

	steerInput         float64
	speed              float64
	wheelRotationSpeed float64
	isMoving           bool
	isDrifting         bool
	isSpinning         bool
}

// New validates the configuration and rig, then writes cfg.Mass into the body
func New(cfg Config, rig Rig) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := rig.validate(); err != nil {
		return nil, err
	}

	wheels := make([]Wheel, len(rig.Wheels))
	copy(wheels, rig.Wheels)

	c := &Controller{
		cfg:           cfg,
		body:          rig.Body,
		wheels:        wheels,
		bodySmoke:     emitterOrNop(rig.BodySmoke),
		wheelSmoke:    emitterOrNop(rig.WheelSmoke),
		regularTrails: compactTrails(rig.RegularTrails),
		driftTrails:   compactTrails(rig.DriftTrails),
	}
	c.body.SetMass(cfg.Mass)
	return c, nil
}

// Tick advances the controller by one fixed step of dt seconds
// Step order is fixed: each step reads state an earlier one wrote
func (c *Controller) Tick(dt, throttle, steer float64) {
	throttle = vmath.ClampAxis(throttle)
	steer = vmath.ClampAxis(steer)

	c.applyInput(dt, throttle, steer)
	c.updateMovementStatus()
	c.applyForces()
	c.rotateWheels(dt)
	c.updateSmoke()
	c.updateTrails()
}

// Config returns the tuning the controller was built with
func (c *Controller) Config() Config { return c.cfg }

// IsMoving reports whether speed exceeded the moving threshold this tick
func (c *Controller) IsMoving() bool { return c.isMoving }

// IsDrifting reports the drift flag computed at the end of the last tick
func (c *Controller) IsDrifting() bool { return c.isDrifting }

// IsSpinning reports whether throttle and steer were both past the spin threshold
func (c *Controller) IsSpinning() bool { return c.isSpinning }

// CurrentSpeed is the velocity magnitude written to the body this tick (m/s)
func (c *Controller) CurrentSpeed() float64 { return c.speed }

// WheelRotationSpeed is the last computed wheel spin rate (deg/s)
func (c *Controller) WheelRotationSpeed() float64 { return c.wheelRotationSpeed }

// SteerInput is the steer axis value of the last tick
func (c *Controller) SteerInput() float64 { return c.steerInput }

// State folds the flags into the discrete state; spinning wins while moving
func (c *Controller) State() State {
	switch {
	case !c.isMoving:
		return StateIdle
	case c.isSpinning:
		return StateSpinning
	case c.isDrifting:
		return StateDrifting
	default:
		return StateRolling
	}
}

func (c *Controller) steerPastThreshold() bool {
	return math.Abs(c.steerInput) > c.cfg.SmokeSteerThreshold
}
