package physics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/drifter/vmath"
)

// WheelNode is a wheel transform parented to a Body
type WheelNode struct {
	Name   string
	parent *Body
	offset mgl64.Vec3
	local  mgl64.Quat
	spin   float64
}

// NewWheelNode places a wheel at a body-local offset
func NewWheelNode(name string, parent *Body, offset mgl64.Vec3) *WheelNode {
	return &WheelNode{
		Name:   name,
		parent: parent,
		offset: offset,
		local:  mgl64.QuatIdent(),
	}
}

// NewWheelSet builds FL, FR, RL, RR wheels around the body origin
// track is the left-right distance, wheelbase the front-rear distance
func NewWheelSet(parent *Body, track, wheelbase float64) []*WheelNode {
	hx, hz := track/2, wheelbase/2
	return []*WheelNode{
		NewWheelNode("FL", parent, mgl64.Vec3{-hx, 0, hz}),
		NewWheelNode("FR", parent, mgl64.Vec3{hx, 0, hz}),
		NewWheelNode("RL", parent, mgl64.Vec3{-hx, 0, -hz}),
		NewWheelNode("RR", parent, mgl64.Vec3{hx, 0, -hz}),
	}
}

func (w *WheelNode) Offset() mgl64.Vec3 { return w.offset }

// WorldPosition follows the parent pose
func (w *WheelNode) WorldPosition() mgl64.Vec3 {
	return w.parent.TransformPoint(w.offset)
}

// RotateLocal applies deg degrees about a wheel-local axis
// Rotation about the pitch axis also advances the spin angle
func (w *WheelNode) RotateLocal(axis mgl64.Vec3, deg float64) {
	w.local = w.local.Mul(vmath.QAxisAngle(axis, deg)).Normalize()
	if axis.ApproxEqual(vmath.Right) {
		w.spin = vmath.WrapDegrees(w.spin + deg)
	}
}

// SpinAngle is the accumulated pitch in (-180, 180] degrees
func (w *WheelNode) SpinAngle() float64 { return w.spin }
