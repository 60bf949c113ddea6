package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/drifter/vehicle"
	"github.com/lixenwraith/drifter/vmath"
)

const tol = 1e-9

func vecNear(a, b mgl64.Vec3) bool {
	return a.Sub(b).Len() <= tol
}

// The embedded types must satisfy the controller's handle contracts
var (
	_ vehicle.RigidBody = (*Body)(nil)
	_ vehicle.Wheel     = (*WheelNode)(nil)
)

// TestIntegrateForce verifies v += F/m*dt and the accumulator reset
func TestIntegrateForce(t *testing.T) {
	b := NewBody(mgl64.Vec3{}, 1600)
	b.AddForce(mgl64.Vec3{800, 0, 0})
	b.AddForce(mgl64.Vec3{800, 0, 0})
	b.Integrate(0.5)

	if !vecNear(b.Velocity(), mgl64.Vec3{0.5, 0, 0}) {
		t.Errorf("velocity = %v, want (0.5,0,0)", b.Velocity())
	}
	if !vecNear(b.Position, mgl64.Vec3{0.25, 0, 0}) {
		t.Errorf("position = %v, want (0.25,0,0)", b.Position)
	}
	if b.force.Len() != 0 {
		t.Errorf("force not cleared: %v", b.force)
	}

	b.Integrate(0.5)
	if !vecNear(b.Velocity(), mgl64.Vec3{0.5, 0, 0}) {
		t.Errorf("velocity drifted without force: %v", b.Velocity())
	}
}

func TestSetMassRejectsNonPositive(t *testing.T) {
	b := NewBody(mgl64.Vec3{}, 1000)
	b.SetMass(0)
	b.SetMass(-5)
	if b.Mass() != 1000 {
		t.Errorf("mass = %v, want 1000", b.Mass())
	}
	b.SetMass(1600)
	if b.Mass() != 1600 {
		t.Errorf("mass = %v, want 1600", b.Mass())
	}
}

// TestTransformRoundTrip checks local and world mappings are inverse
func TestTransformRoundTrip(t *testing.T) {
	b := NewBody(mgl64.Vec3{10, 0, -4}, 1000)
	b.SetRotation(vmath.QYaw(90))

	local := mgl64.Vec3{-0.8, 0, 1.3}
	world := b.TransformPoint(local)
	// Nose along +X, so local +Z maps to world +X and local -X to world +Z
	if !vecNear(world, mgl64.Vec3{11.3, 0, -3.2}) {
		t.Errorf("TransformPoint = %v", world)
	}
	if !vecNear(b.InverseTransformPoint(world), local) {
		t.Errorf("round trip = %v, want %v", b.InverseTransformPoint(world), local)
	}
	if math.Abs(b.Heading()-90) > tol {
		t.Errorf("heading = %v", b.Heading())
	}
}

func TestCapSpeed(t *testing.T) {
	v := mgl64.Vec3{30, 0, 40}
	if !CapSpeed(&v, 10) {
		t.Fatal("expected clamp")
	}
	if math.Abs(v.Len()-10) > tol {
		t.Errorf("capped length = %v", v.Len())
	}
	if CapSpeed(&v, 20) {
		t.Error("slow vector should not clamp")
	}
}

// TestReflectBounds bounces the body off the arena wall
func TestReflectBounds(t *testing.T) {
	b := NewBody(mgl64.Vec3{105, 0, 3}, 1000)
	b.SetVelocity(mgl64.Vec3{20, 0, 5})

	if !ReflectBounds(b, 100, 0.5) {
		t.Fatal("expected wall hit")
	}
	if !vecNear(b.Position, mgl64.Vec3{100, 0, 3}) {
		t.Errorf("position = %v, want clamped to wall", b.Position)
	}
	if !vecNear(b.Velocity(), mgl64.Vec3{-10, 0, 5}) {
		t.Errorf("velocity = %v, want x reflected at half speed", b.Velocity())
	}
	if ReflectBounds(b, 100, 0.5) {
		t.Error("body on the wall moving inward should not reflect again")
	}
	if ReflectBounds(b, 0, 1) {
		t.Error("zero extent disables bounds")
	}
}

// TestWheelSetLayout verifies naming and side placement
func TestWheelSetLayout(t *testing.T) {
	b := NewBody(mgl64.Vec3{}, 1000)
	wheels := NewWheelSet(b, 1.6, 2.6)
	names := []string{"FL", "FR", "RL", "RR"}
	if len(wheels) != vehicle.WheelCount {
		t.Fatalf("wheel count = %d", len(wheels))
	}
	for i, w := range wheels {
		if w.Name != names[i] {
			t.Errorf("wheel %d name = %q, want %q", i, w.Name, names[i])
		}
		left := w.Offset().X() < 0
		if left != (names[i][1] == 'L') {
			t.Errorf("wheel %s on wrong side: %v", w.Name, w.Offset())
		}
	}
	if !vecNear(wheels[1].Offset(), mgl64.Vec3{0.8, 0, 1.3}) {
		t.Errorf("FR offset = %v", wheels[1].Offset())
	}
}

// TestWheelFollowsParent checks world position tracks the body pose
func TestWheelFollowsParent(t *testing.T) {
	b := NewBody(mgl64.Vec3{}, 1000)
	w := NewWheelNode("FL", b, mgl64.Vec3{-1, 0, 0})
	b.Position = mgl64.Vec3{5, 0, 5}
	b.SetRotation(vmath.QYaw(180))
	if !vecNear(w.WorldPosition(), mgl64.Vec3{6, 0, 5}) {
		t.Errorf("world position = %v", w.WorldPosition())
	}
}

// TestWheelSpinAccumulates verifies pitch rotations feed the spin angle and wrap
func TestWheelSpinAccumulates(t *testing.T) {
	b := NewBody(mgl64.Vec3{}, 1000)
	w := NewWheelNode("FL", b, mgl64.Vec3{})
	w.RotateLocal(vmath.Right, 120)
	w.RotateLocal(vmath.Right, 120)
	if math.Abs(w.SpinAngle()-(-120)) > tol {
		t.Errorf("spin = %v, want -120", w.SpinAngle())
	}
	w.RotateLocal(vmath.Up, 30)
	if math.Abs(w.SpinAngle()-(-120)) > tol {
		t.Errorf("yaw must not change spin, got %v", w.SpinAngle())
	}
	// Rolling forward tips the wheel's own forward axis downward
	fresh := NewWheelNode("FR", b, mgl64.Vec3{})
	fresh.RotateLocal(vmath.Right, 90)
	if !vecNear(vmath.QForward(fresh.local), mgl64.Vec3{0, -1, 0}) {
		t.Errorf("wheel forward after +90 pitch = %v", vmath.QForward(fresh.local))
	}
}
