package vehicle

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// fakeBody records forces and never integrates, so velocity stays as written
type fakeBody struct {
	pos    mgl64.Vec3
	vel    mgl64.Vec3
	rot    mgl64.Quat
	mass   float64
	forces []mgl64.Vec3
}

func newFakeBody() *fakeBody {
	return &fakeBody{rot: mgl64.QuatIdent(), mass: 1000}
}

func (b *fakeBody) Mass() float64              { return b.mass }
func (b *fakeBody) SetMass(m float64)          { b.mass = m }
func (b *fakeBody) Velocity() mgl64.Vec3       { return b.vel }
func (b *fakeBody) SetVelocity(v mgl64.Vec3)   { b.vel = v }
func (b *fakeBody) Rotation() mgl64.Quat       { return b.rot }
func (b *fakeBody) SetRotation(q mgl64.Quat)   { b.rot = q }
func (b *fakeBody) AddForce(f mgl64.Vec3)      { b.forces = append(b.forces, f) }
func (b *fakeBody) InverseTransformPoint(p mgl64.Vec3) mgl64.Vec3 {
	return b.rot.Inverse().Rotate(p.Sub(b.pos))
}

func (b *fakeBody) takeForces() []mgl64.Vec3 {
	f := b.forces
	b.forces = nil
	return f
}

// fakeWheel sits at a fixed body-local offset and logs every rotation
type fakeWheel struct {
	body   *fakeBody
	offset mgl64.Vec3
	turns  []float64
}

func (w *fakeWheel) WorldPosition() mgl64.Vec3 {
	return w.body.pos.Add(w.body.rot.Rotate(w.offset))
}

func (w *fakeWheel) RotateLocal(axis mgl64.Vec3, deg float64) {
	if axis != (mgl64.Vec3{1, 0, 0}) {
		panic("wheel rotated about a non-pitch axis")
	}
	w.turns = append(w.turns, deg)
}

func (w *fakeWheel) lastTurn() float64 {
	if len(w.turns) == 0 {
		return 0
	}
	return w.turns[len(w.turns)-1]
}

// spyEmitter counts edges and flags redundant Play/Stop calls
type spyEmitter struct {
	playing   bool
	plays     int
	stops     int
	redundant int
}

func (e *spyEmitter) IsPlaying() bool { return e.playing }

func (e *spyEmitter) Play() {
	if e.playing {
		e.redundant++
	}
	e.playing = true
	e.plays++
}

func (e *spyEmitter) Stop() {
	if !e.playing {
		e.redundant++
	}
	e.playing = false
	e.stops++
}

type spyTrail struct {
	emitting bool
	start    color.NRGBA
	end      color.NRGBA
}

func (t *spyTrail) SetEmitting(on bool)         { t.emitting = on }
func (t *spyTrail) StartColor() color.NRGBA     { return t.start }
func (t *spyTrail) SetStartColor(c color.NRGBA) { t.start = c }
func (t *spyTrail) SetEndColor(c color.NRGBA)   { t.end = c }

// testRig is a fully wired controller with inspectable doubles
type testRig struct {
	ctrl       *Controller
	body       *fakeBody
	wheels     []*fakeWheel
	bodySmoke  *spyEmitter
	wheelSmoke *spyEmitter
	regular    []*spyTrail
	drift      []*spyTrail
}

// wheelOffsets are FL, FR, RL, RR in body space
var wheelOffsets = []mgl64.Vec3{
	{-0.8, 0, 1.3},
	{0.8, 0, 1.3},
	{-0.8, 0, -1.3},
	{0.8, 0, -1.3},
}

func newTestRig(cfg Config) (*testRig, error) {
	tr := &testRig{
		body:       newFakeBody(),
		bodySmoke:  &spyEmitter{},
		wheelSmoke: &spyEmitter{},
	}
	rig := Rig{
		Body:       tr.body,
		BodySmoke:  tr.bodySmoke,
		WheelSmoke: tr.wheelSmoke,
	}
	for _, off := range wheelOffsets {
		w := &fakeWheel{body: tr.body, offset: off}
		tr.wheels = append(tr.wheels, w)
		rig.Wheels = append(rig.Wheels, w)
	}
	for i := 0; i < 2; i++ {
		r := &spyTrail{start: color.NRGBA{R: 200, G: 200, B: 200, A: 0xff}}
		d := &spyTrail{start: color.NRGBA{R: 40, G: 40, B: 40, A: 0xff}}
		tr.regular = append(tr.regular, r)
		tr.drift = append(tr.drift, d)
		rig.RegularTrails = append(rig.RegularTrails, r)
		rig.DriftTrails = append(rig.DriftTrails, d)
	}

	ctrl, err := New(cfg, rig)
	if err != nil {
		return nil, err
	}
	tr.ctrl = ctrl
	return tr, nil
}
