package controls

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/spacescene/pkg/math"
)

const eps = 1e-5

func keys(ks ...Key) KeyState {
	s := KeyState{}
	for _, k := range ks {
		s.Press(k)
	}
	return s
}

func TestKeyState(t *testing.T) {
	ks := KeyState{}
	if ks.Held(KeyW) {
		t.Error("unseen key should not be held")
	}
	ks.Press(KeyW)
	if !ks.Held(KeyW) {
		t.Error("pressed key should be held")
	}
	ks.Release(KeyW)
	if ks.Held(KeyW) {
		t.Error("released key should not be held")
	}
	ks.Press(Space)
	ks.Reset()
	if ks.Held(Space) || len(ks) != 0 {
		t.Error("Reset should release everything")
	}
}

func TestFrameDisplacement(t *testing.T) {
	tests := []struct {
		name string
		keys KeyState
		want math.Vec3
	}{
		{"none", keys(), math.Vec3{}},
		{"forward", keys(KeyW), math.Vec3{Z: -0.1}},
		{"arrow up", keys(ArrowUp), math.Vec3{Z: -0.1}},
		{"back", keys(KeyS), math.Vec3{Z: 0.1}},
		{"left", keys(ArrowLeft), math.Vec3{X: -0.1}},
		{"right", keys(KeyD), math.Vec3{X: 0.1}},
		{"up", keys(Space), math.Vec3{Y: 0.1}},
		{"down", keys(ShiftLeft), math.Vec3{Y: -0.1}},
		{"opposites cancel", keys(KeyW, KeyS), math.Vec3{}},
		{"aliases count once", keys(KeyW, ArrowUp), math.Vec3{Z: -0.1}},
		{"both aliases against back", keys(KeyW, ArrowUp, KeyS), math.Vec3{}},
		{"all aliases cancel", keys(KeyW, ArrowUp, KeyS, ArrowDown, KeyA, ArrowLeft, KeyD, ArrowRight), math.Vec3{}},
		{"diagonal", keys(KeyW, KeyD, Space), math.Vec3{X: 0.1, Y: 0.1, Z: -0.1}},
		{"unbound key", keys("KeyQ"), math.Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FrameDisplacement(tt.keys, DefaultMoveSpeed, math.QuatIdentity())
			if !got.ApproxEqual(tt.want, eps) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFrameDisplacementRotated(t *testing.T) {
	// Yawed 90 degrees left, forward points down -X.
	q := math.QuatFromAxisAngle(math.UnitY, gomath.Pi/2)
	got := FrameDisplacement(keys(KeyW), 1, q)
	if !got.ApproxEqual(math.Vec3{X: -1}, eps) {
		t.Errorf("got %v, want (-1, 0, 0)", got)
	}
}

type fakeCam struct {
	pos    math.Vec3
	orient math.Quat
}

func (c *fakeCam) Pos() math.Vec3         { return c.pos }
func (c *fakeCam) SetPos(p math.Vec3)     { c.pos = p }
func (c *fakeCam) Orientation() math.Quat { return c.orient }

type fakeOrbit struct{ target math.Vec3 }

func (o *fakeOrbit) SetTarget(t math.Vec3) { o.target = t }

func TestControllerUpdate(t *testing.T) {
	cam := &fakeCam{pos: math.Vec3{Y: 3, Z: 12}, orient: math.QuatIdentity()}
	orbit := &fakeOrbit{}
	c := NewController()

	c.Update(keys(KeyW), cam, orbit)
	if !cam.pos.ApproxEqual(math.Vec3{Y: 3, Z: 11.9}, eps) {
		t.Errorf("position = %v, want (0, 3, 11.9)", cam.pos)
	}
	if !orbit.target.ApproxEqual(math.Vec3{Y: 3, Z: 10.9}, eps) {
		t.Errorf("target = %v, want (0, 3, 10.9)", orbit.target)
	}
}

func TestControllerTargetWithoutKeys(t *testing.T) {
	q := math.QuatFromAxisAngle(math.UnitY, gomath.Pi)
	cam := &fakeCam{pos: math.Vec3{X: 1, Y: 2, Z: 3}, orient: q}
	orbit := &fakeOrbit{}

	NewController().Update(KeyState{}, cam, orbit)

	if cam.pos != (math.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("position moved to %v", cam.pos)
	}
	// Turned around, the target is behind the start along +Z.
	if !orbit.target.ApproxEqual(math.Vec3{X: 1, Y: 2, Z: 4}, eps) {
		t.Errorf("target = %v, want (1, 2, 4)", orbit.target)
	}
	if d := orbit.target.Distance(cam.pos); gomath.Abs(float64(d)-1) > eps {
		t.Errorf("target distance = %v, want 1", d)
	}
}
