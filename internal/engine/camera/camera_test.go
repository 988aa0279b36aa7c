package camera

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/spacescene/pkg/math"
)

const eps = 1e-4

func TestNewCameraLooksDownNegativeZ(t *testing.T) {
	c := New(75, 16.0/9.0, 0.1, 1000, math.Vec3{Y: 3, Z: 12})
	fwd := c.Orientation().Rotate(math.Forward)
	if !fwd.ApproxEqual(math.Vec3{Z: -1}, eps) {
		t.Errorf("forward = %v, want (0, 0, -1)", fwd)
	}
}

func TestSetAspect(t *testing.T) {
	c := New(75, 1, 0.1, 1000, math.Zero)
	c.SetAspect(1280, 720)
	if gomath.Abs(float64(c.Aspect)-1280.0/720.0) > eps {
		t.Errorf("aspect = %v", c.Aspect)
	}
	c.SetAspect(0, 0)
	if gomath.Abs(float64(c.Aspect)-1280.0/720.0) > eps {
		t.Errorf("zero size changed aspect to %v", c.Aspect)
	}
}

func TestViewMatrixMapsCameraToOrigin(t *testing.T) {
	c := New(75, 1, 0.1, 1000, math.Vec3{X: 1, Y: 2, Z: 3})
	c.LookAt(math.Vec3{X: 1, Y: 2, Z: -10})

	view := c.ViewMatrix()
	if got := view.TransformPoint(c.Position); !got.ApproxEqual(math.Zero, eps) {
		t.Errorf("camera position in view space = %v", got)
	}
	// A point ahead lands on -Z.
	if got := view.TransformPoint(math.Vec3{X: 1, Y: 2, Z: -2}); !got.ApproxEqual(math.Vec3{Z: -5}, eps) {
		t.Errorf("point ahead in view space = %v, want (0, 0, -5)", got)
	}
}

func TestLookAtSamePointKeepsRotation(t *testing.T) {
	c := New(75, 1, 0.1, 1000, math.Zero)
	before := c.Rotation
	c.LookAt(math.Zero)
	if c.Rotation != before {
		t.Error("degenerate LookAt should not change rotation")
	}
}

func TestOrbitUpdateWithoutInputKeepsPose(t *testing.T) {
	c := New(75, 1, 0.1, 1000, math.Vec3{Y: 3, Z: 12})
	o := NewOrbitControls(c, math.Vec3{Y: 3, Z: 11})

	o.Update()

	if !c.Position.ApproxEqual(math.Vec3{Y: 3, Z: 12}, eps) {
		t.Errorf("position drifted to %v", c.Position)
	}
	fwd := c.Rotation.Rotate(math.Forward)
	if !fwd.ApproxEqual(math.Vec3{Z: -1}, eps) {
		t.Errorf("forward = %v", fwd)
	}
	if !o.Settled() {
		t.Error("controls without input should be settled")
	}
}

func TestOrbitDragRotatesAroundTarget(t *testing.T) {
	c := New(75, 1, 0.1, 1000, math.Vec3{Z: 10})
	o := NewOrbitControls(c, math.Zero)
	o.EnableDamping = false

	// A quarter of the viewport height is a quarter turn.
	o.HandleDrag(-25, 0, 100)
	o.Update()

	if !c.Position.ApproxEqual(math.Vec3{X: 10}, 1e-3) {
		t.Errorf("position = %v, want (10, 0, 0)", c.Position)
	}
	if d := c.Position.Distance(o.Target); gomath.Abs(float64(d)-10) > 1e-3 {
		t.Errorf("radius = %v, want 10", d)
	}
	fwd := c.Rotation.Rotate(math.Forward)
	if !fwd.ApproxEqual(math.Vec3{X: -1}, 1e-3) {
		t.Errorf("camera should face the target, forward = %v", fwd)
	}
	if !o.Settled() {
		t.Error("undamped controls should consume all input")
	}
}

func TestOrbitDampingConverges(t *testing.T) {
	c := New(75, 1, 0.1, 1000, math.Vec3{Z: 10})
	o := NewOrbitControls(c, math.Zero)

	o.HandleDrag(-25, 0, 100)
	o.Update()
	first := c.Position

	// One damped step moves by DampingFactor of the quarter turn.
	wantAngle := float64(gomath.Pi/2) * 0.05
	if got := gomath.Atan2(float64(first.X), float64(first.Z)); gomath.Abs(got-wantAngle) > 1e-3 {
		t.Errorf("first step angle = %v, want %v", got, wantAngle)
	}

	for i := 0; i < 1000; i++ {
		o.Update()
	}
	if !o.Settled() {
		t.Error("damped input should decay")
	}
	if !c.Position.ApproxEqual(math.Vec3{X: 10}, 1e-2) {
		t.Errorf("converged position = %v, want about (10, 0, 0)", c.Position)
	}
}

func TestOrbitPolarClamp(t *testing.T) {
	c := New(75, 1, 0.1, 1000, math.Vec3{Z: 10})
	o := NewOrbitControls(c, math.Zero)
	o.EnableDamping = false

	// Drag far further than straight up.
	o.HandleDrag(0, 500, 100)
	o.Update()

	if c.Position.Y < 9.99 || gomath.Abs(float64(c.Position.Z)) > 1e-3 {
		t.Errorf("camera should stop at the pole, got %v", c.Position)
	}
	if gomath.IsNaN(float64(c.Rotation.W)) {
		t.Error("rotation at the pole is NaN")
	}
}

func TestOrbitZoom(t *testing.T) {
	c := New(75, 1, 0.1, 1000, math.Vec3{Z: 10})
	o := NewOrbitControls(c, math.Zero)
	o.EnableDamping = false

	o.HandleZoom(1)
	o.Update()
	if d := c.Position.Length(); gomath.Abs(float64(d)-9.5) > eps {
		t.Errorf("zoom in radius = %v, want 9.5", d)
	}

	o.HandleZoom(-1)
	o.Update()
	if d := c.Position.Length(); gomath.Abs(float64(d)-10) > eps {
		t.Errorf("zoom out radius = %v, want 10", d)
	}
}
