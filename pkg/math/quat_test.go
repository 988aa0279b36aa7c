package math

import (
	"math"
	"testing"
)

func TestQuatIdentity(t *testing.T) {
	q := QuatIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("Identity quaternion should be (0,0,0,1), got (%v,%v,%v,%v)", q.X, q.Y, q.Z, q.W)
	}
}

func TestQuatNormalize(t *testing.T) {
	n := Quat{X: 1, Y: 2, Z: 3, W: 4}.Normalize()

	length := float32(math.Sqrt(float64(n.X*n.X + n.Y*n.Y + n.Z*n.Z + n.W*n.W)))
	if math.Abs(float64(length-1.0)) > 0.0001 {
		t.Errorf("Normalized quaternion length should be 1, got %v", length)
	}
}

func TestQuatSlerp(t *testing.T) {
	q1 := QuatIdentity()
	q2 := QuatFromAxisAngle(UnitY, float32(math.Pi/2))

	if r := q1.Slerp(q2, 0); !r.ApproxEqual(q1, 1e-5) {
		t.Errorf("Slerp at t=0 should equal q1, got %v", r)
	}
	if r := q1.Slerp(q2, 1); !r.ApproxEqual(q2, 1e-5) {
		t.Errorf("Slerp at t=1 should equal q2, got %v", r)
	}

	half := q1.Slerp(q2, 0.5)
	expectedW := float32(math.Cos(math.Pi / 8))
	if math.Abs(float64(half.W-expectedW)) > 0.01 {
		t.Errorf("Slerp at t=0.5: expected W ~%v, got %v", expectedW, half.W)
	}
}

func TestQuatRotate(t *testing.T) {
	tests := []struct {
		name string
		q    Quat
		in   Vec3
		want Vec3
	}{
		{"identity", QuatIdentity(), Vec3{1, 2, 3}, Vec3{1, 2, 3}},
		{"yaw 90 forward", QuatFromAxisAngle(UnitY, float32(math.Pi/2)), Forward, Vec3{-1, 0, 0}},
		{"pitch 90 forward", QuatFromAxisAngle(UnitX, float32(math.Pi/2)), Forward, Vec3{0, 1, 0}},
		{"roll 180", QuatFromAxisAngle(UnitZ, float32(math.Pi)), UnitX, Vec3{-1, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.q.Rotate(tt.in)
			if !got.ApproxEqual(tt.want, 1e-5) {
				t.Errorf("Rotate(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestQuatFromEulerSingleAxis(t *testing.T) {
	angle := float32(0.7)
	tests := []struct {
		euler Vec3
		axis  Vec3
	}{
		{Vec3{X: angle}, UnitX},
		{Vec3{Y: angle}, UnitY},
		{Vec3{Z: angle}, UnitZ},
	}

	for _, tt := range tests {
		got := QuatFromEuler(tt.euler)
		want := QuatFromAxisAngle(tt.axis, angle)
		if !got.ApproxEqual(want, 1e-6) {
			t.Errorf("QuatFromEuler(%v) = %v, want %v", tt.euler, got, want)
		}
	}
}

func TestQuatFromEulerOutOfRangeWraps(t *testing.T) {
	// Angles far outside one revolution stay valid rotations and match the
	// equivalent angle reduced modulo 2*pi.
	raw := float32(-250.8)
	reduced := float32(math.Mod(float64(raw), 2*math.Pi))

	got := QuatFromEuler(Vec3{Y: raw})
	want := QuatFromEuler(Vec3{Y: reduced})
	if !got.ApproxEqual(want, 1e-4) {
		t.Errorf("QuatFromEuler(-250.8) = %v, want rotation equal to %v", got, want)
	}
}

func TestQuatLookAt(t *testing.T) {
	eye := Vec3{0, 3, 12}
	target := Vec3{5, 0, 0}
	q := QuatLookAt(eye, target, UnitY)

	dir := q.Rotate(Forward)
	want := target.Sub(eye).Normalize()
	if !dir.ApproxEqual(want, 1e-5) {
		t.Errorf("LookAt forward = %v, want %v", dir, want)
	}
}

func TestQuatToMat4Identity(t *testing.T) {
	m := QuatIdentity().ToMat4()
	identity := Identity()
	for i := 0; i < 16; i++ {
		if math.Abs(float64(m[i]-identity[i])) > 0.0001 {
			t.Errorf("element %d: got %v, want %v", i, m[i], identity[i])
		}
	}
}
