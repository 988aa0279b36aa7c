package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(Vec3{1, 2, 3})
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(Vec3{5, 10, 15})
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
}

func TestComposeScaleThenTranslate(t *testing.T) {
	m := Compose(Vec3{10, 20, 30}, QuatIdentity(), Vec3{2, 2, 2})
	got := m.TransformPoint(Vec3{1, 2, 3})
	want := Vec3{12, 24, 36}
	if got != want {
		t.Errorf("Compose: got %v, want %v", got, want)
	}
}

func TestComposeRotation(t *testing.T) {
	rot := QuatFromAxisAngle(UnitY, float32(math.Pi/2))
	m := Compose(Vec3{}, rot, Vec3{1, 1, 1})
	got := m.TransformPoint(Vec3{1, 0, 0})

	// 90 degrees around Y takes +X to -Z.
	if !got.ApproxEqual(Vec3{0, 0, -1}, 1e-5) {
		t.Errorf("Compose rotation: got %v, want (0, 0, -1)", got)
	}
}

func TestViewFromInvertsPlacement(t *testing.T) {
	pos := Vec3{3, -2, 7}
	rot := QuatFromEuler(Vec3{0.3, -1.1, 0.2})
	model := Compose(pos, rot, Vec3{1, 1, 1})
	view := ViewFrom(pos, rot)

	p := Vec3{1, 2, 3}
	got := view.TransformPoint(model.TransformPoint(p))
	if !got.ApproxEqual(p, 1e-4) {
		t.Errorf("view * model should be identity: got %v, want %v", got, p)
	}
}

func TestPerspective(t *testing.T) {
	m := Perspective(float32(math.Pi/4), 1.0, 0.1, 100.0)

	if m[0] == 0 || m[5] == 0 {
		t.Error("Perspective should have non-zero elements")
	}
	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}
}

func TestDecomposeRoundTrip(t *testing.T) {
	pos := Vec3{-12, -4.5, 2}
	rot := QuatFromEuler(Vec3{0.1, -250.8, 0.3})
	scale := Vec3{0.03, 0.03, 0.04}

	p, r, s := Compose(pos, rot, scale).Decompose()
	if !p.ApproxEqual(pos, 1e-5) {
		t.Errorf("position = %v, want %v", p, pos)
	}
	if !s.ApproxEqual(scale, 1e-5) {
		t.Errorf("scale = %v, want %v", s, scale)
	}
	if !r.ApproxEqual(rot, 1e-4) {
		t.Errorf("rotation = %v, want %v", r, rot)
	}
}
