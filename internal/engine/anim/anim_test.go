package anim

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/spacescene/internal/engine/scene"
	"github.com/Faultbox/spacescene/pkg/math"
)

func translationClip(node *scene.Node, interp Interpolation) *Clip {
	return NewClip("move", []Channel{{
		Target:        node,
		Path:          PathTranslation,
		Interpolation: interp,
		Times:         []float32{0, 1},
		Values:        [][4]float32{{0, 0, 0}, {10, 0, 0}},
	}})
}

func TestNewClipDuration(t *testing.T) {
	clip := NewClip("c", []Channel{
		{Times: []float32{0, 0.5}},
		{Times: []float32{0, 2.25}},
		{},
	})
	if clip.Duration != 2.25 {
		t.Errorf("Duration = %v, want 2.25", clip.Duration)
	}
}

func TestSampleLinear(t *testing.T) {
	node := scene.NewNode("n")
	ch := translationClip(node, Linear).Channels[0]

	tests := []struct {
		t    float32
		want float32
	}{
		{-1, 0},
		{0, 0},
		{0.25, 2.5},
		{0.5, 5},
		{1, 10},
		{3, 10},
	}
	for _, tt := range tests {
		if got := ch.Sample(tt.t)[0]; gomath.Abs(float64(got-tt.want)) > 1e-5 {
			t.Errorf("Sample(%v) = %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestSampleStep(t *testing.T) {
	ch := translationClip(scene.NewNode("n"), Step).Channels[0]
	if got := ch.Sample(0.9)[0]; got != 0 {
		t.Errorf("step Sample(0.9) = %v, want 0", got)
	}
}

func TestSampleCubicSplineMidpoint(t *testing.T) {
	ch := Channel{
		Path:          PathTranslation,
		Interpolation: CubicSpline,
		Times:         []float32{0, 2},
		Values: [][4]float32{
			{}, {0, 0, 0}, {}, // key 0: in, value, out
			{}, {4, 8, 0}, {}, // key 1
		},
	}
	got := ch.Sample(1)
	if gomath.Abs(float64(got[0]-2)) > 1e-5 || gomath.Abs(float64(got[1]-4)) > 1e-5 {
		t.Errorf("cubic midpoint = %v, want (2, 4, 0)", got)
	}
	if end := ch.Sample(2); end[1] != 8 {
		t.Errorf("cubic end = %v, want y=8", end)
	}
}

func TestSampleRotationSlerp(t *testing.T) {
	q1 := math.QuatIdentity()
	q2 := math.QuatFromAxisAngle(math.UnitY, float32(gomath.Pi/2))
	node := scene.NewNode("n")
	ch := Channel{
		Target: node,
		Path:   PathRotation,
		Times:  []float32{0, 1},
		Values: [][4]float32{{q1.X, q1.Y, q1.Z, q1.W}, {q2.X, q2.Y, q2.Z, q2.W}},
	}

	ch.Apply(0.5)
	want := math.QuatFromAxisAngle(math.UnitY, float32(gomath.Pi/4))
	if !node.Rotation.ApproxEqual(want, 1e-5) {
		t.Errorf("rotation at 0.5 = %v, want %v", node.Rotation, want)
	}
}

func TestPlayerRequiresPlay(t *testing.T) {
	node := scene.NewNode("n")
	p := NewPlayer(translationClip(node, Linear))

	p.Update(0.5)
	if node.Position.X != 0 || p.Time() != 0 {
		t.Errorf("stopped player should not advance, pos=%v time=%v", node.Position, p.Time())
	}

	p.Play()
	p.Update(0.5)
	if gomath.Abs(float64(node.Position.X-5)) > 1e-5 {
		t.Errorf("after 0.5s X = %v, want 5", node.Position.X)
	}
}

func TestPlayerLoops(t *testing.T) {
	node := scene.NewNode("n")
	p := NewPlayer(translationClip(node, Linear))
	p.Play()

	for i := 0; i < 5; i++ {
		p.Update(0.25)
	}
	// 1.25s into a 1s clip wraps to 0.25s.
	if gomath.Abs(float64(p.Time()-0.25)) > 1e-5 {
		t.Errorf("looped time = %v, want 0.25", p.Time())
	}
	if gomath.Abs(float64(node.Position.X-2.5)) > 1e-4 {
		t.Errorf("looped X = %v, want 2.5", node.Position.X)
	}
}

func TestPlayerOnceClampsAndStops(t *testing.T) {
	node := scene.NewNode("n")
	p := NewPlayer(translationClip(node, Linear))
	p.Loop = false
	p.Play()

	p.Update(3)
	if p.Playing() {
		t.Error("non-looping player should stop at the end")
	}
	if node.Position.X != 10 {
		t.Errorf("X = %v, want 10", node.Position.X)
	}

	p.Stop()
	if p.Time() != 0 {
		t.Errorf("Stop should rewind, time=%v", p.Time())
	}
}

func TestFixedStepAccumulates(t *testing.T) {
	node := scene.NewNode("n")
	clip := NewClip("long", []Channel{{
		Target: node,
		Path:   PathScale,
		Times:  []float32{0, 10},
		Values: [][4]float32{{1, 1, 1}, {11, 11, 11}},
	}})
	p := NewPlayer(clip)
	p.Play()

	for i := 0; i < 60; i++ {
		p.Update(0.016)
	}
	if gomath.Abs(float64(p.Time()-0.96)) > 1e-4 {
		t.Errorf("60 fixed steps = %v s, want 0.96", p.Time())
	}
}
