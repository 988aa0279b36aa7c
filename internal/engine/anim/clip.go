// Package anim plays keyframed transform clips on scene nodes.
package anim

import (
	"sort"

	"github.com/Faultbox/spacescene/internal/engine/scene"
	"github.com/Faultbox/spacescene/pkg/math"
)

// Path is the node property a channel animates.
type Path int

const (
	PathTranslation Path = iota
	PathRotation
	PathScale
)

func (p Path) String() string {
	switch p {
	case PathTranslation:
		return "translation"
	case PathRotation:
		return "rotation"
	case PathScale:
		return "scale"
	}
	return "unknown"
}

// Interpolation selects how values between keyframes are computed.
type Interpolation int

const (
	Linear Interpolation = iota
	Step
	CubicSpline
)

// Channel animates one property of one node.
// Values hold one entry per key (XYZ for translation/scale, XYZW for
// rotation). CubicSpline channels hold three entries per key: in-tangent,
// value, out-tangent.
type Channel struct {
	Target        *scene.Node
	Path          Path
	Interpolation Interpolation
	Times         []float32
	Values        [][4]float32
}

// Clip is a named set of channels played together.
type Clip struct {
	Name     string
	Duration float32
	Channels []Channel
}

// NewClip builds a clip whose duration is the latest key time of any channel.
func NewClip(name string, channels []Channel) *Clip {
	c := &Clip{Name: name, Channels: channels}
	for _, ch := range channels {
		if n := len(ch.Times); n > 0 && ch.Times[n-1] > c.Duration {
			c.Duration = ch.Times[n-1]
		}
	}
	return c
}

// Apply poses every channel target at time t.
func (c *Clip) Apply(t float32) {
	for i := range c.Channels {
		c.Channels[i].Apply(t)
	}
}

// Apply writes the sampled value at time t into the target node.
func (ch *Channel) Apply(t float32) {
	if ch.Target == nil || len(ch.Times) == 0 {
		return
	}
	v := ch.Sample(t)
	switch ch.Path {
	case PathTranslation:
		ch.Target.Position = math.Vec3{X: v[0], Y: v[1], Z: v[2]}
	case PathRotation:
		ch.Target.Rotation = math.Quat{X: v[0], Y: v[1], Z: v[2], W: v[3]}.Normalize()
	case PathScale:
		ch.Target.Scale = math.Vec3{X: v[0], Y: v[1], Z: v[2]}
	}
}

// Sample returns the channel value at time t. Times before the first key
// or after the last clamp to the end keys.
func (ch *Channel) Sample(t float32) [4]float32 {
	n := len(ch.Times)
	if n == 0 {
		return [4]float32{}
	}
	if t <= ch.Times[0] || n == 1 {
		return ch.value(0)
	}
	if t >= ch.Times[n-1] {
		return ch.value(n - 1)
	}

	next := sort.Search(n, func(i int) bool { return ch.Times[i] > t })
	prev := next - 1

	t0, t1 := ch.Times[prev], ch.Times[next]
	dt := t1 - t0
	u := float32(0)
	if dt > 0 {
		u = (t - t0) / dt
	}

	switch ch.Interpolation {
	case Step:
		return ch.value(prev)
	case CubicSpline:
		return ch.cubic(prev, next, u, dt)
	}

	a, b := ch.value(prev), ch.value(next)
	if ch.Path == PathRotation {
		q := quat(a).Slerp(quat(b), u)
		return [4]float32{q.X, q.Y, q.Z, q.W}
	}
	return lerp(a, b, u)
}

func (ch *Channel) value(key int) [4]float32 {
	if ch.Interpolation == CubicSpline {
		return ch.Values[key*3+1]
	}
	return ch.Values[key]
}

// cubic evaluates the Hermite spline between two keys.
func (ch *Channel) cubic(prev, next int, u, dt float32) [4]float32 {
	v0 := ch.Values[prev*3+1]
	out0 := ch.Values[prev*3+2]
	in1 := ch.Values[next*3]
	v1 := ch.Values[next*3+1]

	u2 := u * u
	u3 := u2 * u
	h00 := 2*u3 - 3*u2 + 1
	h10 := u3 - 2*u2 + u
	h01 := -2*u3 + 3*u2
	h11 := u3 - u2

	var r [4]float32
	for i := range r {
		r[i] = h00*v0[i] + h10*dt*out0[i] + h01*v1[i] + h11*dt*in1[i]
	}
	if ch.Path == PathRotation {
		q := quat(r).Normalize()
		return [4]float32{q.X, q.Y, q.Z, q.W}
	}
	return r
}

func quat(v [4]float32) math.Quat {
	return math.Quat{X: v[0], Y: v[1], Z: v[2], W: v[3]}
}

func lerp(a, b [4]float32, t float32) [4]float32 {
	return [4]float32{
		a[0] + t*(b[0]-a[0]),
		a[1] + t*(b[1]-a[1]),
		a[2] + t*(b[2]-a[2]),
		a[3] + t*(b[3]-a[3]),
	}
}
