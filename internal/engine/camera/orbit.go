package camera

import (
	gomath "math"

	"github.com/Faultbox/spacescene/pkg/math"
)

const polarEpsilon = 1e-6

// OrbitControls rotates and dollies a camera around a target point.
// Drag and wheel input accumulate deltas; Update applies them, eased by the
// damping factor when damping is enabled.
type OrbitControls struct {
	Target math.Vec3

	EnableDamping bool
	DampingFactor float32

	// Sensitivity
	RotateSpeed float32
	ZoomSpeed   float32

	MinDistance float32
	MaxDistance float32

	cam *Camera

	// Pending input
	deltaTheta float32
	deltaPhi   float32
	zoom       float32 // multiplicative, 1 means none
}

// NewOrbitControls creates controls for cam around target.
func NewOrbitControls(cam *Camera, target math.Vec3) *OrbitControls {
	return &OrbitControls{
		Target:        target,
		EnableDamping: true,
		DampingFactor: 0.05,
		RotateSpeed:   1,
		ZoomSpeed:     1,
		MinDistance:   0.01,
		MaxDistance:   float32(gomath.Inf(1)),
		cam:           cam,
		zoom:          1,
	}
}

// SetTarget moves the orbit pivot.
func (o *OrbitControls) SetTarget(t math.Vec3) { o.Target = t }

// HandleDrag records a pointer drag in pixels. height is the viewport height;
// a drag across the full height turns the camera by one full revolution.
func (o *OrbitControls) HandleDrag(dx, dy float32, height int) {
	if height <= 0 {
		return
	}
	h := float32(height)
	o.deltaTheta -= 2 * float32(gomath.Pi) * dx / h * o.RotateSpeed
	o.deltaPhi -= 2 * float32(gomath.Pi) * dy / h * o.RotateSpeed
}

// HandleZoom records wheel movement. Positive values dolly in.
func (o *OrbitControls) HandleZoom(delta float32) {
	if delta == 0 {
		return
	}
	scale := float32(gomath.Pow(0.95, float64(o.ZoomSpeed)*gomath.Abs(float64(delta))))
	if delta > 0 {
		o.zoom *= scale
	} else {
		o.zoom /= scale
	}
}

// Update applies pending input, re-aims the camera at the target and decays
// what is left of the input.
func (o *OrbitControls) Update() {
	offset := o.cam.Position.Sub(o.Target)
	radius := offset.Length()

	theta := float32(gomath.Atan2(float64(offset.X), float64(offset.Z)))
	var phi float32
	if radius > 0 {
		phi = float32(gomath.Acos(clamp(float64(offset.Y/radius), -1, 1)))
	}

	factor := float32(1)
	if o.EnableDamping {
		factor = o.DampingFactor
	}

	theta += o.deltaTheta * factor
	phi += o.deltaPhi * factor
	phi = float32(clamp(float64(phi), polarEpsilon, gomath.Pi-polarEpsilon))

	zoom := o.zoom
	if o.EnableDamping {
		zoom = 1 + (o.zoom-1)*factor
	}
	radius = float32(clamp(float64(radius*zoom), float64(o.MinDistance), float64(o.MaxDistance)))

	sinPhi := float32(gomath.Sin(float64(phi)))
	offset = math.Vec3{
		X: radius * sinPhi * float32(gomath.Sin(float64(theta))),
		Y: radius * float32(gomath.Cos(float64(phi))),
		Z: radius * sinPhi * float32(gomath.Cos(float64(theta))),
	}
	o.cam.Position = o.Target.Add(offset)
	o.cam.LookAt(o.Target)

	if o.EnableDamping {
		o.deltaTheta *= 1 - o.DampingFactor
		o.deltaPhi *= 1 - o.DampingFactor
		o.zoom = 1 + (o.zoom-1)*(1-o.DampingFactor)
	} else {
		o.deltaTheta, o.deltaPhi, o.zoom = 0, 0, 1
	}
}

// Settled reports whether no input remains to be applied.
func (o *OrbitControls) Settled() bool {
	const eps = 1e-4
	return gomath.Abs(float64(o.deltaTheta)) < eps &&
		gomath.Abs(float64(o.deltaPhi)) < eps &&
		gomath.Abs(float64(o.zoom-1)) < eps
}

func clamp(v, lo, hi float64) float64 {
	return gomath.Max(lo, gomath.Min(hi, v))
}
