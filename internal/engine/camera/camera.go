// Package camera provides the perspective camera and orbit controls.
package camera

import (
	gomath "math"

	"github.com/Faultbox/spacescene/pkg/math"
)

// Camera is a perspective camera looking down its local -Z axis.
type Camera struct {
	Position math.Vec3
	Rotation math.Quat

	FOV    float32 // vertical field of view, degrees
	Aspect float32
	Near   float32
	Far    float32
}

// New creates a camera at position looking down -Z.
func New(fov, aspect, near, far float32, position math.Vec3) *Camera {
	return &Camera{
		Position: position,
		Rotation: math.QuatIdentity(),
		FOV:      fov,
		Aspect:   aspect,
		Near:     near,
		Far:      far,
	}
}

// Pos returns the camera position.
func (c *Camera) Pos() math.Vec3 { return c.Position }

// SetPos moves the camera.
func (c *Camera) SetPos(p math.Vec3) { c.Position = p }

// Orientation returns the camera rotation.
func (c *Camera) Orientation() math.Quat { return c.Rotation }

// LookAt turns the camera to face target with +Y up.
func (c *Camera) LookAt(target math.Vec3) {
	if target.Distance(c.Position) < 1e-6 {
		return
	}
	c.Rotation = math.QuatLookAt(c.Position, target, math.UnitY)
}

// SetAspect updates the aspect ratio from a drawable size. Zero sizes are
// ignored (minimised windows report 0x0).
func (c *Camera) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// ViewMatrix returns the world-to-camera transform.
func (c *Camera) ViewMatrix() math.Mat4 {
	return math.ViewFrom(c.Position, c.Rotation)
}

// ProjectionMatrix returns the perspective projection.
func (c *Camera) ProjectionMatrix() math.Mat4 {
	return math.Perspective(float32(gomath.Pi)*c.FOV/180, c.Aspect, c.Near, c.Far)
}
