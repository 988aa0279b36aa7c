package controls

import (
	"github.com/Faultbox/spacescene/pkg/math"
)

// DefaultMoveSpeed is the per-frame displacement for one held key.
const DefaultMoveSpeed = 0.1

// binding maps a set of alias keys to a unit direction in camera-local space.
type binding struct {
	keys []Key
	dir  math.Vec3
}

var bindings = []binding{
	{[]Key{KeyW, ArrowUp}, math.Vec3{Z: -1}},
	{[]Key{KeyS, ArrowDown}, math.Vec3{Z: 1}},
	{[]Key{KeyA, ArrowLeft}, math.Vec3{X: -1}},
	{[]Key{KeyD, ArrowRight}, math.Vec3{X: 1}},
	{[]Key{Space}, math.Vec3{Y: 1}},
	{[]Key{ShiftLeft}, math.Vec3{Y: -1}},
}

func (b binding) held(keys KeyState) bool {
	for _, k := range b.keys {
		if keys.Held(k) {
			return true
		}
	}
	return false
}

// FrameDisplacement adds speed along each binding whose keys are held and
// rotates the sum into world space by orientation. A binding counts once
// however many of its aliases are down, so opposite directions cancel.
func FrameDisplacement(keys KeyState, speed float32, orientation math.Quat) math.Vec3 {
	var local math.Vec3
	for _, b := range bindings {
		if b.held(keys) {
			local = local.Add(b.dir.Scale(speed))
		}
	}
	if local == math.Zero {
		return math.Zero
	}
	return orientation.Rotate(local)
}

// Pose is a movable camera.
type Pose interface {
	Pos() math.Vec3
	SetPos(math.Vec3)
	Orientation() math.Quat
}

// Targeter has an orbit target.
type Targeter interface {
	SetTarget(math.Vec3)
}

// Controller moves the camera from held keys once per frame.
type Controller struct {
	MoveSpeed float32
}

// NewController returns a controller with the default move speed.
func NewController() *Controller {
	return &Controller{MoveSpeed: DefaultMoveSpeed}
}

// Update displaces the camera and re-aims the orbit target one unit in front
// of it. The target is set every frame, even when no key is held.
func (c *Controller) Update(keys KeyState, cam Pose, orbit Targeter) {
	orient := cam.Orientation()
	pos := cam.Pos().Add(FrameDisplacement(keys, c.MoveSpeed, orient))
	cam.SetPos(pos)
	orbit.SetTarget(pos.Add(orient.Rotate(math.Forward)))
}
