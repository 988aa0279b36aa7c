// Package viewer drives the per-frame update of the space scene: camera
// movement, orbit controls, animation and the draw call, plus publishing
// models as their loads settle.
package viewer

import (
	"go.uber.org/zap"

	"github.com/Faultbox/spacescene/internal/engine/camera"
	"github.com/Faultbox/spacescene/internal/engine/controls"
	"github.com/Faultbox/spacescene/internal/engine/scene"
	"github.com/Faultbox/spacescene/internal/loader"
	"github.com/Faultbox/spacescene/internal/logger"
	"github.com/Faultbox/spacescene/internal/world"
	"github.com/Faultbox/spacescene/pkg/math"
)

// DefaultAnimationStep is the fixed animation advance per frame, a nominal
// 60 Hz. It is not measured from elapsed time.
const DefaultAnimationStep = 0.016

// Drawer submits one frame of a scene.
type Drawer interface {
	Render(s *scene.Scene, cam *camera.Camera)
}

// Driver owns the per-frame state. All methods must be called from the
// render thread.
type Driver struct {
	Scene      *scene.Scene
	Camera     *camera.Camera
	Orbit      *camera.OrbitControls
	Controller *controls.Controller
	Models     *world.Aggregator
	Keys       controls.KeyState

	// AnimationStep is the time in seconds every player advances per frame.
	AnimationStep float32

	drawer Drawer
	frames uint64
	loaded int
	failed int
}

// NewDriver wires a driver around cam drawing through drawer. The orbit
// target starts one unit in front of the camera.
func NewDriver(s *scene.Scene, cam *camera.Camera, drawer Drawer) *Driver {
	d := &Driver{
		Scene:         s,
		Camera:        cam,
		Orbit:         camera.NewOrbitControls(cam, cam.Position),
		Controller:    controls.NewController(),
		Models:        world.NewAggregator(s),
		Keys:          make(controls.KeyState),
		AnimationStep: DefaultAnimationStep,
		drawer:        drawer,
	}
	d.Orbit.SetTarget(cam.Position.Add(cam.Rotation.Rotate(math.Forward)))
	return d
}

// Frame runs one frame. The order matters: the keyboard moves the camera and
// re-aims the orbit target before the orbit controls apply their damping, so
// the two never pull the camera in different directions.
func (d *Driver) Frame() {
	d.Controller.Update(d.Keys, d.Camera, d.Orbit)
	d.Orbit.Update()
	d.Models.Advance(d.AnimationStep)
	d.drawer.Render(d.Scene, d.Camera)
	d.frames++
}

// Frames returns the number of frames drawn.
func (d *Driver) Frames() uint64 {
	return d.frames
}

// Publish adds a settled load to the scene. Failures are logged with their
// model id and otherwise ignored.
func (d *Driver) Publish(r loader.Result) {
	if r.Err != nil {
		d.failed++
		logger.Error("model failed to load",
			zap.String("model", r.Spec.ModelID),
			zap.Int("index", r.Index),
			zap.Error(r.Err),
		)
		return
	}

	d.loaded++
	d.Models.Add(r.Model)
	logger.Info("model loaded",
		zap.String("model", r.Spec.ModelID),
		zap.Int("index", r.Index),
		zap.Bool("animated", r.Model.Player != nil),
	)
}

// Pump publishes every result already waiting on results without blocking.
// It returns false once results is closed and drained.
func (d *Driver) Pump(results <-chan loader.Result) bool {
	for {
		select {
		case r, ok := <-results:
			if !ok {
				logger.Info("all models settled",
					zap.Int("loaded", d.loaded),
					zap.Int("failed", d.failed),
				)
				return false
			}
			d.Publish(r)
		default:
			return true
		}
	}
}

// Counts returns how many loads succeeded and failed so far.
func (d *Driver) Counts() (loaded, failed int) {
	return d.loaded, d.failed
}
