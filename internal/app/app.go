// Package app wires the window, renderer, asset loading and the frame
// driver into the running viewer.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/spacescene/internal/assets"
	"github.com/Faultbox/spacescene/internal/config"
	"github.com/Faultbox/spacescene/internal/engine/camera"
	"github.com/Faultbox/spacescene/internal/engine/controls"
	"github.com/Faultbox/spacescene/internal/engine/debug"
	"github.com/Faultbox/spacescene/internal/engine/input"
	"github.com/Faultbox/spacescene/internal/engine/renderer"
	"github.com/Faultbox/spacescene/internal/engine/scene"
	"github.com/Faultbox/spacescene/internal/engine/window"
	"github.com/Faultbox/spacescene/internal/loader"
	"github.com/Faultbox/spacescene/internal/logger"
	"github.com/Faultbox/spacescene/internal/placement"
	"github.com/Faultbox/spacescene/internal/viewer"
	"github.com/Faultbox/spacescene/pkg/math"
)

// App is the viewer instance.
type App struct {
	window      *window.Window
	renderer    *renderer.Renderer
	input       *input.Input
	assets      *assets.Manager
	loader      *loader.Loader
	driver      *viewer.Driver
	screenshots *debug.Screenshots
	specs       []placement.Spec
	title       string
	settled     int // loads reflected in the window title

	capture bool // save the next frame before presenting it
}

// New creates the window and GL state and resolves the placement table.
// Nothing is loaded until Run.
func New(cfg *config.Config) (*App, error) {
	specs, err := Placements(cfg.Scene.Placements)
	if err != nil {
		return nil, err
	}

	mgr, err := NewAssetManager(cfg.Assets)
	if err != nil {
		return nil, err
	}

	a := &App{
		input:       input.New(),
		assets:      mgr,
		loader:      loader.New(mgr, cfg.Assets.Format, cfg.Assets.MaxConcurrent),
		screenshots: debug.NewScreenshots(cfg.Scene.ScreenshotDir, "spacescene"),
		specs:       specs,
		title:       cfg.Window.Title,
	}

	// Create window (this also creates OpenGL context)
	a.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
		Samples:    cfg.Window.Samples,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	w, h := a.window.DrawableSize()
	a.renderer, err = renderer.New(w, h)
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.driver = NewDriver(cfg, w, h, a.renderer)

	logger.Info("viewer initialized", zap.Int("placements", len(specs)))
	return a, nil
}

// NewDriver builds the frame driver from the camera and scene settings.
func NewDriver(cfg *config.Config, width, height int, drawer viewer.Drawer) *viewer.Driver {
	cc := cfg.Camera
	cam := camera.New(cc.FOV, 1, cc.Near, cc.Far, math.V3(cc.Position))
	cam.SetAspect(width, height)

	d := viewer.NewDriver(scene.New(), cam, drawer)
	d.Controller.MoveSpeed = cc.MoveSpeed
	d.Orbit.EnableDamping = cc.EnableDamping
	d.Orbit.DampingFactor = cc.DampingFactor
	d.Orbit.RotateSpeed = cc.RotateSpeed
	d.Orbit.ZoomSpeed = cc.ZoomSpeed
	d.AnimationStep = cfg.Scene.AnimationStep
	return d
}

// Placements returns the table in path, or the built-in layout when path is
// empty. Suspicious entries are logged but kept.
func Placements(path string) ([]placement.Spec, error) {
	specs := placement.Default()
	if path != "" {
		var err error
		if specs, err = placement.LoadFile(path); err != nil {
			return nil, err
		}
		logger.Info("placements loaded", zap.String("path", path), zap.Int("count", len(specs)))
	}

	if err := placement.Validate(specs); err != nil {
		logger.Warn("placement table has invalid entries", zap.Error(err))
	}
	for _, s := range specs {
		if s.UnusualRotation() {
			// Kept as authored; these look like degrees written as radians.
			r := s.Rotation.Array()
			logger.Debug("rotation outside one revolution",
				zap.String("model", s.ModelID),
				zap.Float32s("rotation", r[:]),
			)
		}
	}
	return specs, nil
}

// NewAssetManager reads from the local root and, when configured, from the
// HTTP base URL in preference.
func NewAssetManager(cfg config.AssetsConfig) (*assets.Manager, error) {
	mgr := assets.NewManager(assets.NewDirSource(cfg.Root))
	if cfg.BaseURL != "" {
		src, err := assets.NewHTTPSource(cfg.BaseURL, cfg.HTTPTimeout)
		if err != nil {
			return nil, err
		}
		mgr.AddSource(src)
	}
	logger.Info("asset sources configured",
		zap.String("root", cfg.Root),
		zap.String("base_url", cfg.BaseURL),
		zap.String("format", cfg.Format),
	)
	return mgr, nil
}

// Run starts the loads and the frame loop. It returns when the window is
// closed, Escape is pressed or ctx is cancelled. Loads still pending at that
// point are abandoned.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := a.loader.LoadAll(ctx, a.specs)

	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting frame loop")

	for ctx.Err() == nil {
		// 1. Process input
		if !a.handleEvents(a.input.Update()) {
			break
		}

		// 2. Publish settled loads
		if results != nil && !a.driver.Pump(results) {
			results = nil
			hits, misses := a.assets.Stats()
			logger.Debug("asset cache", zap.Int("hits", hits), zap.Int("misses", misses))
		}
		a.updateTitle()

		// 3. Update and draw
		a.driver.Frame()

		if a.capture {
			a.capture = false
			a.screenshot()
		}

		// 4. Present (swap buffers)
		a.window.SwapBuffers()

		// FPS counter
		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			st := a.renderer.Stats()
			logger.Debug("fps",
				zap.Int("count", frameCount),
				zap.Int("draw_calls", st.DrawCalls),
				zap.Int("triangles", st.Triangles),
				zap.Int("models", a.driver.Models.Len()),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// handleEvents applies one batch of input and reports whether to keep
// running.
func (a *App) handleEvents(events []input.Event) bool {
	d := a.driver
	for _, e := range events {
		switch e.Type {
		case input.EventQuit:
			return false
		case input.EventWindowResize:
			w, h := a.window.DrawableSize()
			d.Camera.SetAspect(w, h)
			a.renderer.Resize(w, h)
		case input.EventFocusLost:
			d.Keys.Reset()
		case input.EventKeyDown:
			switch e.Key {
			case controls.Escape:
				return false
			case controls.F12:
				a.capture = true
			default:
				d.Keys.Press(e.Key)
			}
		case input.EventKeyUp:
			d.Keys.Release(e.Key)
		case input.EventMouseDrag:
			_, h := a.window.DrawableSize()
			d.Orbit.HandleDrag(e.DX, e.DY, h)
		case input.EventMouseWheel:
			d.Orbit.HandleZoom(e.DY)
		}
	}
	return true
}

// updateTitle shows load progress until every placement has settled.
func (a *App) updateTitle() {
	loaded, failed := a.driver.Counts()
	if loaded+failed == a.settled {
		return
	}
	a.settled = loaded + failed
	title := a.title
	if a.settled < len(a.specs) {
		title = fmt.Sprintf("%s (loading %d/%d)", a.title, a.settled, len(a.specs))
	}
	a.window.SetTitle(title)
}

func (a *App) screenshot() {
	pixels, w, h := a.renderer.ReadPixels()
	name, err := a.screenshots.SaveFramebuffer(pixels, w, h)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", name))
}

// Close releases GPU, window and asset resources.
func (a *App) Close() {
	logger.Info("closing viewer")

	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
	a.assets.Close()
}
