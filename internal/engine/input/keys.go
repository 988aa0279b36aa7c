package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/spacescene/internal/engine/controls"
)

// Scancodes name physical key positions, which matches DOM key codes.
var scancodeKeys = map[sdl.Scancode]controls.Key{
	sdl.SCANCODE_W:      controls.KeyW,
	sdl.SCANCODE_A:      controls.KeyA,
	sdl.SCANCODE_S:      controls.KeyS,
	sdl.SCANCODE_D:      controls.KeyD,
	sdl.SCANCODE_UP:     controls.ArrowUp,
	sdl.SCANCODE_DOWN:   controls.ArrowDown,
	sdl.SCANCODE_LEFT:   controls.ArrowLeft,
	sdl.SCANCODE_RIGHT:  controls.ArrowRight,
	sdl.SCANCODE_SPACE:  controls.Space,
	sdl.SCANCODE_LSHIFT: controls.ShiftLeft,
	sdl.SCANCODE_ESCAPE: controls.Escape,
	sdl.SCANCODE_F12:    controls.F12,
}

// KeyFromScancode maps an SDL scancode to its key code. Keys the viewer does
// not react to report false.
func KeyFromScancode(sc sdl.Scancode) (controls.Key, bool) {
	k, ok := scancodeKeys[sc]
	return k, ok
}
