// Package controls turns held keyboard state into camera movement.
package controls

// Key is a platform key code in the DOM naming scheme ("KeyW", "ArrowUp",
// "Space", "ShiftLeft"). Codes name physical positions, not characters.
type Key string

// Keys the viewer reacts to.
const (
	KeyW       Key = "KeyW"
	KeyA       Key = "KeyA"
	KeyS       Key = "KeyS"
	KeyD       Key = "KeyD"
	ArrowUp    Key = "ArrowUp"
	ArrowDown  Key = "ArrowDown"
	ArrowLeft  Key = "ArrowLeft"
	ArrowRight Key = "ArrowRight"
	Space      Key = "Space"
	ShiftLeft  Key = "ShiftLeft"
	Escape     Key = "Escape"
	F12        Key = "F12"
)

// KeyState records which keys are currently held. Missing keys are not held.
// It is owned by the render thread and passed explicitly to the controller.
type KeyState map[Key]bool

// Press marks k as held.
func (ks KeyState) Press(k Key) { ks[k] = true }

// Release marks k as not held.
func (ks KeyState) Release(k Key) { ks[k] = false }

// Held reports whether k is held.
func (ks KeyState) Held(k Key) bool { return ks[k] }

// Reset releases every key, e.g. on focus loss.
func (ks KeyState) Reset() {
	for k := range ks {
		delete(ks, k)
	}
}
