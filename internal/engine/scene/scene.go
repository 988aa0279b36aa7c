package scene

import "github.com/Faultbox/spacescene/pkg/math"

// Light has a colour and an intensity.
type Light struct {
	Color     [3]float32
	Intensity float32
}

// DirectionalLight shines from Position toward the origin.
type DirectionalLight struct {
	Light
	Position math.Vec3
}

// Scene is the root of everything drawn in a frame.
type Scene struct {
	Root        *Node
	Ambient     Light
	Directional DirectionalLight
	Background  [4]float32
}

// New creates a scene lit by a white ambient light and a white directional
// light from (5, 5, 5), both at intensity 1.
func New() *Scene {
	return &Scene{
		Root:    NewNode("scene"),
		Ambient: Light{Color: [3]float32{1, 1, 1}, Intensity: 1},
		Directional: DirectionalLight{
			Light:    Light{Color: [3]float32{1, 1, 1}, Intensity: 1},
			Position: math.Vec3{X: 5, Y: 5, Z: 5},
		},
	}
}

// Add attaches node to the scene root.
func (s *Scene) Add(node *Node) {
	s.Root.AddChild(node)
}

// Remove detaches node from the scene root.
func (s *Scene) Remove(node *Node) {
	s.Root.RemoveChild(node)
}

// Walk visits every visible node with its world matrix.
func (s *Scene) Walk(fn func(node *Node, world math.Mat4)) {
	s.Root.Walk(math.Identity(), fn)
}
