// Package scene provides the scene graph the viewer renders: nodes with
// transforms and meshes, plus the lights of the world.
package scene

import (
	"github.com/Faultbox/spacescene/pkg/math"
)

// Node is an object in the scene graph.
type Node struct {
	Name     string
	Position math.Vec3
	Rotation math.Quat
	Scale    math.Vec3
	Meshes   []*Mesh
	Visible  bool

	parent   *Node
	children []*Node
	euler    math.Vec3
}

// NewNode creates a visible node with an identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		Rotation: math.QuatIdentity(),
		Scale:    math.Vec3{X: 1, Y: 1, Z: 1},
		Visible:  true,
	}
}

// SetEuler sets the rotation from XYZ Euler angles in radians. The angles are
// kept as given and reported back by Euler.
func (n *Node) SetEuler(e math.Vec3) {
	n.euler = e
	n.Rotation = math.QuatFromEuler(e)
}

// Euler returns the angles last passed to SetEuler.
func (n *Node) Euler() math.Vec3 {
	return n.euler
}

// Parent returns the node's parent, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the direct children.
func (n *Node) Children() []*Node {
	return n.children
}

// AddChild attaches child, detaching it from any previous parent.
func (n *Node) AddChild(child *Node) {
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// RemoveChild detaches child. It is a no-op if child is not attached to n.
func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// LocalMatrix returns translation * rotation * scale.
func (n *Node) LocalMatrix() math.Mat4 {
	return math.Compose(n.Position, n.Rotation, n.Scale)
}

// WorldMatrix walks up the parent chain.
func (n *Node) WorldMatrix() math.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul(m)
	}
	return m
}

// Traverse visits n and every descendant depth-first.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, child := range n.children {
		child.Traverse(fn)
	}
}

// Walk visits every visible node with its world matrix. Invisible nodes hide
// their subtree.
func (n *Node) Walk(parent math.Mat4, fn func(node *Node, world math.Mat4)) {
	if !n.Visible {
		return
	}
	world := parent.Mul(n.LocalMatrix())
	fn(n, world)
	for _, child := range n.children {
		child.Walk(world, fn)
	}
}

// Find returns the first node named name in n's subtree.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, child := range n.children {
		if found := child.Find(name); found != nil {
			return found
		}
	}
	return nil
}
