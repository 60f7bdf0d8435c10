package scene

import (
	"github.com/google/uuid"

	"github.com/spaghettifunk/anvil/engine/math"
	"github.com/spaghettifunk/anvil/engine/resources"
)

/**
 * @brief A node in the scene hierarchy. A node may carry a mesh; most
 * grouping nodes do not. Transforms are parented, so the world matrix
 * of a node is composed up the ancestor chain.
 */
type Node struct {
	ID   uuid.UUID
	Name string
	/** @brief The local transform of the node. Parented via AddChild. */
	Transform *math.Transform
	/** @brief Whether the node is rendered. Hidden nodes can be excluded from tooling passes. */
	Visible bool
	/** @brief An optional mesh attached to the node. */
	Mesh *resources.Mesh

	Scene    *Scene
	Parent   *Node
	Children []*Node

	active bool
}

func NewNode(name string) *Node {
	return &Node{
		ID:        uuid.New(),
		Name:      name,
		Transform: math.TransformCreate(),
		Visible:   true,
		active:    true,
	}
}

// NewMeshNode creates a node carrying the provided geometry.
func NewMeshNode(name string, geometry *resources.Geometry) *Node {
	n := NewNode(name)
	n.Mesh = &resources.Mesh{
		Geometry: geometry,
	}
	return n
}

func (n *Node) AddChild(child *Node) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = n
	child.Scene = n.Scene
	child.Transform.Parent = n.Transform
	n.Children = append(n.Children, child)
}

func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			child.Transform.Parent = nil
			return
		}
	}
}

// SetActive render-enables or render-disables the node. Deactivated
// nodes stay in the scene and keep their children.
func (n *Node) SetActive(active bool) {
	n.active = active
}

func (n *Node) IsActive() bool {
	return n.active
}

// WorldTransform returns the node's local-to-world matrix, composed
// up the parent chain.
func (n *Node) WorldTransform() math.Mat4 {
	return n.Transform.GetWorld()
}
