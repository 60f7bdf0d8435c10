package scene

type Scene struct {
	Name  string
	Roots []*Node
}

func NewScene(name string) *Scene {
	return &Scene{
		Name:  name,
		Roots: make([]*Node, 0),
	}
}

// AddNode adds a root-level node to the scene.
func (s *Scene) AddNode(n *Node) {
	n.Scene = s
	s.Roots = append(s.Roots, n)
}

// RemoveNode permanently removes the node (and its subtree) from the
// scene, detaching it from its parent if it has one.
func (s *Scene) RemoveNode(n *Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
		n.Scene = nil
		return
	}
	for i, root := range s.Roots {
		if root == n {
			s.Roots = append(s.Roots[:i], s.Roots[i+1:]...)
			n.Scene = nil
			return
		}
	}
}

// Contains reports whether the node is still reachable from the scene
// roots.
func (s *Scene) Contains(n *Node) bool {
	found := false
	s.Walk(func(candidate *Node) {
		if candidate == n {
			found = true
		}
	})
	return found
}

func (s *Scene) FindByName(name string) *Node {
	var found *Node
	s.Walk(func(n *Node) {
		if found == nil && n.Name == name {
			found = n
		}
	})
	return found
}

// Walk visits every node in the scene depth-first.
func (s *Scene) Walk(visit func(*Node)) {
	for _, root := range s.Roots {
		walkNode(root, visit)
	}
}

func walkNode(n *Node, visit func(*Node)) {
	visit(n)
	for _, c := range n.Children {
		walkNode(c, visit)
	}
}

// CollectMeshNodes flattens the provided selection roots into the full
// set of mesh-bearing descendant nodes, preserving depth-first
// traversal order. Nodes reachable through more than one root appear
// more than once; deduplication is the consumer's concern.
func CollectMeshNodes(roots []*Node) []*Node {
	var out []*Node
	for _, root := range roots {
		walkNode(root, func(n *Node) {
			if n.Mesh != nil {
				out = append(out, n)
			}
		})
	}
	return out
}
