package scene

// Scene is the graph plus the cubemaps used as backdrop and ambient light.
type Scene struct {
	Graph       *Graph
	Background  *Cubemap
	Environment *Cubemap
}

func NewScene() *Scene {
	return &Scene{Graph: NewGraph()}
}

func (s *Scene) Root() *Node { return s.Graph.Root() }

// Add attaches node under the root.
func (s *Scene) Add(node *Node) error {
	return s.Graph.Attach(s.Graph.Root().ID(), node)
}

// Lights returns the visible light nodes in traversal order.
func (s *Scene) Lights() []*Node {
	var out []*Node
	for n := range s.Graph.All() {
		if n.Visible && n.Payload.Kind == PayloadLight {
			out = append(out, n)
		}
	}
	return out
}

// Drawables returns the visible mesh nodes whose ancestors are all visible.
func (s *Scene) Drawables() []*Node {
	var out []*Node
	collectDrawables(s.Graph.Root(), &out)
	return out
}

func collectDrawables(n *Node, out *[]*Node) {
	if !n.Visible {
		return
	}
	if n.Payload.Kind == PayloadMesh && n.Payload.Mesh.Mesh != nil {
		*out = append(*out, n)
	}
	for _, c := range n.children {
		collectDrawables(c, out)
	}
}
