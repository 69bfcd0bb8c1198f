package scene

import (
	"fmt"
	"iter"
)

// Graph is the ownership tree rooted at a fixed root node. It indexes every
// attached node by ID. A Graph belongs to the main thread.
type Graph struct {
	root  *Node
	index map[NodeID]*Node
}

func NewGraph() *Graph {
	root := NewNode("root")
	g := &Graph{
		root:  root,
		index: map[NodeID]*Node{root.id: root},
	}
	root.graph = g
	return g
}

func (g *Graph) Root() *Node { return g.root }

// Len is the number of nodes reachable from the root, root included.
func (g *Graph) Len() int { return len(g.index) }

// Node looks up an attached node.
func (g *Graph) Node(id NodeID) (*Node, bool) {
	n, ok := g.index[id]
	return n, ok
}

// Attach inserts child (with its subtree) under the node parentID. Attaching
// a node that is already owned anywhere, the root, or a subtree that shares
// nodes with the graph fails with *CyclicAttachmentError and changes nothing.
// A subtree holding a node with an invalid transform fails with
// *InvalidTransformError, also without changing the graph.
func (g *Graph) Attach(parentID NodeID, child *Node) error {
	parent, ok := g.index[parentID]
	if !ok {
		return fmt.Errorf("attach under %d: %w", parentID, ErrNodeNotFound)
	}
	if err := checkAttach(parent, child); err != nil {
		return err
	}
	if child == g.root {
		return &CyclicAttachmentError{Parent: parentID, Child: child.id, Reason: "root cannot be attached"}
	}
	for n := range child.All() {
		if n.graph != nil {
			return &CyclicAttachmentError{Parent: parentID, Child: child.id, Reason: fmt.Sprintf("node %d is already in a graph", n.id)}
		}
		if !n.Transform.Valid() {
			return &InvalidTransformError{Node: n.id, Name: n.Name, Transform: n.Transform}
		}
	}

	child.parent = parent
	parent.children = append(parent.children, child)
	for n := range child.All() {
		n.graph = g
		g.index[n.id] = n
	}
	return nil
}

// Detach removes the subtree at id from the graph and returns ownership of
// it to the caller.
func (g *Graph) Detach(id NodeID) (*Node, error) {
	n, err := g.removable(id)
	if err != nil {
		return nil, err
	}
	n.parent.removeChild(n)
	for d := range n.All() {
		d.graph = nil
		delete(g.index, d.id)
	}
	return n, nil
}

// Destroy detaches the subtree at id and tears it down. Destroy hooks run
// children first.
func (g *Graph) Destroy(id NodeID) error {
	n, err := g.Detach(id)
	if err != nil {
		return err
	}
	destroy(n)
	return nil
}

func destroy(n *Node) {
	for _, c := range n.children {
		destroy(c)
	}
	hooks := n.onDestroy
	n.onDestroy = nil
	n.children = nil
	n.destroyed = true
	n.Payload = Payload{}
	for _, fn := range hooks {
		fn()
	}
}

func (g *Graph) removable(id NodeID) (*Node, error) {
	if id == g.root.id {
		return nil, ErrRootImmutable
	}
	n, ok := g.index[id]
	if !ok {
		return nil, fmt.Errorf("node %d: %w", id, ErrNodeNotFound)
	}
	return n, nil
}

// Traverse visits every node from the root, parents before children.
func (g *Graph) Traverse(callback func(*Node)) {
	g.root.Traverse(callback)
}

func (g *Graph) All() iter.Seq[*Node] {
	return g.root.All()
}
