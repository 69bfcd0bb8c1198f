package scene

import (
	"iter"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
)

// NodeID identifies a node for the lifetime of the process.
type NodeID uint64

var nodeIDCounter atomic.Uint64

// Node represents an object in the scene graph. A parent exclusively owns
// its children.
type Node struct {
	Name      string
	Transform Transform
	Payload   Payload
	Visible   bool

	id        NodeID
	parent    *Node
	children  []*Node
	graph     *Graph
	destroyed bool
	onDestroy []func()
}

// NewNode returns a detached empty node. Safe to call from loader goroutines.
func NewNode(name string) *Node {
	return &Node{
		Name:      name,
		Transform: NewTransform(),
		Visible:   true,
		id:        NodeID(nodeIDCounter.Add(1)),
	}
}

func (n *Node) ID() NodeID        { return n.id }
func (n *Node) Parent() *Node     { return n.parent }
func (n *Node) Destroyed() bool   { return n.destroyed }
func (n *Node) Children() []*Node { return n.children }

// Add makes child a child of n. When n belongs to a Graph the call is
// routed through Graph.Attach so the index stays current.
func (n *Node) Add(child *Node) error {
	if n.graph != nil {
		return n.graph.Attach(n.id, child)
	}
	if err := checkAttach(n, child); err != nil {
		return err
	}
	if child.graph != nil {
		return &CyclicAttachmentError{Parent: n.id, Child: child.id, Reason: "child belongs to a graph"}
	}
	for p := n; p != nil; p = p.parent {
		if p == child {
			return &CyclicAttachmentError{Parent: n.id, Child: child.id, Reason: "child is an ancestor of the parent"}
		}
	}
	child.parent = n
	n.children = append(n.children, child)
	return nil
}

func checkAttach(parent, child *Node) error {
	switch {
	case child == nil:
		return &CyclicAttachmentError{Parent: parent.id, Reason: "nil child"}
	case child.destroyed:
		return ErrNodeDestroyed
	case child == parent:
		return &CyclicAttachmentError{Parent: parent.id, Child: child.id, Reason: "node attached to itself"}
	case child.parent != nil:
		return &CyclicAttachmentError{Parent: parent.id, Child: child.id, Reason: "child already has a parent"}
	}
	return nil
}

func (n *Node) removeChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// OnDestroy registers fn to run when the node is destroyed through its Graph.
func (n *Node) OnDestroy(fn func()) {
	n.onDestroy = append(n.onDestroy, fn)
}

// WorldMatrix composes the local transforms from the root down to n.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	m := n.Transform.Matrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.Transform.Matrix().Mul4(m)
	}
	return m
}

// WorldPosition is the translation column of WorldMatrix.
func (n *Node) WorldPosition() mgl32.Vec3 {
	return n.WorldMatrix().Col(3).Vec3()
}

// Traverse visits n and its descendants depth-first, parents before children.
func (n *Node) Traverse(callback func(*Node)) {
	for node := range n.All() {
		callback(node)
	}
}

// All returns the pre-order sequence of n's subtree. Each call starts a new
// walk.
func (n *Node) All() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		n.walk(yield)
	}
}

func (n *Node) walk(yield func(*Node) bool) bool {
	if !yield(n) {
		return false
	}
	for _, child := range n.children {
		if !child.walk(yield) {
			return false
		}
	}
	return true
}

// Find returns the first node in pre-order with the given name.
func (n *Node) Find(name string) *Node {
	for node := range n.All() {
		if node.Name == name {
			return node
		}
	}
	return nil
}
