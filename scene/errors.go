package scene

import (
	"errors"
	"fmt"
)

var (
	ErrNodeNotFound  = errors.New("node not found")
	ErrRootImmutable = errors.New("root node cannot be detached or destroyed")
	ErrNodeDestroyed = errors.New("node has been destroyed")
)

// CyclicAttachmentError reports an attach that would give a node two owners
// or make it its own ancestor. The graph is left unchanged.
type CyclicAttachmentError struct {
	Parent NodeID
	Child  NodeID
	Reason string
}

func (e *CyclicAttachmentError) Error() string {
	return fmt.Sprintf("cyclic attachment of node %d under %d: %s", e.Child, e.Parent, e.Reason)
}

// InvalidTransformError reports an attach of a subtree holding a node whose
// transform has a non-finite component or a zero scale axis.
type InvalidTransformError struct {
	Node      NodeID
	Name      string
	Transform Transform
}

func (e *InvalidTransformError) Error() string {
	return fmt.Sprintf("node %d (%q) has an invalid transform: position=%v rotation=%v scale=%v",
		e.Node, e.Name, e.Transform.Position, e.Transform.Rotation, e.Transform.Scale)
}
