package scene

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTree attaches a root -> a -> (b, c), root -> d shape.
func buildTree(t *testing.T) (*Graph, map[string]*Node) {
	t.Helper()
	g := NewGraph()
	nodes := map[string]*Node{}
	for _, name := range []string{"a", "b", "c", "d"} {
		nodes[name] = NewNode(name)
	}
	require.NoError(t, g.Attach(g.Root().ID(), nodes["a"]))
	require.NoError(t, g.Attach(nodes["a"].ID(), nodes["b"]))
	require.NoError(t, g.Attach(nodes["a"].ID(), nodes["c"]))
	require.NoError(t, g.Attach(g.Root().ID(), nodes["d"]))
	return g, nodes
}

func names(g *Graph) []string {
	var out []string
	g.Traverse(func(n *Node) { out = append(out, n.Name) })
	return out
}

func TestTraverseVisitsEachNodeOnceParentFirst(t *testing.T) {
	g, _ := buildTree(t)

	assert.Equal(t, []string{"root", "a", "b", "c", "d"}, names(g))
	assert.Equal(t, 5, g.Len())

	seen := map[NodeID]int{}
	g.Traverse(func(n *Node) {
		if p := n.Parent(); p != nil {
			assert.Contains(t, seen, p.ID(), "parent of %s not visited first", n.Name)
		}
		seen[n.ID()]++
	})
	for id, count := range seen {
		assert.Equal(t, 1, count, "node %d", id)
	}

	// Restartable and stoppable.
	assert.Equal(t, names(g), names(g))
	var first []string
	for n := range g.All() {
		first = append(first, n.Name)
		if len(first) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"root", "a"}, first)
}

func snapshot(g *Graph) []NodeID {
	var ids []NodeID
	g.Traverse(func(n *Node) { ids = append(ids, n.ID()) })
	return ids
}

func TestAttachRejectsCyclesAndLeavesGraphUnchanged(t *testing.T) {
	g, n := buildTree(t)
	before := snapshot(g)

	cases := []struct {
		name   string
		parent NodeID
		child  *Node
	}{
		{"second parent", n["d"].ID(), n["b"]},
		{"self", n["a"].ID(), n["a"]},
		{"descendant", n["b"].ID(), n["a"]},
		{"root", n["c"].ID(), g.Root()},
	}
	for _, tc := range cases {
		err := g.Attach(tc.parent, tc.child)
		var cyc *CyclicAttachmentError
		require.ErrorAs(t, err, &cyc, tc.name)
		assert.Equal(t, tc.parent, cyc.Parent, tc.name)
		assert.Equal(t, before, snapshot(g), tc.name)
	}
	assert.Same(t, n["a"], n["b"].Parent())
}

func TestAttachRejectsSubtreeAlreadyInGraph(t *testing.T) {
	g, n := buildTree(t)
	other := NewGraph()
	moved, err := g.Detach(n["a"].ID())
	require.NoError(t, err)
	require.NoError(t, other.Attach(other.Root().ID(), moved))

	// b is owned by a, which now lives in other.
	wrapper := NewNode("wrapper")
	err = wrapper.Add(n["b"])
	var cyc *CyclicAttachmentError
	assert.ErrorAs(t, err, &cyc)
	assert.Empty(t, wrapper.Children())
}

func TestAttachRejectsInvalidTransform(t *testing.T) {
	g, n := buildTree(t)
	before := snapshot(g)

	model := NewNode("model")
	bad := NewNode("bad")
	bad.Transform.Position[0] = float32(math.NaN())
	require.NoError(t, model.Add(bad))

	err := g.Attach(g.Root().ID(), model)
	var inv *InvalidTransformError
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, bad.ID(), inv.Node)
	assert.Equal(t, before, snapshot(g))
	assert.Nil(t, model.Parent())
	_, ok := g.Node(bad.ID())
	assert.False(t, ok)

	flat := NewNode("flat")
	flat.Transform.Scale[1] = 0
	require.ErrorAs(t, n["a"].Add(flat), &inv)
	assert.Equal(t, flat.ID(), inv.Node)
	assert.Len(t, n["a"].Children(), 2)

	// Fixed up, the same subtree attaches.
	bad.Transform.Position[0] = 1
	require.NoError(t, g.Attach(g.Root().ID(), model))
	for node := range g.All() {
		assert.True(t, node.Transform.Valid(), node.Name)
	}
}

func TestAttachUnknownParent(t *testing.T) {
	g := NewGraph()
	err := g.Attach(NodeID(1<<60), NewNode("x"))
	assert.ErrorIs(t, err, ErrNodeNotFound)
	assert.Equal(t, 1, g.Len())
}

func TestDetachReturnsOwnership(t *testing.T) {
	g, n := buildTree(t)

	sub, err := g.Detach(n["a"].ID())
	require.NoError(t, err)
	assert.Same(t, n["a"], sub)
	assert.Nil(t, sub.Parent())
	assert.Equal(t, []string{"root", "d"}, names(g))
	_, ok := g.Node(n["b"].ID())
	assert.False(t, ok)

	require.NoError(t, g.Attach(n["d"].ID(), sub))
	assert.Equal(t, []string{"root", "d", "a", "b", "c"}, names(g))

	_, err = g.Detach(g.Root().ID())
	assert.ErrorIs(t, err, ErrRootImmutable)
}

func TestDestroyFiresHooksForSubtree(t *testing.T) {
	g, n := buildTree(t)
	var fired []string
	for _, name := range []string{"a", "b", "c", "d"} {
		n[name].OnDestroy(func() { fired = append(fired, name) })
	}

	require.NoError(t, g.Destroy(n["a"].ID()))
	assert.Equal(t, []string{"b", "c", "a"}, fired)
	assert.True(t, n["b"].Destroyed())
	assert.False(t, n["d"].Destroyed())
	assert.Equal(t, 2, g.Len())

	err := g.Attach(g.Root().ID(), n["a"])
	assert.True(t, errors.Is(err, ErrNodeDestroyed))
	assert.ErrorIs(t, g.Destroy(g.Root().ID()), ErrRootImmutable)
	assert.ErrorIs(t, g.Destroy(n["a"].ID()), ErrNodeNotFound)
}

func TestNodeAddBuildsDetachedSubtree(t *testing.T) {
	model := NewNode("model")
	part := NewNode("part")
	require.NoError(t, model.Add(part))

	var cyc *CyclicAttachmentError
	assert.ErrorAs(t, part.Add(model), &cyc)
	assert.ErrorAs(t, model.Add(model), &cyc)

	g := NewGraph()
	require.NoError(t, g.Attach(g.Root().ID(), model))
	extra := NewNode("extra")
	require.NoError(t, model.Add(extra))
	got, ok := g.Node(extra.ID())
	assert.True(t, ok)
	assert.Same(t, extra, got)
}
