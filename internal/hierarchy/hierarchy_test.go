package hierarchy_test

import (
	"testing"

	"github.com/homestash/internal/hierarchy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type node struct {
	id       uint
	parentID *uint
	children []*node
}

func (n *node) NodeID() uint        { return n.id }
func (n *node) ParentNodeID() *uint { return n.parentID }

func ptr(id uint) *uint { return &id }

// buildNodes creates a node per (id, parent) pair, parent 0 meaning root.
func buildNodes(edges map[uint]uint, ids ...uint) []*node {
	var nodes []*node
	for _, id := range ids {
		n := &node{id: id}
		if p, ok := edges[id]; ok {
			n.parentID = ptr(p)
		}
		nodes = append(nodes, n)
	}
	return nodes
}

func TestIsDescendant(t *testing.T) {
	// 1 -> 2 -> 3 -> 4, plus an independent root 5
	nodes := buildNodes(map[uint]uint{2: 1, 3: 2, 4: 3}, 1, 2, 3, 4, 5)

	assert.True(t, hierarchy.IsDescendant(nodes, 1, 2), "direct child")
	assert.True(t, hierarchy.IsDescendant(nodes, 1, 4), "deep descendant")
	assert.True(t, hierarchy.IsDescendant(nodes, 2, 3))
	assert.False(t, hierarchy.IsDescendant(nodes, 2, 1), "ancestor is not a descendant")
	assert.False(t, hierarchy.IsDescendant(nodes, 1, 5), "separate root")
	assert.False(t, hierarchy.IsDescendant(nodes, 1, 1), "a node is not its own descendant")
}

func TestIsDescendantDeepChain(t *testing.T) {
	// A chain far deeper than any sane call stack recursion budget.
	const depth = 200000
	edges := make(map[uint]uint, depth)
	ids := make([]uint, 0, depth)
	for i := uint(1); i <= depth; i++ {
		ids = append(ids, i)
		if i > 1 {
			edges[i] = i - 1
		}
	}
	nodes := buildNodes(edges, ids...)

	assert.True(t, hierarchy.IsDescendant(nodes, 1, depth))
	assert.False(t, hierarchy.IsDescendant(nodes, depth, 1))
}

func TestValidateReparent(t *testing.T) {
	nodes := buildNodes(map[uint]uint{2: 1, 3: 2}, 1, 2, 3, 4)

	assert.Error(t, hierarchy.ValidateReparent(nodes, 1, 1), "self parent")
	assert.Error(t, hierarchy.ValidateReparent(nodes, 1, 2), "direct child as parent")
	assert.Error(t, hierarchy.ValidateReparent(nodes, 1, 3), "deep descendant as parent")
	assert.NoError(t, hierarchy.ValidateReparent(nodes, 3, 1), "moving up the tree")
	assert.NoError(t, hierarchy.ValidateReparent(nodes, 1, 4), "sibling root")
}

func TestForestShape(t *testing.T) {
	// Two roots: 1 with subtree {2 -> 4, 3}, and 5
	nodes := buildNodes(map[uint]uint{2: 1, 3: 1, 4: 2}, 1, 2, 3, 4, 5)

	roots := hierarchy.Forest(nodes, func(parent *node, children []*node) {
		parent.children = children
	})

	require.Len(t, roots, 2)
	assert.Equal(t, uint(1), roots[0].id)
	assert.Equal(t, uint(5), roots[1].id)

	require.Len(t, roots[0].children, 2)
	assert.Equal(t, uint(2), roots[0].children[0].id)
	assert.Equal(t, uint(3), roots[0].children[1].id)
	require.Len(t, roots[0].children[0].children, 1)
	assert.Equal(t, uint(4), roots[0].children[0].children[0].id)
	assert.Empty(t, roots[1].children)

	// Every node appears exactly once across the forest.
	count := 0
	var walk func(*node)
	walk = func(n *node) {
		count++
		for _, c := range n.children {
			walk(c)
		}
	}
	for _, r := range roots {
		walk(r)
	}
	assert.Equal(t, len(nodes), count)
}

func TestForestDropsOrphans(t *testing.T) {
	// Node 2's declared parent 99 is not in the list.
	nodes := buildNodes(map[uint]uint{2: 99}, 1, 2)

	roots := hierarchy.Forest(nodes, func(parent *node, children []*node) {
		parent.children = children
	})

	require.Len(t, roots, 1)
	assert.Equal(t, uint(1), roots[0].id)
}

func TestForestDeterministic(t *testing.T) {
	nodes := buildNodes(map[uint]uint{2: 1, 3: 1}, 1, 2, 3)

	for i := 0; i < 3; i++ {
		roots := hierarchy.Forest(nodes, func(parent *node, children []*node) {
			parent.children = children
		})
		require.Len(t, roots, 1)
		require.Len(t, roots[0].children, 2)
		assert.Equal(t, uint(2), roots[0].children[0].id)
		assert.Equal(t, uint(3), roots[0].children[1].id)
	}
}
