// Package hierarchy maintains the integrity of self-referencing trees
// (locations, containers). Nodes are related by id lookup over a
// parent-indexed adjacency map built per call, never by live pointers, so
// the structures themselves cannot form reference cycles.
package hierarchy

import "fmt"

// Node is a tree member identified by id with an optional parent id.
// A nil parent id marks a root; a flat list may hold several roots.
type Node interface {
	NodeID() uint
	ParentNodeID() *uint
}

// childIndex maps each parent id to the ids of its direct children.
func childIndex[T Node](nodes []T) map[uint][]uint {
	index := make(map[uint][]uint, len(nodes))
	for _, n := range nodes {
		if p := n.ParentNodeID(); p != nil {
			index[*p] = append(index[*p], n.NodeID())
		}
	}
	return index
}

// IsDescendant reports whether candidateID lies in the subtree rooted at
// rootID. The traversal is an explicit worklist rather than recursion, so
// depth is bounded by memory and not the call stack, and each node is
// visited at most once even if the stored pointers are already corrupt.
func IsDescendant[T Node](nodes []T, rootID, candidateID uint) bool {
	index := childIndex(nodes)
	stack := []uint{rootID}
	seen := map[uint]bool{rootID: true}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, child := range index[id] {
			if child == candidateID {
				return true
			}
			if !seen[child] {
				seen[child] = true
				stack = append(stack, child)
			}
		}
	}
	return false
}

// ValidateReparent checks whether node may adopt newParentID as its parent.
// It rejects self-parenting and any parent inside node's own subtree (which
// would close a cycle). Existence and ownership of the new parent are the
// caller's concern; nodes must be the full owner-scoped flat list.
func ValidateReparent[T Node](nodes []T, nodeID, newParentID uint) error {
	if newParentID == nodeID {
		return fmt.Errorf("node %d cannot be its own parent", nodeID)
	}
	if IsDescendant(nodes, nodeID, newParentID) {
		return fmt.Errorf("node %d is a descendant of node %d", newParentID, nodeID)
	}
	return nil
}

// Forest arranges a flat owner-scoped list into trees. Roots (nil parent)
// come back in input order; each node's children are recorded through the
// attach callback, also in input order, so output is deterministic for a
// given list.
//
// A node whose declared parent id is absent from the list is dropped from
// the output entirely. That mirrors the stored-data semantics: such orphans
// stay fetchable by id but are invisible in tree views.
func Forest[T Node](nodes []T, attach func(parent T, children []T)) []T {
	byID := make(map[uint]T, len(nodes))
	for _, n := range nodes {
		byID[n.NodeID()] = n
	}

	children := make(map[uint][]T)
	var roots []T
	for _, n := range nodes {
		p := n.ParentNodeID()
		if p == nil {
			roots = append(roots, n)
			continue
		}
		if _, ok := byID[*p]; !ok {
			continue // orphan reference, dropped from tree view
		}
		children[*p] = append(children[*p], n)
	}

	for _, n := range nodes {
		attach(n, children[n.NodeID()])
	}
	return roots
}
