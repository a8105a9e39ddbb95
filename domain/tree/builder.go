package tree

import (
	"sort"

	"gironomall-backend/domain/entities"
	"gironomall-backend/domain/valueobjects"
)

// TreeNode is the materialized, read-only view of a node with its ordered
// children. It is rebuilt from the flat node set whenever that set changes
// and is never persisted.
type TreeNode struct {
	entities.Node
	Children []*TreeNode
}

// Build converts a flat node collection into the ordered forest of
// root-level nodes. Each sibling partition is sorted ascending by order.
// A node whose declared parent is missing from the input set ends up in a
// partition nothing claims and is silently omitted, so partial or
// just-deleted data never breaks rendering.
func Build(nodes []entities.Node) []*TreeNode {
	byID := make(map[valueobjects.NodeID]*TreeNode, len(nodes))
	for _, n := range nodes {
		byID[n.Base().ID] = &TreeNode{Node: n}
	}

	// The zero NodeID acts as the root partition key.
	byParent := make(map[valueobjects.NodeID][]*TreeNode)
	for _, tn := range byID {
		key := tn.Base().ParentID
		byParent[key] = append(byParent[key], tn)
	}

	for _, partition := range byParent {
		sort.Slice(partition, func(i, j int) bool {
			return partition[i].Base().Order < partition[j].Base().Order
		})
	}

	for id, tn := range byID {
		if children, ok := byParent[id]; ok {
			tn.Children = children
		} else {
			tn.Children = []*TreeNode{}
		}
	}

	roots := byParent[valueobjects.NodeID{}]
	if roots == nil {
		roots = []*TreeNode{}
	}
	return roots
}

// Walk visits the forest depth-first in pre-order.
func Walk(roots []*TreeNode, visit func(node *TreeNode, depth int)) {
	var walk func(n *TreeNode, depth int)
	walk = func(n *TreeNode, depth int) {
		visit(n, depth)
		for _, child := range n.Children {
			walk(child, depth+1)
		}
	}
	for _, root := range roots {
		walk(root, 0)
	}
}
