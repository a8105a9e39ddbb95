package tree

import (
	"gironomall-backend/domain/entities"
	"gironomall-backend/domain/valueobjects"
)

// DescendantClosure walks the parentId back-relation breadth-first and
// returns every transitive descendant of rootID. Deletion call sites pass
// includeRoot=true; ancestor/descendant queries pass false. Visited ids are
// de-duplicated so the walk terminates even if the input ever contained a
// cycle, which matters because deletion relies on this closure.
func DescendantClosure(nodesByID map[valueobjects.NodeID]entities.Node, rootID valueobjects.NodeID, includeRoot bool) []valueobjects.NodeID {
	childrenOf := make(map[valueobjects.NodeID][]valueobjects.NodeID, len(nodesByID))
	for id, n := range nodesByID {
		parent := n.Base().ParentID
		if parent.IsZero() {
			continue
		}
		childrenOf[parent] = append(childrenOf[parent], id)
	}

	seen := map[valueobjects.NodeID]struct{}{rootID: {}}
	closure := []valueobjects.NodeID{}
	if includeRoot {
		closure = append(closure, rootID)
	}

	queue := []valueobjects.NodeID{rootID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, child := range childrenOf[current] {
			if _, visited := seen[child]; visited {
				continue
			}
			seen[child] = struct{}{}
			closure = append(closure, child)
			queue = append(queue, child)
		}
	}

	return closure
}

// AncestorChain collects every ancestor id of startID by following parent
// pointers, stopping at root level or on the first already-seen id so the
// walk terminates against malformed data. startID itself is not included.
func AncestorChain(nodesByID map[valueobjects.NodeID]entities.Node, startID valueobjects.NodeID) []valueobjects.NodeID {
	chain := []valueobjects.NodeID{}
	seen := map[valueobjects.NodeID]struct{}{startID: {}}

	current, ok := nodesByID[startID]
	for ok {
		parentID := current.Base().ParentID
		if parentID.IsZero() {
			break
		}
		if _, visited := seen[parentID]; visited {
			break
		}
		seen[parentID] = struct{}{}
		chain = append(chain, parentID)
		current, ok = nodesByID[parentID]
	}

	return chain
}
