package tree

import (
	"fmt"

	"gironomall-backend/domain/entities"
	"gironomall-backend/domain/valueobjects"
	pkgerrors "gironomall-backend/pkg/errors"
)

// NextOrder returns the order value for a node appended to the given
// sibling group: 0 when the group is empty, max(order)+1 otherwise.
// Monotonic growth tolerates the gaps deletions leave behind.
func NextOrder(siblings []entities.Node) int {
	if len(siblings) == 0 {
		return 0
	}
	max := siblings[0].Base().Order
	for _, n := range siblings[1:] {
		if o := n.Base().Order; o > max {
			max = o
		}
	}
	return max + 1
}

// ReorderSiblings returns a new sibling set where each node's order equals
// its index in orderedIDs. Ids absent from orderedIDs are dropped from the
// result; callers are expected to pass the complete sibling set and should
// run ValidateReorder first when membership is not already guaranteed.
func ReorderSiblings(siblings []entities.Node, orderedIDs []valueobjects.NodeID) []entities.Node {
	byID := make(map[valueobjects.NodeID]entities.Node, len(siblings))
	for _, n := range siblings {
		byID[n.Base().ID] = n
	}

	result := make([]entities.Node, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		n, ok := byID[id]
		if !ok {
			continue
		}
		clone := n.Clone()
		clone.Base().Order = len(result)
		result = append(result, clone)
	}
	return result
}

// ValidateReorder checks that orderedIDs is a permutation of the sibling
// set: every id must be a current sibling and the counts must match.
func ValidateReorder(siblings []entities.Node, orderedIDs []valueobjects.NodeID) error {
	siblingIDs := make(map[valueobjects.NodeID]struct{}, len(siblings))
	for _, n := range siblings {
		siblingIDs[n.Base().ID] = struct{}{}
	}

	for _, id := range orderedIDs {
		if _, ok := siblingIDs[id]; !ok {
			return pkgerrors.NewValidationError(fmt.Sprintf("node %s is not a sibling", id))
		}
	}

	if len(orderedIDs) != len(siblings) {
		return pkgerrors.NewValidationError("ordered ids count does not match siblings count")
	}

	return nil
}
