// Package services hosts the application services that orchestrate domain
// logic across the repository and LLM ports.
package services

import (
	"strings"
	"time"

	"gironomall-backend/application/ports"
	"gironomall-backend/domain/entities"
	"gironomall-backend/domain/tree"
	"gironomall-backend/domain/valueobjects"
)

// ReconcileResult reports what a reconciliation round changed. CreatedIDs
// doubles as the caller's highlight set; ExpandIDs names every ancestor the
// presentation layer must force-expand so the new nodes are reachable.
type ReconcileResult struct {
	Nodes        []entities.Node
	CreatedIDs   []valueobjects.NodeID
	ExpandIDs    []valueobjects.NodeID
	HighlightIDs []valueobjects.NodeID
}

// ReconcileFollowups integrates model-proposed questions into the live node
// set. Each proposal's parent reference is resolved leniently: a dangling,
// malformed or foreign-workspace reference degrades through originNodeID to
// root level, never to an error. New nodes are appended after the existing
// siblings of their resolved group, with order assignment local to this
// batch so several insertions under one parent stay distinct.
//
// The function is pure over its inputs; persistence is the caller's job.
// It is not safe against concurrent mutation of the same sibling groups,
// so callers serialize rounds per workspace.
func ReconcileFollowups(
	workspace *entities.Workspace,
	nodesByID map[valueobjects.NodeID]entities.Node,
	originNodeID valueobjects.NodeID,
	proposals []ports.FollowupProposal,
	now time.Time,
) (*ReconcileResult, error) {
	nextOrder := make(map[valueobjects.NodeID]int)
	orderFor := func(parentID valueobjects.NodeID) int {
		order, ok := nextOrder[parentID]
		if !ok {
			siblings := make([]entities.Node, 0)
			for _, n := range nodesByID {
				if n.Base().ParentID.Equals(parentID) {
					siblings = append(siblings, n)
				}
			}
			order = tree.NextOrder(siblings)
		}
		nextOrder[parentID] = order + 1
		return order
	}

	fallback := valueobjects.NodeID{}
	if origin, ok := nodesByID[originNodeID]; ok && origin.Base().WorkspaceID.Equals(workspace.ID) {
		fallback = originNodeID
	}

	result := &ReconcileResult{}
	expandSeen := make(map[valueobjects.NodeID]struct{})

	for _, proposal := range proposals {
		parentID := resolveParentRef(proposal.ParentID, nodesByID, workspace.ID)
		if parentID.IsZero() {
			parentID = fallback
		}

		node, err := entities.NewQuestionNode(workspace.ID, parentID, orderFor(parentID), entities.OriginLLM, proposal.Question, "", "")
		if err != nil {
			return nil, err
		}
		node.CreatedAt = now
		node.UpdatedAt = now

		result.Nodes = append(result.Nodes, node)
		result.CreatedIDs = append(result.CreatedIDs, node.ID)

		if !parentID.IsZero() {
			if _, ok := expandSeen[parentID]; !ok {
				expandSeen[parentID] = struct{}{}
				result.ExpandIDs = append(result.ExpandIDs, parentID)
			}
			for _, ancestor := range tree.AncestorChain(nodesByID, parentID) {
				if _, ok := expandSeen[ancestor]; ok {
					continue
				}
				expandSeen[ancestor] = struct{}{}
				result.ExpandIDs = append(result.ExpandIDs, ancestor)
			}
		}
	}

	result.HighlightIDs = append([]valueobjects.NodeID(nil), result.CreatedIDs...)
	return result, nil
}

// resolveParentRef turns a free-form model reference into a same-workspace
// node id, or the zero id when the reference is absent, malformed, dangling
// or foreign. A single matching outer bracket pair is stripped before
// lookup; nested brackets are not unwrapped further and fail the existence
// check like any other dangling id.
func resolveParentRef(
	ref *string,
	nodesByID map[valueobjects.NodeID]entities.Node,
	workspaceID valueobjects.WorkspaceID,
) valueobjects.NodeID {
	if ref == nil {
		return valueobjects.NodeID{}
	}

	value := strings.TrimSpace(*ref)
	if value == "" || value == "null" {
		return valueobjects.NodeID{}
	}

	if strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]") && len(value) >= 2 {
		value = value[1 : len(value)-1]
	}

	candidate, err := valueobjects.NewNodeIDFromString(value)
	if err != nil {
		return valueobjects.NodeID{}
	}

	node, ok := nodesByID[candidate]
	if !ok || !node.Base().WorkspaceID.Equals(workspaceID) {
		return valueobjects.NodeID{}
	}
	return candidate
}
