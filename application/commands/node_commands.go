package commands

import (
	"gironomall-backend/domain/entities"
	pkgerrors "gironomall-backend/pkg/errors"
)

// CreateNodeCommand adds a node to a workspace. The node identifier is
// pre-generated by the caller. An empty ParentID means root level; a nil
// Order appends after the existing siblings.
type CreateNodeCommand struct {
	NodeID      string
	WorkspaceID string
	ParentID    string
	Kind        entities.NodeKind
	Origin      entities.Origin
	Order       *int

	Title             string
	Text              string
	Question          string
	Answer            string
	ReconstructedText string
}

// Validate checks the command invariants.
func (c CreateNodeCommand) Validate() error {
	if c.NodeID == "" {
		return pkgerrors.NewValidationError("nodeId is required")
	}
	if c.WorkspaceID == "" {
		return pkgerrors.NewValidationError("workspaceId is required")
	}
	switch c.Kind {
	case entities.KindHeading, entities.KindNote, entities.KindQuestion:
	default:
		return pkgerrors.NewValidationError("kind must be heading, note or question")
	}
	switch c.Origin {
	case entities.OriginUser, entities.OriginLLM:
	default:
		return pkgerrors.NewValidationError("origin must be user or llm")
	}
	return nil
}

// UpdateNodeCommand updates a node's variant payload in place; nil fields
// stay unchanged. Structural changes go through ReorderSiblingsCommand.
type UpdateNodeCommand struct {
	NodeID string

	Title             *string
	Text              *string
	Question          *string
	Answer            *string
	ReconstructedText *string
}

// Validate checks the command invariants.
func (c UpdateNodeCommand) Validate() error {
	if c.NodeID == "" {
		return pkgerrors.NewValidationError("nodeId is required")
	}
	return nil
}

// DeleteNodeCommand removes a node and its whole descendant closure.
// Deleting an already-absent node is a no-op.
type DeleteNodeCommand struct {
	NodeID string
}

// Validate checks the command invariants.
func (c DeleteNodeCommand) Validate() error {
	if c.NodeID == "" {
		return pkgerrors.NewValidationError("nodeId is required")
	}
	return nil
}

// ReorderSiblingsCommand rewrites the order of one sibling group. An empty
// ParentID selects the root-level group. OrderedIDs must be a permutation
// of the current group.
type ReorderSiblingsCommand struct {
	WorkspaceID string
	ParentID    string
	OrderedIDs  []string
}

// Validate checks the command invariants.
func (c ReorderSiblingsCommand) Validate() error {
	if c.WorkspaceID == "" {
		return pkgerrors.NewValidationError("workspaceId is required")
	}
	return nil
}
