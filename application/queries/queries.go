// Package queries defines the read-side query types.
package queries

import (
	pkgerrors "gironomall-backend/pkg/errors"
)

// GetWorkspaceQuery fetches one workspace by id.
type GetWorkspaceQuery struct {
	WorkspaceID string
}

// Validate checks the query invariants.
func (q GetWorkspaceQuery) Validate() error {
	if q.WorkspaceID == "" {
		return pkgerrors.NewValidationError("workspaceId is required")
	}
	return nil
}

// ListWorkspacesQuery fetches every workspace.
type ListWorkspacesQuery struct{}

// Validate checks the query invariants.
func (q ListWorkspacesQuery) Validate() error { return nil }

// GetTreeQuery fetches the materialized tree of a workspace.
type GetTreeQuery struct {
	WorkspaceID string
}

// Validate checks the query invariants.
func (q GetTreeQuery) Validate() error {
	if q.WorkspaceID == "" {
		return pkgerrors.NewValidationError("workspaceId is required")
	}
	return nil
}

// GetMarkdownQuery fetches a markdown projection of a workspace. ForLLM
// selects the id-annotated outline with truncated answers.
type GetMarkdownQuery struct {
	WorkspaceID string
	ForLLM      bool
}

// Validate checks the query invariants.
func (q GetMarkdownQuery) Validate() error {
	if q.WorkspaceID == "" {
		return pkgerrors.NewValidationError("workspaceId is required")
	}
	return nil
}

// ExportWorkspaceQuery serializes a workspace and its nodes into the
// versioned interchange format.
type ExportWorkspaceQuery struct {
	WorkspaceID string
}

// Validate checks the query invariants.
func (q ExportWorkspaceQuery) Validate() error {
	if q.WorkspaceID == "" {
		return pkgerrors.NewValidationError("workspaceId is required")
	}
	return nil
}
