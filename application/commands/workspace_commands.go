package commands

import (
	"strings"

	pkgerrors "gironomall-backend/pkg/errors"
)

// CreateWorkspaceCommand creates a new workspace. The identifier is
// pre-generated by the caller so it can be returned without a result
// channel through the bus.
type CreateWorkspaceCommand struct {
	WorkspaceID   string
	Theme         string
	Description   string
	GuidelineText string
	FollowupCount int
}

// Validate checks the command invariants.
func (c CreateWorkspaceCommand) Validate() error {
	if c.WorkspaceID == "" {
		return pkgerrors.NewValidationError("workspaceId is required")
	}
	if strings.TrimSpace(c.Theme) == "" {
		return pkgerrors.NewValidationError("theme is required")
	}
	if c.FollowupCount < 0 {
		return pkgerrors.NewValidationError("followupCount cannot be negative")
	}
	return nil
}

// UpdateWorkspaceCommand updates workspace fields in place; nil fields stay
// unchanged.
type UpdateWorkspaceCommand struct {
	WorkspaceID   string
	Theme         *string
	Description   *string
	GuidelineText *string
	FollowupCount *int
}

// Validate checks the command invariants.
func (c UpdateWorkspaceCommand) Validate() error {
	if c.WorkspaceID == "" {
		return pkgerrors.NewValidationError("workspaceId is required")
	}
	if c.Theme != nil && strings.TrimSpace(*c.Theme) == "" {
		return pkgerrors.NewValidationError("theme cannot be empty")
	}
	if c.FollowupCount != nil && *c.FollowupCount < 1 {
		return pkgerrors.NewValidationError("followupCount must be at least 1")
	}
	return nil
}

// DeleteWorkspaceCommand deletes a workspace and every node it owns.
type DeleteWorkspaceCommand struct {
	WorkspaceID string
}

// Validate checks the command invariants.
func (c DeleteWorkspaceCommand) Validate() error {
	if c.WorkspaceID == "" {
		return pkgerrors.NewValidationError("workspaceId is required")
	}
	return nil
}
