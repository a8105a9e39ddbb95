package entities

import (
	"strings"
	"time"

	"gironomall-backend/domain/valueobjects"
	pkgerrors "gironomall-backend/pkg/errors"
)

// DefaultFollowupCount is how many follow-up questions one generation
// round asks for when the workspace does not say otherwise.
const DefaultFollowupCount = 3

// WorkspaceConfig holds per-workspace generation settings.
type WorkspaceConfig struct {
	FollowupCount int `json:"followupCount"`
}

// Workspace is the aggregate root owning a flat set of nodes. Deleting a
// workspace deletes every node it owns.
type Workspace struct {
	ID            valueobjects.WorkspaceID `json:"id"`
	Theme         string                   `json:"theme"`
	Description   string                   `json:"description,omitempty"`
	GuidelineText string                   `json:"guidelineText"`
	Config        WorkspaceConfig          `json:"config"`
	CreatedAt     time.Time                `json:"createdAt"`
	UpdatedAt     time.Time                `json:"updatedAt"`
}

// NewWorkspace creates a workspace with a fresh identifier. The theme is
// required; a non-positive followupCount falls back to the default.
func NewWorkspace(theme, description string, followupCount int) (*Workspace, error) {
	if strings.TrimSpace(theme) == "" {
		return nil, pkgerrors.NewValidationError("theme cannot be empty")
	}
	if followupCount <= 0 {
		followupCount = DefaultFollowupCount
	}

	now := time.Now()
	return &Workspace{
		ID:          valueobjects.NewWorkspaceID(),
		Theme:       theme,
		Description: description,
		Config:      WorkspaceConfig{FollowupCount: followupCount},
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// WorkspaceUpdate carries the mutable workspace fields; nil means unchanged.
type WorkspaceUpdate struct {
	Theme         *string
	Description   *string
	GuidelineText *string
	FollowupCount *int
}

// Apply mutates the workspace in place and bumps UpdatedAt.
func (w *Workspace) Apply(update WorkspaceUpdate) error {
	if update.Theme != nil {
		if strings.TrimSpace(*update.Theme) == "" {
			return pkgerrors.NewValidationError("theme cannot be empty")
		}
		w.Theme = *update.Theme
	}
	if update.Description != nil {
		w.Description = *update.Description
	}
	if update.GuidelineText != nil {
		w.GuidelineText = *update.GuidelineText
	}
	if update.FollowupCount != nil {
		if *update.FollowupCount < 1 {
			return pkgerrors.NewValidationError("followupCount must be at least 1")
		}
		w.Config.FollowupCount = *update.FollowupCount
	}
	w.UpdatedAt = time.Now()
	return nil
}

// Clone returns a copy that callers may mutate freely.
func (w *Workspace) Clone() *Workspace {
	clone := *w
	return &clone
}
