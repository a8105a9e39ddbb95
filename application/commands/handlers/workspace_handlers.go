// Package handlers contains the command handlers. Each handler asserts the
// concrete command type, loads the aggregates it needs through the
// repository ports and persists the result. Event publishing failures are
// logged, never propagated.
package handlers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"gironomall-backend/application/commands"
	"gironomall-backend/application/commands/bus"
	"gironomall-backend/application/ports"
	"gironomall-backend/domain/entities"
	"gironomall-backend/domain/events"
	"gironomall-backend/domain/valueobjects"
)

// CreateWorkspaceHandler handles workspace creation.
type CreateWorkspaceHandler struct {
	workspaces ports.WorkspaceRepository
}

// NewCreateWorkspaceHandler creates a CreateWorkspaceHandler.
func NewCreateWorkspaceHandler(workspaces ports.WorkspaceRepository) *CreateWorkspaceHandler {
	return &CreateWorkspaceHandler{workspaces: workspaces}
}

// Handle implements bus.CommandHandler.
func (h *CreateWorkspaceHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(commands.CreateWorkspaceCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", cmd)
	}

	workspace, err := entities.NewWorkspace(c.Theme, c.Description, c.FollowupCount)
	if err != nil {
		return err
	}

	// The caller pre-generated the identifier so it can be returned
	// without threading results through the bus.
	workspaceID, err := valueobjects.NewWorkspaceIDFromString(c.WorkspaceID)
	if err != nil {
		return err
	}
	workspace.ID = workspaceID
	workspace.GuidelineText = c.GuidelineText

	return h.workspaces.Save(ctx, workspace)
}

// UpdateWorkspaceHandler handles workspace field updates.
type UpdateWorkspaceHandler struct {
	workspaces ports.WorkspaceRepository
}

// NewUpdateWorkspaceHandler creates an UpdateWorkspaceHandler.
func NewUpdateWorkspaceHandler(workspaces ports.WorkspaceRepository) *UpdateWorkspaceHandler {
	return &UpdateWorkspaceHandler{workspaces: workspaces}
}

// Handle implements bus.CommandHandler.
func (h *UpdateWorkspaceHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(commands.UpdateWorkspaceCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", cmd)
	}

	workspaceID, err := valueobjects.NewWorkspaceIDFromString(c.WorkspaceID)
	if err != nil {
		return err
	}

	workspace, err := h.workspaces.GetByID(ctx, workspaceID)
	if err != nil {
		return err
	}

	update := entities.WorkspaceUpdate{
		Theme:         c.Theme,
		Description:   c.Description,
		GuidelineText: c.GuidelineText,
		FollowupCount: c.FollowupCount,
	}
	if err := workspace.Apply(update); err != nil {
		return err
	}

	return h.workspaces.Save(ctx, workspace)
}

// DeleteWorkspaceHandler handles workspace deletion, removing the workspace
// together with every node it owns.
type DeleteWorkspaceHandler struct {
	workspaces ports.WorkspaceRepository
	nodes      ports.NodeRepository
	publisher  ports.EventPublisher
	logger     *zap.Logger
}

// NewDeleteWorkspaceHandler creates a DeleteWorkspaceHandler.
func NewDeleteWorkspaceHandler(
	workspaces ports.WorkspaceRepository,
	nodes ports.NodeRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *DeleteWorkspaceHandler {
	return &DeleteWorkspaceHandler{
		workspaces: workspaces,
		nodes:      nodes,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle implements bus.CommandHandler.
func (h *DeleteWorkspaceHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(commands.DeleteWorkspaceCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", cmd)
	}

	workspaceID, err := valueobjects.NewWorkspaceIDFromString(c.WorkspaceID)
	if err != nil {
		return err
	}

	if _, err := h.workspaces.GetByID(ctx, workspaceID); err != nil {
		return err
	}

	owned, err := h.nodes.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return err
	}

	if err := h.nodes.DeleteByWorkspace(ctx, workspaceID); err != nil {
		return err
	}
	if err := h.workspaces.Delete(ctx, workspaceID); err != nil {
		return err
	}

	event := events.NewWorkspaceDeleted(workspaceID, len(owned), time.Now())
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.Warn("Failed to publish workspace.deleted event",
			zap.String("workspace_id", workspaceID.String()),
			zap.Error(err))
	}

	return nil
}
