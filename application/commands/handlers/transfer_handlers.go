package handlers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"gironomall-backend/application/commands"
	"gironomall-backend/application/commands/bus"
	"gironomall-backend/application/ports"
	"gironomall-backend/domain/events"
	"gironomall-backend/domain/transfer"
	"gironomall-backend/domain/valueobjects"
)

// ImportWorkspaceHandler materializes a validated interchange payload as a
// fresh workspace. The codec remaps every identifier, so the handler only
// persists and announces the result.
type ImportWorkspaceHandler struct {
	workspaces ports.WorkspaceRepository
	nodes      ports.NodeRepository
	publisher  ports.EventPublisher
	logger     *zap.Logger
}

// NewImportWorkspaceHandler creates an ImportWorkspaceHandler.
func NewImportWorkspaceHandler(
	workspaces ports.WorkspaceRepository,
	nodes ports.NodeRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *ImportWorkspaceHandler {
	return &ImportWorkspaceHandler{
		workspaces: workspaces,
		nodes:      nodes,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle implements bus.CommandHandler.
func (h *ImportWorkspaceHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(commands.ImportWorkspaceCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", cmd)
	}

	workspaceID, err := valueobjects.NewWorkspaceIDFromString(c.NewWorkspaceID)
	if err != nil {
		return err
	}

	workspace, nodes, err := transfer.Import(c.Payload, workspaceID)
	if err != nil {
		return err
	}

	if err := h.workspaces.Save(ctx, workspace); err != nil {
		return err
	}
	if len(nodes) > 0 {
		if err := h.nodes.SaveBatch(ctx, nodes); err != nil {
			return err
		}
	}

	event := events.NewWorkspaceImported(workspaceID, len(nodes), time.Now())
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.Warn("Failed to publish workspace.imported event",
			zap.String("workspace_id", workspaceID.String()),
			zap.Error(err))
	}

	return nil
}
