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
	"gironomall-backend/domain/tree"
	"gironomall-backend/domain/valueobjects"
	pkgerrors "gironomall-backend/pkg/errors"
)

// CreateNodeHandler handles node creation. When no explicit order is given
// the node is appended after its current siblings.
type CreateNodeHandler struct {
	workspaces ports.WorkspaceRepository
	nodes      ports.NodeRepository
	publisher  ports.EventPublisher
	logger     *zap.Logger
}

// NewCreateNodeHandler creates a CreateNodeHandler.
func NewCreateNodeHandler(
	workspaces ports.WorkspaceRepository,
	nodes ports.NodeRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *CreateNodeHandler {
	return &CreateNodeHandler{
		workspaces: workspaces,
		nodes:      nodes,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle implements bus.CommandHandler.
func (h *CreateNodeHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(commands.CreateNodeCommand)
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

	var parentID valueobjects.NodeID
	if c.ParentID != "" {
		parentID, err = valueobjects.NewNodeIDFromString(c.ParentID)
		if err != nil {
			return err
		}
		parent, err := h.nodes.GetByID(ctx, parentID)
		if err != nil {
			return err
		}
		if !parent.Base().WorkspaceID.Equals(workspaceID) {
			return pkgerrors.NewValidationError("parent node belongs to another workspace")
		}
	}

	order := 0
	if c.Order != nil {
		order = *c.Order
	} else {
		siblings, err := h.nodes.ListSiblings(ctx, workspaceID, parentID)
		if err != nil {
			return err
		}
		order = tree.NextOrder(siblings)
	}

	node, err := buildNode(c, workspaceID, parentID, order)
	if err != nil {
		return err
	}

	if err := h.nodes.Save(ctx, node); err != nil {
		return err
	}

	base := node.Base()
	event := events.NewNodeCreated(base.ID, workspaceID, string(node.Kind()), string(base.Origin), time.Now())
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.Warn("Failed to publish node.created event",
			zap.String("node_id", base.ID.String()),
			zap.Error(err))
	}

	return nil
}

func buildNode(c commands.CreateNodeCommand, workspaceID valueobjects.WorkspaceID, parentID valueobjects.NodeID, order int) (entities.Node, error) {
	var (
		node entities.Node
		err  error
	)
	switch c.Kind {
	case entities.KindHeading:
		node, err = entities.NewHeadingNode(workspaceID, parentID, order, c.Origin, c.Title)
	case entities.KindNote:
		node, err = entities.NewNoteNode(workspaceID, parentID, order, c.Origin, c.Text)
	case entities.KindQuestion:
		node, err = entities.NewQuestionNode(workspaceID, parentID, order, c.Origin, c.Question, c.Answer, c.ReconstructedText)
	default:
		return nil, pkgerrors.NewValidationError("unknown node kind: " + string(c.Kind))
	}
	if err != nil {
		return nil, err
	}

	nodeID, err := valueobjects.NewNodeIDFromString(c.NodeID)
	if err != nil {
		return nil, err
	}
	node.Base().ID = nodeID
	return node, nil
}

// UpdateNodeHandler handles node payload updates.
type UpdateNodeHandler struct {
	nodes ports.NodeRepository
}

// NewUpdateNodeHandler creates an UpdateNodeHandler.
func NewUpdateNodeHandler(nodes ports.NodeRepository) *UpdateNodeHandler {
	return &UpdateNodeHandler{nodes: nodes}
}

// Handle implements bus.CommandHandler.
func (h *UpdateNodeHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(commands.UpdateNodeCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", cmd)
	}

	nodeID, err := valueobjects.NewNodeIDFromString(c.NodeID)
	if err != nil {
		return err
	}

	node, err := h.nodes.GetByID(ctx, nodeID)
	if err != nil {
		return err
	}

	update := entities.NodeUpdate{
		Title:             c.Title,
		Text:              c.Text,
		Question:          c.Question,
		Answer:            c.Answer,
		ReconstructedText: c.ReconstructedText,
	}
	if err := entities.ApplyUpdate(node, update); err != nil {
		return err
	}

	return h.nodes.Save(ctx, node)
}

// DeleteNodeHandler handles node deletion including the full descendant
// closure. Deleting a node that no longer exists is a no-op.
type DeleteNodeHandler struct {
	nodes     ports.NodeRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewDeleteNodeHandler creates a DeleteNodeHandler.
func NewDeleteNodeHandler(nodes ports.NodeRepository, publisher ports.EventPublisher, logger *zap.Logger) *DeleteNodeHandler {
	return &DeleteNodeHandler{nodes: nodes, publisher: publisher, logger: logger}
}

// Handle implements bus.CommandHandler.
func (h *DeleteNodeHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(commands.DeleteNodeCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", cmd)
	}

	nodeID, err := valueobjects.NewNodeIDFromString(c.NodeID)
	if err != nil {
		return err
	}

	node, err := h.nodes.GetByID(ctx, nodeID)
	if pkgerrors.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}

	workspaceID := node.Base().WorkspaceID
	all, err := h.nodes.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return err
	}

	byID := make(map[valueobjects.NodeID]entities.Node, len(all))
	for _, n := range all {
		byID[n.Base().ID] = n
	}

	closure := tree.DescendantClosure(byID, nodeID, true)
	if err := h.nodes.DeleteBatch(ctx, workspaceID, closure); err != nil {
		return err
	}

	deletedIDs := make([]string, 0, len(closure))
	for _, id := range closure {
		deletedIDs = append(deletedIDs, id.String())
	}
	event := events.NewNodeDeleted(nodeID, workspaceID, deletedIDs, time.Now())
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.Warn("Failed to publish node.deleted event",
			zap.String("node_id", nodeID.String()),
			zap.Error(err))
	}

	return nil
}

// ReorderSiblingsHandler rewrites the order of one sibling group so that
// each node's order equals its index in the requested id sequence.
type ReorderSiblingsHandler struct {
	workspaces ports.WorkspaceRepository
	nodes      ports.NodeRepository
}

// NewReorderSiblingsHandler creates a ReorderSiblingsHandler.
func NewReorderSiblingsHandler(workspaces ports.WorkspaceRepository, nodes ports.NodeRepository) *ReorderSiblingsHandler {
	return &ReorderSiblingsHandler{workspaces: workspaces, nodes: nodes}
}

// Handle implements bus.CommandHandler.
func (h *ReorderSiblingsHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(commands.ReorderSiblingsCommand)
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

	var parentID valueobjects.NodeID
	if c.ParentID != "" {
		parentID, err = valueobjects.NewNodeIDFromString(c.ParentID)
		if err != nil {
			return err
		}
	}

	siblings, err := h.nodes.ListSiblings(ctx, workspaceID, parentID)
	if err != nil {
		return err
	}

	orderedIDs := make([]valueobjects.NodeID, 0, len(c.OrderedIDs))
	for _, raw := range c.OrderedIDs {
		id, err := valueobjects.NewNodeIDFromString(raw)
		if err != nil {
			return pkgerrors.NewValidationError("ordered ids cannot contain empty values")
		}
		orderedIDs = append(orderedIDs, id)
	}

	if err := tree.ValidateReorder(siblings, orderedIDs); err != nil {
		return err
	}

	reordered := tree.ReorderSiblings(siblings, orderedIDs)
	return h.nodes.SaveBatch(ctx, reordered)
}
