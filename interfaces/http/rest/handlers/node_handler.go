package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"gironomall-backend/application/commands"
	commandbus "gironomall-backend/application/commands/bus"
	"gironomall-backend/domain/entities"
	"gironomall-backend/pkg/common"
	pkgerrors "gironomall-backend/pkg/errors"
)

// NodeHandler serves the node endpoints.
type NodeHandler struct {
	commandBus *commandbus.CommandBus
	logger     *zap.Logger
}

// NewNodeHandler creates a NodeHandler.
func NewNodeHandler(commandBus *commandbus.CommandBus, logger *zap.Logger) *NodeHandler {
	return &NodeHandler{commandBus: commandBus, logger: logger}
}

type createNodeRequest struct {
	Type     string `json:"type"`
	ParentID string `json:"parentId"`
	Order    *int   `json:"order"`

	Title    string `json:"title"`
	Text     string `json:"text"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// CreateNode handles POST /workspaces/{workspaceID}/nodes.
func (h *NodeHandler) CreateNode(w http.ResponseWriter, r *http.Request) {
	var req createNodeRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondAppError(w, pkgerrors.NewValidationError("invalid request body"))
		return
	}

	nodeID := uuid.New().String()
	cmd := commands.CreateNodeCommand{
		NodeID:      nodeID,
		WorkspaceID: chi.URLParam(r, "workspaceID"),
		ParentID:    req.ParentID,
		Kind:        entities.NodeKind(req.Type),
		Origin:      entities.OriginUser,
		Order:       req.Order,
		Title:       req.Title,
		Text:        req.Text,
		Question:    req.Question,
		Answer:      req.Answer,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, map[string]string{"id": nodeID})
}

type updateNodeRequest struct {
	Title             *string `json:"title"`
	Text              *string `json:"text"`
	Question          *string `json:"question"`
	Answer            *string `json:"answer"`
	ReconstructedText *string `json:"reconstructedText"`
}

// UpdateNode handles PUT /nodes/{nodeID}.
func (h *NodeHandler) UpdateNode(w http.ResponseWriter, r *http.Request) {
	var req updateNodeRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondAppError(w, pkgerrors.NewValidationError("invalid request body"))
		return
	}

	cmd := commands.UpdateNodeCommand{
		NodeID:            chi.URLParam(r, "nodeID"),
		Title:             req.Title,
		Text:              req.Text,
		Question:          req.Question,
		Answer:            req.Answer,
		ReconstructedText: req.ReconstructedText,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteNode handles DELETE /nodes/{nodeID}. The node's whole descendant
// closure is removed with it; deleting an absent node succeeds.
func (h *NodeHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	cmd := commands.DeleteNodeCommand{NodeID: chi.URLParam(r, "nodeID")}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
