package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"gironomall-backend/application/services"
	"gironomall-backend/domain/valueobjects"
	"gironomall-backend/pkg/common"
	pkgerrors "gironomall-backend/pkg/errors"
)

// GenerationHandler serves the LLM-backed endpoints. Concurrency per target
// is limited by the service's in-flight guard; a busy target answers 409.
type GenerationHandler struct {
	generation *services.GenerationService
	logger     *zap.Logger
}

// NewGenerationHandler creates a GenerationHandler.
func NewGenerationHandler(generation *services.GenerationService, logger *zap.Logger) *GenerationHandler {
	return &GenerationHandler{generation: generation, logger: logger}
}

// GenerateInitialTree handles POST /workspaces/{workspaceID}/generate-initial.
func (h *GenerationHandler) GenerateInitialTree(w http.ResponseWriter, r *http.Request) {
	workspaceID, err := valueobjects.NewWorkspaceIDFromString(chi.URLParam(r, "workspaceID"))
	if err != nil {
		common.RespondAppError(w, pkgerrors.NewValidationError("workspaceId is required"))
		return
	}

	outcome, err := h.generation.GenerateInitialTree(r.Context(), workspaceID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"workspace": outcome.Workspace,
		"nodeCount": len(outcome.Nodes),
	})
}

type followupRequest struct {
	OriginNodeID string `json:"originNodeId"`
}

// GenerateFollowups handles POST /workspaces/{workspaceID}/followups. An
// empty body or empty originNodeId requests workspace-level generation.
func (h *GenerationHandler) GenerateFollowups(w http.ResponseWriter, r *http.Request) {
	workspaceID, err := valueobjects.NewWorkspaceIDFromString(chi.URLParam(r, "workspaceID"))
	if err != nil {
		common.RespondAppError(w, pkgerrors.NewValidationError("workspaceId is required"))
		return
	}

	var req followupRequest
	if r.ContentLength != 0 {
		if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
			common.RespondAppError(w, pkgerrors.NewValidationError("invalid request body"))
			return
		}
	}

	var originNodeID valueobjects.NodeID
	if req.OriginNodeID != "" {
		originNodeID, err = valueobjects.NewNodeIDFromString(req.OriginNodeID)
		if err != nil {
			common.RespondAppError(w, pkgerrors.NewValidationError("invalid originNodeId"))
			return
		}
	}

	outcome, err := h.generation.GenerateFollowups(r.Context(), workspaceID, originNodeID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, outcome)
}

// ReconstructAnswer handles POST /nodes/{nodeID}/reconstruct.
func (h *GenerationHandler) ReconstructAnswer(w http.ResponseWriter, r *http.Request) {
	nodeID, err := valueobjects.NewNodeIDFromString(chi.URLParam(r, "nodeID"))
	if err != nil {
		common.RespondAppError(w, pkgerrors.NewValidationError("nodeId is required"))
		return
	}

	reconstructed, err := h.generation.Reconstruct(r.Context(), nodeID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"reconstructedText": reconstructed})
}
