// Package handlers implements the REST endpoints. Handlers translate HTTP
// requests into commands and queries; identifiers for created resources are
// generated here so they can be returned to the client.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"gironomall-backend/application/commands"
	commandbus "gironomall-backend/application/commands/bus"
	"gironomall-backend/application/queries"
	querybus "gironomall-backend/application/queries/bus"
	"gironomall-backend/pkg/common"
	pkgerrors "gironomall-backend/pkg/errors"
)

const maxBodyBytes = 1 << 20

// WorkspaceHandler serves the workspace endpoints.
type WorkspaceHandler struct {
	commandBus *commandbus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewWorkspaceHandler creates a WorkspaceHandler.
func NewWorkspaceHandler(commandBus *commandbus.CommandBus, queryBus *querybus.QueryBus, logger *zap.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

type createWorkspaceRequest struct {
	Theme         string `json:"theme"`
	Description   string `json:"description"`
	GuidelineText string `json:"guidelineText"`
	FollowupCount int    `json:"followupCount"`
}

// CreateWorkspace handles POST /workspaces.
func (h *WorkspaceHandler) CreateWorkspace(w http.ResponseWriter, r *http.Request) {
	var req createWorkspaceRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondAppError(w, pkgerrors.NewValidationError("invalid request body"))
		return
	}

	workspaceID := uuid.New().String()
	cmd := commands.CreateWorkspaceCommand{
		WorkspaceID:   workspaceID,
		Theme:         req.Theme,
		Description:   req.Description,
		GuidelineText: req.GuidelineText,
		FollowupCount: req.FollowupCount,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		common.RespondAppError(w, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetWorkspaceQuery{WorkspaceID: workspaceID})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, result)
}

// ListWorkspaces handles GET /workspaces.
func (h *WorkspaceHandler) ListWorkspaces(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.ListWorkspacesQuery{})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// GetWorkspace handles GET /workspaces/{workspaceID}.
func (h *WorkspaceHandler) GetWorkspace(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetWorkspaceQuery{
		WorkspaceID: chi.URLParam(r, "workspaceID"),
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

type updateWorkspaceRequest struct {
	Theme         *string `json:"theme"`
	Description   *string `json:"description"`
	GuidelineText *string `json:"guidelineText"`
	FollowupCount *int    `json:"followupCount"`
}

// UpdateWorkspace handles PUT /workspaces/{workspaceID}.
func (h *WorkspaceHandler) UpdateWorkspace(w http.ResponseWriter, r *http.Request) {
	workspaceID := chi.URLParam(r, "workspaceID")

	var req updateWorkspaceRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondAppError(w, pkgerrors.NewValidationError("invalid request body"))
		return
	}

	cmd := commands.UpdateWorkspaceCommand{
		WorkspaceID:   workspaceID,
		Theme:         req.Theme,
		Description:   req.Description,
		GuidelineText: req.GuidelineText,
		FollowupCount: req.FollowupCount,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		common.RespondAppError(w, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetWorkspaceQuery{WorkspaceID: workspaceID})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// DeleteWorkspace handles DELETE /workspaces/{workspaceID}.
func (h *WorkspaceHandler) DeleteWorkspace(w http.ResponseWriter, r *http.Request) {
	cmd := commands.DeleteWorkspaceCommand{WorkspaceID: chi.URLParam(r, "workspaceID")}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GetTree handles GET /workspaces/{workspaceID}/tree.
func (h *WorkspaceHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetTreeQuery{
		WorkspaceID: chi.URLParam(r, "workspaceID"),
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// GetMarkdown handles GET /workspaces/{workspaceID}/markdown. The llm query
// parameter selects the id-annotated projection.
func (h *WorkspaceHandler) GetMarkdown(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetMarkdownQuery{
		WorkspaceID: chi.URLParam(r, "workspaceID"),
		ForLLM:      r.URL.Query().Get("llm") == "true",
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

type reorderRequest struct {
	ParentID   string   `json:"parentId"`
	OrderedIDs []string `json:"orderedIds"`
}

// ReorderSiblings handles POST /workspaces/{workspaceID}/reorder.
func (h *WorkspaceHandler) ReorderSiblings(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondAppError(w, pkgerrors.NewValidationError("invalid request body"))
		return
	}

	cmd := commands.ReorderSiblingsCommand{
		WorkspaceID: chi.URLParam(r, "workspaceID"),
		ParentID:    req.ParentID,
		OrderedIDs:  req.OrderedIDs,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "reordered"})
}
