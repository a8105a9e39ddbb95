package handlers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"gironomall-backend/application/commands"
	commandbus "gironomall-backend/application/commands/bus"
	"gironomall-backend/application/queries"
	querybus "gironomall-backend/application/queries/bus"
	"gironomall-backend/domain/transfer"
	"gironomall-backend/pkg/common"
	pkgerrors "gironomall-backend/pkg/errors"
)

// Imports carry a whole workspace; allow more than the regular body limit.
const maxImportBytes = 16 << 20

// TransferHandler serves workspace export and import.
type TransferHandler struct {
	commandBus *commandbus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewTransferHandler creates a TransferHandler.
func NewTransferHandler(commandBus *commandbus.CommandBus, queryBus *querybus.QueryBus, logger *zap.Logger) *TransferHandler {
	return &TransferHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

// ExportWorkspace handles GET /workspaces/{workspaceID}/export, returning
// the raw interchange document.
func (h *TransferHandler) ExportWorkspace(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.ExportWorkspaceQuery{
		WorkspaceID: chi.URLParam(r, "workspaceID"),
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	document, ok := result.([]byte)
	if !ok {
		common.RespondAppError(w, pkgerrors.NewInternalError("unexpected export result type", nil))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="workspace-export.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(document)
}

// ImportWorkspace handles POST /workspaces/import. The body is the raw
// interchange document; validation rejects the whole payload before any
// state is touched.
func (h *TransferHandler) ImportWorkspace(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		common.RespondAppError(w, pkgerrors.NewValidationError("failed to read request body"))
		return
	}

	payload, err := transfer.Parse(body)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	workspaceID := uuid.New().String()
	cmd := commands.ImportWorkspaceCommand{
		NewWorkspaceID: workspaceID,
		Payload:        payload,
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
