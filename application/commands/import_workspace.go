package commands

import (
	"gironomall-backend/domain/transfer"
	pkgerrors "gironomall-backend/pkg/errors"
)

// ImportWorkspaceCommand materializes a parsed interchange payload as a
// fresh workspace under the caller's pre-generated identifier. Identifier
// remapping inside the codec guarantees the import never collides with
// existing data, even when the same payload is imported twice.
type ImportWorkspaceCommand struct {
	NewWorkspaceID string
	Payload        *transfer.ExportV1
}

// Validate checks the command invariants.
func (c ImportWorkspaceCommand) Validate() error {
	if c.NewWorkspaceID == "" {
		return pkgerrors.NewValidationError("workspaceId is required")
	}
	if c.Payload == nil {
		return pkgerrors.NewValidationError("payload is required")
	}
	return nil
}
