// Package transfer implements the versioned workspace interchange format:
// export wraps the workspace and its flat node list, import validates the
// payload wholesale and remaps every identifier so repeated imports never
// collide with existing data.
package transfer

import (
	"bytes"
	"encoding/json"
	"time"

	"gironomall-backend/domain/entities"
	"gironomall-backend/domain/valueobjects"
	pkgerrors "gironomall-backend/pkg/errors"
	"gironomall-backend/pkg/utils"
)

// FormatVersion is the only interchange version this codec understands.
// Any mismatch in version, required fields or variant tags rejects the
// whole payload; there is no partial import.
const FormatVersion = 1

// ExportV1 is the interchange envelope.
type ExportV1 struct {
	Version    int            `json:"version" validate:"eq=1"`
	ExportedAt int64          `json:"exportedAt" validate:"required"`
	Workspace  WorkspaceDTO   `json:"workspace" validate:"required"`
	Nodes      []NodeDTO      `json:"nodes" validate:"dive"`
}

// WorkspaceDTO is the wire shape of a workspace.
type WorkspaceDTO struct {
	ID            string             `json:"id" validate:"required"`
	Theme         string             `json:"theme" validate:"required"`
	Description   string             `json:"description,omitempty"`
	GuidelineText string             `json:"guidelineText"`
	Config        WorkspaceConfigDTO `json:"config"`
	CreatedAt     int64              `json:"createdAt" validate:"required"`
	UpdatedAt     int64              `json:"updatedAt" validate:"required"`
}

// WorkspaceConfigDTO is the wire shape of the workspace config.
type WorkspaceConfigDTO struct {
	FollowupCount int `json:"followupCount" validate:"min=1"`
}

// NodeDTO is the wire shape of a node. Variant payload fields are pointers
// so a missing field is distinguishable from an empty string during
// validation.
type NodeDTO struct {
	ID          string  `json:"id" validate:"required"`
	WorkspaceID string  `json:"workspaceId" validate:"required"`
	Type        string  `json:"type" validate:"required,oneof=heading note question"`
	ParentID    *string `json:"parentId"`
	Order       int     `json:"order"`
	Origin      string  `json:"origin" validate:"required,oneof=user llm"`
	CreatedAt   int64   `json:"createdAt" validate:"required"`
	UpdatedAt   int64   `json:"updatedAt" validate:"required"`

	Title             *string `json:"title,omitempty"`
	Text              *string `json:"text,omitempty"`
	Question          *string `json:"question,omitempty"`
	Answer            *string `json:"answer,omitempty"`
	ReconstructedText *string `json:"reconstructedText,omitempty"`
}

// Export serializes the workspace and its nodes into the v1 interchange
// format, stamped with the export time in epoch milliseconds.
func Export(workspace *entities.Workspace, nodes []entities.Node, now time.Time) ([]byte, error) {
	payload := ExportV1{
		Version:    FormatVersion,
		ExportedAt: now.UnixMilli(),
		Workspace:  workspaceToDTO(workspace),
		Nodes:      make([]NodeDTO, 0, len(nodes)),
	}
	for _, n := range nodes {
		payload.Nodes = append(payload.Nodes, nodeToDTO(n))
	}

	return json.MarshalIndent(payload, "", "  ")
}

// Parse decodes and validates an interchange payload. Every structural
// mismatch (wrong version, missing field, unknown variant tag, wrong
// primitive type) fails with a validation error before anything is built.
func Parse(data []byte) (*ExportV1, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))

	var payload ExportV1
	if err := decoder.Decode(&payload); err != nil {
		return nil, pkgerrors.NewValidationError("invalid export payload: " + err.Error())
	}

	if payload.Version != FormatVersion {
		return nil, pkgerrors.NewValidationError("unsupported export version")
	}
	// A present-but-empty nodes array is valid; a missing or null key is not.
	if payload.Nodes == nil {
		return nil, pkgerrors.NewValidationError("invalid export payload: nodes is required")
	}
	if err := utils.ValidateStruct(payload); err != nil {
		return nil, pkgerrors.NewValidationError("invalid export payload: " + err.Error())
	}
	for _, n := range payload.Nodes {
		if err := validateVariant(n); err != nil {
			return nil, err
		}
	}

	return &payload, nil
}

// Import materializes a parsed payload into a fresh workspace and node set
// under the supplied new workspace identifier. Every node identifier is
// regenerated through an old-to-new map; node parents are rewritten through
// the same map, and a parent missing from it demotes the node to root
// level. Content and timestamps are preserved.
func Import(payload *ExportV1, workspaceID valueobjects.WorkspaceID) (*entities.Workspace, []entities.Node, error) {
	idMap := make(map[string]valueobjects.NodeID, len(payload.Nodes))
	for _, n := range payload.Nodes {
		idMap[n.ID] = valueobjects.NewNodeID()
	}

	workspace := &entities.Workspace{
		ID:            workspaceID,
		Theme:         payload.Workspace.Theme,
		Description:   payload.Workspace.Description,
		GuidelineText: payload.Workspace.GuidelineText,
		Config:        entities.WorkspaceConfig{FollowupCount: payload.Workspace.Config.FollowupCount},
		CreatedAt:     time.UnixMilli(payload.Workspace.CreatedAt),
		UpdatedAt:     time.UnixMilli(payload.Workspace.UpdatedAt),
	}

	nodes := make([]entities.Node, 0, len(payload.Nodes))
	for _, dto := range payload.Nodes {
		var parentID valueobjects.NodeID
		if dto.ParentID != nil {
			if mapped, ok := idMap[*dto.ParentID]; ok {
				parentID = mapped
			}
		}

		base := entities.NodeBase{
			ID:          idMap[dto.ID],
			WorkspaceID: workspaceID,
			ParentID:    parentID,
			Order:       dto.Order,
			Origin:      entities.Origin(dto.Origin),
			CreatedAt:   time.UnixMilli(dto.CreatedAt),
			UpdatedAt:   time.UnixMilli(dto.UpdatedAt),
		}

		node, err := nodeFromDTO(base, dto)
		if err != nil {
			return nil, nil, err
		}
		nodes = append(nodes, node)
	}

	return workspace, nodes, nil
}

func validateVariant(dto NodeDTO) error {
	switch entities.NodeKind(dto.Type) {
	case entities.KindHeading:
		if dto.Title == nil {
			return pkgerrors.NewValidationError("heading node is missing title")
		}
	case entities.KindNote:
		if dto.Text == nil {
			return pkgerrors.NewValidationError("note node is missing text")
		}
	case entities.KindQuestion:
		if dto.Question == nil || dto.Answer == nil || dto.ReconstructedText == nil {
			return pkgerrors.NewValidationError("question node is missing question, answer or reconstructedText")
		}
	default:
		return pkgerrors.NewValidationError("unknown node type: " + dto.Type)
	}
	return nil
}

func nodeFromDTO(base entities.NodeBase, dto NodeDTO) (entities.Node, error) {
	switch entities.NodeKind(dto.Type) {
	case entities.KindHeading:
		return &entities.HeadingNode{NodeBase: base, Title: *dto.Title}, nil
	case entities.KindNote:
		return &entities.NoteNode{NodeBase: base, Text: *dto.Text}, nil
	case entities.KindQuestion:
		return &entities.QuestionNode{
			NodeBase:          base,
			Question:          *dto.Question,
			Answer:            *dto.Answer,
			ReconstructedText: *dto.ReconstructedText,
		}, nil
	default:
		return nil, pkgerrors.NewValidationError("unknown node type: " + dto.Type)
	}
}

func workspaceToDTO(workspace *entities.Workspace) WorkspaceDTO {
	return WorkspaceDTO{
		ID:            workspace.ID.String(),
		Theme:         workspace.Theme,
		Description:   workspace.Description,
		GuidelineText: workspace.GuidelineText,
		Config:        WorkspaceConfigDTO{FollowupCount: workspace.Config.FollowupCount},
		CreatedAt:     workspace.CreatedAt.UnixMilli(),
		UpdatedAt:     workspace.UpdatedAt.UnixMilli(),
	}
}

func nodeToDTO(node entities.Node) NodeDTO {
	base := node.Base()
	dto := NodeDTO{
		ID:          base.ID.String(),
		WorkspaceID: base.WorkspaceID.String(),
		Type:        string(node.Kind()),
		Order:       base.Order,
		Origin:      string(base.Origin),
		CreatedAt:   base.CreatedAt.UnixMilli(),
		UpdatedAt:   base.UpdatedAt.UnixMilli(),
	}
	if !base.ParentID.IsZero() {
		parent := base.ParentID.String()
		dto.ParentID = &parent
	}

	switch n := node.(type) {
	case *entities.HeadingNode:
		dto.Title = &n.Title
	case *entities.NoteNode:
		dto.Text = &n.Text
	case *entities.QuestionNode:
		dto.Question = &n.Question
		dto.Answer = &n.Answer
		dto.ReconstructedText = &n.ReconstructedText
	}

	return dto
}
