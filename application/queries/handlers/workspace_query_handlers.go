// Package handlers contains the read-side query handlers and their view
// models. Views flatten the node union into a single tagged shape so the
// HTTP layer can serialize them directly.
package handlers

import (
	"context"
	"fmt"
	"time"

	"gironomall-backend/application/ports"
	"gironomall-backend/application/queries"
	"gironomall-backend/application/queries/bus"
	"gironomall-backend/domain/entities"
	"gironomall-backend/domain/markdown"
	"gironomall-backend/domain/transfer"
	"gironomall-backend/domain/tree"
	"gironomall-backend/domain/valueobjects"
)

// NodeView is the flattened, type-tagged wire shape of a node.
type NodeView struct {
	ID          string `json:"id"`
	WorkspaceID string `json:"workspaceId"`
	Type        string `json:"type"`
	ParentID    string `json:"parentId,omitempty"`
	Order       int    `json:"order"`
	Origin      string `json:"origin"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`

	Title             string `json:"title,omitempty"`
	Text              string `json:"text,omitempty"`
	Question          string `json:"question,omitempty"`
	Answer            string `json:"answer,omitempty"`
	ReconstructedText string `json:"reconstructedText,omitempty"`
}

// TreeNodeView is a NodeView with its ordered children.
type TreeNodeView struct {
	NodeView
	Children []TreeNodeView `json:"children"`
}

// TreeView is the materialized tree of one workspace.
type TreeView struct {
	WorkspaceID string         `json:"workspaceId"`
	Roots       []TreeNodeView `json:"roots"`
}

// MarkdownView wraps a rendered markdown projection.
type MarkdownView struct {
	WorkspaceID string `json:"workspaceId"`
	Markdown    string `json:"markdown"`
}

// NewNodeView flattens a node into its wire shape.
func NewNodeView(node entities.Node) NodeView {
	base := node.Base()
	view := NodeView{
		ID:          base.ID.String(),
		WorkspaceID: base.WorkspaceID.String(),
		Type:        string(node.Kind()),
		ParentID:    base.ParentID.String(),
		Order:       base.Order,
		Origin:      string(base.Origin),
		CreatedAt:   base.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   base.UpdatedAt.Format(time.RFC3339),
	}

	switch n := node.(type) {
	case *entities.HeadingNode:
		view.Title = n.Title
	case *entities.NoteNode:
		view.Text = n.Text
	case *entities.QuestionNode:
		view.Question = n.Question
		view.Answer = n.Answer
		view.ReconstructedText = n.ReconstructedText
	}

	return view
}

func newTreeNodeView(tn *tree.TreeNode) TreeNodeView {
	view := TreeNodeView{
		NodeView: NewNodeView(tn.Node),
		Children: make([]TreeNodeView, 0, len(tn.Children)),
	}
	for _, child := range tn.Children {
		view.Children = append(view.Children, newTreeNodeView(child))
	}
	return view
}

// GetWorkspaceHandler handles GetWorkspaceQuery.
type GetWorkspaceHandler struct {
	workspaces ports.WorkspaceRepository
}

// NewGetWorkspaceHandler creates a GetWorkspaceHandler.
func NewGetWorkspaceHandler(workspaces ports.WorkspaceRepository) *GetWorkspaceHandler {
	return &GetWorkspaceHandler{workspaces: workspaces}
}

// Handle implements bus.QueryHandler.
func (h *GetWorkspaceHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetWorkspaceQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	workspaceID, err := valueobjects.NewWorkspaceIDFromString(q.WorkspaceID)
	if err != nil {
		return nil, err
	}

	return h.workspaces.GetByID(ctx, workspaceID)
}

// ListWorkspacesHandler handles ListWorkspacesQuery.
type ListWorkspacesHandler struct {
	workspaces ports.WorkspaceRepository
}

// NewListWorkspacesHandler creates a ListWorkspacesHandler.
func NewListWorkspacesHandler(workspaces ports.WorkspaceRepository) *ListWorkspacesHandler {
	return &ListWorkspacesHandler{workspaces: workspaces}
}

// Handle implements bus.QueryHandler.
func (h *ListWorkspacesHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	if _, ok := query.(queries.ListWorkspacesQuery); !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}
	return h.workspaces.List(ctx)
}

// GetTreeHandler handles GetTreeQuery, rebuilding the ordered forest from
// the flat node set.
type GetTreeHandler struct {
	workspaces ports.WorkspaceRepository
	nodes      ports.NodeRepository
}

// NewGetTreeHandler creates a GetTreeHandler.
func NewGetTreeHandler(workspaces ports.WorkspaceRepository, nodes ports.NodeRepository) *GetTreeHandler {
	return &GetTreeHandler{workspaces: workspaces, nodes: nodes}
}

// Handle implements bus.QueryHandler.
func (h *GetTreeHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetTreeQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	workspaceID, err := valueobjects.NewWorkspaceIDFromString(q.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if _, err := h.workspaces.GetByID(ctx, workspaceID); err != nil {
		return nil, err
	}

	nodes, err := h.nodes.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	roots := tree.Build(nodes)
	view := TreeView{
		WorkspaceID: workspaceID.String(),
		Roots:       make([]TreeNodeView, 0, len(roots)),
	}
	for _, root := range roots {
		view.Roots = append(view.Roots, newTreeNodeView(root))
	}

	return view, nil
}

// GetMarkdownHandler handles GetMarkdownQuery.
type GetMarkdownHandler struct {
	workspaces ports.WorkspaceRepository
	nodes      ports.NodeRepository
}

// NewGetMarkdownHandler creates a GetMarkdownHandler.
func NewGetMarkdownHandler(workspaces ports.WorkspaceRepository, nodes ports.NodeRepository) *GetMarkdownHandler {
	return &GetMarkdownHandler{workspaces: workspaces, nodes: nodes}
}

// Handle implements bus.QueryHandler.
func (h *GetMarkdownHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetMarkdownQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	workspaceID, err := valueobjects.NewWorkspaceIDFromString(q.WorkspaceID)
	if err != nil {
		return nil, err
	}

	workspace, err := h.workspaces.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	nodes, err := h.nodes.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	var rendered string
	if q.ForLLM {
		rendered = markdown.RenderWorkspaceForLLM(workspace, nodes)
	} else {
		rendered = markdown.RenderWorkspace(workspace, nodes)
	}

	return MarkdownView{WorkspaceID: workspaceID.String(), Markdown: rendered}, nil
}

// ExportWorkspaceHandler handles ExportWorkspaceQuery, returning the raw
// interchange document.
type ExportWorkspaceHandler struct {
	workspaces ports.WorkspaceRepository
	nodes      ports.NodeRepository
}

// NewExportWorkspaceHandler creates an ExportWorkspaceHandler.
func NewExportWorkspaceHandler(workspaces ports.WorkspaceRepository, nodes ports.NodeRepository) *ExportWorkspaceHandler {
	return &ExportWorkspaceHandler{workspaces: workspaces, nodes: nodes}
}

// Handle implements bus.QueryHandler. The result is the serialized JSON
// document as []byte.
func (h *ExportWorkspaceHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.ExportWorkspaceQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	workspaceID, err := valueobjects.NewWorkspaceIDFromString(q.WorkspaceID)
	if err != nil {
		return nil, err
	}

	workspace, err := h.workspaces.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	nodes, err := h.nodes.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	return transfer.Export(workspace, nodes, time.Now())
}
