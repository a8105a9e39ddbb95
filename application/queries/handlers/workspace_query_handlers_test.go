package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gironomall-backend/application/queries"
	"gironomall-backend/domain/entities"
	"gironomall-backend/domain/transfer"
	"gironomall-backend/domain/valueobjects"
	"gironomall-backend/infrastructure/persistence/memory"
	pkgerrors "gironomall-backend/pkg/errors"
)

type queryFixture struct {
	workspaces *memory.WorkspaceRepository
	nodes      *memory.NodeRepository
	wsID       valueobjects.WorkspaceID
}

func newQueryFixture(t *testing.T) *queryFixture {
	t.Helper()
	f := &queryFixture{
		workspaces: memory.NewWorkspaceRepository(),
		nodes:      memory.NewNodeRepository(),
	}

	wid, err := valueobjects.NewWorkspaceIDFromString("ws-1")
	require.NoError(t, err)
	f.wsID = wid
	require.NoError(t, f.workspaces.Save(context.Background(), &entities.Workspace{
		ID:          wid,
		Theme:       "Launch plan",
		Description: "Q3",
		Config:      entities.WorkspaceConfig{FollowupCount: 3},
	}))
	return f
}

func (f *queryFixture) seedNode(t *testing.T, kind entities.NodeKind, id, parent string, order int, payload string) {
	t.Helper()
	nid, err := valueobjects.NewNodeIDFromString(id)
	require.NoError(t, err)
	base := entities.NodeBase{ID: nid, WorkspaceID: f.wsID, Order: order, Origin: entities.OriginUser}
	if parent != "" {
		pid, err := valueobjects.NewNodeIDFromString(parent)
		require.NoError(t, err)
		base.ParentID = pid
	}

	var node entities.Node
	switch kind {
	case entities.KindHeading:
		node = &entities.HeadingNode{NodeBase: base, Title: payload}
	case entities.KindNote:
		node = &entities.NoteNode{NodeBase: base, Text: payload}
	default:
		node = &entities.QuestionNode{NodeBase: base, Question: payload}
	}
	require.NoError(t, f.nodes.Save(context.Background(), node))
}

func TestGetTreeHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the nested ordered view", func(t *testing.T) {
		f := newQueryFixture(t)
		f.seedNode(t, entities.KindHeading, "h1", "", 1, "Second")
		f.seedNode(t, entities.KindHeading, "h2", "", 0, "First")
		f.seedNode(t, entities.KindQuestion, "q1", "h1", 0, "Why?")
		handler := NewGetTreeHandler(f.workspaces, f.nodes)

		result, err := handler.Handle(ctx, queries.GetTreeQuery{WorkspaceID: "ws-1"})
		require.NoError(t, err)
		view, ok := result.(TreeView)
		require.True(t, ok)

		assert.Equal(t, "ws-1", view.WorkspaceID)
		require.Len(t, view.Roots, 2)
		assert.Equal(t, "h2", view.Roots[0].ID)
		assert.Equal(t, "First", view.Roots[0].Title)
		require.Len(t, view.Roots[1].Children, 1)
		assert.Equal(t, "Why?", view.Roots[1].Children[0].Question)
		assert.Equal(t, "question", view.Roots[1].Children[0].Type)
	})

	t.Run("empty workspace yields an empty forest", func(t *testing.T) {
		f := newQueryFixture(t)
		handler := NewGetTreeHandler(f.workspaces, f.nodes)

		result, err := handler.Handle(ctx, queries.GetTreeQuery{WorkspaceID: "ws-1"})
		require.NoError(t, err)
		assert.Empty(t, result.(TreeView).Roots)
	})

	t.Run("missing workspace is not found", func(t *testing.T) {
		f := newQueryFixture(t)
		handler := NewGetTreeHandler(f.workspaces, f.nodes)

		_, err := handler.Handle(ctx, queries.GetTreeQuery{WorkspaceID: "ghost"})
		require.Error(t, err)
		assert.True(t, pkgerrors.IsNotFound(err))
	})
}

func TestGetMarkdownHandler(t *testing.T) {
	ctx := context.Background()
	f := newQueryFixture(t)
	f.seedNode(t, entities.KindHeading, "h1", "", 0, "Scope")
	handler := NewGetMarkdownHandler(f.workspaces, f.nodes)

	t.Run("human projection", func(t *testing.T) {
		result, err := handler.Handle(ctx, queries.GetMarkdownQuery{WorkspaceID: "ws-1"})
		require.NoError(t, err)
		view := result.(MarkdownView)
		assert.Contains(t, view.Markdown, "# Launch plan")
		assert.Contains(t, view.Markdown, "- Scope")
		assert.NotContains(t, view.Markdown, "[h1]")
	})

	t.Run("llm projection carries ids", func(t *testing.T) {
		result, err := handler.Handle(ctx, queries.GetMarkdownQuery{WorkspaceID: "ws-1", ForLLM: true})
		require.NoError(t, err)
		assert.Contains(t, result.(MarkdownView).Markdown, "- [h1] Scope")
	})
}

func TestExportWorkspaceHandler(t *testing.T) {
	ctx := context.Background()
	f := newQueryFixture(t)
	f.seedNode(t, entities.KindHeading, "h1", "", 0, "Scope")
	handler := NewExportWorkspaceHandler(f.workspaces, f.nodes)

	result, err := handler.Handle(ctx, queries.ExportWorkspaceQuery{WorkspaceID: "ws-1"})
	require.NoError(t, err)

	data, ok := result.([]byte)
	require.True(t, ok)

	payload, err := transfer.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "Launch plan", payload.Workspace.Theme)
	require.Len(t, payload.Nodes, 1)
	assert.Equal(t, "heading", payload.Nodes[0].Type)
}
