package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gironomall-backend/application/ports"
	"gironomall-backend/domain/entities"
	"gironomall-backend/domain/valueobjects"
)

func reconcilerWorkspace(t *testing.T) *entities.Workspace {
	t.Helper()
	wid, err := valueobjects.NewWorkspaceIDFromString("ws-1")
	require.NoError(t, err)
	return &entities.Workspace{ID: wid, Theme: "T"}
}

func reconcilerNode(t *testing.T, kind entities.NodeKind, id, parent, workspace string, order int) entities.Node {
	t.Helper()
	nid, err := valueobjects.NewNodeIDFromString(id)
	require.NoError(t, err)
	wid, err := valueobjects.NewWorkspaceIDFromString(workspace)
	require.NoError(t, err)
	base := entities.NodeBase{ID: nid, WorkspaceID: wid, Order: order, Origin: entities.OriginUser}
	if parent != "" {
		pid, err := valueobjects.NewNodeIDFromString(parent)
		require.NoError(t, err)
		base.ParentID = pid
	}
	switch kind {
	case entities.KindHeading:
		return &entities.HeadingNode{NodeBase: base, Title: id}
	case entities.KindNote:
		return &entities.NoteNode{NodeBase: base, Text: id}
	default:
		return &entities.QuestionNode{NodeBase: base, Question: id}
	}
}

func indexByID(nodes ...entities.Node) map[valueobjects.NodeID]entities.Node {
	byID := make(map[valueobjects.NodeID]entities.Node, len(nodes))
	for _, n := range nodes {
		byID[n.Base().ID] = n
	}
	return byID
}

func strptr(s string) *string { return &s }

func TestReconcileFollowups(t *testing.T) {
	ws := reconcilerWorkspace(t)
	now := time.UnixMilli(1700000000000)

	t.Run("resolved and dangling references in one batch", func(t *testing.T) {
		h1 := reconcilerNode(t, entities.KindHeading, "h1", "", "ws-1", 0)
		q1 := reconcilerNode(t, entities.KindQuestion, "q1", "h1", "ws-1", 0)
		byID := indexByID(h1, q1)

		result, err := ReconcileFollowups(ws, byID, valueobjects.NodeID{}, []ports.FollowupProposal{
			{Question: "Q2", ParentID: strptr("[h1]")},
			{Question: "Q3", ParentID: strptr("missing-id")},
		}, now)
		require.NoError(t, err)
		require.Len(t, result.Nodes, 2)

		q2 := result.Nodes[0].(*entities.QuestionNode)
		assert.Equal(t, "Q2", q2.Question)
		assert.Equal(t, "h1", q2.Base().ParentID.String())
		assert.Equal(t, 1, q2.Base().Order)
		assert.Equal(t, entities.OriginLLM, q2.Base().Origin)
		assert.Equal(t, now, q2.Base().CreatedAt)

		q3 := result.Nodes[1].(*entities.QuestionNode)
		assert.Equal(t, "Q3", q3.Question)
		assert.True(t, q3.Base().ParentID.IsZero())
		assert.Equal(t, 1, q3.Base().Order)

		require.Len(t, result.ExpandIDs, 1)
		assert.Equal(t, "h1", result.ExpandIDs[0].String())
		assert.Equal(t, result.CreatedIDs, result.HighlightIDs)
		assert.Len(t, result.HighlightIDs, 2)
	})

	t.Run("batch-local order assignment under one parent", func(t *testing.T) {
		h1 := reconcilerNode(t, entities.KindHeading, "h1", "", "ws-1", 0)
		byID := indexByID(h1)

		result, err := ReconcileFollowups(ws, byID, valueobjects.NodeID{}, []ports.FollowupProposal{
			{Question: "A", ParentID: strptr("h1")},
			{Question: "B", ParentID: strptr("h1")},
			{Question: "C", ParentID: strptr("h1")},
		}, now)
		require.NoError(t, err)
		require.Len(t, result.Nodes, 3)
		assert.Equal(t, 0, result.Nodes[0].Base().Order)
		assert.Equal(t, 1, result.Nodes[1].Base().Order)
		assert.Equal(t, 2, result.Nodes[2].Base().Order)
	})

	t.Run("expansion covers the full ancestor chain once", func(t *testing.T) {
		h1 := reconcilerNode(t, entities.KindHeading, "h1", "", "ws-1", 0)
		h2 := reconcilerNode(t, entities.KindHeading, "h2", "h1", "ws-1", 0)
		q1 := reconcilerNode(t, entities.KindQuestion, "q1", "h2", "ws-1", 0)
		byID := indexByID(h1, h2, q1)

		result, err := ReconcileFollowups(ws, byID, valueobjects.NodeID{}, []ports.FollowupProposal{
			{Question: "A", ParentID: strptr("q1")},
			{Question: "B", ParentID: strptr("h2")},
		}, now)
		require.NoError(t, err)

		var expanded []string
		for _, id := range result.ExpandIDs {
			expanded = append(expanded, id.String())
		}
		assert.ElementsMatch(t, []string{"q1", "h2", "h1"}, expanded)
	})

	t.Run("origin node is the fallback for unresolved references", func(t *testing.T) {
		h1 := reconcilerNode(t, entities.KindHeading, "h1", "", "ws-1", 0)
		q1 := reconcilerNode(t, entities.KindQuestion, "q1", "h1", "ws-1", 0)
		byID := indexByID(h1, q1)
		originID := q1.Base().ID

		result, err := ReconcileFollowups(ws, byID, originID, []ports.FollowupProposal{
			{Question: "A", ParentID: nil},
			{Question: "B", ParentID: strptr("ghost")},
		}, now)
		require.NoError(t, err)
		assert.Equal(t, "q1", result.Nodes[0].Base().ParentID.String())
		assert.Equal(t, "q1", result.Nodes[1].Base().ParentID.String())
	})

	t.Run("foreign-workspace origin is ignored", func(t *testing.T) {
		stranger := reconcilerNode(t, entities.KindQuestion, "x1", "", "ws-other", 0)
		byID := indexByID(stranger)

		result, err := ReconcileFollowups(ws, byID, stranger.Base().ID, []ports.FollowupProposal{
			{Question: "A", ParentID: nil},
		}, now)
		require.NoError(t, err)
		assert.True(t, result.Nodes[0].Base().ParentID.IsZero())
	})

	t.Run("empty proposal list yields empty result", func(t *testing.T) {
		result, err := ReconcileFollowups(ws, nil, valueobjects.NodeID{}, nil, now)
		require.NoError(t, err)
		assert.Empty(t, result.Nodes)
		assert.Empty(t, result.ExpandIDs)
		assert.Empty(t, result.HighlightIDs)
	})
}

func TestResolveParentRef(t *testing.T) {
	ws := reconcilerWorkspace(t)
	h1 := reconcilerNode(t, entities.KindHeading, "h1", "", "ws-1", 0)
	foreign := reconcilerNode(t, entities.KindHeading, "f1", "", "ws-other", 0)
	byID := indexByID(h1, foreign)

	cases := []struct {
		name string
		ref  *string
		want string
	}{
		{"nil reference", nil, ""},
		{"empty string", strptr(""), ""},
		{"literal null", strptr("null"), ""},
		{"whitespace only", strptr("   "), ""},
		{"bare id", strptr("h1"), "h1"},
		{"bracketed id", strptr("[h1]"), "h1"},
		{"padded bracketed id", strptr("  [h1]  "), "h1"},
		{"dangling id", strptr("ghost"), ""},
		{"dangling bracketed id", strptr("[ghost]"), ""},
		{"foreign workspace id", strptr("f1"), ""},
		{"doubly bracketed id stays dangling", strptr("[[h1]]"), ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := resolveParentRef(tc.ref, byID, ws.ID)
			assert.Equal(t, tc.want, got.String())
		})
	}
}
