package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gironomall-backend/domain/entities"
	"gironomall-backend/domain/valueobjects"
)

func nodeID(t *testing.T, id string) valueobjects.NodeID {
	t.Helper()
	nid, err := valueobjects.NewNodeIDFromString(id)
	require.NoError(t, err)
	return nid
}

func workspaceID(t *testing.T, id string) valueobjects.WorkspaceID {
	t.Helper()
	wid, err := valueobjects.NewWorkspaceIDFromString(id)
	require.NoError(t, err)
	return wid
}

func heading(t *testing.T, id, parent string, order int, title string) entities.Node {
	t.Helper()
	base := entities.NodeBase{
		ID:          nodeID(t, id),
		WorkspaceID: workspaceID(t, "ws-1"),
		Order:       order,
		Origin:      entities.OriginUser,
	}
	if parent != "" {
		base.ParentID = nodeID(t, parent)
	}
	return &entities.HeadingNode{NodeBase: base, Title: title}
}

func question(t *testing.T, id, parent string, order int, q string) entities.Node {
	t.Helper()
	base := entities.NodeBase{
		ID:          nodeID(t, id),
		WorkspaceID: workspaceID(t, "ws-1"),
		Order:       order,
		Origin:      entities.OriginUser,
	}
	if parent != "" {
		base.ParentID = nodeID(t, parent)
	}
	return &entities.QuestionNode{NodeBase: base, Question: q}
}

func TestBuild(t *testing.T) {
	t.Run("sorts siblings by order", func(t *testing.T) {
		nodes := []entities.Node{
			heading(t, "h1", "", 1, "Second"),
			heading(t, "h2", "", 0, "First"),
			question(t, "q1", "h1", 2, "Late"),
			question(t, "q2", "h1", 0, "Early"),
		}

		roots := Build(nodes)
		require.Len(t, roots, 2)
		assert.Equal(t, "h2", roots[0].Base().ID.String())
		assert.Equal(t, "h1", roots[1].Base().ID.String())

		children := roots[1].Children
		require.Len(t, children, 2)
		assert.Equal(t, "q2", children[0].Base().ID.String())
		assert.Equal(t, "q1", children[1].Base().ID.String())
	})

	t.Run("order need not be contiguous", func(t *testing.T) {
		nodes := []entities.Node{
			heading(t, "a", "", 7, "A"),
			heading(t, "b", "", 3, "B"),
			heading(t, "c", "", 11, "C"),
		}

		roots := Build(nodes)
		require.Len(t, roots, 3)
		assert.Equal(t, "b", roots[0].Base().ID.String())
		assert.Equal(t, "a", roots[1].Base().ID.String())
		assert.Equal(t, "c", roots[2].Base().ID.String())
	})

	t.Run("orphans are omitted", func(t *testing.T) {
		nodes := []entities.Node{
			heading(t, "h1", "", 0, "Root"),
			question(t, "q1", "missing", 0, "Dangling"),
		}

		roots := Build(nodes)
		require.Len(t, roots, 1)
		assert.Equal(t, "h1", roots[0].Base().ID.String())
		assert.Empty(t, roots[0].Children)
	})

	t.Run("empty input yields empty forest", func(t *testing.T) {
		assert.Empty(t, Build(nil))
	})
}

func TestWalk(t *testing.T) {
	nodes := []entities.Node{
		heading(t, "h1", "", 0, "H1"),
		question(t, "q1", "h1", 0, "Q1"),
		question(t, "q2", "q1", 0, "Q2"),
		heading(t, "h2", "", 1, "H2"),
	}

	var visited []string
	var depths []int
	Walk(Build(nodes), func(node *TreeNode, depth int) {
		visited = append(visited, node.Base().ID.String())
		depths = append(depths, depth)
	})

	assert.Equal(t, []string{"h1", "q1", "q2", "h2"}, visited)
	assert.Equal(t, []int{0, 1, 2, 0}, depths)
}
