package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gironomall-backend/domain/entities"
	"gironomall-backend/domain/valueobjects"
)

func indexNodes(nodes ...entities.Node) map[valueobjects.NodeID]entities.Node {
	byID := make(map[valueobjects.NodeID]entities.Node, len(nodes))
	for _, n := range nodes {
		byID[n.Base().ID] = n
	}
	return byID
}

func idStrings(ids []valueobjects.NodeID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func TestDescendantClosure(t *testing.T) {
	byID := indexNodes(
		heading(t, "h1", "", 0, "H1"),
		question(t, "q1", "h1", 0, "Q1"),
		question(t, "q2", "q1", 0, "Q2"),
		heading(t, "h2", "", 1, "H2"),
		question(t, "q3", "h2", 0, "Q3"),
	)

	t.Run("collects the whole subtree including the root", func(t *testing.T) {
		closure := DescendantClosure(byID, nodeID(t, "h1"), true)
		assert.ElementsMatch(t, []string{"h1", "q1", "q2"}, idStrings(closure))
	})

	t.Run("excludes the root when asked", func(t *testing.T) {
		closure := DescendantClosure(byID, nodeID(t, "h1"), false)
		assert.ElementsMatch(t, []string{"q1", "q2"}, idStrings(closure))
	})

	t.Run("leaf node yields only itself", func(t *testing.T) {
		closure := DescendantClosure(byID, nodeID(t, "q2"), true)
		assert.Equal(t, []string{"q2"}, idStrings(closure))
	})

	t.Run("terminates on a parent cycle", func(t *testing.T) {
		cyclic := indexNodes(
			heading(t, "a", "b", 0, "A"),
			heading(t, "b", "a", 0, "B"),
		)
		closure := DescendantClosure(cyclic, nodeID(t, "a"), true)
		assert.ElementsMatch(t, []string{"a", "b"}, idStrings(closure))
	})
}

func TestAncestorChain(t *testing.T) {
	byID := indexNodes(
		heading(t, "h1", "", 0, "H1"),
		question(t, "q1", "h1", 0, "Q1"),
		question(t, "q2", "q1", 0, "Q2"),
	)

	t.Run("walks up to the root", func(t *testing.T) {
		chain := AncestorChain(byID, nodeID(t, "q2"))
		assert.Equal(t, []string{"q1", "h1"}, idStrings(chain))
	})

	t.Run("root-level node has no ancestors", func(t *testing.T) {
		assert.Empty(t, AncestorChain(byID, nodeID(t, "h1")))
	})

	t.Run("terminates on a parent cycle", func(t *testing.T) {
		cyclic := indexNodes(
			heading(t, "a", "b", 0, "A"),
			heading(t, "b", "a", 0, "B"),
		)
		chain := AncestorChain(cyclic, nodeID(t, "a"))
		assert.Equal(t, []string{"b"}, idStrings(chain))
	})
}
