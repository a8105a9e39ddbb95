package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gironomall-backend/domain/entities"
	"gironomall-backend/domain/valueobjects"
	pkgerrors "gironomall-backend/pkg/errors"
)

func TestNextOrder(t *testing.T) {
	t.Run("empty group starts at zero", func(t *testing.T) {
		assert.Equal(t, 0, NextOrder(nil))
	})

	t.Run("appends after the maximum", func(t *testing.T) {
		siblings := []entities.Node{
			heading(t, "a", "", 3, "A"),
			heading(t, "b", "", 9, "B"),
			heading(t, "c", "", 5, "C"),
		}
		assert.Equal(t, 10, NextOrder(siblings))
	})
}

func TestReorderSiblings(t *testing.T) {
	siblings := []entities.Node{
		heading(t, "a", "", 0, "A"),
		heading(t, "b", "", 1, "B"),
		heading(t, "c", "", 2, "C"),
	}

	t.Run("assigns index order", func(t *testing.T) {
		result := ReorderSiblings(siblings, []valueobjects.NodeID{
			nodeID(t, "c"), nodeID(t, "a"), nodeID(t, "b"),
		})

		require.Len(t, result, 3)
		assert.Equal(t, "c", result[0].Base().ID.String())
		assert.Equal(t, 0, result[0].Base().Order)
		assert.Equal(t, "a", result[1].Base().ID.String())
		assert.Equal(t, 1, result[1].Base().Order)
		assert.Equal(t, "b", result[2].Base().ID.String())
		assert.Equal(t, 2, result[2].Base().Order)
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		_ = ReorderSiblings(siblings, []valueobjects.NodeID{
			nodeID(t, "c"), nodeID(t, "a"), nodeID(t, "b"),
		})
		assert.Equal(t, 0, siblings[0].Base().Order)
	})

	t.Run("silently drops unknown ids", func(t *testing.T) {
		result := ReorderSiblings(siblings, []valueobjects.NodeID{
			nodeID(t, "b"), nodeID(t, "stranger"),
		})

		require.Len(t, result, 1)
		assert.Equal(t, "b", result[0].Base().ID.String())
		assert.Equal(t, 0, result[0].Base().Order)
	})
}

func TestValidateReorder(t *testing.T) {
	siblings := []entities.Node{
		heading(t, "a", "", 0, "A"),
		heading(t, "b", "", 1, "B"),
	}

	t.Run("accepts a permutation", func(t *testing.T) {
		err := ValidateReorder(siblings, []valueobjects.NodeID{
			nodeID(t, "b"), nodeID(t, "a"),
		})
		assert.NoError(t, err)
	})

	t.Run("rejects a foreign id", func(t *testing.T) {
		err := ValidateReorder(siblings, []valueobjects.NodeID{
			nodeID(t, "a"), nodeID(t, "x"),
		})
		require.Error(t, err)
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("rejects a count mismatch", func(t *testing.T) {
		err := ValidateReorder(siblings, []valueobjects.NodeID{nodeID(t, "a")})
		require.Error(t, err)
		assert.True(t, pkgerrors.IsValidation(err))
	})
}
